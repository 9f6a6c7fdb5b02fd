package http

import "net/http"

// routeDoc describes one endpoint for the /api/docs listing.
type routeDoc struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Access string `json:"access"`
}

// docsHandler serves a machine-readable route listing.
func docsHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, []routeDoc{
		{"POST", "/api/users/register", "anonymous"},
		{"POST", "/api/users/login", "anonymous"},
		{"GET", "/api/users/me", "authenticated"},
		{"POST", "/api/users/logout", "authenticated"},
		{"PUT", "/api/users/updatePassword", "authenticated"},
		{"GET", "/api/users/canReset", "authenticated"},
		{"GET", "/api/admin/userId/{userId}", "ADMIN"},
		{"GET", "/api/admin/userNumber/{userNumber}", "ADMIN"},
		{"GET", "/api/admin/getAllUsers", "ADMIN"},
		{"PUT", "/api/admin/updateUser/{id}", "ADMIN"},
		{"DELETE", "/api/admin/deleteUser/{id}", "ADMIN"},
		{"POST", "/api/admin/changeRole/{userId}", "ADMIN"},
		{"GET", "/api/moderator/getStatus/{userNumber}", "MODERATOR|ADMIN"},
		{"GET", "/api/moderator/canReset/{userNumber}", "MODERATOR|ADMIN"},
		{"POST", "/api/moderator/blockUser/{userNumber}", "MODERATOR|ADMIN"},
		{"POST", "/api/moderator/unblockUser/{userNumber}", "MODERATOR|ADMIN"},
		{"GET", "/api/moderator/userId/{userId}", "MODERATOR|ADMIN"},
		{"GET", "/api/moderator/userNumber/{userNumber}", "MODERATOR|ADMIN"},
		{"GET", "/api/products/getAllProducts", "anonymous"},
		{"GET", "/api/products/getProductById/{id}", "anonymous"},
		{"GET", "/api/products/productByGender/{gender}", "anonymous"},
		{"GET", "/api/products/productByPrice", "anonymous"},
		{"GET", "/api/products/productBetweenDate", "anonymous"},
		{"GET", "/api/products/productByCategory/{category}", "anonymous"},
		{"POST", "/api/products/createProduct", "MODERATOR|ADMIN"},
		{"PUT", "/api/products/updateProduct/{id}", "MODERATOR|ADMIN"},
		{"DELETE", "/api/products/deleteProduct/{id}", "MODERATOR|ADMIN"},
	})
}
