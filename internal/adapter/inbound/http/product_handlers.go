package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/atelier-store/atelier/internal/domain/user"
	"github.com/atelier-store/atelier/internal/service"
)

// ProductHandler serves the catalog endpoints under /api/products.
// Reads are open to anonymous callers; the policy layer gates the mutations
// to MODERATOR or ADMIN.
type ProductHandler struct {
	catalog  *service.CatalogService
	validate *validator.Validate
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(catalog *service.CatalogService, validate *validator.Validate) *ProductHandler {
	return &ProductHandler{catalog: catalog, validate: validate}
}

// List handles GET /api/products/getAllProducts.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/getProductById/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(pathParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}
	p, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// ListByGender handles GET /api/products/productByGender/{gender}.
func (h *ProductHandler) ListByGender(w http.ResponseWriter, r *http.Request) {
	gender, err := user.ParseGender(pathParam(r, "gender"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	products, err := h.catalog.ListByGender(r.Context(), gender)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// ListByPrice handles GET /api/products/productByPrice?minPrice=&maxPrice=.
func (h *ProductHandler) ListByPrice(w http.ResponseWriter, r *http.Request) {
	minPrice, err := strconv.ParseFloat(r.URL.Query().Get("minPrice"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "minPrice must be a number")
		return
	}
	maxPrice, err := strconv.ParseFloat(r.URL.Query().Get("maxPrice"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "maxPrice must be a number")
		return
	}

	products, err := h.catalog.ListByPriceRange(r.Context(), minPrice, maxPrice)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// ListByDate handles GET /api/products/productBetweenDate?startDate=&endDate=.
// Dates are RFC 3339 timestamps.
func (h *ProductHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("startDate"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "startDate must be an RFC 3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("endDate"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "endDate must be an RFC 3339 timestamp")
		return
	}

	products, err := h.catalog.ListByCreatedBetween(r.Context(), start, end)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// ListByCategory handles GET /api/products/productByCategory/{category}.
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListByCategory(r.Context(), pathParam(r, "category"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// Create handles POST /api/products/createProduct.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, formatRequestErrors(err))
		return
	}

	var gender user.Gender
	if req.Gender != "" {
		g, err := user.ParseGender(req.Gender)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		gender = g
	}

	p, err := h.catalog.Create(r.Context(), service.CreateProductInput{
		Price:       req.Price,
		URL:         req.URL,
		Gender:      gender,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// Update handles PUT /api/products/updateProduct/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(pathParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	var req updateProductRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, formatRequestErrors(err))
		return
	}

	var gender user.Gender
	if req.Gender != "" {
		g, err := user.ParseGender(req.Gender)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		gender = g
	}

	p, err := h.catalog.Update(r.Context(), id, service.UpdateProductInput{
		Price:       req.Price,
		URL:         req.URL,
		Gender:      gender,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/products/deleteProduct/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(pathParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
