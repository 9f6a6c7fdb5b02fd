package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atelier-store/atelier/internal/adapter/outbound/memory"
	"github.com/atelier-store/atelier/internal/domain/policy"
	"github.com/atelier-store/atelier/internal/domain/token"
	"github.com/atelier-store/atelier/internal/domain/user"
	"github.com/atelier-store/atelier/internal/service"
)

type testEnv struct {
	ts      *httptest.Server
	users   *memory.UserStore
	userSvc *service.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userStore := memory.NewUserStore()
	productStore := memory.NewProductStore()

	codec, err := token.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	userSvc := service.NewUserService(userStore, codec, logger)
	catalogSvc := service.NewCatalogService(productStore, logger)
	engine := policy.NewEngine(policy.DefaultRules(), 16)

	srv := NewServer(userSvc, catalogSvc, codec, engine, WithLogger(logger))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, users: userStore, userSvc: userSvc}
}

// seedAccount registers an account and promotes it to the given role.
func (e *testEnv) seedAccount(t *testing.T, number, password string, role user.Role) *user.User {
	t.Helper()
	u, err := e.userSvc.Register(context.Background(), service.RegisterInput{
		Number:   number,
		Password: password,
	})
	if err != nil {
		t.Fatalf("seed Register(%q): %v", number, err)
	}
	if role != user.RoleUser {
		if u, err = e.userSvc.ChangeRole(context.Background(), u.ID, role); err != nil {
			t.Fatalf("seed ChangeRole(%q): %v", number, err)
		}
	}
	return u
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.ts.URL+path, buf)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) login(t *testing.T, number, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"number":   number,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %q: status = %d", number, resp.StatusCode)
	}
	auth := resp.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		t.Fatalf("login %q: Authorization header = %q", number, auth)
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return m
}

func TestRegisterLoginMe(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"number":   "+79991234567",
		"password": "secret-password",
		"name":     "Anna",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status = %d, want 201", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["role"] != "USER" {
		t.Errorf("register body role = %v, want USER", body["role"])
	}
	if _, leaked := body["passwordHash"]; leaked {
		t.Error("register response leaks the password hash")
	}

	// Duplicate number conflicts.
	resp = env.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"number":   "+79991234567",
		"password": "another-password",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register: status = %d, want 409", resp.StatusCode)
	}

	tok := env.login(t, "+79991234567", "secret-password")

	resp = env.do(t, http.MethodGet, "/api/users/me", tok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status = %d, want 200", resp.StatusCode)
	}
	me := decodeBody(t, resp)
	if me["number"] != "+79991234567" || me["name"] != "Anna" {
		t.Errorf("me = %v", me)
	}

	// Anonymous callers get 401 from the policy layer.
	resp = env.do(t, http.MethodGet, "/api/users/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous me: status = %d, want 401", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"short password", map[string]string{"number": "+79991234567", "password": "short"}},
		{"bad phone", map[string]string{"number": "not-a-phone", "password": "secret-password"}},
		{"missing number", map[string]string{"password": "secret-password"}},
		{"bad email", map[string]string{"number": "+79991234567", "password": "secret-password", "email": "nope"}},
		{"bad gender", map[string]string{"number": "+79991234567", "password": "secret-password", "gender": "OTHERWISE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/users/register", "", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestLoginFailureIsUniform(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedAccount(t, "+79991234567", "secret-password", user.RoleUser)

	blocked := env.seedAccount(t, "+79991234568", "secret-password", user.RoleUser)
	if err := env.userSvc.Block(context.Background(), blocked.Number); err != nil {
		t.Fatalf("Block: %v", err)
	}

	tests := []struct {
		name     string
		number   string
		password string
	}{
		{"unknown number", "+70000000000", "secret-password"},
		{"wrong password", "+79991234567", "wrong-password"},
		{"blocked account", "+79991234568", "secret-password"},
	}

	var bodies []string
	for _, tt := range tests {
		resp := env.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
			"number":   tt.number,
			"password": tt.password,
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, resp.StatusCode)
		}
		if resp.Header.Get("Authorization") != "" {
			t.Errorf("%s: failure response carries a token", tt.name)
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("%s: read body: %v", tt.name, err)
		}
		bodies = append(bodies, string(raw))
	}

	// Every failure mode must produce a byte-identical body.
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("failure bodies differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestProductAccessControl(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedAccount(t, "+79991110001", "secret-password", user.RoleUser)
	env.seedAccount(t, "+79991110002", "secret-password", user.RoleModerator)
	env.seedAccount(t, "+79991110003", "secret-password", user.RoleAdmin)

	userTok := env.login(t, "+79991110001", "secret-password")
	modTok := env.login(t, "+79991110002", "secret-password")
	adminTok := env.login(t, "+79991110003", "secret-password")

	product := map[string]any{
		"price":    49.9,
		"url":      "https://cdn.example/shoes/1.jpg",
		"category": "shoes",
	}

	// Mutations: anonymous 401, USER 403, staff permitted.
	if resp := env.do(t, http.MethodPost, "/api/products/createProduct", "", product); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous create: status = %d, want 401", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodPost, "/api/products/createProduct", userTok, product); resp.StatusCode != http.StatusForbidden {
		t.Errorf("user create: status = %d, want 403", resp.StatusCode)
	}

	resp := env.do(t, http.MethodPost, "/api/products/createProduct", modTok, product)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("moderator create: status = %d, want 201", resp.StatusCode)
	}
	created := decodeBody(t, resp)
	id := created["id"].(float64)
	if id == 0 {
		t.Fatal("created product has no id")
	}

	// Reads are anonymous.
	resp = env.do(t, http.MethodGet, "/api/products/getAllProducts", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("anonymous list: status = %d, want 200", resp.StatusCode)
	}

	// Update and delete follow the same staff gate.
	update := map[string]any{"price": 59.9}
	path := "/api/products/updateProduct/1"
	if resp := env.do(t, http.MethodPut, path, userTok, update); resp.StatusCode != http.StatusForbidden {
		t.Errorf("user update: status = %d, want 403", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodPut, path, adminTok, update); resp.StatusCode != http.StatusOK {
		t.Errorf("admin update: status = %d, want 200", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodDelete, "/api/products/deleteProduct/1", adminTok, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("admin delete: status = %d, want 200", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodDelete, "/api/products/deleteProduct/1", adminTok, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("delete missing: status = %d, want 404", resp.StatusCode)
	}
}

func TestAdminEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	target := env.seedAccount(t, "+79991110001", "secret-password", user.RoleUser)
	env.seedAccount(t, "+79991110002", "secret-password", user.RoleModerator)
	env.seedAccount(t, "+79991110003", "secret-password", user.RoleAdmin)

	userTok := env.login(t, "+79991110001", "secret-password")
	modTok := env.login(t, "+79991110002", "secret-password")
	adminTok := env.login(t, "+79991110003", "secret-password")

	// The admin area is ADMIN-only: a moderator is forbidden too.
	if resp := env.do(t, http.MethodGet, "/api/admin/getAllUsers", userTok, nil); resp.StatusCode != http.StatusForbidden {
		t.Errorf("user list users: status = %d, want 403", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/api/admin/getAllUsers", modTok, nil); resp.StatusCode != http.StatusForbidden {
		t.Errorf("moderator list users: status = %d, want 403", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/api/admin/getAllUsers", adminTok, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("admin list users: status = %d, want 200", resp.StatusCode)
	}

	resp := env.do(t, http.MethodGet, "/api/admin/userId/"+target.ID, adminTok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("get by id: status = %d, want 200", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/api/admin/userId/missing", adminTok, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("get missing: status = %d, want 404", resp.StatusCode)
	}

	// Role change via query parameter.
	resp = env.do(t, http.MethodPost, "/api/admin/changeRole/"+target.ID+"?role=moderator", adminTok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("change role: status = %d, want 200", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["role"] != "MODERATOR" {
		t.Errorf("changed role = %v, want MODERATOR", body["role"])
	}
	if resp := env.do(t, http.MethodPost, "/api/admin/changeRole/"+target.ID+"?role=SUPERUSER", adminTok, nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad role: status = %d, want 400", resp.StatusCode)
	}

	// Partial profile update.
	resp = env.do(t, http.MethodPut, "/api/admin/updateUser/"+target.ID, adminTok, map[string]string{"lastName": "Petrova"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update user: status = %d, want 200", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["lastName"] != "Petrova" {
		t.Errorf("lastName = %v, want Petrova", body["lastName"])
	}

	if resp := env.do(t, http.MethodDelete, "/api/admin/deleteUser/"+target.ID, adminTok, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("delete user: status = %d, want 200", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodDelete, "/api/admin/deleteUser/"+target.ID, adminTok, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("delete missing user: status = %d, want 404", resp.StatusCode)
	}
}

func TestModeratorEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	target := env.seedAccount(t, "+79991110001", "secret-password", user.RoleUser)
	env.seedAccount(t, "+79991110002", "secret-password", user.RoleModerator)

	modTok := env.login(t, "+79991110002", "secret-password")

	resp := env.do(t, http.MethodGet, "/api/moderator/getStatus/"+target.Number, modTok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status: status = %d, want 200", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["status"] != "active" {
		t.Errorf("status = %v, want active", body["status"])
	}

	if resp := env.do(t, http.MethodPost, "/api/moderator/blockUser/"+target.Number, modTok, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("block: status = %d, want 200", resp.StatusCode)
	}

	// Blocked accounts cannot log in, and their status reads "blocked".
	resp = env.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"number": target.Number, "password": "secret-password",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("login while blocked: status = %d, want 400", resp.StatusCode)
	}
	resp = env.do(t, http.MethodGet, "/api/moderator/getStatus/"+target.Number, modTok, nil)
	if body := decodeBody(t, resp); body["status"] != "blocked" {
		t.Errorf("status = %v, want blocked", body["status"])
	}

	if resp := env.do(t, http.MethodPost, "/api/moderator/unblockUser/"+target.Number, modTok, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("unblock: status = %d, want 200", resp.StatusCode)
	}
	env.login(t, target.Number, "secret-password")

	// canReset reflects whether an email is on file.
	resp = env.do(t, http.MethodGet, "/api/moderator/canReset/"+target.Number, modTok, nil)
	if body := decodeBody(t, resp); body["canReset"] != false {
		t.Errorf("canReset = %v, want false", body["canReset"])
	}
}

func TestUpdatePasswordEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedAccount(t, "+79991234567", "old-password1", user.RoleUser)
	tok := env.login(t, "+79991234567", "old-password1")

	tests := []struct {
		name string
		old  string
		new  string
		want int
	}{
		{"old equals new", "old-password1", "old-password1", http.StatusConflict},
		{"wrong old", "not-the-old-one", "new-password1", http.StatusBadRequest},
		{"success", "old-password1", "new-password1", http.StatusOK},
	}

	for _, tt := range tests {
		resp := env.do(t, http.MethodPut, "/api/users/updatePassword", tok, map[string]string{
			"oldPassword": tt.old,
			"newPassword": tt.new,
		})
		if resp.StatusCode != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, resp.StatusCode, tt.want)
		}
	}

	env.login(t, "+79991234567", "new-password1")
}

func TestExpiredTokenIsAnonymous(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedAccount(t, "+79991234567", "secret-password", user.RoleUser)
	tok := env.login(t, "+79991234567", "secret-password")

	// A garbage token behaves exactly like no token: 401 on guarded routes,
	// not 500 and not a leaked identity.
	if resp := env.do(t, http.MethodGet, "/api/users/me", "garbage", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", resp.StatusCode)
	}
	// A tampered token likewise.
	tampered := tok[:len(tok)-2] + "xx"
	if resp := env.do(t, http.MethodGet, "/api/users/me", tampered, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("tampered token: status = %d, want 401", resp.StatusCode)
	}
	// Anonymous-permitted routes still work with a bad token.
	if resp := env.do(t, http.MethodGet, "/api/products/getAllProducts", "garbage", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("garbage token on public route: status = %d, want 200", resp.StatusCode)
	}
}

func TestOperationalEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz: status = %d, want 200", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["status"] != "healthy" {
		t.Errorf("healthz status = %v, want healthy", body["status"])
	}

	if resp := env.do(t, http.MethodGet, "/metrics", "", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("metrics: status = %d, want 200", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/api/docs", "", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("docs: status = %d, want 200", resp.StatusCode)
	}
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/healthz", "", nil)
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}

	// A caller-provided ID is echoed back for correlation.
	req, err := http.NewRequest(http.MethodGet, env.ts.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("X-Request-ID", "test-correlation-id")
	resp2, err := env.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp2.Body.Close()
	if got := resp2.Header.Get("X-Request-ID"); got != "test-correlation-id" {
		t.Errorf("X-Request-ID = %q, want %q", got, "test-correlation-id")
	}
}

func TestProductQueryEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.seedAccount(t, "+79991110002", "secret-password", user.RoleModerator)
	modTok := env.login(t, "+79991110002", "secret-password")

	seed := []map[string]any{
		{"price": 10.0, "url": "https://cdn.example/p1", "category": "shoes", "gender": "FEMALE"},
		{"price": 50.0, "url": "https://cdn.example/p2", "category": "shoes", "gender": "MALE"},
		{"price": 100.0, "url": "https://cdn.example/p3", "category": "bags"},
	}
	for _, p := range seed {
		if resp := env.do(t, http.MethodPost, "/api/products/createProduct", modTok, p); resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed product %v: status = %d", p["url"], resp.StatusCode)
		}
	}

	countOf := func(t *testing.T, path string) int {
		t.Helper()
		resp := env.do(t, http.MethodGet, path, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status = %d", path, resp.StatusCode)
		}
		var list []map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("GET %s: decode: %v", path, err)
		}
		return len(list)
	}

	if n := countOf(t, "/api/products/getAllProducts"); n != 3 {
		t.Errorf("getAllProducts: got %d, want 3", n)
	}
	if n := countOf(t, "/api/products/productByGender/FEMALE"); n != 1 {
		t.Errorf("productByGender: got %d, want 1", n)
	}
	if n := countOf(t, "/api/products/productByPrice?minPrice=10&maxPrice=50"); n != 2 {
		t.Errorf("productByPrice: got %d, want 2", n)
	}
	if n := countOf(t, "/api/products/productByCategory/bags"); n != 1 {
		t.Errorf("productByCategory: got %d, want 1", n)
	}

	if resp := env.do(t, http.MethodGet, "/api/products/productByPrice?minPrice=abc&maxPrice=50", "", nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad minPrice: status = %d, want 400", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/api/products/productBetweenDate?startDate=nope&endDate=nope", "", nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad dates: status = %d, want 400", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/api/products/getProductById/999", "", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing product: status = %d, want 404", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/api/products/getProductById/abc", "", nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, want 400", resp.StatusCode)
	}
}
