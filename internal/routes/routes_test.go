package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/handlers"
	"TRAVELPACK_BACK-END/internal/imagesearch"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/middleware"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/receipt"
	"TRAVELPACK_BACK-END/internal/services"
	"TRAVELPACK_BACK-END/internal/store/memory"
)

var jwtCfg = &config.JWTConfig{Secret: "routes-secret", AccessTokenTTL: time.Hour, Issuer: "travelpack"}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Count   int             `json:"count"`
	Total   int             `json:"total"`
	Data    json.RawMessage `json:"data"`
	User    struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

type fakeSearcher struct{ err error }

func (f fakeSearcher) Search(_ context.Context, q string) ([]imagesearch.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []imagesearch.Image{{ID: "1", URL: "https://images.example/" + q}}, nil
}

type fakeUploader struct{}

func (fakeUploader) Upload(_ context.Context, r io.Reader, filename string) (string, error) {
	io.Copy(io.Discard, r)
	return "https://res.cloudinary.com/demo/" + filename, nil
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	st      *memory.Store
}

func newServer(t *testing.T, search imagesearch.Searcher) *testServer {
	t.Helper()
	st := memory.New()
	log := logger.Discard()

	authSvc := services.NewAuthService(st, jwtCfg, nil, log, nil)
	reports := services.NewReportService(st, true, log, nil)
	h := Handlers{
		Auth:     handlers.NewAuthHandler(authSvc),
		Google:   handlers.NewGoogleAuthHandler(authSvc, jwtCfg, "http://localhost:3000"),
		Packages: handlers.NewPackageHandler(services.NewPackageService(st, log, nil), reports),
		Bookings: handlers.NewBookingHandler(
			services.NewBookingService(st, nil, receipt.New("http://localhost:8080"), config.BookingConfig{}, log, nil),
			reports,
		),
		Users:  handlers.NewUserHandler(services.NewUserService(st, fakeUploader{}, log, nil), reports, 1<<20),
		Images: handlers.NewImageHandler(search),
		Health: handlers.NewHealthHandler(st, nil),
	}
	limiter := middleware.NewRateLimiter(config.RateLimitConfig{Enabled: false}, log)
	return &testServer{t: t, handler: SetupRoutes(h, middleware.NewAuth(jwtCfg, st), limiter, log), st: st}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("%s %s: decode: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func (s *testServer) expect(method, path, token string, body any, status int) envelope {
	s.t.Helper()
	rec, env := s.do(method, path, token, body)
	if rec.Code != status {
		s.t.Fatalf("%s %s = %d, want %d (%s)", method, path, rec.Code, status, rec.Body.String())
	}
	return env
}

func (s *testServer) admin() string {
	s.t.Helper()
	u := models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	if err := s.st.CreateUser(context.Background(), &u); err != nil {
		s.t.Fatal(err)
	}
	tok, err := middleware.GenerateToken(u.ID, u.Role, jwtCfg)
	if err != nil {
		s.t.Fatal(err)
	}
	return tok
}

func (s *testServer) register(name string) string {
	s.t.Helper()
	env := s.expect("POST", "/api/auth/register", "", map[string]string{
		"name": name, "email": name + "@example.com", "password": "secret1",
	}, http.StatusCreated)
	return env.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t, fakeSearcher{})

	tok := s.register("asha")
	s.expect("POST", "/api/auth/register", "", map[string]string{
		"name": "Again", "email": "ASHA@example.com", "password": "secret1",
	}, http.StatusBadRequest)
	s.expect("POST", "/api/auth/register", "", map[string]string{
		"name": "Bad", "email": "not-an-email", "password": "secret1",
	}, http.StatusBadRequest)

	env := s.expect("POST", "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "secret1"}, http.StatusOK)
	if env.Token == "" || env.User.Role != models.RoleUser {
		t.Fatalf("login = %+v", env)
	}
	env = s.expect("POST", "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "nope"}, http.StatusUnauthorized)
	if env.Success || env.Message != "Invalid credentials" {
		t.Fatalf("login failure = %+v", env)
	}

	env = s.expect("GET", "/api/auth/me", tok, nil, http.StatusOK)
	me := decode[models.User](t, env.Data)
	if me.Email != "asha@example.com" {
		t.Fatalf("me = %+v", me)
	}
	if strings.Contains(string(env.Data), "password") {
		t.Fatal("password hash leaked")
	}

	s.expect("GET", "/api/auth/me", "", nil, http.StatusUnauthorized)
	s.expect("GET", "/api/auth/me", "garbage", nil, http.StatusUnauthorized)
}

func TestGoogleRoutesWithoutCredentials(t *testing.T) {
	s := newServer(t, fakeSearcher{})
	s.expect("POST", "/api/auth/google", "", map[string]string{"idToken": "x"}, http.StatusServiceUnavailable)
	s.expect("GET", "/api/auth/google/login", "", nil, http.StatusServiceUnavailable)
	s.expect("GET", "/api/auth/google/callback?state=forged&code=abc", "", nil, http.StatusBadRequest)
}

func TestPackageRoutes(t *testing.T) {
	s := newServer(t, fakeSearcher{})
	admin := s.admin()
	user := s.register("asha")

	body := map[string]any{
		"fromLocation": "Mumbai",
		"toLocation":   "Goa",
		"startDate":    "2099-03-01",
		"endDate":      "2099-03-05",
		"basePrice":    5000,
		"foodPrice":    500,
	}
	s.expect("POST", "/api/packages", "", body, http.StatusUnauthorized)
	env := s.expect("POST", "/api/packages", user, body, http.StatusForbidden)
	if env.Message != "User role is not authorized to access this route" {
		t.Fatalf("message = %q", env.Message)
	}

	env = s.expect("POST", "/api/packages", admin, body, http.StatusCreated)
	pkg := decode[models.Package](t, env.Data)

	bad := map[string]any{"fromLocation": "A", "toLocation": "B", "startDate": "March", "endDate": "2099-03-05", "basePrice": 1}
	s.expect("POST", "/api/packages", admin, bad, http.StatusBadRequest)
	reversed := map[string]any{"fromLocation": "A", "toLocation": "B", "startDate": "2099-03-05", "endDate": "2099-03-01", "basePrice": 1}
	s.expect("POST", "/api/packages", admin, reversed, http.StatusBadRequest)

	env = s.expect("GET", "/api/packages?toLocation=go&sort=-basePrice", "", nil, http.StatusOK)
	if env.Count != 1 || env.Total != 1 {
		t.Fatalf("list = %+v", env)
	}
	list := decode[[]models.PackageWithPhase](t, env.Data)
	if list[0].Phase != models.PhaseUpcoming {
		t.Fatalf("phase = %s", list[0].Phase)
	}

	s.expect("GET", "/api/packages/"+pkg.ID.String(), "", nil, http.StatusOK)
	s.expect("GET", "/api/packages/not-a-uuid", "", nil, http.StatusBadRequest)

	env = s.expect("PUT", "/api/packages/"+pkg.ID.String(), admin, map[string]any{"basePrice": 5500}, http.StatusOK)
	if decode[models.Package](t, env.Data).BasePrice != 5500 {
		t.Fatalf("update = %s", env.Data)
	}

	env = s.expect("GET", "/api/packages/stats/overview", admin, nil, http.StatusOK)
	if decode[models.PackageStats](t, env.Data).Upcoming != 1 {
		t.Fatalf("stats = %s", env.Data)
	}

	env = s.expect("DELETE", "/api/packages/"+pkg.ID.String(), admin, nil, http.StatusOK)
	if string(env.Data) != "{}" {
		t.Fatalf("delete data = %s", env.Data)
	}
	s.expect("GET", "/api/packages/"+pkg.ID.String(), "", nil, http.StatusNotFound)
}

func TestBookingRoutes(t *testing.T) {
	s := newServer(t, fakeSearcher{})
	admin := s.admin()
	asha := s.register("asha")
	ravi := s.register("ravi")

	env := s.expect("POST", "/api/packages", admin, map[string]any{
		"fromLocation": "Delhi", "toLocation": "Agra",
		"startDate": "2099-01-10", "endDate": "2099-01-12",
		"basePrice": 3000, "foodPrice": 400, "accommodationPrice": 1200,
	}, http.StatusCreated)
	pkg := decode[models.Package](t, env.Data)

	s.expect("POST", "/api/bookings", "", map[string]any{"package": pkg.ID}, http.StatusUnauthorized)
	env = s.expect("POST", "/api/bookings", asha, map[string]any{
		"package":         pkg.ID,
		"selectedOptions": map[string]bool{"food": true, "accommodation": true},
		"totalPrice":      1,
	}, http.StatusCreated)
	b := decode[models.BookingDetail](t, env.Data)
	if b.TotalPrice != 4600 || b.Status != models.BookingAccepted {
		t.Fatalf("booking = %+v", b)
	}
	s.expect("POST", "/api/bookings", asha, map[string]any{"package": "nope"}, http.StatusBadRequest)

	id := b.ID.String()
	s.expect("GET", "/api/bookings/"+id, asha, nil, http.StatusOK)
	s.expect("GET", "/api/bookings/"+id, ravi, nil, http.StatusForbidden)
	s.expect("GET", "/api/bookings/"+id, admin, nil, http.StatusOK)

	env = s.expect("GET", "/api/bookings/user?status=upcoming", asha, nil, http.StatusOK)
	if env.Count != 1 {
		t.Fatalf("upcoming = %+v", env)
	}
	env = s.expect("GET", "/api/bookings/user?status=bogus", asha, nil, http.StatusBadRequest)
	if env.Message != "Invalid status" {
		t.Fatalf("message = %q", env.Message)
	}
	env = s.expect("GET", "/api/bookings/user", ravi, nil, http.StatusOK)
	if env.Count != 0 || string(env.Data) != "[]" {
		t.Fatalf("ravi bookings = %s", env.Data)
	}

	s.expect("GET", "/api/bookings/admin", asha, nil, http.StatusForbidden)
	env = s.expect("GET", "/api/bookings/admin", admin, nil, http.StatusOK)
	if env.Total != 1 {
		t.Fatalf("admin list = %+v", env)
	}
	env = s.expect("GET", "/api/bookings", ravi, nil, http.StatusOK)
	if env.Total != 0 {
		t.Fatalf("ravi list = %+v", env)
	}

	s.expect("PATCH", "/api/bookings/"+id+"/status", asha, map[string]string{"status": "cancelled"}, http.StatusForbidden)
	s.expect("PATCH", "/api/bookings/"+id+"/status", admin, map[string]string{"status": "pending"}, http.StatusBadRequest)
	env = s.expect("PATCH", "/api/bookings/"+id+"/status", admin, map[string]string{"status": "cancelled"}, http.StatusOK)
	if decode[models.BookingDetail](t, env.Data).Status != models.BookingCancelled {
		t.Fatalf("status = %s", env.Data)
	}

	env = s.expect("GET", "/api/bookings/stats/by-package?includeCancelled=false", admin, nil, http.StatusOK)
	if string(env.Data) != "[]" {
		t.Fatalf("stats without cancelled = %s", env.Data)
	}
	env = s.expect("GET", "/api/bookings/stats/by-package", admin, nil, http.StatusOK)
	rows := decode[[]models.PackageBookingStats](t, env.Data)
	if len(rows) != 1 || rows[0].BookingCount != 1 || rows[0].TotalRevenue != 4600 {
		t.Fatalf("stats = %+v", rows)
	}
	s.expect("GET", "/api/bookings/stats/by-package?includeCancelled=maybe", admin, nil, http.StatusBadRequest)

	rec, _ := s.do("GET", "/api/bookings/"+id+"/receipt", asha, nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("receipt = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	s.expect("GET", "/api/bookings/"+id+"/receipt", ravi, nil, http.StatusForbidden)

	s.expect("PUT", "/api/packages/"+pkg.ID.String(), admin, map[string]any{"startDate": "2099-01-11"}, http.StatusConflict)
	s.expect("DELETE", "/api/packages/"+pkg.ID.String(), admin, nil, http.StatusConflict)
}

func TestUserRoutes(t *testing.T) {
	s := newServer(t, fakeSearcher{})
	admin := s.admin()
	asha := s.register("asha")

	env := s.expect("PUT", "/api/users/profile", asha, map[string]any{
		"name":    "Asha K",
		"role":    "admin",
		"address": map[string]string{"city": "Pune"},
	}, http.StatusOK)
	u := decode[models.User](t, env.Data)
	if u.Name != "Asha K" || u.Role != models.RoleUser || u.Address == nil || u.Address.City != "Pune" {
		t.Fatalf("profile = %+v", u)
	}

	s.expect("GET", "/api/users/profile", "", nil, http.StatusUnauthorized)
	env = s.expect("GET", "/api/users/profile", asha, nil, http.StatusOK)
	if own := decode[models.User](t, env.Data); own.Name != "Asha K" || own.Email != "asha@example.com" {
		t.Fatalf("own profile = %+v", own)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("profilePicture", "me.png")
	part.Write([]byte("PNGDATA"))
	mw.Close()
	req := httptest.NewRequest("POST", "/api/users/profile/picture", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+asha)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "https://res.cloudinary.com/demo/me.png") {
		t.Fatalf("upload = %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("POST", "/api/users/profile/picture", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+asha)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("upload without file = %d", rec.Code)
	}

	s.expect("GET", "/api/users", asha, nil, http.StatusForbidden)
	env = s.expect("GET", "/api/users?limit=1", admin, nil, http.StatusOK)
	if env.Count != 1 || env.Total != 2 {
		t.Fatalf("users = %+v", env)
	}

	env = s.expect("GET", "/api/auth/me", asha, nil, http.StatusOK)
	me := decode[models.User](t, env.Data)
	env = s.expect("GET", "/api/users/"+me.ID.String(), admin, nil, http.StatusOK)
	if !strings.Contains(string(env.Data), `"bookings":[]`) {
		t.Fatalf("user detail = %s", env.Data)
	}
}

func TestImageSearchRoute(t *testing.T) {
	s := newServer(t, fakeSearcher{})
	s.expect("GET", "/api/images/search?query=goa", "", nil, http.StatusUnauthorized)
	s.expect("GET", "/api/images/search?query=goa", s.register("ravi"), nil, http.StatusForbidden)

	tok := s.admin()
	env := s.expect("GET", "/api/images/search?query=goa", tok, nil, http.StatusOK)
	if env.Count != 1 {
		t.Fatalf("images = %+v", env)
	}
	s.expect("GET", "/api/images/search", tok, nil, http.StatusBadRequest)

	down := newServer(t, fakeSearcher{err: imagesearch.ErrUnavailable})
	down.expect("GET", "/api/images/search?query=goa", down.admin(), nil, http.StatusServiceUnavailable)
}

func TestHealthRoutes(t *testing.T) {
	s := newServer(t, fakeSearcher{})
	s.expect("GET", "/healthz", "", nil, http.StatusOK)
	s.expect("GET", "/livez", "", nil, http.StatusOK)
	s.expect("GET", "/readyz", "", nil, http.StatusOK)

	rec, _ := s.do("GET", "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("root = %d", rec.Code)
	}
}
