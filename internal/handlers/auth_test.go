package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vitalpath/admin/internal/config"
	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
	"vitalpath/admin/internal/security"
	"vitalpath/admin/internal/service"
)

const testPassword = "Valid$Password123"

type fakeDirectory struct {
	admins map[string]models.Admin
	getErr error
}

func (f *fakeDirectory) GetByID(_ context.Context, id string) (models.Admin, error) {
	if f.getErr != nil {
		return models.Admin{}, f.getErr
	}
	admin, ok := f.admins[id]
	if !ok {
		return models.Admin{}, repository.ErrAdminNotFound
	}
	return admin, nil
}

func (f *fakeDirectory) FindByEmail(_ context.Context, email string) (models.Admin, error) {
	for _, admin := range f.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return models.Admin{}, repository.ErrAdminNotFound
}

func (f *fakeDirectory) List(_ context.Context) ([]models.Admin, error) {
	var out []models.Admin
	for _, admin := range f.admins {
		out = append(out, admin)
	}
	return out, nil
}

func (f *fakeDirectory) Create(_ context.Context, admin models.Admin) error {
	f.admins[admin.ID] = admin
	return nil
}

func (f *fakeDirectory) UpdateProfile(_ context.Context, id string, firstName, lastName string, role models.Role, isActive bool) error {
	admin, ok := f.admins[id]
	if !ok {
		return repository.ErrAdminNotFound
	}
	admin.FirstName = firstName
	admin.LastName = lastName
	admin.Role = role
	admin.IsActive = isActive
	f.admins[id] = admin
	return nil
}

func (f *fakeDirectory) Delete(_ context.Context, id string) error {
	if _, ok := f.admins[id]; !ok {
		return repository.ErrAdminNotFound
	}
	delete(f.admins, id)
	return nil
}

func (f *fakeDirectory) UpdatePassword(_ context.Context, id string, passwordHash []byte) error {
	admin, ok := f.admins[id]
	if !ok {
		return repository.ErrAdminNotFound
	}
	admin.PasswordHash = passwordHash
	f.admins[id] = admin
	return nil
}

func (f *fakeDirectory) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	admin, ok := f.admins[id]
	if !ok {
		return repository.ErrAdminNotFound
	}
	admin.LastLoginAt = &at
	f.admins[id] = admin
	return nil
}

type fakeSessions struct {
	sessions map[string]models.Session // by token
}

func (f *fakeSessions) Create(_ context.Context, session models.Session) error {
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeSessions) GetByToken(_ context.Context, token string) (models.Session, error) {
	session, ok := f.sessions[token]
	if !ok || session.ExpiresAt.Before(time.Now()) {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessions) RevokeAll(_ context.Context, adminID string) error {
	for token, session := range f.sessions {
		if session.AdminID == adminID {
			delete(f.sessions, token)
		}
	}
	return nil
}

type fakeAttempts struct {
	rows map[string]models.LoginAttempt
}

func (f *fakeAttempts) Get(_ context.Context, ipAddress, email string) (models.LoginAttempt, error) {
	attempt, ok := f.rows[ipAddress+"|"+email]
	if !ok {
		return models.LoginAttempt{}, repository.ErrAttemptNotFound
	}
	return attempt, nil
}

func (f *fakeAttempts) Put(_ context.Context, attempt models.LoginAttempt) error {
	f.rows[attempt.IPAddress+"|"+attempt.Email] = attempt
	return nil
}

func (f *fakeAttempts) Delete(_ context.Context, ipAddress, email string) error {
	delete(f.rows, ipAddress+"|"+email)
	return nil
}

type fakeEvents struct {
	events []models.SecurityEvent
}

func (f *fakeEvents) Insert(_ context.Context, event models.SecurityEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEvents) ListRecent(_ context.Context, limit, offset int) ([]models.SecurityEvent, error) {
	return f.events, nil
}

func newTestRouter(t *testing.T, admins ...models.Admin) (*gin.Engine, *fakeEvents, *fakeSessions, *fakeDirectory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTSecret:        "handler-test-secret",
			TokenTTL:         168 * time.Hour,
			CookieName:       "admin-token",
			LockoutThreshold: 5,
			LockoutWindow:    15 * time.Minute,
		},
	}

	directory := &fakeDirectory{admins: make(map[string]models.Admin)}
	for _, admin := range admins {
		directory.admins[admin.ID] = admin
	}
	sessions := &fakeSessions{sessions: make(map[string]models.Session)}
	attempts := &fakeAttempts{rows: make(map[string]models.LoginAttempt)}
	events := &fakeEvents{}

	logger := zerolog.Nop()
	limiter := service.NewLoginLimiter(attempts, events, cfg.Security.LockoutThreshold, cfg.Security.LockoutWindow, logger)
	auth := service.NewAuthService(directory, sessions, limiter, events, cfg, logger)

	h := HandlerSet{
		log:      logger,
		cfg:      cfg,
		auth:     auth,
		admins:   directory,
		sessions: sessions,
		events:   events,
	}

	engine := gin.New()
	h.Register(engine.Group("/api"))
	return engine, events, sessions, directory
}

func seedAdmin(t *testing.T) models.Admin {
	t.Helper()
	hash, err := security.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	return models.Admin{
		ID:           "admin-1",
		Email:        "carol@vitalpath.example",
		PasswordHash: hash,
		FirstName:    "Carol",
		LastName:     "Reyes",
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
}

func postJSON(engine *gin.Engine, path string, body map[string]string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func doLogin(engine *gin.Engine, email, password string) *httptest.ResponseRecorder {
	return postJSON(engine, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
}

func TestLoginValidation(t *testing.T) {
	engine, _, _, _ := newTestRouter(t, seedAdmin(t))

	w := doLogin(engine, "not-an-email", "x")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLoginSetsCookieAndReturnsProfile(t *testing.T) {
	engine, events, _, _ := newTestRouter(t, seedAdmin(t))

	w := doLogin(engine, "carol@vitalpath.example", testPassword)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Admin map[string]any `json:"admin"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Admin["email"] != "carol@vitalpath.example" || resp.Admin["role"] != "SUPER_ADMIN" {
		t.Fatalf("unexpected profile: %v", resp.Admin)
	}
	if _, leaked := resp.Admin["passwordHash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}

	cookies := w.Result().Cookies()
	var found *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == "admin-token" {
			found = cookie
		}
	}
	if found == nil {
		t.Fatalf("admin-token cookie not set")
	}
	if !found.HttpOnly || found.Path != "/" || found.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie attributes wrong: %+v", found)
	}

	if len(events.events) != 1 || events.events[0].Kind != models.EventLogin {
		t.Fatalf("expected single LOGIN event, got %+v", events.events)
	}
}

func TestLoginDoesNotDistinguishUnknownEmailFromWrongPassword(t *testing.T) {
	engine, _, _, _ := newTestRouter(t, seedAdmin(t))

	unknown := doLogin(engine, "nobody@vitalpath.example", "Whatever$123456")
	wrong := doLogin(engine, "carol@vitalpath.example", "Wrong$Password123")

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("responses differ: %s vs %s", unknown.Body.String(), wrong.Body.String())
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	admin := seedAdmin(t)
	admin.IsActive = false
	engine, _, _, _ := newTestRouter(t, admin)

	w := doLogin(engine, "carol@vitalpath.example", testPassword)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestLoginRateLimitResponse(t *testing.T) {
	engine, _, _, _ := newTestRouter(t, seedAdmin(t))

	for i := 0; i < 5; i++ {
		if w := doLogin(engine, "carol@vitalpath.example", "Wrong$Password123"); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, w.Code)
		}
	}

	w := doLogin(engine, "carol@vitalpath.example", testPassword)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Too many login attempts. Please try again in") {
		t.Fatalf("unexpected 429 body: %s", w.Body.String())
	}
}

func TestChangePasswordRevokesSessionEverywhere(t *testing.T) {
	engine, _, sessions, _ := newTestRouter(t, seedAdmin(t))

	login := doLogin(engine, "carol@vitalpath.example", testPassword)
	if login.Code != http.StatusOK {
		t.Fatalf("login failed: %d", login.Code)
	}
	cookies := login.Result().Cookies()

	// Authenticated before the change.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("me before change: expected 200, got %d", w.Code)
	}

	change := postJSON(engine, "/api/v1/auth/change-password", map[string]string{
		"currentPassword": testPassword,
		"newPassword":     "Fresh$Password456",
		"confirmPassword": "Fresh$Password456",
	}, cookies)
	if change.Code != http.StatusOK {
		t.Fatalf("change password: expected 200, got %d: %s", change.Code, change.Body.String())
	}

	if len(sessions.sessions) != 0 {
		t.Fatalf("expected session registry emptied")
	}

	// The old cookie still verifies cryptographically but the session row is
	// gone, so the request is anonymous now.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me after change: expected 401, got %d", w.Code)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	engine, events, _, _ := newTestRouter(t, seedAdmin(t))

	login := doLogin(engine, "carol@vitalpath.example", testPassword)
	cookies := login.Result().Cookies()

	w := postJSON(engine, "/api/v1/auth/change-password", map[string]string{
		"currentPassword": "Wrong$Password123",
		"newPassword":     "Fresh$Password456",
		"confirmPassword": "Fresh$Password456",
	}, cookies)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	var failed int
	for _, event := range events.events {
		if event.Kind == models.EventFailedPasswordChange {
			failed++
		}
	}
	if failed != 1 {
		t.Fatalf("expected FAILED_PASSWORD_CHANGE event, got %d", failed)
	}
}

func TestChangePasswordWeakPassword(t *testing.T) {
	engine, _, _, _ := newTestRouter(t, seedAdmin(t))

	login := doLogin(engine, "carol@vitalpath.example", testPassword)
	cookies := login.Result().Cookies()

	w := postJSON(engine, "/api/v1/auth/change-password", map[string]string{
		"currentPassword": testPassword,
		"newPassword":     "NoSymbolsHere123",
		"confirmPassword": "NoSymbolsHere123",
	}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "symbol") {
		t.Fatalf("expected first unmet rule in body, got %s", w.Body.String())
	}
}

// A database failure during the authenticated lookup is an internal error,
// not an authentication failure.
func TestAuthStoreFailureIsInternalError(t *testing.T) {
	engine, _, _, directory := newTestRouter(t, seedAdmin(t))

	login := doLogin(engine, "carol@vitalpath.example", testPassword)
	if login.Code != http.StatusOK {
		t.Fatalf("login failed: %d", login.Code)
	}
	cookies := login.Result().Cookies()

	directory.getErr = errors.New("connection refused")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on store failure, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal server error") {
		t.Fatalf("expected generic body, got %s", w.Body.String())
	}
}

func TestChangePasswordRequiresSession(t *testing.T) {
	engine, _, _, _ := newTestRouter(t, seedAdmin(t))

	w := postJSON(engine, "/api/v1/auth/change-password", map[string]string{
		"currentPassword": testPassword,
		"newPassword":     "Fresh$Password456",
		"confirmPassword": "Fresh$Password456",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
