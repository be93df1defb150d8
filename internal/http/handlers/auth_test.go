package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avelazco/contactdeck/internal/domain/user"
	"github.com/avelazco/contactdeck/internal/security"
	"github.com/gin-gonic/gin"
)

type fakeUserStore struct {
	byEmail map[string]user.User
	byID    map[string]user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]user.User),
		byID:    make(map[string]user.User),
	}
}

func (s *fakeUserStore) CreateUser(ctx context.Context, email, passwordHash, name string) (user.User, error) {
	if _, ok := s.byEmail[email]; ok {
		return user.User{}, user.ErrEmailTaken
	}

	u := user.User{ID: "u-" + email, Email: email, PasswordHash: passwordHash, Name: name}
	s.byEmail[email] = u
	s.byID[u.ID] = u
	return u, nil
}

func (s *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetUserByID(ctx context.Context, id string) (user.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type fakeIssuer struct{}

func (fakeIssuer) GenerateAccessToken(userID, email string) (string, error) {
	return "token-for-" + userID, nil
}

func newAuthTestRouter(store *fakeUserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(store, fakeIssuer{}, slog.New(slog.DiscardHandler))

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)

	return r
}

func postJSON(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body.Error.Code
}

func TestRegister(t *testing.T) {
	store := newFakeUserStore()
	r := newAuthTestRouter(store)

	rec := postJSON(t, r, "/api/auth/register",
		`{"email":"jane@example.com","password":"hunter22","name":"Jane"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Token == "" {
		t.Error("expected a token in the response")
	}
	if resp.User.Email != "jane@example.com" || resp.User.Name != "Jane" {
		t.Errorf("unexpected user payload: %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not leak password material")
	}

	// stored hash must not be the plaintext
	stored := store.byEmail["jane@example.com"]
	if stored.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}
	if err := security.CheckPassword(stored.PasswordHash, "hunter22"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	r := newAuthTestRouter(newFakeUserStore())

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "missing_email", body: `{"password":"hunter22","name":"Jane"}`, wantCode: "validation_failed"},
		{name: "bad_email", body: `{"email":"nope","password":"hunter22","name":"Jane"}`, wantCode: "validation_failed"},
		{name: "short_password", body: `{"email":"jane@example.com","password":"abc","name":"Jane"}`, wantCode: "validation_failed"},
		{name: "not_json", body: `{"email":`, wantCode: "invalid_body"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, r, "/api/auth/register", tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := errCode(t, rec); got != tc.wantCode {
				t.Errorf("error code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newAuthTestRouter(newFakeUserStore())

	body := `{"email":"jane@example.com","password":"hunter22","name":"Jane"}`
	if rec := postJSON(t, r, "/api/auth/register", body); rec.Code != http.StatusOK {
		t.Fatalf("first register: status = %d", rec.Code)
	}

	rec := postJSON(t, r, "/api/auth/register", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := errCode(t, rec); got != "email_taken" {
		t.Errorf("error code = %q, want email_taken", got)
	}
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	hash, err := security.HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateUser(context.Background(), "jane@example.com", hash, "Jane"); err != nil {
		t.Fatal(err)
	}

	r := newAuthTestRouter(store)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "ok",
			body:       `{"email":"jane@example.com","password":"hunter22"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown_email",
			body:       `{"email":"nobody@example.com","password":"hunter22"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "user_not_found",
		},
		{
			name:       "wrong_password",
			body:       `{"email":"jane@example.com","password":"wrong"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_password",
		},
		{
			// emails are matched verbatim, no case folding
			name:       "case_mismatch",
			body:       `{"email":"Jane@Example.com","password":"hunter22"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "user_not_found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, r, "/api/auth/login", tc.body)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantCode != "" {
				if got := errCode(t, rec); got != tc.wantCode {
					t.Errorf("error code = %q, want %q", got, tc.wantCode)
				}
			}
		})
	}
}
