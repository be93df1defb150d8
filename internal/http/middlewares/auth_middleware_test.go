package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avelazco/contactdeck/internal/auth"
	"github.com/gin-gonic/gin"
)

func newAuthRouter(t *testing.T, mgr *auth.Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(NewAuthMiddleware(mgr).RequireAuth())
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := UserIDFromContext(c)
		email, _ := EmailFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "email": email})
	})

	return r
}

func TestRequireAuth(t *testing.T) {
	mgr := auth.NewManager("test-secret", time.Minute)

	token, err := mgr.GenerateAccessToken("user-1", "jane@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	otherMgr := auth.NewManager("other-secret", time.Minute)
	forged, err := otherMgr.GenerateAccessToken("user-1", "jane@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "no_header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not_bearer", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "bearer_empty", authHeader: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "garbage_token", authHeader: "Bearer not.a.jwt", wantStatus: http.StatusForbidden},
		{name: "wrong_secret", authHeader: "Bearer " + forged, wantStatus: http.StatusForbidden},
		{name: "valid", authHeader: "Bearer " + token, wantStatus: http.StatusOK},
	}

	r := newAuthRouter(t, mgr)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRequireAuthExpiredTokenIsForbidden(t *testing.T) {
	mgr := auth.NewManager("test-secret", -time.Minute)

	token, err := mgr.GenerateAccessToken("user-1", "jane@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	r := newAuthRouter(t, auth.NewManager("test-secret", time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
