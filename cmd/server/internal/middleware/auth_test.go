package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/zhaoqin88/roadgen/cmd/server/internal/users"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *users.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	manager, err := users.NewManager(t.TempDir(), []byte("test-secret-key-0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := manager.CreateUser("alice", "correct-horse-battery", users.DefaultScopes); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	r := gin.New()
	authed := r.Group("/", Auth(manager))
	authed.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUsername(c), "id": CurrentUserID(c)})
	})
	authed.GET("/admin", RequireScope(users.ScopeUserManage), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, manager
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r, _ := setupAuthRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	r, _ := setupAuthRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r, manager := setupAuthRouter(t)
	tok, err := manager.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestRequireScopeForbidsMissingScope(t *testing.T) {
	r, manager := setupAuthRouter(t)
	tok, _ := manager.GenerateToken("alice")
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("allow-origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORSAllowlist(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got header %q", got)
	}
}
