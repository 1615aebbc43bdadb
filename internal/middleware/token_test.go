package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "peppermint/internal/errors"
	"peppermint/internal/models"
	"peppermint/internal/services"
)

// mockUserService resolves a single known user by username.
type mockUserService struct {
	user *models.User
}

func (m *mockUserService) CreateUser(username, email, password, firstName, lastName string) (*models.User, error) {
	return nil, apperrors.ErrInternalServer
}

func (m *mockUserService) GetUserByUsername(username string) (*models.User, error) {
	if m.user != nil && m.user.Username == username {
		return m.user, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.user != nil && m.user.ID == id {
		return m.user, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserService) GetAllUsers() ([]models.User, error) { return nil, nil }

func (m *mockUserService) UpdateUser(id string, fields services.UserUpdateFields) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserService) DeleteUser(id string) error { return apperrors.ErrUserNotFound }

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool { return false }

func (m *mockUserService) AttemptLogin(username, password string) (*models.User, error) {
	return nil, apperrors.ErrInvalidCredentials
}

func testUser() *models.User {
	user := &models.User{Username: "alice", Email: "alice@test.com"}
	user.ID = "11111111-1111-1111-1111-111111111111"
	return user
}

func newAuthTestRouter(tm *TokenManager, users services.UserServicer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", tm.RequireAuth(users), func(c *gin.Context) {
		user := c.MustGet(ContextUserKey).(*models.User)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	return router
}

func TestTokenGenerateAndParse(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		tm := NewTokenManager("test secret", 30*time.Minute)

		token, err := tm.Generate(testUser())
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		claims, err := tm.Parse(token)
		if err != nil {
			t.Fatalf("failed to parse token: %v", err)
		}
		if claims.Subject != "alice" {
			t.Errorf("expected subject alice, got %s", claims.Subject)
		}
		if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > 30*time.Minute {
			t.Error("expected expiry within the configured lifetime")
		}
	})

	t.Run("expired_token", func(t *testing.T) {
		tm := NewTokenManager("test secret", -time.Minute)

		token, err := tm.Generate(testUser())
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		if _, err := tm.Parse(token); err == nil {
			t.Error("expected expired token to be rejected")
		}
	})

	t.Run("wrong_secret", func(t *testing.T) {
		token, err := NewTokenManager("secret one", 30*time.Minute).Generate(testUser())
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		if _, err := NewTokenManager("secret two", 30*time.Minute).Parse(token); err == nil {
			t.Error("expected token signed with another secret to be rejected")
		}
	})

	t.Run("rejects_non_hmac_signing", func(t *testing.T) {
		tm := NewTokenManager("test secret", 30*time.Minute)

		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &jwt.RegisteredClaims{Subject: "alice"})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("failed to build unsigned token: %v", err)
		}

		if _, err := tm.Parse(token); err == nil {
			t.Error("expected token with alg=none to be rejected")
		}
	})
}

func TestRequireAuth(t *testing.T) {
	tm := NewTokenManager("test secret", 30*time.Minute)
	users := &mockUserService{user: testUser()}
	router := newAuthTestRouter(tm, users)

	t.Run("valid_token_resolves_user", func(t *testing.T) {
		token, err := tm.Generate(testUser())
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("missing_header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		if w.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Error("expected WWW-Authenticate: Bearer header on 401")
		}
	})

	t.Run("malformed_header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abcdef")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		if w.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Error("expected WWW-Authenticate: Bearer header on 401")
		}
	})

	t.Run("garbage_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("subject_without_matching_user", func(t *testing.T) {
		ghost := &models.User{Username: "ghost"}
		token, err := tm.Generate(ghost)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}
