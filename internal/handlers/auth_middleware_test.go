package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/platform-service/internal/models"
	"github.com/coursekit/platform-service/internal/rbac"
	"github.com/coursekit/platform-service/internal/token"
)

func newTestRouter(t *testing.T, perm rbac.Permission) (*gin.Engine, *token.Codec) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec := token.NewCodec("test-secret")
	policy, err := rbac.LoadPolicy("")
	if err != nil {
		t.Fatalf("LoadPolicy() error = %v", err)
	}
	am := NewAuthMiddleware(codec, policy)

	router := gin.New()
	router.GET("/protected", am.Authenticate(), am.RequirePermission(perm), func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	return router, codec
}

func signToken(t *testing.T, codec *token.Codec, role models.UserRole, typ token.Type, ttl time.Duration) string {
	t.Helper()
	user := &models.User{
		ID:       "user-1",
		Email:    "jane@example.com",
		Username: "jane",
		Role:     role,
		Status:   models.StatusActive,
	}
	var claims token.Claims
	switch typ {
	case token.TypeAccess, token.TypeRefresh:
		claims = token.AccessClaims(user, typ)
	default:
		claims = token.SubjectClaims(user, typ)
	}
	signed, err := codec.Sign(claims, ttl)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	return signed
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate_RejectsMissingOrMalformedHeader(t *testing.T) {
	router, _ := newTestRouter(t, rbac.PermAccessCourse)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "no scheme", header: "some-token"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "empty bearer", header: "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := doRequest(router, tt.header); rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthenticate_OnlyAccessTokensPass(t *testing.T) {
	router, codec := newTestRouter(t, rbac.PermAccessCourse)

	tests := []struct {
		name string
		typ  token.Type
		ttl  time.Duration
		want int
	}{
		{name: "access token", typ: token.TypeAccess, ttl: time.Minute, want: http.StatusOK},
		{name: "refresh token", typ: token.TypeRefresh, ttl: time.Minute, want: http.StatusUnauthorized},
		{name: "reset token", typ: token.TypeResetPassword, ttl: time.Minute, want: http.StatusUnauthorized},
		{name: "verify token", typ: token.TypeVerifyEmail, ttl: time.Minute, want: http.StatusUnauthorized},
		{name: "expired access token", typ: token.TypeAccess, ttl: -time.Minute, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := "Bearer " + signToken(t, codec, models.RoleUser, tt.typ, tt.ttl)
			if rec := doRequest(router, header); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAuthenticate_CaseInsensitiveScheme(t *testing.T) {
	router, codec := newTestRouter(t, rbac.PermAccessCourse)

	header := "bearer " + signToken(t, codec, models.RoleUser, token.TypeAccess, time.Minute)
	if rec := doRequest(router, header); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for lowercase scheme", rec.Code)
	}
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	router, _ := newTestRouter(t, rbac.PermAccessCourse)

	other := token.NewCodec("other-secret")
	header := "Bearer " + signToken(t, other, models.RoleUser, token.TypeAccess, time.Minute)
	if rec := doRequest(router, header); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for foreign signature", rec.Code)
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name string
		perm rbac.Permission
		role models.UserRole
		want int
	}{
		{name: "user granted accessCourse", perm: rbac.PermAccessCourse, role: models.RoleUser, want: http.StatusOK},
		{name: "user denied getUsers", perm: rbac.PermGetUsers, role: models.RoleUser, want: http.StatusForbidden},
		{name: "admin granted manageUsers", perm: rbac.PermManageUsers, role: models.RoleAdmin, want: http.StatusOK},
		{name: "admin denied manageCourses", perm: rbac.PermManageCourses, role: models.RoleAdmin, want: http.StatusForbidden},
		{name: "instructor granted manageCourses", perm: rbac.PermManageCourses, role: models.RoleInstructor, want: http.StatusOK},
		{name: "unknown role denied", perm: rbac.PermAccessCourse, role: "superuser", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, codec := newTestRouter(t, tt.perm)
			header := "Bearer " + signToken(t, codec, tt.role, token.TypeAccess, time.Minute)
			if rec := doRequest(router, header); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequirePermission_NoPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	codec := token.NewCodec("test-secret")
	policy, err := rbac.LoadPolicy("")
	if err != nil {
		t.Fatalf("LoadPolicy() error = %v", err)
	}
	am := NewAuthMiddleware(codec, policy)

	// A gate reached without Authenticate() ahead of it fails closed.
	router := gin.New()
	router.GET("/protected", am.RequirePermission(rbac.PermAccessCourse), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if rec := doRequest(router, ""); rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
