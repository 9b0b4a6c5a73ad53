package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogsync/internal/reqctx"
	"blogsync/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "jwt_test_secret"

func adminChain(next http.Handler) http.Handler {
	return JWTAuth(secret)(OnlyRole("admin")(next))
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, _ := reqctx.GetUserID(r.Context())
		assert.Equal(t, "ops", sub)
		w.WriteHeader(http.StatusOK)
	})
}

func call(h http.Handler, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/pages/p1/images", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestJWTAuth(t *testing.T) {
	h := adminChain(okHandler(t))

	admin, err := utils.GenerateToken(secret, "ops", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call(h, admin))

	assert.Equal(t, http.StatusUnauthorized, call(h, ""))

	other, err := utils.GenerateToken("другой", "ops", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(h, other))

	expired, err := utils.GenerateToken(secret, "ops", "admin", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(h, expired))

	reader, err := utils.GenerateToken(secret, "ops", "reader", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, call(h, reader))
}

func TestJWTAuth_EmptySecretDisablesRoutes(t *testing.T) {
	h := JWTAuth("")(okHandler(t))
	assert.Equal(t, http.StatusServiceUnavailable, call(h, "anything"))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = reqctx.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "rid-1", seen)
	assert.Equal(t, "rid-1", rr.Header().Get(HeaderRequestID))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}
