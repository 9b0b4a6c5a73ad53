package middleware

import (
	"net/http"
	"strings"

	"blogsync/internal/logger"
	"blogsync/internal/reqctx"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// JWTAuth проверяет HS256 access-токен из Authorization: Bearer ...
// Пустой секрет закрывает маршрут целиком.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if strings.TrimSpace(secret) == "" {
				logger.WithCtx(r.Context()).Warn("JWTAuth: JWT_SECRET не задан, админ-маршруты отключены")
				http.Error(w, "admin routes are disabled", http.StatusServiceUnavailable)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
				http.Error(w, "missing access token", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

			if err != nil || !token.Valid {
				logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен",
					zap.Error(err))
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			sub, _ := claims.GetSubject()
			role, ok := claims["role"].(string)
			if !ok {
				logger.WithCtx(r.Context()).Warn("JWTAuth: недопустимый payload",
					zap.Any("claims", claims))
				http.Error(w, "invalid token payload", http.StatusUnauthorized)
				return
			}

			ctx := reqctx.WithUser(r.Context(), sub, role)

			logger.WithCtx(ctx).Debug("JWTAuth: токен валиден",
				zap.String("sub", sub), zap.String("role", role))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
