package rest

import (
	"context"
	"net/http"
)

// HeaderIdentity — заголовок с аутентифицированным пользователем.
// Терминация сессии выполняется выше по стеку; сервис доверяет заголовку.
const HeaderIdentity = "X-Checkout-User"

// HeaderCSRFToken и CookieCSRFToken — пара double-submit cookie для
// anti-forgery проверки изменяющих запросов.
const (
	HeaderCSRFToken = "X-Csrf-Token"
	CookieCSRFToken = "csrf_token"
)

type contextKey string

const identityContextKey contextKey = "identity"

// RequireIdentity отклоняет запросы без аутентифицированного пользователя
// и кладёт identity в контекст запроса.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := r.Header.Get(HeaderIdentity)
		if identity == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCSRFToken проверяет anti-forgery токен изменяющих запросов:
// заголовок должен присутствовать и совпадать с cookie.
func RequireCSRFToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get(HeaderCSRFToken)
		if token == "" {
			writeError(w, http.StatusForbidden, "anti-forgery token required")
			return
		}

		cookie, err := r.Cookie(CookieCSRFToken)
		if err != nil || cookie.Value != token {
			writeError(w, http.StatusForbidden, "anti-forgery token mismatch")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// identityFromContext достаёт identity, положенный RequireIdentity.
func identityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(identityContextKey).(string)
	return identity
}
