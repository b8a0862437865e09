package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theheadmen/figurine/internal/auth"
	"github.com/theheadmen/figurine/internal/dbconnector"
	"github.com/theheadmen/figurine/internal/logger"
)

type ctxKey int

const (
	userCtxKey ctxKey = iota
	requestIDCtxKey
)

const sessionCookieName = "session_token"

// RequestIDMiddleware присваивает каждому запросу ID и пишет строку лога
// с методом, путем и длительностью обработки.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		ctx := context.WithValue(r.Context(), requestIDCtxKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// SessionMiddleware разбирает cookie сессии и, если токен валиден, кладет
// пользователя в контекст запроса. Запрос без сессии проходит дальше
// анонимным, решение принимают requireAuth и requireAdmin.
func (ls *ServerSystem) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := auth.ValidateSessionToken([]byte(ls.Config.SessionSecret), cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		var user dbconnector.User
		if err := ls.Storage.GetUserByUserID(r.Context(), userID, &user); err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestID достает ID запроса из контекста, пустая строка если его нет.
func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// currentUser достает пользователя из контекста запроса.
func currentUser(r *http.Request) (*dbconnector.User, bool) {
	user, ok := r.Context().Value(userCtxKey).(*dbconnector.User)
	return user, ok
}

// requireAuth отправляет анонимный запрос на страницу входа вместо ошибки.
func (ls *ServerSystem) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentUser(r); !ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// requireAdmin дополнительно требует флаг администратора. Обычный
// пользователь уходит на главную с предупреждением, а не с ошибкой.
func (ls *ServerSystem) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(r)
		if !ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		if !user.IsAdmin {
			setFlash(w, "Недостаточно прав")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
