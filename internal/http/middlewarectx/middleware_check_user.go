package middlewarectx

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/AvinFlower/shadow-link/internal/http/response"
	"github.com/AvinFlower/shadow-link/internal/models"
)

// CheckUserMiddleware создает middleware, допускающий к ресурсу только
// его владельца: {userId} из пути должен совпадать с пользователем сессии.
// Администратор проходит всегда.
func CheckUserMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.CheckUserMiddleware"

			userID, ok := r.Context().Value(UserID).(int64)
			if !ok {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			pathID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
			if err != nil {
				log.Error("invalid user id in path")
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid user id"))
				return
			}

			role, _ := r.Context().Value(Role).(string)
			if pathID != userID && role != models.RoleAdmin {
				log.Error("access to foreign resource denied",
					slog.Int64("user_id", userID), slog.Int64("path_id", pathID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
