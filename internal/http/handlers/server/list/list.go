// Package list реализует HTTP-обработчик выдачи списка backend-серверов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/AvinFlower/shadow-link/internal/http/middlewarectx"
	"github.com/AvinFlower/shadow-link/internal/http/response"
	"github.com/AvinFlower/shadow-link/internal/lib/sl"
	"github.com/AvinFlower/shadow-link/internal/models"
)

// Handler обрабатывает HTTP-запросы на список серверов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи серверов.
type Service interface {
	List(ctx context.Context, role string) ([]models.PublicServer, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список backend-серверов
// @Description Администратору возвращает описания серверов; остальным — пустой список со статусом 200.
// @Tags Servers
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Список серверов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /servers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.server.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role, ok := r.Context().Value(middlewarectx.Role).(string)
	if !ok || role == "" {
		log.Error("role not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	servers, err := h.service.List(r.Context(), role)
	if err != nil {
		log.Error("failed to list servers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list servers"))
		return
	}

	log.Info("list servers", "count", len(servers))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(servers),
		"servers":    servers,
	}))
}
