// Package list реализует HTTP-обработчик выдачи конфигураций пользователя.
//
// Признак active — мгновенная функция времени ответа: одна и та же запись
// может сменить активность между двумя запросами без единой записи в базу.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/AvinFlower/shadow-link/internal/http/response"
	"github.com/AvinFlower/shadow-link/internal/lib/month"
	"github.com/AvinFlower/shadow-link/internal/lib/sl"
	"github.com/AvinFlower/shadow-link/internal/models"
)

// Item — конфигурация в форме ответа клиенту.
type Item struct {
	ConfigLink     string `json:"config_link"`
	ExpirationDate string `json:"expiration_date"`
	CreatedAt      string `json:"created_at"`
	Active         bool   `json:"active"`
}

// Handler обрабатывает HTTP-запросы на список конфигураций.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи конфигураций.
type Service interface {
	List(ctx context.Context, userID int64) ([]*models.Configuration, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список конфигураций пользователя
// @Description Возвращает конфигурации пользователя, свежие первыми, с признаком активности на момент ответа.
// @Tags Configurations
// @Produce  json
// @Security BearerAuth
// @Param userId path int true "Идентификатор пользователя"
// @Success 200 {object} response.Response "Список конфигураций"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 403 {object} response.ErrorResponse "Чужой ресурс"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/configurations/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.configuration.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		log.Error("invalid user id in path", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	configs, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list configurations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list configurations"))
		return
	}

	now := time.Now().UTC()
	items := make([]Item, 0, len(configs))
	for _, cfg := range configs {
		items = append(items, Item{
			ConfigLink:     cfg.ConfigLink,
			ExpirationDate: cfg.ExpirationDate.Format(time.RFC3339),
			CreatedAt:      cfg.CreatedAt.Format(time.RFC3339),
			Active:         month.IsActive(cfg.ExpirationDate, now),
		})
	}

	log.Info("list configurations", "count", len(items))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count":     len(items),
		"configurations": items,
	}))
}
