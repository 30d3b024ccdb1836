// Package create реализует HTTP-обработчик покупки прокси-конфигурации.
//
// Handler принимает страну, срок и тариф, валидирует их, вызывает
// бизнес-логику покупки и возвращает ссылку подключения с датой истечения.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/AvinFlower/shadow-link/internal/http/response"
	"github.com/AvinFlower/shadow-link/internal/lib/sl"
	"github.com/AvinFlower/shadow-link/internal/lib/validate"
	"github.com/AvinFlower/shadow-link/internal/models"
	configservice "github.com/AvinFlower/shadow-link/internal/services/configuration"
	"github.com/AvinFlower/shadow-link/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы на покупку конфигурации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики покупки.
type Service interface {
	Purchase(ctx context.Context, userID int64, req models.PurchaseRequest) (*models.Configuration, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Покупка прокси-конфигурации
// @Description Считает цену по тарифу, стране и сроку, занимает место на сервере и возвращает ссылку подключения.
// @Tags Configurations
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param userId path int true "Идентификатор пользователя"
// @Param request body models.PurchaseRequest true "Параметры покупки"
// @Success 201 {object} response.Response "Созданная конфигурация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или нет свободных серверов"
// @Failure 403 {object} response.ErrorResponse "Чужой ресурс"
// @Failure 422 {object} response.ErrorResponse "Неизвестный тариф, страна или срок"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/configurations/{userId} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.configuration.create"

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

	var req models.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	cfg, err := h.service.Purchase(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, configservice.ErrUnknownTariff):
			log.Error("unknown tariff, country or duration", slog.Any("request", req))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown tariff, country or duration"))
		case errors.Is(err, repository.ErrNoAvailableServer):
			log.Error("no available server", slog.String("country", req.Country))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("no available servers for this country"))
		default:
			log.Error("failed to create configuration", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create configuration"))
		}
		return
	}

	log.Info("configuration created", slog.Int64("id", cfg.ID), slog.Int64("user_id", userID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"config_link":     cfg.ConfigLink,
		"expiration_date": cfg.ExpirationDate.Format(time.RFC3339),
		"country":         req.Country,
		"price":           cfg.Price,
	}))
}
