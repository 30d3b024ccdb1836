// Package services содержит планировщик уведомлений: поиск конфигураций,
// истекающих завтра, и публикацию их в очередь для отправки писем.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/AvinFlower/shadow-link/internal/lib/rabbitmq"
	"github.com/AvinFlower/shadow-link/internal/lib/sl"
	"github.com/AvinFlower/shadow-link/internal/models"
)

// ConfigurationRepository определяет выборку истекающих конфигураций.
type ConfigurationRepository interface {
	FindConfigurationsExpiringTomorrow(ctx context.Context) ([]*models.ConfigurationInfo, error)
}

// SchedulerService периодически ищет истекающие конфигурации
// и публикует их в брокер.
type SchedulerService struct {
	repo ConfigurationRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo ConfigurationRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindExpiringConfigurationsDueTomorrow запускает периодический поиск
// конфигураций, истекающих завтра. Блокирует до отмены контекста.
func (s *SchedulerService) FindExpiringConfigurationsDueTomorrow(ctx context.Context, channel *amqp.Channel) {
	s.runFindExpiringConfigurations(ctx, channel)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runFindExpiringConfigurations(ctx, channel)
		}
	}
}

func (s *SchedulerService) runFindExpiringConfigurations(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find configurations expiring tomorrow")
	configsInfo, err := s.repo.FindConfigurationsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find configurations", sl.Err(err))
		return
	}
	if len(configsInfo) == 0 {
		s.log.Info("no expiring configurations found")
		return
	}
	s.log.Info("found expiring configurations", "count", len(configsInfo))
	for _, configInfo := range configsInfo {
		err = rabbitmq.PublishMessage(channel, "notifications", "expiring", configInfo)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
