// Package services содержит бизнес-логику выдачи списка backend-серверов.
package services

import (
	"context"
	"fmt"

	"github.com/AvinFlower/shadow-link/internal/models"
)

// ServerRepository определяет методы для чтения серверов из хранилища.
type ServerRepository interface {
	// ListServers возвращает все backend-серверы.
	ListServers(ctx context.Context) ([]*models.Server, error)
}

// ServerService отдает список серверов в зависимости от роли пользователя.
type ServerService struct {
	repo ServerRepository
}

// NewServerService создает новый экземпляр ServerService.
func NewServerService(repo ServerRepository) *ServerService {
	return &ServerService{repo: repo}
}

// List возвращает описания серверов для администратора. Для остальных ролей —
// пустой список без ошибки: таблица серверов в портале рисуется только
// администратору, и «нет данных» здесь контракт, а не отказ.
func (s *ServerService) List(ctx context.Context, role string) ([]models.PublicServer, error) {
	const op = "server.List"

	if role != models.RoleAdmin {
		return []models.PublicServer{}, nil
	}

	servers, err := s.repo.ListServers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]models.PublicServer, 0, len(servers))
	for _, srv := range servers {
		result = append(result, srv.Public())
	}
	return result, nil
}
