package repository

import (
	"context"
	"fmt"

	"github.com/AvinFlower/shadow-link/internal/models"
)

// CreateConfiguration вставляет купленную конфигурацию и возвращает её ID.
func (s *Storage) CreateConfiguration(ctx context.Context, cfg models.Configuration) (int64, error) {
	const op = "storage.CreateConfiguration"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_configurations (user_id, server_id, client_uuid, config_link,
			      tariff, price, expiration_date, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		cfg.UserID, cfg.ServerID, cfg.ClientUID, cfg.ConfigLink,
		cfg.Tariff, cfg.Price, cfg.ExpirationDate, cfg.CreatedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListConfigurations возвращает все конфигурации пользователя,
// отсортированные по дате покупки по убыванию (свежие первыми).
func (s *Storage) ListConfigurations(ctx context.Context, userID int64) ([]*models.Configuration, error) {
	const op = "storage.ListConfigurations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, server_id, client_uuid, config_link, tariff, price,
			      expiration_date, created_at
			  FROM user_configurations
			  WHERE user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Configuration
	for rows.Next() {
		var item models.Configuration
		if err := rows.Scan(&item.ID, &item.UserID, &item.ServerID, &item.ClientUID,
			&item.ConfigLink, &item.Tariff, &item.Price,
			&item.ExpirationDate, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindConfigurationsExpiringTomorrow находит конфигурации, истекающие завтра,
// вместе с почтой владельца для отправки уведомлений.
func (s *Storage) FindConfigurationsExpiringTomorrow(ctx context.Context) ([]*models.ConfigurationInfo, error) {
	const op = "storage.FindConfigurationsExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      u.email,
			      u.username,
			      c.config_link,
			      c.expiration_date
			  FROM user_configurations c
			  JOIN users u ON c.user_id = u.id
			  WHERE c.expiration_date::DATE = CURRENT_DATE + INTERVAL '1 day';`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ConfigurationInfo
	for rows.Next() {
		var ci models.ConfigurationInfo
		if err = rows.Scan(&ci.Email, &ci.Username, &ci.ConfigLink,
			&ci.ExpirationDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &ci)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
