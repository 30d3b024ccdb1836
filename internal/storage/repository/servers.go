package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AvinFlower/shadow-link/internal/models"
)

// ListServers возвращает все backend-серверы.
func (s *Storage) ListServers(ctx context.Context) ([]*models.Server, error) {
	const op = "storage.ListServers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, country, host, ssh_port, ssh_username, ssh_password,
			      max_users, users_count, x_ui_port, ui_panel_link
			  FROM servers
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Server
	for rows.Next() {
		var item models.Server
		if err := rows.Scan(&item.ID, &item.Country, &item.Host, &item.SSHPort,
			&item.SSHUsername, &item.SSHPassword, &item.MaxUsers, &item.UsersCount,
			&item.XUIPort, &item.UIPanelLink); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ClaimServerSlot атомарно занимает одно клиентское место на наименее
// загруженном сервере страны и возвращает его. Одиночный UPDATE с подзапросом
// не допускает превышения вместимости при конкурентных покупках.
// Если свободных серверов в стране нет — ErrNoAvailableServer.
func (s *Storage) ClaimServerSlot(ctx context.Context, country string) (*models.Server, error) {
	const op = "storage.ClaimServerSlot"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE servers
			  SET users_count = users_count + 1
			  WHERE id = (
			      SELECT id FROM servers
			      WHERE country = $1 AND users_count < max_users
			      ORDER BY users_count, id
			      LIMIT 1
			      FOR UPDATE SKIP LOCKED
			  )
			  RETURNING id, country, host, ssh_port, ssh_username, ssh_password,
			      max_users, users_count, x_ui_port, ui_panel_link`
	var item models.Server
	err := s.DB.QueryRowContext(ctx, query, country).Scan(&item.ID, &item.Country,
		&item.Host, &item.SSHPort, &item.SSHUsername, &item.SSHPassword,
		&item.MaxUsers, &item.UsersCount, &item.XUIPort, &item.UIPanelLink)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoAvailableServer)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

// ReleaseServerSlot освобождает клиентское место, занятое ClaimServerSlot.
// Вызывается при откате покупки, если запись конфигурации не удалось сохранить.
func (s *Storage) ReleaseServerSlot(ctx context.Context, serverID int64) error {
	const op = "storage.ReleaseServerSlot"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE servers
			  SET users_count = GREATEST(users_count - 1, 0)
			  WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, serverID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
