package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/letterpost/newsletter-service/internal/models"
)

// InsertSubscriber сохраняет нового подписчика со статусом pending_confirmation
// и его токен подтверждения одной транзакцией: либо есть и запись, и токен,
// либо ничего.
func (s *Storage) InsertSubscriber(ctx context.Context, sub models.Subscriber, token string) error {
	const op = "storage.InsertSubscriber"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.Email, sub.Name, sub.SubscribedAt, sub.Status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		 VALUES ($1, $2)`,
		token, sub.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConfirmByToken находит подписчика по токену подтверждения и переводит его
// в статус confirmed. Неизвестный токен — ErrNotFound. Повторное подтверждение
// уже подтвержденной подписки не ошибка.
func (s *Storage) ConfirmByToken(ctx context.Context, token string) error {
	const op = "storage.ConfirmByToken"

	var subscriberID string
	row := s.DB.QueryRowContext(ctx,
		`SELECT subscriber_id FROM subscription_tokens
		 WHERE subscription_token = $1`, token)
	if err := row.Scan(&subscriberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1 WHERE id = $2`,
		models.StatusConfirmed, subscriberID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListConfirmedEmails возвращает адреса всех подтвержденных подписчиков.
// Адреса отдаются как хранятся: валидация — забота вызывающего, битый адрес
// в базе не должен ломать выборку целиком.
func (s *Storage) ListConfirmedEmails(ctx context.Context) ([]string, error) {
	const op = "storage.ListConfirmedEmails"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT email FROM subscriptions WHERE status = $1`,
		models.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var email string
		if err = rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, email)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
