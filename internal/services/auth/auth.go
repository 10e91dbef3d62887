// Package auth содержит логику проверки учетных данных операторов рассылки.
//
// Ошибки строго разделены: ErrInvalidCredentials — аутентификация отклонена
// (неизвестное имя или неверный пароль, снаружи неразличимы), любая другая
// ошибка — инфраструктурный сбой (хранилище, битая PHC-запись), который
// вызывающий отображает в 500, а не в 401.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/letterpost/newsletter-service/internal/lib/password"
	"github.com/letterpost/newsletter-service/internal/lib/secret"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
	"github.com/letterpost/newsletter-service/internal/models"
	"github.com/letterpost/newsletter-service/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверном имени пользователя или пароле.
// Снаружи оба случая выглядят одинаково.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с операторами в базе данных.
type UserRepository interface {
	// GetUserByUsername возвращает оператора по имени или repository.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает оператора по uid или repository.ErrNotFound.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UpdatePasswordHash заменяет хэш пароля оператора.
	UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error
}

// Service отвечает за проверку учетных данных и смену пароля.
type Service struct {
	users UserRepository
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, log *slog.Logger) *Service {
	return &Service{users: users, log: log}
}

// ValidateCredentials проверяет пару имя/пароль и возвращает uid оператора.
//
// Если имя неизвестно, все равно выполняется холостая проверка против
// password.FallbackHash: путь "нет такого пользователя" занимает столько же
// времени, сколько "пользователь есть, пароль неверный", и по задержке ответа
// нельзя перечислять имена.
func (s *Service) ValidateCredentials(ctx context.Context, creds models.Credentials) (string, error) {
	const op = "auth.ValidateCredentials"

	user, err := s.users.GetUserByUsername(ctx, creds.Username)
	if errors.Is(err, repository.ErrNotFound) {
		if _, dummyErr := password.CompareHash(password.FallbackHash, creds.Password.Expose()); dummyErr != nil {
			s.log.Error("dummy verification failed", sl.Err(dummyErr))
		}
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	ok, err := password.CompareHash(user.PasswordHash, creds.Password.Expose())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	return user.UID, nil
}

// ChangePassword проверяет текущий пароль оператора и сохраняет хэш нового.
func (s *Service) ChangePassword(ctx context.Context, userUID string, current, newPassword secret.String) error {
	const op = "auth.ChangePassword"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ok, err := password.CompareHash(user.PasswordHash, current.Expose())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	newHash, err := password.GetHash(newPassword.Expose())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.users.UpdatePasswordHash(ctx, userUID, newHash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
