// Package subscription содержит логику подписки на рассылку с двойным
// подтверждением: запись создается как pending_confirmation, подписчику
// уходит письмо со ссылкой, переход по которой переводит запись в confirmed.
package subscription

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/letterpost/newsletter-service/internal/models"
	"github.com/letterpost/newsletter-service/internal/storage/repository"
)

// ErrUnknownToken возвращается при подтверждении по несуществующему токену.
var ErrUnknownToken = errors.New("unknown subscription token")

// tokenLen — длина токена подтверждения: 25 регистрозависимых
// буквенно-цифровых символов.
const tokenLen = 25

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// SubscriberRepository описывает контракт хранилища подписчиков.
type SubscriberRepository interface {
	// InsertSubscriber сохраняет подписчика и его токен одной транзакцией.
	InsertSubscriber(ctx context.Context, sub models.Subscriber, token string) error

	// ConfirmByToken переводит подписку в confirmed или возвращает
	// repository.ErrNotFound для неизвестного токена.
	ConfirmByToken(ctx context.Context, token string) error
}

// ConfirmationSender отправляет письмо со ссылкой подтверждения.
type ConfirmationSender interface {
	SendConfirmation(to, confirmationLink string) error
}

// Service отвечает за подписку и подтверждение подписчиков.
type Service struct {
	repo    SubscriberRepository
	sender  ConfirmationSender
	baseURL string
	log     *slog.Logger
}

// NewService создает новый экземпляр Service.
// baseURL — внешний адрес сервиса, из него собирается ссылка подтверждения.
func NewService(repo SubscriberRepository, sender ConfirmationSender, baseURL string, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		sender:  sender,
		baseURL: baseURL,
		log:     log,
	}
}

// Subscribe сохраняет нового подписчика и отправляет письмо подтверждения.
func (s *Service) Subscribe(ctx context.Context, name, email string) error {
	const op = "subscription.Subscribe"

	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sub := models.Subscriber{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		SubscribedAt: time.Now().UTC(),
		Status:       models.StatusPendingConfirmation,
	}
	if err = s.repo.InsertSubscriber(ctx, sub, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, token)
	if err = s.sender.SendConfirmation(email, link); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscriber stored, confirmation email sent",
		slog.String("subscriber_id", sub.ID))
	return nil
}

// Confirm переводит подписку в confirmed по токену из письма.
// Повторное подтверждение по тому же токену не ошибка.
func (s *Service) Confirm(ctx context.Context, token string) error {
	const op = "subscription.Confirm"

	err := s.repo.ConfirmByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUnknownToken
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func generateToken() (string, error) {
	token := make([]byte, tokenLen)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		token[i] = tokenAlphabet[n.Int64()]
	}
	return string(token), nil
}
