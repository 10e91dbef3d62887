package models

import "time"

// Статусы подписки. Подписка становится confirmed только после перехода
// по ссылке подтверждения из письма (double opt-in).
const (
	StatusPendingConfirmation = "pending_confirmation"
	StatusConfirmed           = "confirmed"
)

// Subscriber представляет подписчика рассылки.
type Subscriber struct {
	ID           string    // Уникальный идентификатор подписчика (uuid)
	Email        string    // Электронная почта
	Name         string    // Имя, указанное при подписке
	SubscribedAt time.Time // Момент подписки
	Status       string    // pending_confirmation или confirmed
}
