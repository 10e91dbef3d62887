// Package models содержит доменные структуры рассылочного сервиса:
// учетные записи операторов, подписчиков и выпуски рассылки.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

// User представляет оператора рассылки, имеющего доступ к админ-панели.
type User struct {
	UID          string // Уникальный идентификатор пользователя (uuid)
	Username     string // Имя пользователя (уникальное)
	PasswordHash string // Хэш пароля в PHC-формате, никогда не plaintext
}
