package models

import "github.com/letterpost/newsletter-service/internal/lib/secret"

// Credentials — пара имя пользователя/пароль, извлеченная из запроса.
// Пароль обернут в secret.String и живет только на время обработки запроса.
type Credentials struct {
	Username string
	Password secret.String
}
