// Package basicauth извлекает учетные данные из заголовка HTTP Basic-аутентификации.
//
// Любое нарушение формата заголовка — отсутствие, чужая схема, битый base64,
// отсутствие разделителя — сворачивается в одну ошибку ErrMalformedCredentials
// с человекочитаемой причиной; частично заполненные Credentials не возвращаются.
package basicauth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/letterpost/newsletter-service/internal/lib/secret"
	"github.com/letterpost/newsletter-service/internal/models"
)

// ErrMalformedCredentials возвращается при любом нарушении формата заголовка
// Authorization. Причина доступна через errors.Unwrap для логов оператора.
var ErrMalformedCredentials = errors.New("malformed basic-auth credentials")

const scheme = "Basic "

// Extract разбирает значение заголовка Authorization в пару имя/пароль.
//
// Пароль может содержать двоеточия: строка делится по первому ":".
func Extract(header string) (models.Credentials, error) {
	if header == "" {
		return models.Credentials{}, fmt.Errorf("%w: the Authorization header was missing", ErrMalformedCredentials)
	}
	if !utf8.ValidString(header) {
		return models.Credentials{}, fmt.Errorf("%w: the Authorization header was not valid UTF-8", ErrMalformedCredentials)
	}
	if !strings.HasPrefix(header, scheme) {
		return models.Credentials{}, fmt.Errorf("%w: the authorization scheme was not Basic", ErrMalformedCredentials)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, scheme))
	if err != nil {
		return models.Credentials{}, fmt.Errorf("%w: failed to decode base64 segment: %w", ErrMalformedCredentials, err)
	}
	if !utf8.Valid(decoded) {
		return models.Credentials{}, fmt.Errorf("%w: decoded credentials were not valid UTF-8", ErrMalformedCredentials)
	}

	username, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return models.Credentials{}, fmt.Errorf("%w: a ':' separator must be provided", ErrMalformedCredentials)
	}
	if username == "" {
		return models.Credentials{}, fmt.Errorf("%w: a username must be provided", ErrMalformedCredentials)
	}

	return models.Credentials{
		Username: username,
		Password: secret.New(password),
	}, nil
}
