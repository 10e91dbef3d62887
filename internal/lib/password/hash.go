// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// Хэш считается алгоритмом argon2id и хранится в самоописывающем PHC-формате:
// $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>. Параметры подобраны так, чтобы
// одна проверка занимала порядка сотен миллисекунд: это защита от офлайн-перебора.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonMemory  = 64 * 1024 // KiB
	argonTime    = 3
	argonThreads = 1
	argonSaltLen = 16
	argonKeyLen  = 32
)

// ErrMalformedHash возвращается, если хранимая запись не разбирается как
// PHC-строка argon2id. Это инфраструктурная ошибка, а не "неверный пароль".
var ErrMalformedHash = errors.New("malformed PHC hash record")

// FallbackHash — заранее посчитанная валидная PHC-запись для холостой проверки,
// когда пользователь не найден: путь отказа занимает столько же времени,
// сколько проверка настоящего пароля.
const FallbackHash = "$argon2id$v=19$m=65536,t=3,p=1$" +
	"c2VjdXJlcmFuZG9tc2FsdA$" +
	"eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHg"

// GetHash принимает пароль пользователя и возвращает его argon2id‑хэш
// в PHC-формате со свежей случайной солью.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// CompareHash проверяет пароль против PHC-записи из хранилища.
//
// Возвращает (true, nil) при совпадении, (false, nil) при несовпадении
// и ошибку, если запись не разбирается. Сравнение ключей — за константное
// время, независимо от места расхождения.
func CompareHash(encodedHash, password string) (bool, error) {
	const op = "password.CompareHash"

	memory, time, threads, salt, expected, err := parsePHC(encodedHash)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

// parsePHC разбирает PHC-строку argon2id на параметры, соль и ключ.
func parsePHC(encoded string) (memory, time uint32, threads uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: expected 6 segments, got %d", ErrMalformedHash, len(parts))
	}
	if parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: bad version segment", ErrMalformedHash)
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	var rawThreads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &rawThreads); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: bad parameters segment", ErrMalformedHash)
	}
	if rawThreads == 0 || rawThreads > 255 {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: parallelism %d out of range", ErrMalformedHash, rawThreads)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: bad salt encoding", ErrMalformedHash)
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: bad key encoding", ErrMalformedHash)
	}
	if len(key) == 0 {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: empty key", ErrMalformedHash)
	}
	return memory, time, uint8(rawThreads), salt, key, nil
}
