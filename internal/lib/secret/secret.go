// Package secret реализует непрозрачную обертку для чувствительных строк
// (паролей, ключей). Значение недоступно через обычное строковое
// преобразование: его нельзя случайно вывести в лог или сериализовать в JSON,
// получить исходную строку можно только явным вызовом Expose.
package secret

import "log/slog"

// Redacted — то, что увидит вместо значения любой вывод через fmt или slog.
const Redacted = "[REDACTED]"

// String хранит чувствительную строку без прямого доступа к ней.
type String struct {
	value string
}

// New оборачивает строку в секрет.
func New(value string) String {
	return String{value: value}
}

// Expose возвращает исходное значение. Единственная легальная точка
// потребления секрета.
func (s String) Expose() string {
	return s.value
}

// String реализует fmt.Stringer и всегда возвращает заглушку.
func (s String) String() string {
	return Redacted
}

// GoString закрывает утечку через форматирование %#v.
func (s String) GoString() string {
	return Redacted
}

// LogValue реализует slog.LogValuer: в структурированных логах секрет
// отображается как заглушка.
func (s String) LogValue() slog.Value {
	return slog.StringValue(Redacted)
}

// MarshalJSON не позволяет сериализовать значение наружу.
func (s String) MarshalJSON() ([]byte, error) {
	return []byte(`"` + Redacted + `"`), nil
}
