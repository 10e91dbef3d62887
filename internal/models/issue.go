package models

// Issue представляет один выпуск рассылки. Выпуск не сохраняется
// в хранилище: это входные данные единичной операции публикации.
type Issue struct {
	Title    string // Тема письма
	HTMLBody string // HTML-версия выпуска
	TextBody string // Текстовая версия выпуска
}
