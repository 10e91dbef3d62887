// Package dispatch реализует публикацию выпуска рассылки: выборку
// подтвержденных подписчиков и рассылку писем по одному.
//
// Отправки не транзакционны: ушедшее письмо не отозвать, поэтому неудача
// по одному получателю изолируется — фиксируется в логе, метриках и очереди
// отчетов — и не прерывает доставку остальным и не влияет на итог операции.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/letterpost/newsletter-service/internal/lib/rabbitmq"
	"github.com/letterpost/newsletter-service/internal/lib/sl"
	"github.com/letterpost/newsletter-service/internal/models"
)

var (
	emailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsletter_emails_sent_total",
		Help: "Number of newsletter issue emails delivered to the transport.",
	})
	emailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsletter_emails_failed_total",
		Help: "Number of per-recipient failures skipped during issue fan-out.",
	})
)

// SubscriberLister отдает адреса всех подтвержденных подписчиков.
type SubscriberLister interface {
	ListConfirmedEmails(ctx context.Context) ([]string, error)
}

// EmailSender отправляет выпуск одному получателю.
type EmailSender interface {
	SendIssue(to string, issue models.Issue) error
}

// FailureReporter публикует отчет об изолированной неудаче доставки.
type FailureReporter interface {
	PublishSendFailure(failure rabbitmq.SendFailure) error
}

// Dispatcher рассылает выпуск всем подтвержденным подписчикам.
type Dispatcher struct {
	subscribers SubscriberLister
	sender      EmailSender
	reporter    FailureReporter // может быть nil, если очередь отчетов не настроена
	log         *slog.Logger
}

// NewDispatcher создает новый экземпляр Dispatcher.
func NewDispatcher(subscribers SubscriberLister, sender EmailSender, reporter FailureReporter, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		subscribers: subscribers,
		sender:      sender,
		reporter:    reporter,
		log:         log,
	}
}

// Result — итог раскладки одного выпуска по получателям.
type Result struct {
	Delivered int // Писем передано транспорту
	Skipped   int // Получателей пропущено из-за изолированных неудач
}

// PublishIssue рассылает выпуск всем подтвержденным подписчикам.
//
// Ошибкой завершается только выборка получателей: это инфраструктурный сбой.
// Сам цикл рассылки всегда доходит до конца; ноль подписчиков — успех
// с нулем отправок. publisherUID используется для аудита, кто публиковал.
func (d *Dispatcher) PublishIssue(ctx context.Context, publisherUID string, issue models.Issue) (Result, error) {
	const op = "dispatch.PublishIssue"

	log := d.log.With(
		slog.String("op", op),
		slog.String("publisher_uid", publisherUID),
		slog.String("issue_title", issue.Title),
	)

	emails, err := d.subscribers.ListConfirmedEmails(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	var res Result
	for _, email := range emails {
		if _, err := mail.ParseAddress(email); err != nil {
			d.recordFailure(log, issue, email, fmt.Errorf("stored email is invalid: %w", err))
			res.Skipped++
			continue
		}
		if err := d.sender.SendIssue(email, issue); err != nil {
			d.recordFailure(log, issue, email, err)
			res.Skipped++
			continue
		}
		emailsSent.Inc()
		res.Delivered++
	}

	log.Info("issue fan-out completed",
		slog.Int("delivered", res.Delivered),
		slog.Int("skipped", res.Skipped))
	return res, nil
}

// recordFailure фиксирует изолированную неудачу по одному получателю:
// лог с полной цепочкой причины, метрика и отчет в очередь.
func (d *Dispatcher) recordFailure(log *slog.Logger, issue models.Issue, email string, cause error) {
	emailsFailed.Inc()
	log.Warn("skipping a confirmed subscriber",
		slog.String("recipient", email),
		sl.Err(cause))

	if d.reporter == nil {
		return
	}
	report := rabbitmq.SendFailure{
		IssueTitle: issue.Title,
		Recipient:  email,
		Cause:      cause.Error(),
		FailedAt:   time.Now().UTC(),
	}
	if err := d.reporter.PublishSendFailure(report); err != nil {
		log.Error("failed to publish send-failure report", sl.Err(err))
	}
}
