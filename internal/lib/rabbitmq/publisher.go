// Package rabbitmq публикует отчеты о неудачных отправках выпуска в очередь.
// Очередь — канал наблюдаемости: отчет не влияет на результат публикации,
// он нужен оператору для разбора и повторной отправки.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// SendFailure — отчет об одной изолированной неудаче доставки.
type SendFailure struct {
	IssueTitle string    `json:"issue_title"`
	Recipient  string    `json:"recipient"`
	Cause      string    `json:"cause"`
	FailedAt   time.Time `json:"failed_at"`
}

// Channel — минимальный контракт канала AMQP, нужный издателю.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует отчеты в заранее объявленную очередь.
type Publisher struct {
	ch    Channel
	queue string
}

// NewPublisher объявляет durable-очередь и возвращает издателя.
func NewPublisher(ch Channel, queue string) (*Publisher, error) {
	const op = "rabbitmq.NewPublisher"

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Publisher{ch: ch, queue: queue}, nil
}

// PublishSendFailure публикует отчет о неудачной отправке.
func (p *Publisher) PublishSendFailure(failure SendFailure) error {
	const op = "rabbitmq.PublishSendFailure"

	body, err := json.Marshal(failure)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Connect открывает соединение и канал AMQP по URL из конфига.
func Connect(url string) (*amqp.Connection, *amqp.Channel, error) {
	const op = "rabbitmq.Connect"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return conn, ch, nil
}
