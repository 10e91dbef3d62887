package rabbitmq_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/letterpost/newsletter-service/internal/lib/rabbitmq"
)

type ChannelMock struct {
	mock.Mock
}

func (m *ChannelMock) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	callArgs := m.Called(name, durable, autoDelete, exclusive, noWait, args)
	return callArgs.Get(0).(amqp.Queue), callArgs.Error(1)
}

func (m *ChannelMock) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	callArgs := m.Called(exchange, key, mandatory, immediate, msg)
	return callArgs.Error(0)
}

func TestNewPublisher_DeclaresDurableQueue(t *testing.T) {
	ch := new(ChannelMock)
	ch.On("QueueDeclare", "newsletter.send_failures", true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{Name: "newsletter.send_failures"}, nil).Once()

	_, err := rabbitmq.NewPublisher(ch, "newsletter.send_failures")
	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestNewPublisher_DeclareError(t *testing.T) {
	ch := new(ChannelMock)
	ch.On("QueueDeclare", mock.Anything, true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{}, errors.New("channel closed")).Once()

	_, err := rabbitmq.NewPublisher(ch, "newsletter.send_failures")
	require.Error(t, err)
}

func TestPublishSendFailure_SerializesReport(t *testing.T) {
	ch := new(ChannelMock)
	ch.On("QueueDeclare", mock.Anything, true, false, false, false, amqp.Table(nil)).
		Return(amqp.Queue{}, nil).Once()

	var published amqp.Publishing
	ch.On("Publish", "", "newsletter.send_failures", false, false, mock.Anything).
		Run(func(args mock.Arguments) {
			published = args.Get(4).(amqp.Publishing)
		}).
		Return(nil).Once()

	pub, err := rabbitmq.NewPublisher(ch, "newsletter.send_failures")
	require.NoError(t, err)

	failure := rabbitmq.SendFailure{
		IssueTitle: "Issue #1",
		Recipient:  "broken@example.com",
		Cause:      "smtp: 550 mailbox unavailable",
		FailedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishSendFailure(failure))

	assert.Equal(t, "application/json", published.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), published.DeliveryMode)

	var got rabbitmq.SendFailure
	require.NoError(t, json.Unmarshal(published.Body, &got))
	assert.Equal(t, failure, got)
	ch.AssertExpectations(t)
}
