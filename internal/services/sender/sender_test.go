package sender_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/letterpost/newsletter-service/internal/lib/smtp"
	"github.com/letterpost/newsletter-service/internal/models"
	"github.com/letterpost/newsletter-service/internal/services/sender"
)

type TransportMock struct {
	mock.Mock
}

func (m *TransportMock) Connect() (smtp.Client, error) {
	args := m.Called()
	client, _ := args.Get(0).(smtp.Client)
	return client, args.Error(1)
}

func (m *TransportMock) GetSMTPUser() string {
	return "newsletter@example.com"
}

type ClientMock struct {
	mock.Mock
	body bytes.Buffer
}

func (m *ClientMock) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *ClientMock) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	return nopWriteCloser{&m.body}, args.Error(0)
}

func (m *ClientMock) Quit() error {
	return m.Called().Error(0)
}

func (m *ClientMock) Close() error {
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func happyClient() *ClientMock {
	client := new(ClientMock)
	client.On("Mail", "newsletter@example.com").Return(nil).Once()
	client.On("Rcpt", mock.Anything).Return(nil).Once()
	client.On("Data").Return(nil).Once()
	client.On("Quit").Return(nil).Once()
	return client
}

func TestSendIssue_BuildsMultipartMessage(t *testing.T) {
	client := happyClient()
	transport := new(TransportMock)
	transport.On("Connect").Return(client, nil).Once()

	svc := sender.NewSenderService(newNoopLogger(), transport)

	issue := models.Issue{
		Title:    "Issue #1",
		HTMLBody: "<p>Hello from issue one</p>",
		TextBody: "Hello from issue one",
	}
	require.NoError(t, svc.SendIssue("subscriber@example.com", issue))

	msg := client.body.String()
	assert.Contains(t, msg, "Subject: Issue #1")
	assert.Contains(t, msg, "To: subscriber@example.com")
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "<p>Hello from issue one</p>")
	assert.Contains(t, msg, "Hello from issue one")
	client.AssertExpectations(t)
}

func TestSendConfirmation_ContainsLink(t *testing.T) {
	client := happyClient()
	transport := new(TransportMock)
	transport.On("Connect").Return(client, nil).Once()

	svc := sender.NewSenderService(newNoopLogger(), transport)

	link := "http://localhost:8080/subscriptions/confirm?subscription_token=abc123"
	require.NoError(t, svc.SendConfirmation("new@example.com", link))

	msg := client.body.String()
	assert.Contains(t, msg, "Subject: Welcome!")
	assert.Contains(t, msg, link)
}

func TestSendIssue_ConnectFailure(t *testing.T) {
	transport := new(TransportMock)
	transport.On("Connect").Return(nil, errors.New("dial tcp: connection refused")).Once()

	svc := sender.NewSenderService(newNoopLogger(), transport)

	err := svc.SendIssue("subscriber@example.com", models.Issue{Title: "Issue #1"})
	require.Error(t, err)
}

func TestSendIssue_RcptFailure(t *testing.T) {
	client := new(ClientMock)
	client.On("Mail", mock.Anything).Return(nil).Once()
	client.On("Rcpt", "broken@example.com").Return(errors.New("550 mailbox unavailable")).Once()

	transport := new(TransportMock)
	transport.On("Connect").Return(client, nil).Once()

	svc := sender.NewSenderService(newNoopLogger(), transport)

	err := svc.SendIssue("broken@example.com", models.Issue{Title: "Issue #1"})
	require.Error(t, err)
	client.AssertNotCalled(t, "Data")
}
