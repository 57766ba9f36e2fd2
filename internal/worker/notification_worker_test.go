package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carenest/marketplace/internal/config"
	"github.com/carenest/marketplace/internal/domain"
	"github.com/carenest/marketplace/internal/events"
	"github.com/carenest/marketplace/internal/service"
)

type capturingSMS struct {
	to   []string
	body []string
}

func (c *capturingSMS) Send(_ context.Context, to domain.Phone, body string) error {
	c.to = append(c.to, to.E164())
	c.body = append(c.body, body)
	return nil
}

func TestWorkerDeliversIssuedCodes(t *testing.T) {
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher(logger, nil)
	sms := &capturingSMS{}
	notifications := service.NewNotificationService(dispatcher, sms, logger, config.NotificationConfig{SMSSenderID: "CARENEST"})

	StartNotificationWorker(notifications, logger)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventPhoneSessionIssued,
		Payload: events.PhoneSessionIssuedPayload{
			Phone: domain.Phone{Code: "234", Number: "8011112222"},
			OTP:   "4821",
		},
	})
	require.NoError(t, err)

	require.Len(t, sms.to, 1)
	assert.Equal(t, "+2348011112222", sms.to[0])
	assert.Equal(t, "Your CARENEST verification code is 4821", sms.body[0])
}

func TestWorkerWithoutServiceIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { StartNotificationWorker(nil, zap.NewNop()) })
}
