// internal/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"os"

	sendgridgo "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Message is one outbound notification.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers a single message. Implementations must be safe for use
// from the worker goroutine.
type Sender interface {
	SendEmail(ctx context.Context, msg Message) error
}

type sendGridClient struct {
	client     *sendgridgo.Client
	sender     string
	senderName string
	logger     *zap.Logger
}

// NewSendGridClient builds the production sender. When no API key is
// configured it returns a nop sender so the rest of the system runs
// unchanged without outbound email.
func NewSendGridClient(logger *zap.Logger) Sender {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		logger.Info("SENDGRID_API_KEY not set, email notifications disabled")
		return nopSender{}
	}

	sender := os.Getenv("SENDGRID_SENDER")
	senderName := os.Getenv("SENDGRID_SENDER_NAME")
	if senderName == "" {
		senderName = "JobTrack"
	}

	return sendGridClient{
		client:     sendgridgo.NewSendClient(apiKey),
		sender:     sender,
		senderName: senderName,
		logger:     logger,
	}
}

func (c sendGridClient) SendEmail(ctx context.Context, msg Message) error {
	from := mail.NewEmail(c.senderName, c.sender)
	to := mail.NewEmail(msg.To, msg.To)

	message := mail.NewSingleEmail(from, msg.Subject, to, "", msg.HTMLBody)
	resp, err := c.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send email: sendgrid returned %d", resp.StatusCode)
	}

	c.logger.Info("email sent", zap.String("recipient", msg.To))
	return nil
}

type nopSender struct{}

func (nopSender) SendEmail(context.Context, Message) error { return nil }
