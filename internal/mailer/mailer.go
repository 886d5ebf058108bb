package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier emails owners when their listing has been saved.
type SMTPNotifier struct {
	dialer  sender
	from    string
	baseURL string
	logger  *logger.Logger
}

// NewSMTPNotifier links to listings under baseURL, e.g. https://houses.example.com.
func NewSMTPNotifier(host string, port int, user, password, from, baseURL string, log *logger.Logger) *SMTPNotifier {
	if from == "" {
		from = user
	}
	return &SMTPNotifier{
		dialer:  gomail.NewDialer(host, port, user, password),
		from:    from,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.Named("SMTPNotifier"),
	}
}

func (n *SMTPNotifier) NotifyListingSaved(ctx context.Context, toEmail, listingName, detailPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := buildListingSavedMessage(n.from, toEmail, listingName, n.baseURL+detailPath)
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send listing saved email to %s: %w", toEmail, err)
	}
	n.logger.Info("Listing saved email sent", zap.String("to", toEmail), zap.String("path", detailPath))
	return nil
}

func buildListingSavedMessage(from, to, listingName, link string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Listing Saved!")
	m.SetBody("text/plain", fmt.Sprintf("Your listing '%s' has been saved.\n\nView it here: %s\n", listingName, link))
	return m
}
