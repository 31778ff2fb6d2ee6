package email

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/memberhub/memberhub/internal/application/notification"
	sharedConfig "github.com/memberhub/memberhub/internal/shared/config"
	"github.com/memberhub/memberhub/internal/shared/logger"
	"github.com/memberhub/memberhub/internal/shared/services/markdown"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPNotifier delivers notification events as multipart email. Bodies are
// markdown templates rendered to sanitized HTML with a plain-text fallback.
type SMTPNotifier struct {
	config    SMTPConfig
	dial      func() (gomail.SendCloser, error)
	templates *templateSet
	renderer  *markdown.Renderer
	logger    logger.Interface
}

func NewSMTPNotifier(config SMTPConfig, log logger.Interface) (*SMTPNotifier, error) {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	return newSMTPNotifier(config, dialer.Dial, log)
}

func newSMTPNotifier(config SMTPConfig, dial func() (gomail.SendCloser, error), log logger.Interface) (*SMTPNotifier, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &SMTPNotifier{
		config:    config,
		dial:      dial,
		templates: templates,
		renderer:  markdown.NewRenderer(),
		logger:    log,
	}, nil
}

func (s *SMTPNotifier) Send(ctx context.Context, event notification.Event, to notification.Recipient, payload notification.Payload) error {
	if to.Email == "" {
		return fmt.Errorf("recipient email is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		data[k] = v
	}
	data["name"] = to.Name

	msg, err := s.templates.render(event, data)
	if err != nil {
		return err
	}
	body, err := s.renderer.Render(msg.Body)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	if to.Name != "" {
		m.SetAddressHeader("To", to.Email, to.Name)
	} else {
		m.SetHeader("To", to.Email)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", body.Text)
	m.AddAlternative("text/html", body.HTML)

	sender, err := s.dial()
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	defer sender.Close()

	if err := gomail.Send(sender, m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debugw("notification email sent", "event", event, "to", to.Email)
	return nil
}

// NewNotifier returns an SMTP notifier when email is enabled and a logging
// no-op otherwise.
func NewNotifier(cfg sharedConfig.EmailConfig, log logger.Interface) (notification.Notifier, error) {
	if !cfg.Enabled || strings.TrimSpace(cfg.SMTPHost) == "" {
		log.Infow("email notifications disabled")
		return &loggingNotifier{logger: log}, nil
	}

	notifier, err := NewSMTPNotifier(SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	}, log)
	if err != nil {
		return nil, err
	}
	log.Infow("email notifications enabled", "host", cfg.SMTPHost, "port", cfg.SMTPPort, "from", cfg.FromAddress)
	return notifier, nil
}

type loggingNotifier struct {
	logger logger.Interface
}

func (n *loggingNotifier) Send(_ context.Context, event notification.Event, to notification.Recipient, _ notification.Payload) error {
	n.logger.Debugw("notification skipped, email disabled", "event", event, "to", to.Email)
	return nil
}
