package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmlTemplate "html/template"
	"os"
	"path/filepath"
	textTemplate "text/template"
	"time"

	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

//go:embed templates/*.html templates/*.txt
var defaultTemplates embed.FS

var (
	ErrTemplateNotFound = errors.New("mail template not found")
	// ErrDelivery marks transport failures, which are worth retrying.
	ErrDelivery = errors.New("mail delivery failed")
)

type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Service struct {
	config        *config.MailConfig
	sender        Sender
	htmlTemplates *htmlTemplate.Template
	textTemplates *textTemplate.Template
	logger        *logging.Service
}

func NewService(cfg *config.MailConfig, logger *logging.Service) (*Service, error) {
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("MAIL_FROM_ADDRESS is required")
	}

	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(15 * time.Second),
	}
	switch cfg.Encryption {
	case "ssl":
		clientOpts = append(clientOpts, mail.WithSSL())
	case "none":
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.NoTLS))
	default:
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}
	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	logger.Info("mail service initialized",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("encryption", cfg.Encryption))
	return NewServiceWithSender(cfg, logger, client)
}

func NewServiceWithSender(cfg *config.MailConfig, logger *logging.Service, sender Sender) (*Service, error) {
	s := &Service{
		config: cfg,
		sender: sender,
		logger: logger.Named("mail"),
	}
	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load mail templates: %w", err)
	}
	return s, nil
}

// loadTemplates parses the embedded defaults, then any files in TemplatesDir,
// which replace defaults of the same name.
func (s *Service) loadTemplates() error {
	var err error
	s.htmlTemplates, err = htmlTemplate.ParseFS(defaultTemplates, "templates/*.html")
	if err != nil {
		return err
	}
	s.textTemplates, err = textTemplate.ParseFS(defaultTemplates, "templates/*.txt")
	if err != nil {
		return err
	}

	dir := s.config.TemplatesDir
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("templates directory: %w", err)
	}

	if matches, _ := filepath.Glob(filepath.Join(dir, "*.html")); len(matches) > 0 {
		if s.htmlTemplates, err = s.htmlTemplates.ParseFiles(matches...); err != nil {
			return err
		}
	}
	if matches, _ := filepath.Glob(filepath.Join(dir, "*.txt")); len(matches) > 0 {
		if s.textTemplates, err = s.textTemplates.ParseFiles(matches...); err != nil {
			return err
		}
	}

	s.logger.Info("loaded mail template overrides", zap.String("templates_dir", dir))
	return nil
}

func (s *Service) NewMessage() (*mail.Msg, error) {
	message := mail.NewMsg()
	var err error
	if s.config.FromName != "" {
		err = message.FromFormat(s.config.FromName, s.config.FromAddress)
	} else {
		err = message.From(s.config.FromAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set FROM address: %w", err)
	}
	return message, nil
}

func (s *Service) SendTemplate(ctx context.Context, templateName string, to []string, subject string, data map[string]any) error {
	message, err := s.NewMessage()
	if err != nil {
		return err
	}
	if err := message.To(to...); err != nil {
		return fmt.Errorf("failed to set TO addresses: %w", err)
	}
	message.Subject(subject)

	if err := s.render(templateName, data, message); err != nil {
		return err
	}

	start := time.Now()
	if err := s.sender.DialAndSendWithContext(ctx, message); err != nil {
		s.logger.Warn("failed to send email",
			zap.String("template", templateName),
			zap.Duration("attempt_duration", time.Since(start)),
			zap.Error(err))
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	s.logger.Info("email sent",
		zap.String("template", templateName),
		zap.Strings("recipients", to),
		zap.Duration("send_duration", time.Since(start)))
	return nil
}

func (s *Service) render(templateName string, data map[string]any, message *mail.Msg) error {
	rendered := false

	if tmpl := s.htmlTemplates.Lookup(templateName + ".html"); tmpl != nil {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("failed to execute HTML template %s: %w", templateName, err)
		}
		message.SetBodyString(mail.TypeTextHTML, buf.String())
		rendered = true
	}

	if tmpl := s.textTemplates.Lookup(templateName + ".txt"); tmpl != nil {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("failed to execute text template %s: %w", templateName, err)
		}
		if rendered {
			message.AddAlternativeString(mail.TypeTextPlain, buf.String())
		} else {
			message.SetBodyString(mail.TypeTextPlain, buf.String())
		}
		rendered = true
	}

	if !rendered {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}
	return nil
}
