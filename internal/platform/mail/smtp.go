package mail

import (
	"bytes"
	"context"
	"errors"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"github.com/hms/hms/pkg/apperr"
)

// SMTPConfig holds SMTP delivery settings. Credentials are optional; when
// present the sender authenticates before submitting.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromAddress string
}

// SMTPSender delivers messages over SMTP with mandatory STARTTLS.
type SMTPSender struct {
	cfg    SMTPConfig
	logger zerolog.Logger
}

func NewSMTPSender(cfg SMTPConfig, logger zerolog.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger}
}

func (s *SMTPSender) Send(ctx context.Context, m *Message) error {
	if s.cfg.Host == "" || s.cfg.FromAddress == "" {
		return apperr.Wrap(apperr.KindMailConfig, nil,
			"smtp host and from address must be configured for email delivery")
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.FromAddress); err != nil {
		return apperr.Wrap(apperr.KindMailConfig, err, "invalid from address")
	}
	if err := msg.AddToFormat(m.ToName, m.ToEmail); err != nil {
		return apperr.Validationf("invalid recipient address %q", m.ToEmail)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, m.HTMLBody)
	if len(m.Attachment) > 0 {
		if err := msg.AttachReader(m.AttachmentName, bytes.NewReader(m.Attachment)); err != nil {
			return apperr.Wrap(apperr.KindMailSend, err, "attach prescription pdf")
		}
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	hasAuth := s.cfg.Username != "" && s.cfg.Password != ""
	if hasAuth {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return apperr.Wrap(apperr.KindMailConfig, err, "configure smtp client")
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		if !hasAuth && isAuthRequiredErr(err) {
			return apperr.Wrap(apperr.KindMailConfig, err,
				"smtp server requires authentication but no credentials are configured")
		}
		s.logger.Error().Err(err).
			Str("to", m.ToEmail).
			Str("subject", m.Subject).
			Msg("email delivery failed")
		return apperr.Wrap(apperr.KindMailSend, err, "send email to "+m.ToEmail)
	}

	s.logger.Info().
		Str("to", m.ToEmail).
		Str("subject", m.Subject).
		Msg("email sent")
	return nil
}

// isAuthRequiredErr reports whether the server rejected the submission for
// lack of authentication (RFC 4954 530/534/535 replies).
func isAuthRequiredErr(err error) bool {
	switch smtpReplyCode(err) {
	case 530, 534, 535:
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "authentication required")
}

// smtpReplyCode extracts the server's 3-digit reply code from err, or 0 when
// none is present. The code must lead a message segment; digits embedded in
// addresses or queue ids do not count.
func smtpReplyCode(err error) int {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return tpErr.Code
	}
	for _, part := range strings.Split(err.Error(), ": ") {
		if len(part) < 3 {
			continue
		}
		if len(part) > 3 {
			sep := part[3]
			if sep != ' ' && sep != '-' {
				continue
			}
		}
		code, convErr := strconv.Atoi(part[:3])
		if convErr == nil && code >= 200 && code < 600 {
			return code
		}
	}
	return 0
}
