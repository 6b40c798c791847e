package mail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/pkg/apperr"
)

// FileSender is the non-delivery mode: instead of contacting an SMTP
// server it writes each message to a timestamped artifact file so the
// content can be inspected.
type FileSender struct {
	dir    string
	now    func() time.Time
	logger zerolog.Logger
}

func NewFileSender(dir string, logger zerolog.Logger) *FileSender {
	return &FileSender{dir: dir, now: time.Now, logger: logger}
}

func (s *FileSender) Send(ctx context.Context, m *Message) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return apperr.Wrap(apperr.KindMailConfig, err, "create email log directory")
	}

	name := fmt.Sprintf("email_%s_%s.log",
		s.now().Format("20060102_150405"),
		uuid.NewString()[:8])
	path := filepath.Join(s.dir, name)

	content := fmt.Sprintf("To: %s <%s>\nSubject: %s\nAttachment: %s (%d bytes)\nDate: %s\n\n%s\n",
		m.ToName, m.ToEmail,
		m.Subject,
		m.AttachmentName, len(m.Attachment),
		s.now().Format(time.RFC3339),
		m.HTMLBody)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return apperr.Wrap(apperr.KindMailSend, err, "write email artifact")
	}

	s.logger.Info().
		Str("to", m.ToEmail).
		Str("subject", m.Subject).
		Str("artifact", path).
		Msg("email written to log artifact")
	return nil
}
