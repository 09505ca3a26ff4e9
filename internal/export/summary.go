package export

import (
	"time"

	"go.uber.org/zap"
)

// Summary describes a finished run. It is also the payload of EventFinished.
type Summary struct {
	Output             string
	Contacts           int
	Conversations      int
	Messages           int
	Orphaned           int
	Attachments        int
	AttachmentFailures int
	AttachmentsCopied  int
	MalformedAccounts  int
	MissingStatic      []string
	Duration           time.Duration
}

// Fields returns the summary as structured log fields.
func (s Summary) Fields() []zap.Field {
	fields := []zap.Field{
		zap.String("output", s.Output),
		zap.Int("contacts", s.Contacts),
		zap.Int("conversations", s.Conversations),
		zap.Int("messages", s.Messages),
		zap.Int("orphaned", s.Orphaned),
		zap.Int("attachments", s.Attachments),
		zap.Int("attachment_failures", s.AttachmentFailures),
		zap.Int("malformed_accounts", s.MalformedAccounts),
		zap.Duration("duration", s.Duration),
	}
	if s.AttachmentsCopied > 0 {
		fields = append(fields, zap.Int("attachments_copied", s.AttachmentsCopied))
	}
	if len(s.MissingStatic) > 0 {
		fields = append(fields, zap.Strings("missing_static", s.MissingStatic))
	}
	return fields
}
