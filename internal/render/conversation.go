// Package render turns the normalized message model into HTML fragments and pages.
//
// Message bodies and addresses are inserted verbatim unless EscapeHTML is set,
// so the default output matches the historical archives byte for byte.
package render

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/matheus3301/smsarchive/internal/attachment"
	"github.com/matheus3301/smsarchive/internal/store"
)

// DateLayout labels the date separators, e.g. "Mon 06 Jan 2020".
const DateLayout = "Mon 02 Jan 2006"

// Placeholders substituted for attachments that cannot be linked.
const (
	PlaceholderAttachment        = "<i>Attachment</i>"
	PlaceholderUnknownAttachment = "<i>Unknown attachment</i>"
	PlaceholderMissingAttachment = "<i>Attachment not found</i>"
)

// AttachmentSource looks up a message's primary attachment.
type AttachmentSource interface {
	Attachment(messageID int64) (att store.Attachment, ok bool, err error)
}

// Options configures both renderers.
type Options struct {
	// Resolver reroots attachment paths. Nil means no attachments directory
	// was given and every attachment renders as a generic placeholder.
	Resolver   *attachment.Resolver
	EscapeHTML bool
}

// Stats counts what a conversation render did with attachments.
type Stats struct {
	Messages           int
	Attachments        int
	AttachmentFailures int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Messages += other.Messages
	s.Attachments += other.Attachments
	s.AttachmentFailures += other.AttachmentFailures
}

// ConversationRenderer renders one conversation as a sequence of bubbles
// grouped under date separators.
type ConversationRenderer struct {
	attachments AttachmentSource
	opts        Options
}

// NewConversationRenderer creates a renderer. It holds no per-conversation
// state and is safe for concurrent use if src is.
func NewConversationRenderer(src AttachmentSource, opts Options) *ConversationRenderer {
	return &ConversationRenderer{attachments: src, opts: opts}
}

// RenderPage renders the conversation with c and fills the chat template,
// titling the page with c's address.
func (r *ConversationRenderer) RenderPage(tmpl string, c store.Contact, msgs []*store.Message) (string, Stats, error) {
	chat, stats, err := r.Render(msgs)
	if err != nil {
		return "", stats, fmt.Errorf("conversation %d (%s): %w", c.ID, c.Address, err)
	}
	return ConversationPage(tmpl, r.escape(c.Address), chat), stats, nil
}

// Render emits msgs in order. A date separator precedes the first message
// of every new UTC calendar day.
func (r *ConversationRenderer) Render(msgs []*store.Message) (string, Stats, error) {
	var (
		b     strings.Builder
		stats Stats
		last  string
	)
	for _, m := range msgs {
		day := m.Timestamp.UTC().Format(DateLayout)
		if day != last {
			fmt.Fprintf(&b, `<p class="date">%s</p>`, day)
			last = day
		}

		content, att, err := r.content(m)
		if err != nil {
			return "", stats, err
		}
		stats.Messages++
		switch att {
		case attRendered:
			stats.Attachments++
		case attFailed:
			stats.Attachments++
			stats.AttachmentFailures++
		}

		fmt.Fprintf(&b, `<p class="%s">%s</p>`, bubbleClass(m), content)
	}
	return b.String(), stats, nil
}

// bubbleClass selects the bubble style for (channel, direction).
func bubbleClass(m *store.Message) string {
	side := "to-me"
	if m.Outgoing() {
		side = "from-me"
	}
	return m.Channel.CSSName() + "-" + side + " last"
}

type attOutcome int

const (
	attNone attOutcome = iota
	attRendered
	attFailed
)

func (r *ConversationRenderer) content(m *store.Message) (string, attOutcome, error) {
	att, ok, err := r.attachments.Attachment(m.ID)
	if err != nil {
		return "", attNone, fmt.Errorf("message %d: %w", m.ID, err)
	}
	if !ok {
		return r.escape(m.Body.String), attNone, nil
	}
	if r.opts.Resolver == nil {
		return PlaceholderAttachment, attRendered, nil
	}
	if !att.Path.Valid {
		return PlaceholderUnknownAttachment, attRendered, nil
	}

	p, err := r.opts.Resolver.Resolve(att.Path.String)
	if errors.Is(err, attachment.ErrInvalidPath) {
		return PlaceholderMissingAttachment, attFailed, nil
	}
	if err != nil {
		return "", attNone, err
	}
	p = r.escape(p)

	switch attachment.Classify(att.MIME.String) {
	case attachment.KindImage:
		return fmt.Sprintf(`<a href="%[1]s" target="_blank"> <img class="sent_image" src="%[1]s"/> </a>`, p), attRendered, nil
	case attachment.KindAudio:
		return fmt.Sprintf(`<audio controls src="%s"> Your browser does not support the <code>audio</code> element. </audio>`, p), attRendered, nil
	case attachment.KindVideo:
		return fmt.Sprintf(`<video controls class="sent_video"><source src="%s"></source>Your browser does not support the <code>video</code> element.</video>`, p), attRendered, nil
	default:
		return fmt.Sprintf(`<a href="%s" target="_blank"><i>Attachment</i></a>`, p), attRendered, nil
	}
}

func (r *ConversationRenderer) escape(s string) string {
	if r.opts.EscapeHTML {
		return html.EscapeString(s)
	}
	return s
}
