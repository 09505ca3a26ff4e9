package render

import (
	"database/sql"
	"fmt"
	"html"
	"strings"

	"github.com/matheus3301/smsarchive/internal/store"
)

const (
	// PreviewLimit is the number of characters kept in a listing preview.
	PreviewLimit = 50

	PlaceholderNoMessages = "<i>No Messages</i>"
)

// ConversationFile names the page written for a contact.
func ConversationFile(contactID int64) string {
	return fmt.Sprintf("chat-%d.html", contactID)
}

// DirectoryRenderer renders the index listing.
type DirectoryRenderer struct {
	opts Options
}

// NewDirectoryRenderer creates a listing renderer.
func NewDirectoryRenderer(opts Options) *DirectoryRenderer {
	return &DirectoryRenderer{opts: opts}
}

// Render emits one entry per contact, in the given order, each linking to
// the contact's conversation page. previews maps contact id to the body of
// its last message; a missing or NULL entry shows PlaceholderNoMessages.
func (r *DirectoryRenderer) Render(contacts []store.Contact, previews map[int64]sql.NullString) string {
	var b strings.Builder
	for _, c := range contacts {
		address := c.Address
		if r.opts.EscapeHTML {
			address = html.EscapeString(address)
		}
		fmt.Fprintf(&b, `
<li>
            <a href="%s" role="button" style="color: black">
               <h3>%s - %s</h3>
               <p>%s</p>
            </a>
         </li>`, ConversationFile(c.ID), address, c.Channel, r.preview(previews[c.ID]))
	}
	return b.String()
}

func (r *DirectoryRenderer) preview(p sql.NullString) string {
	if !p.Valid {
		return PlaceholderNoMessages
	}
	s := Preview(p.String)
	if r.opts.EscapeHTML {
		return html.EscapeString(s)
	}
	return s
}

// Preview strips line breaks and truncates s to PreviewLimit characters,
// appending "..." when anything was cut.
func Preview(s string) string {
	s = strings.NewReplacer("\r", "", "\n", "").Replace(s)
	runes := []rune(s)
	if len(runes) <= PreviewLimit {
		return s
	}
	return string(runes[:PreviewLimit]) + "..."
}
