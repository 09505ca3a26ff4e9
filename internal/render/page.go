package render

import (
	"sort"
	"strings"
)

// Substitution points of the page templates.
const (
	FieldHandle = "HANDLE"
	FieldChat   = "CHAT"
	FieldChoice = "CHOICE"
)

// Page fills a template. Fields are written as {NAME}; literal braces are
// written doubled ({{ and }}), so stylesheets inlined in a template survive.
func Page(tmpl string, fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := []string{"{{", "{", "}}", "}"}
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", fields[name])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// ConversationPage fills the conversation template.
func ConversationPage(tmpl, handle, chat string) string {
	return Page(tmpl, map[string]string{FieldHandle: handle, FieldChat: chat})
}

// IndexPage fills the index template.
func IndexPage(tmpl, choice string) string {
	return Page(tmpl, map[string]string{FieldChoice: choice})
}
