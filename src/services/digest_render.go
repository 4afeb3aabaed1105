package services

import (
	"fmt"
	"strings"

	"github.com/chapati23/morning-briefing/src/models"
	"github.com/chapati23/morning-briefing/src/security/validation"
)

// RenderHTML renders a section as a chat-ready HTML block (the subset of tags chat bot APIs
// accept). Every scraped string is escaped before it is embedded.
func RenderHTML(section *models.DigestSection) string {
	if section == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", validation.SanitizeText(section.Title))

	if len(section.Items) == 0 {
		fmt.Fprintf(&b, "<i>%s</i>\n", validation.SanitizeText(section.Message))
		return b.String()
	}

	for _, item := range section.Items {
		text := validation.SanitizeText(item.Text)
		if item.URL != "" {
			fmt.Fprintf(&b, "• <a href=\"%s\">%s</a>\n", validation.SanitizeText(item.URL), text)
		} else {
			fmt.Fprintf(&b, "• %s\n", text)
		}
		if item.Detail != "" {
			fmt.Fprintf(&b, "  <i>%s</i>\n", validation.SanitizeText(item.Detail))
		}
	}
	return b.String()
}

// RenderPlain renders a section as plain text for terminal output.
func RenderPlain(section *models.DigestSection) string {
	if section == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(section.Title + "\n")
	if len(section.Items) == 0 {
		b.WriteString("  " + section.Message + "\n")
		return b.String()
	}
	for _, item := range section.Items {
		b.WriteString("• " + item.Text + "\n")
		if item.Detail != "" {
			b.WriteString("  " + item.Detail + "\n")
		}
		if item.URL != "" {
			b.WriteString("  " + item.URL + "\n")
		}
	}
	return b.String()
}
