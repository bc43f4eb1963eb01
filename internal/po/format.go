// Package po renders gettext catalogs: the template (.pot) and one
// catalog (.po) per language.
package po

import (
	"fmt"
	"strings"
)

// Metadata is the project information written into every preamble.
type Metadata struct {
	ProjectName string
}

// Escape replaces every double quote with \". Nothing else is escaped, so
// newlines and backslashes pass through untouched.
func Escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// FormatMessage renders one msgid/msgstr block followed by a blank line.
func FormatMessage(id, str string) string {
	return fmt.Sprintf("msgid \"%s\"\nmsgstr \"%s\"\n\n", Escape(id), Escape(str))
}

// TemplateHeader renders the preamble of template.pot.
func TemplateHeader(meta Metadata) string {
	var s strings.Builder

	s.WriteString("msgid \"\"\nmsgstr \"\"\n")
	fmt.Fprintf(&s, "\"Project-Id-Version: %s\\n\"\n", meta.ProjectName)
	writeContentFields(&s)

	return s.String()
}

// LanguageHeader renders the preamble of the catalog for lang.
func LanguageHeader(meta Metadata, lang string) string {
	var s strings.Builder

	s.WriteString("msgid \"\"\nmsgstr \"\"\n")
	fmt.Fprintf(&s, "\"Project-Id-Version: %s\\n\"\n", meta.ProjectName)
	s.WriteString("\"Language-Team: \\n\"\n")
	fmt.Fprintf(&s, "\"Language: %s\\n\"\n", lang)
	s.WriteString("\"Last-Translator: \\n\"\n")
	s.WriteString("\"PO-Revision-Date: \\n\"\n")
	writeContentFields(&s)

	return s.String()
}

func writeContentFields(s *strings.Builder) {
	s.WriteString("\"MIME-Version: 1.0\\n\"\n")
	s.WriteString("\"Content-Type: text/plain; charset=UTF-8\\n\"\n")
	s.WriteString("\"Content-Transfer-Encoding: 8bit\\n\"\n\n")
}
