package output

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/temirov/locus/internal/types"
)

const (
	markupBackslash   = '\\'
	markupOpenBracket = '['
)

// EscapeControl replaces control and invisible formatting runes with visible escapes
// so a file name cannot inject terminal sequences or reorder the surrounding text.
func EscapeControl(name string) string {
	needsEscaping := strings.IndexFunc(name, isUnsafeRune) >= 0
	if !needsEscaping {
		return name
	}
	var builder strings.Builder
	for _, character := range name {
		if !isUnsafeRune(character) {
			builder.WriteRune(character)
			continue
		}
		if character <= 0xff {
			fmt.Fprintf(&builder, `\x%02x`, character)
		} else {
			fmt.Fprintf(&builder, `\u%04x`, character)
		}
	}
	return builder.String()
}

// EscapeMarkup escapes opening brackets so names are never read as console markup tags.
// A backslash run in front of a bracket is doubled so it stays literal and cannot cancel
// the bracket escape. A trailing run is doubled too, because the renderer's own closing
// tag follows the name.
func EscapeMarkup(name string) string {
	if strings.IndexByte(name, markupOpenBracket) < 0 && !strings.HasSuffix(name, string(markupBackslash)) {
		return name
	}
	var builder strings.Builder
	pendingBackslashes := 0
	flushBackslashes := func(count int) {
		for index := 0; index < count; index++ {
			builder.WriteRune(markupBackslash)
		}
	}
	for _, character := range name {
		switch character {
		case markupBackslash:
			pendingBackslashes++
		case markupOpenBracket:
			flushBackslashes(pendingBackslashes * 2)
			pendingBackslashes = 0
			builder.WriteRune(markupBackslash)
			builder.WriteRune(markupOpenBracket)
		default:
			flushBackslashes(pendingBackslashes)
			pendingBackslashes = 0
			builder.WriteRune(character)
		}
	}
	flushBackslashes(pendingBackslashes * 2)
	return builder.String()
}

// SanitizerFor returns the label sanitizer matching an output format.
func SanitizerFor(format string) func(string) string {
	if format == types.FormatMarkup {
		return func(name string) string {
			return EscapeMarkup(EscapeControl(name))
		}
	}
	return EscapeControl
}

func isUnsafeRune(character rune) bool {
	return unicode.IsControl(character) || unicode.Is(unicode.Cf, character)
}
