package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/temirov/locus/internal/output"
	"github.com/temirov/locus/internal/types"
)

func TestEscapeControl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain name", input: "main.go", expected: "main.go"},
		{name: "unicode name", input: "résumé.pdf", expected: "résumé.pdf"},
		{name: "escape sequence", input: "evil\x1b[31m.txt", expected: `evil\x1b[31m.txt`},
		{name: "newline", input: "two\nlines", expected: `two\x0alines`},
		{name: "bidi override", input: "gnp.\u202eexe", expected: `gnp.\u202eexe`},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := output.EscapeControl(testCase.input); actual != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}

func TestSanitizerFor(t *testing.T) {
	testCases := []struct {
		name     string
		format   string
		input    string
		expected string
	}{
		{name: "markup escapes brackets", format: types.FormatMarkup, input: "[bold]x\x07", expected: `\[bold]x\x07`},
		{name: "raw keeps brackets", format: types.FormatRaw, input: "[bold]x\x07", expected: `[bold]x\x07`},
		{name: "json escapes control only", format: types.FormatJSON, input: "a\tb", expected: `a\x09b`},
		{name: "markup doubles trailing backslash", format: types.FormatMarkup, input: `dir\`, expected: `dir\\`},
		{name: "markup keeps escaped bracket literal", format: types.FormatMarkup, input: `x\[b]`, expected: `x\\\[b]`},
		{name: "raw keeps backslashes", format: types.FormatRaw, input: `x\[b]`, expected: `x\[b]`},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			sanitize := output.SanitizerFor(testCase.format)
			if actual := sanitize(testCase.input); actual != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}

func TestEscapeMarkup(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "main.go", expected: "main.go"},
		{name: "tags", input: "[red]alert[/]", expected: `\[red]alert\[/]`},
		{name: "inner backslash", input: `back\slash`, expected: `back\slash`},
		{name: "trailing backslash", input: `dir\`, expected: `dir\\`},
		{name: "trailing backslash pair", input: `dir\\`, expected: `dir\\\\`},
		{name: "backslash before bracket", input: `x\[b]`, expected: `x\\\[b]`},
		{name: "two backslashes before bracket", input: `x\\[b]`, expected: `x\\\\\[b]`},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := output.EscapeMarkup(testCase.input); actual != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}

// liveMarkupTags returns the tags a bracket-markup parser would act on. A bracket preceded
// by an odd number of backslashes is literal.
func liveMarkupTags(line string) []string {
	var tags []string
	for index := 0; index < len(line); index++ {
		if line[index] != '[' {
			continue
		}
		backslashes := 0
		for cursor := index - 1; cursor >= 0 && line[cursor] == '\\'; cursor-- {
			backslashes++
		}
		closing := strings.IndexByte(line[index:], ']')
		if backslashes%2 == 1 || closing < 0 {
			continue
		}
		tags = append(tags, line[index:index+closing+1])
	}
	return tags
}

func TestMarkupLabelsCannotAlterTags(t *testing.T) {
	allowedTags := map[string]struct{}{
		"[bold blue]": {}, "[bold green]": {}, "[dim]": {}, "[red]": {}, "[dim italic]": {}, "[/]": {},
	}
	hostileNames := []string{`dir\`, `x\[b]`, `x\\[b]`, `[red]`, `a\\\`, "tab\t[i]"}
	sanitize := output.SanitizerFor(types.FormatMarkup)

	for _, hostileName := range hostileNames {
		t.Run(hostileName, func(t *testing.T) {
			label := sanitize(hostileName)
			tree := &types.TreeNode{
				Label: "root",
				Kind:  types.NodeKindDirectory,
				Children: []*types.TreeNode{
					{Label: label, Kind: types.NodeKindDirectory, Name: label},
					{Label: label + " (1 byte)", Kind: types.NodeKindFile, Name: label, Size: "1 byte"},
				},
			}
			var buffer bytes.Buffer
			output.WriteTreeMarkup(&buffer, tree)
			for _, line := range strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n") {
				tags := liveMarkupTags(line)
				for _, tag := range tags {
					if _, allowed := allowedTags[tag]; !allowed {
						t.Fatalf("name %q produced live tag %q in %q", hostileName, tag, line)
					}
				}
				if len(tags)%2 != 0 {
					t.Fatalf("name %q left an unbalanced tag in %q", hostileName, line)
				}
			}
		})
	}
}
