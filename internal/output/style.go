package output

import "github.com/temirov/locus/internal/types"

const (
	ansiReset     = "\x1b[0m"
	ansiBoldBlue  = "\x1b[1;34m"
	ansiBoldGreen = "\x1b[1;32m"
	ansiRed       = "\x1b[31m"
	ansiDim       = "\x1b[2m"
	ansiDimItalic = "\x1b[2;3m"
)

// Style decides whether raw output carries ANSI colours.
type Style struct {
	colored bool
}

// NewStyle returns a Style that colours output when colored is true.
func NewStyle(colored bool) Style {
	return Style{colored: colored}
}

// PlainStyle leaves labels untouched.
func PlainStyle() Style {
	return Style{}
}

// Colored reports whether the style emits escape sequences.
func (style Style) Colored() bool {
	return style.colored
}

// Paint returns the label of node, coloured according to its kind.
func (style Style) Paint(node *types.TreeNode, isRoot bool) string {
	if !style.colored {
		return node.Label
	}
	switch node.Kind {
	case types.NodeKindDirectory:
		if isRoot {
			return wrap(ansiBoldBlue, node.Label)
		}
		return wrap(ansiBoldGreen, node.Label)
	case types.NodeKindFile:
		if node.Size == "" {
			return node.Label
		}
		return node.Name + " (" + wrap(ansiDim, node.Size) + ")"
	case types.NodeKindAccessDenied:
		return wrap(ansiRed, node.Label)
	case types.NodeKindTruncated:
		return wrap(ansiDimItalic, node.Label)
	default:
		return node.Label
	}
}

func wrap(code string, text string) string {
	return code + text + ansiReset
}
