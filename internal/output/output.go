// Package output renders synthesized trees as text, console markup, JSON, or XML.
// Renderers never traverse the filesystem and never modify the trees they receive.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/temirov/locus/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader      = xml.Header
	xmlResultsName = "results"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	invalidFormatMessage = "Invalid format value '%s'"
)

// lineFormatter turns a node into the text printed after its connector.
type lineFormatter func(node *types.TreeNode, isRoot bool) string

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatMarkup, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// Render produces the complete output document for the given roots.
func Render(format string, nodes []*types.TreeNode, style Style) (string, error) {
	switch format {
	case types.FormatJSON:
		return RenderTreeJSON(nodes)
	case types.FormatXML:
		return RenderTreeXML(nodes)
	case types.FormatRaw, types.FormatMarkup:
		var buffer bytes.Buffer
		for index, node := range nodes {
			if index > 0 {
				buffer.WriteString("\n")
			}
			if format == types.FormatMarkup {
				WriteTreeMarkup(&buffer, node)
			} else {
				WriteTreeRaw(&buffer, node, style)
			}
		}
		return buffer.String(), nil
	default:
		return "", fmt.Errorf(invalidFormatMessage, format)
	}
}

// RenderTreeJSON marshals one root as an object and several roots as an array.
func RenderTreeJSON(nodes []*types.TreeNode) (string, error) {
	if len(nodes) == 0 {
		return "[]", nil
	}
	var value interface{} = nodes
	if len(nodes) == 1 {
		value = nodes[0]
	}
	encoded, jsonEncodeError := json.MarshalIndent(value, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderTreeXML marshals one root as a node element and several roots inside a results element.
func RenderTreeXML(nodes []*types.TreeNode) (string, error) {
	var value interface{}
	if len(nodes) == 1 {
		value = nodes[0]
	} else {
		value = struct {
			XMLName xml.Name          `xml:""`
			Nodes   []*types.TreeNode `xml:"node"`
		}{
			XMLName: xml.Name{Local: xmlResultsName},
			Nodes:   nodes,
		}
	}
	encoded, xmlMarshalError := xml.MarshalIndent(value, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// WriteTreeRaw renders a tree with box-drawing connectors, colouring labels through style.
func WriteTreeRaw(writer io.Writer, node *types.TreeNode, style Style) {
	if node == nil {
		return
	}
	renderTreeNode(writer, node, "", true, true, func(current *types.TreeNode, isRoot bool) string {
		return style.Paint(current, isRoot)
	})
}

// WriteTreeMarkup renders a tree whose labels are wrapped in console markup tags.
// Labels must already be escaped with EscapeMarkup.
func WriteTreeMarkup(writer io.Writer, node *types.TreeNode) {
	if node == nil {
		return
	}
	renderTreeNode(writer, node, "", true, true, markupLine)
}

func markupLine(node *types.TreeNode, isRoot bool) string {
	switch node.Kind {
	case types.NodeKindDirectory:
		if isRoot {
			return "[bold blue]" + node.Label + "[/]"
		}
		return "[bold green]" + node.Label + "[/]"
	case types.NodeKindFile:
		return node.Name + " ([dim]" + node.Size + "[/])"
	case types.NodeKindAccessDenied:
		return "[red]" + node.Label + "[/]"
	case types.NodeKindTruncated:
		return "[dim italic]" + node.Label + "[/]"
	default:
		return node.Label
	}
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func renderTreeNode(writer io.Writer, node *types.TreeNode, prefix string, isRoot bool, isLast bool, formatLine lineFormatter) {
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	fmt.Fprintf(writer, "%s%s\n", linePrefix, formatLine(node, isRoot))
	for index, child := range node.Children {
		if child == nil {
			continue
		}
		renderTreeNode(writer, child, childPrefix, false, index == len(node.Children)-1, formatLine)
	}
}
