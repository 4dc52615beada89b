// Package types defines every cross‑package data structure used by the locus CLI.
package types

import "encoding/xml"

// NodeKind identifies what a TreeNode stands for.
type NodeKind string

const (
	NodeKindDirectory    NodeKind = "directory"
	NodeKindFile         NodeKind = "file"
	NodeKindAccessDenied NodeKind = "access_denied"
	NodeKindTruncated    NodeKind = "truncated"

	CommandTree = "tree"
	CommandInit = "init"

	FormatRaw    = "raw"
	FormatMarkup = "markup"
	FormatJSON   = "json"
	FormatXML    = "xml"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// TreeNode is one entry of a synthesized directory tree.
// Nodes are built once by the tree builder and must be treated as read-only afterwards.
type TreeNode struct {
	XMLName   xml.Name    `json:"-" xml:"node"`
	Label     string      `json:"label" xml:"label"`
	Kind      NodeKind    `json:"kind" xml:"kind,attr"`
	Name      string      `json:"name,omitempty" xml:"name,omitempty"`
	Path      string      `json:"path,omitempty" xml:"path,omitempty"`
	Size      string      `json:"size,omitempty" xml:"size,omitempty"`
	SizeBytes int64       `json:"sizeBytes,omitempty" xml:"sizeBytes,omitempty"`
	Omitted   int         `json:"omitted,omitempty" xml:"omitted,omitempty"`
	Children  []*TreeNode `json:"children,omitempty" xml:"children>node,omitempty"`
}

// IsLeaf reports whether the node can never carry children.
func (node *TreeNode) IsLeaf() bool {
	return node.Kind != NodeKindDirectory
}
