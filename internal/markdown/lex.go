package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Kind identifies the block kinds the reviewer scan cares about. Everything
// else in the source document (paragraphs, code blocks, plain list items) is
// omitted from the stream.
type Kind int

const (
	KindHeading Kind = iota
	KindChecklistItem
)

// Block is one entry in the flat, ordered stream produced by Lex.
// Depth is set only for headings; Checked only for checklist items.
type Block struct {
	Kind    Kind
	Text    string
	Depth   int
	Checked bool
}

// Lex parses src as markdown and flattens the AST into an ordered block
// stream. Task-list items (`- [ ]` / `- [x]`) become checklist blocks at any
// nesting level; list items without a checkbox are skipped.
func Lex(src []byte) []Block {
	md := goldmark.New(goldmark.WithExtensions(extension.TaskList))
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []Block
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			blocks = append(blocks, Block{
				Kind:  KindHeading,
				Text:  strings.TrimSpace(string(node.Text(src))),
				Depth: node.Level,
			})
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if b, ok := taskItem(node, src); ok {
				blocks = append(blocks, b)
			}
			// Keep walking: a task item may carry a nested list of its own.
		}
		return ast.WalkContinue, nil
	})
	return blocks
}

// taskItem converts a list item into a checklist block if its first inline is
// a task checkbox. The item text is everything after the checkbox in the same
// line block, nested content excluded.
func taskItem(item *ast.ListItem, src []byte) (Block, bool) {
	first := item.FirstChild()
	if first == nil {
		return Block{}, false
	}
	cb, ok := first.FirstChild().(*east.TaskCheckBox)
	if !ok {
		return Block{}, false
	}

	var sb strings.Builder
	for c := cb.NextSibling(); c != nil; c = c.NextSibling() {
		sb.Write(c.Text(src))
	}
	return Block{
		Kind:    KindChecklistItem,
		Text:    strings.TrimSpace(sb.String()),
		Checked: cb.IsChecked,
	}, true
}
