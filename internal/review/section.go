// Package review decides whether a merge-request description carries a fully
// signed-off reviewer checklist. It is pure: no I/O, no logging, no clients.
package review

import (
	"strings"

	"reviewgate/internal/markdown"
)

// ChecklistItem is one reviewer entry from the description's task list.
type ChecklistItem struct {
	Text    string
	Checked bool
}

// BoundaryRule decides whether a non-reviewer heading closes a reviewer
// section, given the depth the section was opened at and the depth of the
// heading under consideration.
type BoundaryRule func(sectionDepth, headingDepth int) bool

// CloseSameOrShallower ends the section at a heading of the same or shallower
// depth. A strictly deeper heading is a nested subsection and stays inside.
// This matches how markdown scopes sections by heading depth and is the
// default rule.
func CloseSameOrShallower(sectionDepth, headingDepth int) bool {
	return headingDepth <= sectionDepth
}

// CloseSameOrDeeper ends the section at a heading of the same or deeper
// depth. Kept as the named alternative to CloseSameOrShallower so the
// boundary behavior can be swapped without touching the scan.
func CloseSameOrDeeper(sectionDepth, headingDepth int) bool {
	return headingDepth >= sectionDepth
}

const sectionTitle = "reviewer"

// ChecklistItems scans the block stream in one forward pass and returns the
// checklist items inside the reviewer section, in document order. A later
// "Reviewer" heading re-opens the section at its own depth; items already
// collected are kept. Returns nil when no reviewer heading exists.
func ChecklistItems(doc []markdown.Block, rule BoundaryRule) []ChecklistItem {
	var items []ChecklistItem
	inSection := false
	sectionDepth := 0

	for _, b := range doc {
		switch b.Kind {
		case markdown.KindHeading:
			if strings.EqualFold(strings.TrimSpace(b.Text), sectionTitle) {
				inSection = true
				sectionDepth = b.Depth
				continue
			}
			if inSection && rule(sectionDepth, b.Depth) {
				inSection = false
				sectionDepth = 0
			}
		case markdown.KindChecklistItem:
			if inSection {
				items = append(items, ChecklistItem{Text: b.Text, Checked: b.Checked})
			}
		}
	}
	return items
}

// Approved reports whether every reviewer has checked their box. An empty
// item list is never approved. Order does not matter.
func Approved(items []ChecklistItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !it.Checked {
			return false
		}
	}
	return true
}
