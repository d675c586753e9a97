package field

import (
	"strings"
	"unicode/utf8"

	"github.com/example/expander/internal/ports/secondary"
)

// Node is a node of a content tree. A node is a text leaf, a line break, or
// an element with children.
type Node struct {
	Text     string
	Break    bool
	Children []*Node
}

func (n *Node) isText() bool { return !n.Break && n.Children == nil }

// TextNode returns a text leaf.
func TextNode(text string) *Node { return &Node{Text: text} }

// BreakNode returns a line break.
func BreakNode() *Node { return &Node{Break: true} }

// Element returns an element node.
func Element(children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Children: children}
}

// ContentField is a rich editable region. Its text is the depth-first
// pre-order concatenation of text leaves, with line breaks rendered as "\n".
// Caret offsets count text leaf characters only; line breaks have no length.
type ContentField struct {
	listeners
	root          *Node
	caretNode     *Node
	caretOffset   int
	DispatchCount int
}

// NewContentField creates a content field over root with the caret at the end.
func NewContentField(root *Node) *ContentField {
	if root == nil {
		root = Element()
	}
	f := &ContentField{root: root}
	f.caretToEnd()
	return f
}

// NewContentFieldText creates a content field whose tree renders text.
func NewContentFieldText(text string) *ContentField {
	f := NewContentField(nil)
	f.SetText(text)
	return f
}

var _ secondary.Field = (*ContentField)(nil)

// Kind returns secondary.ContentFieldKind.
func (f *ContentField) Kind() secondary.FieldKind { return secondary.ContentFieldKind }

// Root returns the content tree.
func (f *ContentField) Root() *Node { return f.root }

// Text renders the tree, line breaks as "\n".
func (f *ContentField) Text() string {
	var b strings.Builder
	walk(f.root, func(n *Node) bool {
		switch {
		case n.Break:
			b.WriteByte('\n')
		case n.isText():
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}

// SetText replaces the children of the root with text leaves separated by
// line breaks, and moves the caret to the end.
func (f *ContentField) SetText(text string) {
	lines := strings.Split(text, "\n")
	children := make([]*Node, 0, len(lines)*2)
	for i, line := range lines {
		if i > 0 {
			children = append(children, BreakNode())
		}
		if line != "" {
			children = append(children, TextNode(line))
		}
	}
	f.root.Children = children
	f.caretToEnd()
}

// Cursor returns the caret offset counted over text leaves.
func (f *ContentField) Cursor() int {
	offset := 0
	walk(f.root, func(n *Node) bool {
		if !n.isText() {
			return true
		}
		if n == f.caretNode {
			offset += f.caretOffset
			return false
		}
		offset += utf8.RuneCountInString(n.Text)
		return true
	})
	return offset
}

// Caret returns the leaf holding the caret and the rune offset within it.
// The leaf is nil when the tree has no text.
func (f *ContentField) Caret() (*Node, int) { return f.caretNode, f.caretOffset }

// SetCursor walks the text leaves depth-first, accumulating lengths, and
// places the caret in the first leaf whose span contains offset. An offset
// on a leaf boundary lands at the start of the following leaf. Offsets past
// the end land at the end of the last leaf.
//
// Line breaks have no length, so the caret cannot rest on an empty line:
// an offset at a break lands at the start of the next text leaf, or at the
// end of the last one when no text follows.
func (f *ContentField) SetCursor(offset int) {
	acc := 0
	var last *Node
	placed := false
	walk(f.root, func(n *Node) bool {
		if !n.isText() {
			return true
		}
		length := utf8.RuneCountInString(n.Text)
		if offset < acc+length {
			f.caretNode = n
			f.caretOffset = max(offset-acc, 0)
			placed = true
			return false
		}
		acc += length
		last = n
		return true
	})
	if placed {
		return
	}
	f.caretNode = last
	if last != nil {
		f.caretOffset = utf8.RuneCountInString(last.Text)
	} else {
		f.caretOffset = 0
	}
}

// DispatchInput notifies input listeners.
func (f *ContentField) DispatchInput() {
	f.DispatchCount++
	f.listeners.DispatchInput()
}

// Type inserts s at the caret, as a keystroke would, and dispatches an
// input event. Text holding line breaks is appended through SetText.
func (f *ContentField) Type(s string) {
	switch {
	case strings.Contains(s, "\n"):
		f.SetText(f.Text() + s)
	case f.caretNode == nil:
		leaf := TextNode(s)
		f.root.Children = append(f.root.Children, leaf)
		f.caretNode = leaf
		f.caretOffset = utf8.RuneCountInString(s)
	default:
		runes := []rune(f.caretNode.Text)
		head := string(runes[:f.caretOffset])
		tail := string(runes[f.caretOffset:])
		f.caretNode.Text = head + s + tail
		f.caretOffset += utf8.RuneCountInString(s)
	}
	f.DispatchInput()
}

func (f *ContentField) caretToEnd() {
	f.caretNode = nil
	f.caretOffset = 0
	walk(f.root, func(n *Node) bool {
		if n.isText() {
			f.caretNode = n
		}
		return true
	})
	if f.caretNode != nil {
		f.caretOffset = utf8.RuneCountInString(f.caretNode.Text)
	}
}

// walk visits n and its descendants depth-first in pre-order until visit
// returns false.
func walk(n *Node, visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}
