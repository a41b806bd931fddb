// Package tree parses the bracketed constituency trees shipped with SNLI and MultiNLI.
package tree

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrSyntax is returned for unbalanced or empty bracketed strings.
var ErrSyntax = errors.New("tree: syntax error")

// Tree is a constituency tree node. A leaf carries a Word and no children.
type Tree struct {
	Label    string
	Word     string
	Children []*Tree
}

// IsLeaf reports whether t is a terminal.
func (t *Tree) IsLeaf() bool {
	return t != nil && len(t.Children) == 0 && t.Word != ""
}

// Leaves returns the words of t from left to right.
func (t *Tree) Leaves() []string {
	var out []string
	t.walk(func(n *Tree) {
		if n.IsLeaf() {
			out = append(out, n.Word)
		}
	})
	return out
}

func (t *Tree) walk(f func(*Tree)) {
	if t == nil {
		return
	}
	f(t)
	for _, c := range t.Children {
		c.walk(f)
	}
}

// String renders t in the bracketed notation accepted by Parse.
func (t *Tree) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Tree) write(sb *strings.Builder) {
	if t.IsLeaf() {
		sb.WriteString(t.Word)
		return
	}
	sb.WriteByte('(')
	if t.Label != "" {
		sb.WriteString(t.Label)
	}
	for _, c := range t.Children {
		sb.WriteByte(' ')
		c.write(sb)
	}
	sb.WriteString(" )")
}

// Parse reads a bracketed tree. Both the unlabeled binary parses, where an
// opening bracket is followed by whitespace, "( ( The cat ) ( sat ) )", and
// labeled parses, "(ROOT (S (NP (DT The) (NN cat))))", are accepted. A string
// without brackets becomes a single unlabeled node over its tokens.
func Parse(s string) (*Tree, error) {
	p := parser{src: s}
	p.skipSpace()
	if p.eof() {
		return nil, errors.Wrap(ErrSyntax, "empty input")
	}
	if p.peek() != '(' {
		root := &Tree{}
		for !p.eof() {
			if c := p.peek(); c == '(' || c == ')' {
				return nil, errors.Wrapf(ErrSyntax, "unexpected %q at %d", c, p.pos)
			}
			root.Children = append(root.Children, &Tree{Word: p.token()})
			p.skipSpace()
		}
		return root, nil
	}
	t, err := p.node()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, errors.Wrapf(ErrSyntax, "trailing input at %d", p.pos)
	}
	return t, nil
}

// MustParse is like Parse but panics on error. It is meant for literals in tests.
func MustParse(s string) *Tree {
	t, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return t
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool  { return p.pos >= len(p.src) }
func (p *parser) peek() byte { return p.src[p.pos] }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.peek()) {
		p.pos++
	}
}

func (p *parser) token() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if isSpace(c) || c == '(' || c == ')' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// node parses "(" [label] children ")" with p positioned at the bracket.
func (p *parser) node() (*Tree, error) {
	p.pos++
	t := &Tree{}
	if !p.eof() && !isSpace(p.peek()) && p.peek() != '(' && p.peek() != ')' {
		t.Label = p.token()
	}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, errors.Wrap(ErrSyntax, "unbalanced brackets")
		}
		switch p.peek() {
		case ')':
			p.pos++
			return t, nil
		case '(':
			c, err := p.node()
			if err != nil {
				return nil, err
			}
			t.Children = append(t.Children, c)
		default:
			t.Children = append(t.Children, &Tree{Word: p.token()})
		}
	}
}
