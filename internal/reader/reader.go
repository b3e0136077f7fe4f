// Package reader implements the escher recursive descent reader. It turns
// source text into a sexp.Sexp: the implicit outer list of cells plus the
// type signatures bound to fun/action forms.
package reader

import (
	"fmt"

	"github.com/escher-lang/escher/internal/errors"
	"github.com/escher-lang/escher/internal/position"
	"github.com/escher-lang/escher/internal/sexp"
)

// DefaultMaxDepth bounds nesting when Options.MaxDepth is not set.
const DefaultMaxDepth = 1000

// Heads of the forms a signature may be attached to.
const (
	HeadFun    = "fun"
	HeadAction = "action"
)

// KeyFunc derives the key a signature is stored under from the form it
// annotates. The form is guaranteed to start with a fun or action Ident.
type KeyFunc func(form sexp.List) string

// HeadKey keys a signature by the head label of its form, so every
// signature lands under "fun" or "action".
func HeadKey(form sexp.List) string {
	head, _ := form.Head()
	return head.(sexp.Ident).Label
}

// NameKey keys a signature by the identifier following the head, as in
// (fun name ...). Forms without one fall back to HeadKey.
func NameKey(form sexp.List) string {
	if len(form.Elements) > 1 {
		if name, ok := form.Elements[1].(sexp.Ident); ok {
			return name.Label
		}
	}
	return HeadKey(form)
}

// Options controls a parse. The zero value is the lenient default.
type Options struct {
	// MaxDepth is the number of lists and signature blocks that may be open
	// at once; <= 0 means DefaultMaxDepth. Atoms do not count.
	MaxDepth int

	// Strict rejects lists left open at end of input and a ')' that closes
	// nothing, both of which are tolerated otherwise.
	Strict bool

	// AnySpaceEndsIdent ends identifiers at any Unicode space instead of only
	// at ' '. Off by default, so tabs and newlines stay inside identifiers.
	// Either way an identifier also ends at the ')' or '}' closing the
	// innermost open list or signature block.
	AnySpaceEndsIdent bool

	// KeyFunc picks the signature map key; nil means HeadKey.
	KeyFunc KeyFunc
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) keyFunc() KeyFunc {
	if o.KeyFunc == nil {
		return HeadKey
	}
	return o.KeyFunc
}

// ParseError is a reader failure at a source position. Span covers the
// whole offending construct when there is one, such as an unclosed list or a
// misplaced signature form; otherwise it is the zero Span.
type ParseError struct {
	Pos  position.Position
	Span position.Span
	Err  *errors.StandardError
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos.String(), e.Err.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads source as if it were wrapped in one outer pair of parentheses.
func Parse(source string) (*sexp.Sexp, error) {
	return ParseFile("", source, Options{})
}

// ParseWithOptions is Parse with explicit options.
func ParseWithOptions(source string, opts Options) (*sexp.Sexp, error) {
	return ParseFile("", source, opts)
}

// ParseFile is ParseWithOptions with a filename recorded in error positions.
func ParseFile(filename, source string, opts Options) (*sexp.Sexp, error) {
	p := newParser(filename, source, opts)

	root, err := p.readRoot()
	if err != nil {
		return nil, err
	}

	return &sexp.Sexp{
		Root:       root,
		Signatures: p.signatures,
		Leftover:   p.leftover,
	}, nil
}

// ReadCell reads exactly one cell from the start of source, with no implicit
// outer list, and returns the text that follows it.
func ReadCell(source string, opts Options) (sexp.Cell, string, map[string]sexp.TypeSignature, error) {
	p := newParser("", source, opts)

	cell, err := p.readCell()
	if err != nil {
		return nil, "", nil, err
	}
	return cell, p.buf[p.pos:], p.signatures, nil
}
