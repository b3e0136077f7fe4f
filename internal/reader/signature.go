package reader

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/escher-lang/escher/internal/errors"
	"github.com/escher-lang/escher/internal/sexp"
)

// readSignature reads the labels of a {...} block up to the closing '}',
// which it consumes. End of input ends the block. The cursor sits just past
// the '{' found at open.
func (p *parser) readSignature(open int) (sexp.TypeSignature, error) {
	leave, err := p.enter(open, '}')
	if err != nil {
		return sexp.TypeSignature{}, err
	}
	defer leave()

	var sig sexp.TypeSignature
	for {
		p.skipSpace()
		if p.eof() {
			return sig, nil
		}
		if p.peek() == '}' {
			p.pos++
			return sig, nil
		}

		start := p.pos
		cell, err := p.readCell()
		if err != nil {
			return sexp.TypeSignature{}, err
		}
		ident, ok := cell.(sexp.Ident)
		if !ok {
			return sexp.TypeSignature{}, p.errorSpan(start, p.pos, errors.ExpectedLabel(describeCell(cell)))
		}
		sig.Add(ident.Label)
	}
}

// readSignatureForm reads a signature block and the fun/action form it
// annotates, and binds the signature. The cursor sits just past the '{'
// found at open.
func (p *parser) readSignatureForm(open int) (sexp.List, error) {
	sig, err := p.readSignature(open)
	if err != nil {
		return sexp.List{}, err
	}

	p.skipSpace()
	formStart := p.pos
	if p.eof() || p.peek() != '(' {
		return sexp.List{}, p.errorAt(formStart, errors.SignaturePlacement(p.describeNext()))
	}
	p.pos++

	form, err := p.readList(formStart)
	if err != nil {
		return sexp.List{}, err
	}
	if !isBindingForm(form) {
		return sexp.List{}, p.errorSpan(formStart, p.pos, errors.SignaturePlacement(describeCell(form)))
	}

	p.signatures[p.opts.keyFunc()(form)] = sig
	return form, nil
}

func isBindingForm(form sexp.List) bool {
	head, ok := form.Head()
	if !ok {
		return false
	}
	ident, ok := head.(sexp.Ident)
	return ok && (ident.Label == HeadFun || ident.Label == HeadAction)
}

const maxDescribeLen = 24

func describeCell(c sexp.Cell) string {
	return fmt.Sprintf("%s %s", c.Kind(), truncate(c.String()))
}

// describeNext names the text at the cursor for error messages.
func (p *parser) describeNext() string {
	if p.eof() {
		return "end of input"
	}
	next := p.buf[p.pos:]
	if i := strings.IndexAny(next, " \t\r\n"); i >= 0 {
		next = next[:i]
	}
	return fmt.Sprintf("%q", truncate(next))
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxDescribeLen {
		return s
	}
	return string([]rune(s)[:maxDescribeLen]) + "..."
}
