package reader

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/escher-lang/escher/internal/errors"
	"github.com/escher-lang/escher/internal/sexp"
)

// readInt consumes the run of decimal digits at the cursor. The caller has
// already seen at least one digit.
func (p *parser) readInt() sexp.Int {
	start := p.pos
	for p.pos < len(p.buf) && p.buf[p.pos] >= '0' && p.buf[p.pos] <= '9' {
		p.pos++
	}
	n, _ := sexp.ParseInt(p.buf[start:p.pos])
	return n
}

// readIdent consumes up to the next ' ' or the closer of the innermost open
// list or signature block. Other whitespace belongs to the identifier unless
// AnySpaceEndsIdent is set.
func (p *parser) readIdent() sexp.Ident {
	start := p.pos
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		if c == ' ' || c == p.closer {
			break
		}
		if c < utf8.RuneSelf {
			if p.opts.AnySpaceEndsIdent && unicode.IsSpace(rune(c)) {
				break
			}
			p.pos++
			continue
		}
		r, size := utf8.DecodeRuneInString(p.buf[p.pos:])
		if p.opts.AnySpaceEndsIdent && unicode.IsSpace(r) {
			break
		}
		p.pos += size
	}
	return sexp.Ident{Label: p.buf[start:p.pos]}
}

// readString consumes up to and including the closing '"'. The cursor sits
// just past the opening quote found at open.
func (p *parser) readString(open int) (sexp.Str, error) {
	end := strings.IndexByte(p.buf[p.pos:], '"')
	if end < 0 {
		return sexp.Str{}, p.errorSpan(open, len(p.buf), errors.UnterminatedString())
	}
	text := p.buf[p.pos : p.pos+end]
	p.pos += end + 1
	return sexp.Str{Text: text}, nil
}
