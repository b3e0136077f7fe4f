package reader

import (
	"unicode"
	"unicode/utf8"

	"github.com/escher-lang/escher/internal/errors"
	"github.com/escher-lang/escher/internal/position"
	"github.com/escher-lang/escher/internal/sexp"
)

// parser is the state of one parse: a cursor over an immutable buffer, the
// current nesting depth and the signatures bound so far. closer is the byte
// that ends the innermost open list or signature block.
type parser struct {
	filename string
	buf      string
	pos      int
	depth    int
	closer   byte
	opts     Options

	signatures map[string]sexp.TypeSignature
	leftover   string
}

func newParser(filename, source string, opts Options) *parser {
	return &parser{
		filename:   filename,
		buf:        source,
		closer:     ')',
		opts:       opts,
		signatures: make(map[string]sexp.TypeSignature),
	}
}

// leadClass is the category of the first non-space character of a cell.
type leadClass int

const (
	leadEnd leadClass = iota
	leadSignature
	leadList
	leadString
	leadDigit
	leadClose
	leadIdent
)

// classifyLead classifies c at the start of a cell. Only the closer of the
// innermost open construct counts as a closing delimiter there.
func classifyLead(c, closer byte) leadClass {
	switch {
	case c == '{':
		return leadSignature
	case c == '(':
		return leadList
	case c == '"':
		return leadString
	case c >= '0' && c <= '9':
		return leadDigit
	case c == closer:
		return leadClose
	default:
		return leadIdent
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.buf)
}

func (p *parser) peek() byte {
	return p.buf[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.buf) {
		r, size := utf8.DecodeRuneInString(p.buf[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *parser) errorAt(offset int, err *errors.StandardError) error {
	sf := position.NewSourceFile(p.filename, p.buf)
	return &ParseError{Pos: sf.PositionFromOffset(offset), Err: err}
}

// errorSpan reports err for the construct occupying buf[start:end].
func (p *parser) errorSpan(start, end int, err *errors.StandardError) error {
	sf := position.NewSourceFile(p.filename, p.buf)
	span := sf.SpanFromOffsets(start, end)
	return &ParseError{Pos: span.Start, Span: span, Err: err}
}

// enter opens a list or signature block found at open, whose contents end at
// closer. The returned function restores the enclosing state.
func (p *parser) enter(open int, closer byte) (func(), error) {
	saved := p.closer
	p.depth++
	p.closer = closer
	leave := func() {
		p.depth--
		p.closer = saved
	}
	if p.depth > p.opts.maxDepth() {
		leave()
		return nil, p.errorAt(open, errors.ExcessiveNesting(p.opts.maxDepth()))
	}
	return leave, nil
}

// readCell skips leading space and dispatches on the next character.
func (p *parser) readCell() (sexp.Cell, error) {
	p.skipSpace()

	if p.eof() {
		return nil, p.errorAt(p.pos, errors.UnexpectedEnd())
	}

	start := p.pos
	switch classifyLead(p.peek(), p.closer) {
	case leadSignature:
		p.pos++
		return p.readSignatureForm(start)
	case leadList:
		p.pos++
		return p.readList(start)
	case leadString:
		p.pos++
		return p.readString(start)
	case leadDigit:
		return p.readInt(), nil
	case leadClose:
		return nil, p.errorAt(start, errors.UnbalancedDelimiter(p.peek()))
	case leadIdent:
		return p.readIdent(), nil
	default:
		return nil, p.errorAt(start, errors.UnexpectedEnd())
	}
}

// readList reads cells up to the matching ')', which it consumes. The cursor
// sits just past the '(' found at open. End of input closes the list unless
// the parse is strict.
func (p *parser) readList(open int) (sexp.List, error) {
	leave, err := p.enter(open, ')')
	if err != nil {
		return sexp.List{}, err
	}
	defer leave()

	list := sexp.NewList()
	for {
		p.skipSpace()
		if p.eof() {
			if p.opts.Strict {
				return sexp.List{}, p.errorSpan(open, p.pos, errors.UnterminatedList())
			}
			return list, nil
		}
		if p.peek() == ')' {
			p.pos++
			return list, nil
		}

		cell, err := p.readCell()
		if err != nil {
			return sexp.List{}, err
		}
		list.Elements = append(list.Elements, cell)
	}
}

// readRoot reads the implicit outer list around the whole source. It ends at
// end of input, or at a ')' that closes nothing; the text from that ')' on is
// kept as leftover.
func (p *parser) readRoot() (sexp.List, error) {
	root := sexp.NewList()
	for {
		p.skipSpace()
		if p.eof() {
			return root, nil
		}
		if p.peek() == ')' {
			if p.opts.Strict {
				return sexp.List{}, p.errorAt(p.pos, errors.UnbalancedDelimiter(')'))
			}
			p.leftover = p.buf[p.pos:]
			return root, nil
		}

		cell, err := p.readCell()
		if err != nil {
			return sexp.List{}, err
		}
		root.Elements = append(root.Elements, cell)
	}
}
