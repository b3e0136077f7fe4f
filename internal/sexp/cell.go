// Package sexp defines the typed tree produced by the escher reader: Cells,
// the signatures attached to fun/action forms, and the Sexp that bundles them.
package sexp

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/nukata/goarith"
)

// Kind discriminates the Cell variants.
type Kind int

const (
	KindInt Kind = iota
	KindIdent
	KindStr
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindIdent:
		return "ident"
	case KindStr:
		return "str"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Cell is a node of the tree. The set of implementations is closed: Int,
// Ident, Str and List.
type Cell interface {
	Kind() Kind
	String() string

	isCell()
}

// Int is a non-negative decimal literal. Value promotes to a big integer when
// it does not fit a machine word, so it never wraps.
type Int struct {
	Value goarith.Number
}

// Ident is a bare label such as fun or Int.
type Ident struct {
	Label string
}

// Str is the text between a pair of double quotes.
type Str struct {
	Text string
}

// List is a parenthesized sequence of cells in source order.
type List struct {
	Elements []Cell
}

func (Int) isCell()   {}
func (Ident) isCell() {}
func (Str) isCell()   {}
func (List) isCell()  {}

func (Int) Kind() Kind   { return KindInt }
func (Ident) Kind() Kind { return KindIdent }
func (Str) Kind() Kind   { return KindStr }
func (List) Kind() Kind  { return KindList }

// NewInt returns an Int holding v.
func NewInt(v uint64) Int {
	return Int{Value: goarith.AsNumber(new(big.Int).SetUint64(v))}
}

// ParseInt converts a run of decimal digits to an Int. It reports false when
// digits is empty or holds anything but 0-9.
func ParseInt(digits string) (Int, bool) {
	if digits == "" {
		return Int{}, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Int{}, false
		}
	}
	z, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Int{}, false
	}
	return Int{Value: goarith.AsNumber(z)}, true
}

// NewList returns a List of the given cells. A nil argument yields an empty,
// non-nil element slice.
func NewList(elements ...Cell) List {
	if elements == nil {
		elements = make([]Cell, 0)
	}
	return List{Elements: elements}
}

func (c Int) String() string {
	if c.Value == nil {
		return "0"
	}
	return fmt.Sprint(c.Value)
}

func (c Ident) String() string { return c.Label }

func (c Str) String() string { return `"` + c.Text + `"` }

func (c List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, e := range c.Elements {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Head returns the first element of the list, if any.
func (c List) Head() (Cell, bool) {
	if len(c.Elements) == 0 {
		return nil, false
	}
	return c.Elements[0], true
}

// Len returns the number of elements.
func (c List) Len() int { return len(c.Elements) }

// Equal reports structural equality: same variant and recursively equal
// payloads. Cells of different variants are never equal.
func Equal(a, b Cell) bool {
	switch x := a.(type) {
	case Int:
		y, ok := b.(Int)
		if !ok {
			return false
		}
		if x.Value == nil || y.Value == nil {
			return x.Value == nil && y.Value == nil
		}
		return x.Value.Cmp(y.Value) == 0
	case Ident:
		y, ok := b.(Ident)
		return ok && x.Label == y.Label
	case Str:
		y, ok := b.(Str)
		return ok && x.Text == y.Text
	case List:
		y, ok := b.(List)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equal(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		return false
	}
}
