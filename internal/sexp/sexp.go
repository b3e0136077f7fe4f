package sexp

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Sexp is the result of one parse: the implicit outer list and the
// signatures bound to fun/action forms found anywhere in it.
type Sexp struct {
	Root       List
	Signatures map[string]TypeSignature

	// Leftover is the unread text after the implicit outer list closed. It is
	// non-empty only when the source holds a ')' with no matching '('.
	Leftover string
}

// Signature returns the signature bound under key.
func (s *Sexp) Signature(key string) (TypeSignature, bool) {
	sig, ok := s.Signatures[key]
	return sig, ok
}

// SignatureKeys returns the binding keys in sorted order.
func (s *Sexp) SignatureKeys() []string {
	keys := make([]string, 0, len(s.Signatures))
	for k := range s.Signatures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String prints the root followed by one "key: {sig}" line per binding.
func (s *Sexp) String() string {
	var sb strings.Builder
	sb.WriteString(s.Root.String())
	for _, k := range s.SignatureKeys() {
		fmt.Fprintf(&sb, "\n%s: %s", k, s.Signatures[k])
	}
	return sb.String()
}

// MarshalCell encodes a cell in the tagged JSON form, for example
// {"list":[{"ident":"fun"},{"int":"2"}]}. Integers are encoded as decimal
// strings so big values survive.
func MarshalCell(c Cell) ([]byte, error) {
	return json.Marshal(jsonCell(c))
}

func jsonCell(c Cell) interface{} {
	switch x := c.(type) {
	case Int:
		return map[string]string{"int": x.String()}
	case Ident:
		return map[string]string{"ident": x.Label}
	case Str:
		return map[string]string{"str": x.Text}
	case List:
		elems := make([]interface{}, 0, len(x.Elements))
		for _, e := range x.Elements {
			elems = append(elems, jsonCell(e))
		}
		return map[string]interface{}{"list": elems}
	default:
		return nil
	}
}

type jsonSignature struct {
	Types      []string `json:"types"`
	Parameters []string `json:"parameters"`
}

// MarshalJSON encodes the root with MarshalCell, followed by the signature
// map and any leftover text.
func (s *Sexp) MarshalJSON() ([]byte, error) {
	root, err := MarshalCell(s.Root)
	if err != nil {
		return nil, err
	}

	sigs := make(map[string]jsonSignature, len(s.Signatures))
	for k, sig := range s.Signatures {
		js := jsonSignature{
			Types:      make([]string, 0, len(sig.Types)),
			Parameters: make([]string, 0, len(sig.Parameters)),
		}
		for _, t := range sig.Types {
			js.Types = append(js.Types, t.Label)
		}
		for _, p := range sig.Parameters {
			js.Parameters = append(js.Parameters, p.Label)
		}
		sigs[k] = js
	}

	out := struct {
		Root       json.RawMessage          `json:"root"`
		Signatures map[string]jsonSignature `json:"signatures"`
		Leftover   string                   `json:"leftover,omitempty"`
	}{
		Root:       root,
		Signatures: sigs,
		Leftover:   s.Leftover,
	}
	return json.Marshal(out)
}
