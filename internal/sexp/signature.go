package sexp

import (
	"strings"
)

// Type is a signature entry whose label starts with an ASCII uppercase letter.
type Type struct {
	Label string
}

// ParameterType is any other signature entry: lowercase, digit, punctuation or
// non-ASCII first character.
type ParameterType struct {
	Label string
}

// TypeSignature collects the entries of one {...} block. Types keep every
// occurrence; Parameters keep only the first occurrence of each label.
type TypeSignature struct {
	Types      []Type
	Parameters []ParameterType
}

// IsTypeLabel reports whether label names a Type rather than a ParameterType.
// Only A-Z count as uppercase.
func IsTypeLabel(label string) bool {
	return label != "" && label[0] >= 'A' && label[0] <= 'Z'
}

// Add classifies label and appends it to the matching sequence.
func (s *TypeSignature) Add(label string) {
	if IsTypeLabel(label) {
		s.AddType(label)
		return
	}
	s.AddParameter(label)
}

// AddType appends a Type. Duplicates are kept.
func (s *TypeSignature) AddType(label string) {
	s.Types = append(s.Types, Type{Label: label})
}

// AddParameter appends a ParameterType unless one with the same label is
// already present.
func (s *TypeSignature) AddParameter(label string) {
	for _, p := range s.Parameters {
		if p.Label == label {
			return
		}
	}
	s.Parameters = append(s.Parameters, ParameterType{Label: label})
}

// Equal reports whether both signatures hold the same entries in the same order.
func (s TypeSignature) Equal(other TypeSignature) bool {
	if len(s.Types) != len(other.Types) || len(s.Parameters) != len(other.Parameters) {
		return false
	}
	for i := range s.Types {
		if s.Types[i] != other.Types[i] {
			return false
		}
	}
	for i := range s.Parameters {
		if s.Parameters[i] != other.Parameters[i] {
			return false
		}
	}
	return true
}

// String prints the types followed by the parameters, e.g. {A B x}.
func (s TypeSignature) String() string {
	labels := make([]string, 0, len(s.Types)+len(s.Parameters))
	for _, t := range s.Types {
		labels = append(labels, t.Label)
	}
	for _, p := range s.Parameters {
		labels = append(labels, p.Label)
	}
	return "{" + strings.Join(labels, " ") + "}"
}
