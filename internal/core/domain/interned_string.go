package domain

import "unique"

// InternedString wraps a unique.Handle[string] so that task names and
// dependency references compare by handle instead of by content.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// NewInternedStrings interns every element of s, preserving order.
func NewInternedStrings(s []string) []InternedString {
	res := make([]InternedString, len(s))
	for i, v := range s {
		res[i] = NewInternedString(v)
	}
	return res
}

// Strings returns the plain values of s, preserving order.
func Strings(s []InternedString) []string {
	res := make([]string, len(s))
	for i, v := range s {
		res[i] = v.String()
	}
	return res
}

// String returns the underlying string value.
// The zero InternedString yields "".
func (is InternedString) String() string {
	if is == (InternedString{}) {
		return ""
	}
	return is.h.Value()
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (is *InternedString) UnmarshalText(text []byte) error {
	is.h = unique.Make(string(text))
	return nil
}
