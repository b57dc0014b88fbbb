package routes

import (
	"fmt"
	"strings"
)

// Kind distinguishes the two shapes of a route entry.
type Kind uint8

const (
	KindFixed Kind = iota + 1
	KindParam
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindParam:
		return "param"
	default:
		return "invalid"
	}
}

// Generator builds a URL from a single positional parameter.
type Generator func(param any) string

// Entry is a single route: a fixed URL or a one-parameter generator.
// The zero Entry is invalid.
type Entry struct {
	kind    Kind
	url     string
	gen     Generator
	pattern string
}

// Fixed returns an entry that always yields url.
func Fixed(url string) Entry {
	return Entry{kind: KindFixed, url: url}
}

// Param returns an entry that yields gen(param).
func Param(gen Generator) Entry {
	return Entry{kind: KindParam, gen: gen}
}

// Pattern returns a Param entry that substitutes the parameter for the
// single {placeholder} in pattern. It panics if pattern does not contain
// exactly one placeholder; use ParsePattern for untrusted input.
func Pattern(pattern string) Entry {
	e, err := ParsePattern(pattern)
	if err != nil {
		panic(err)
	}
	return e
}

// ParsePattern is like Pattern but returns an error instead of panicking.
func ParsePattern(pattern string) (Entry, error) {
	start := strings.IndexByte(pattern, '{')
	end := strings.IndexByte(pattern, '}')
	if start < 0 || end <= start+1 {
		return Entry{}, fmt.Errorf("pattern %q: missing {placeholder}", pattern)
	}
	prefix, suffix := pattern[:start], pattern[end+1:]
	if strings.ContainsAny(suffix, "{}") {
		return Entry{}, fmt.Errorf("pattern %q: only one {placeholder} is supported", pattern)
	}
	return Entry{
		kind:    KindParam,
		pattern: pattern,
		gen: func(param any) string {
			return prefix + formatParam(param) + suffix
		},
	}, nil
}

// Kind reports the entry's shape.
func (e Entry) Kind() Kind {
	return e.kind
}

// Valid reports whether the entry was built by one of the constructors.
func (e Entry) Valid() bool {
	switch e.kind {
	case KindFixed:
		return true
	case KindParam:
		return e.gen != nil
	}
	return false
}

// String describes the entry for listings. Generators built from a
// pattern show the pattern.
func (e Entry) String() string {
	switch e.kind {
	case KindFixed:
		return e.url
	case KindParam:
		if e.pattern != "" {
			return e.pattern
		}
		return "<func>"
	}
	return "<invalid>"
}

// Template returns the entry's URL template: the URL of a fixed entry or
// the pattern of a pattern entry. Generators built with Param have none.
func (e Entry) Template() (string, bool) {
	switch {
	case e.kind == KindFixed:
		return e.url, true
	case e.kind == KindParam && e.pattern != "":
		return e.pattern, true
	}
	return "", false
}

// build produces the URL for the given (already narrowed) parameter.
func (e Entry) build(param any) string {
	if e.kind == KindParam {
		return e.gen(param)
	}
	return e.url
}

// formatParam renders a parameter the way template-string interpolation
// would: nil becomes "null".
func formatParam(param any) string {
	switch v := param.(type) {
	case nil:
		return "null"
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
