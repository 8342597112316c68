// Package mediatype parses and matches media types as they appear in Content-Type and Accept headers.
package mediatype

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/http/httpguts"
)

// Wildcard matches any type or subtype.
const Wildcard = "*"

// ErrMalformed marks errors for strings that cannot be parsed as a media type.
var ErrMalformed = errors.New("malformed media type")

// Param is a single media type parameter.
type Param struct {
	Key   string
	Value string
}

// MediaType is a parsed "type/subtype" with its parameters. The zero value is not a valid media
// type, use [Parse] or [MustParse] to create one. A MediaType is never modified after parsing.
type MediaType struct {
	typ     string
	subtype string
	params  []Param
}

// Parse parses a media type such as "application/json; indent=4". Type, subtype and parameter
// names are lower-cased, quoted parameter values are unquoted.
func Parse(raw string) (MediaType, error) {
	full, rest, _ := strings.Cut(raw, ";")

	typ, subtype, ok := strings.Cut(strings.TrimSpace(full), "/")
	if !ok {
		return MediaType{}, malformedf(raw, "missing '/'")
	}

	typ, subtype = strings.ToLower(strings.TrimSpace(typ)), strings.ToLower(strings.TrimSpace(subtype))
	if !isToken(typ) || !isToken(subtype) {
		return MediaType{}, malformedf(raw, "invalid type or subtype")
	}

	if typ == Wildcard && subtype != Wildcard {
		return MediaType{}, malformedf(raw, "wildcard type requires wildcard subtype")
	}

	params, err := parseParams(rest)
	if err != nil {
		return MediaType{}, errors.Mark(errors.Wrapf(err, "parse %q", raw), ErrMalformed)
	}

	return MediaType{typ: typ, subtype: subtype, params: params}, nil
}

// MustParse is like [Parse] but panics when the media type is malformed. It is meant for
// media types declared by the program itself.
func MustParse(raw string) MediaType {
	mt, err := Parse(raw)
	if err != nil {
		panic("mediatype: " + err.Error())
	}

	return mt
}

// Type returns the (lower-case) top-level type.
func (m MediaType) Type() string { return m.typ }

// Subtype returns the (lower-case) subtype.
func (m MediaType) Subtype() string { return m.subtype }

// FullType returns "type/subtype" without any parameters.
func (m MediaType) FullType() string { return m.typ + "/" + m.subtype }

// IsZero reports whether m was never parsed.
func (m MediaType) IsZero() bool { return m.typ == "" }

// Param returns the value of parameter key, if present.
func (m MediaType) Param(key string) (string, bool) {
	key = strings.ToLower(key)
	for _, p := range m.params {
		if p.Key == key {
			return p.Value, true
		}
	}

	return "", false
}

// Params returns a copy of the parameters in the order they were declared.
func (m MediaType) Params() []Param {
	return append([]Param(nil), m.params...)
}

// Quality returns the "q" parameter, 1.0 when it is absent.
func (m MediaType) Quality() (float64, error) {
	raw, ok := m.Param("q")
	if !ok {
		return 1, nil
	}

	q, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Mark(errors.Wrapf(err, "quality value %q", raw), ErrMalformed)
	}

	if math.IsNaN(q) || q < 0 || q > 1 {
		return 0, errors.Mark(errors.Newf("quality value %v outside [0, 1]", q), ErrMalformed)
	}

	return q, nil
}

// Match reports whether m satisfies pattern: the pattern's type is a wildcard or equal to m's
// type, and likewise for the subtype. Parameters are not considered and the relation is not
// symmetric.
func (m MediaType) Match(pattern MediaType) bool {
	if pattern.typ != Wildcard && pattern.typ != m.typ {
		return false
	}

	return pattern.subtype == Wildcard || pattern.subtype == m.subtype
}

// Specificity ranks how concrete m is: 0 for "*/*", 1 for "type/*", 2 for "type/subtype" and
// 3 when it also carries parameters other than "q".
func (m MediaType) Specificity() int {
	switch {
	case m.typ == Wildcard:
		return 0
	case m.subtype == Wildcard:
		return 1
	}

	for _, p := range m.params {
		if p.Key != "q" {
			return 3
		}
	}

	return 2
}

// String formats m as "type/subtype; key=value". Values that are not tokens are quoted.
func (m MediaType) String() string {
	var b strings.Builder
	b.WriteString(m.FullType())

	for _, p := range m.params {
		b.WriteString("; ")
		b.WriteString(p.Key)
		b.WriteByte('=')

		if isToken(p.Value) {
			b.WriteString(p.Value)
		} else {
			b.WriteString(strconv.Quote(p.Value))
		}
	}

	return b.String()
}

func parseParams(s string) ([]Param, error) {
	var params []Param

	for s = strings.TrimSpace(s); s != ""; s = strings.TrimSpace(s) {
		if s[0] == ';' {
			s = s[1:]
			continue
		}

		key, rest, ok := strings.Cut(s, "=")
		if !ok {
			return nil, errors.Newf("parameter %q has no value", s)
		}

		key = strings.ToLower(strings.TrimSpace(key))
		if !isToken(key) {
			return nil, errors.Newf("invalid parameter name %q", key)
		}

		var (
			value string
			err   error
		)

		rest = strings.TrimLeft(rest, " \t")
		if strings.HasPrefix(rest, `"`) {
			value, rest, err = consumeQuoted(rest)
		} else {
			end := strings.IndexByte(rest, ';')
			if end < 0 {
				end = len(rest)
			}

			value, rest = strings.TrimSpace(rest[:end]), rest[end:]
			if !isToken(value) {
				err = errors.Newf("invalid value for parameter %q", key)
			}
		}

		if err != nil {
			return nil, err
		}

		params = append(params, Param{Key: key, Value: value})

		rest = strings.TrimSpace(rest)
		if rest != "" {
			if rest[0] != ';' {
				return nil, errors.Newf("unexpected %q after parameter %q", rest, key)
			}
			rest = rest[1:]
		}

		s = rest
	}

	return params, nil
}

// consumeQuoted reads a quoted-string from the start of s and returns its unescaped content and the
// remainder following the closing quote.
func consumeQuoted(s string) (value, rest string, err error) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			return b.String(), s[i+1:], nil
		case '\\':
			if i+1 == len(s) {
				return "", "", errors.New("unterminated escape in quoted string")
			}
			i++
			b.WriteByte(s[i])
		default:
			b.WriteByte(c)
		}
	}

	return "", "", errors.New("unterminated quoted string")
}

func isToken(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !httpguts.IsTokenRune(r) {
			return false
		}
	}

	return true
}

func malformedf(raw, reason string) error {
	return errors.Mark(errors.Newf("parse %q: %s", raw, reason), ErrMalformed)
}
