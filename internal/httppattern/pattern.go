// Package httppattern parses the route patterns accepted by [net/http.ServeMux] so that URLs can be
// built from them again.
package httppattern

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
)

// Pattern is a parsed ServeMux pattern of the form "[METHOD ][HOST]/[PATH]".
type Pattern struct {
	Str    string
	Method string
	Host   string
	segs   []segment
}

type segment struct {
	s     string // literal or wildcard name
	wild  bool
	multi bool // "..." wildcard or trailing slash
}

// ParsePattern parses s as a ServeMux pattern.
func ParsePattern(s string) (*Pattern, error) {
	if s == "" {
		return nil, errors.New("empty pattern")
	}

	p := &Pattern{Str: s}
	rest := s

	if method, after, found := strings.Cut(rest, " "); found {
		p.Method, rest = method, strings.TrimLeft(after, " \t")
	}

	i := strings.IndexByte(rest, '/')
	if i < 0 {
		return nil, errors.New("host/path missing /")
	}

	p.Host, rest = rest[:i], rest[i:]
	seen := map[string]bool{}

	for len(rest) > 0 {
		rest = rest[1:] // drop leading slash
		if rest == "" {
			p.segs = append(p.segs, segment{s: "/", multi: true})
			break
		}

		i := strings.IndexByte(rest, '/')
		if i < 0 {
			i = len(rest)
		}

		var seg string
		seg, rest = rest[:i], rest[i:]

		if !strings.HasPrefix(seg, "{") {
			lit, err := url.PathUnescape(seg)
			if err != nil {
				return nil, errors.Wrapf(err, "segment %q", seg)
			}

			p.segs = append(p.segs, segment{s: lit})

			continue
		}

		if !strings.HasSuffix(seg, "}") {
			return nil, errors.Newf("bad wildcard segment %q (must end with '}')", seg)
		}

		name := seg[1 : len(seg)-1]
		if name == "$" {
			if rest != "" {
				return nil, errors.New("{$} not at end")
			}

			p.segs = append(p.segs, segment{s: "/", multi: true})

			break
		}

		name, multi := strings.CutSuffix(name, "...")
		if multi && rest != "" {
			return nil, errors.New("{...} wildcard not at end")
		}

		if name == "" {
			return nil, errors.New("empty wildcard")
		}

		if seen[name] {
			return nil, errors.Newf("duplicate wildcard name %q", name)
		}

		seen[name] = true
		p.segs = append(p.segs, segment{s: name, wild: true, multi: multi})
	}

	return p, nil
}

// Build substitutes vals for the wildcards of p, in order, and returns the resulting path.
func Build(p *Pattern, vals ...string) (string, error) {
	var b strings.Builder

	for _, seg := range p.segs {
		switch {
		case !seg.wild && seg.s == "/":
			b.WriteByte('/')
		case !seg.wild:
			b.WriteByte('/')
			b.WriteString(url.PathEscape(seg.s))
		default:
			if len(vals) == 0 {
				return "", errors.Newf("not enough values for wildcard %q", seg.s)
			}

			b.WriteByte('/')
			if seg.multi {
				b.WriteString(vals[0])
			} else {
				b.WriteString(url.PathEscape(vals[0]))
			}

			vals = vals[1:]
		}
	}

	if len(vals) > 0 {
		return "", errors.Newf("too many values, %d left unused", len(vals))
	}

	if b.Len() == 0 {
		return "/", nil
	}

	return b.String(), nil
}
