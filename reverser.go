package bapi

import (
	"slices"
	"sync"

	"github.com/advdv/bapi/internal/httppattern"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Reverser builds URLs from named route patterns. It is safe for concurrent use.
type Reverser struct {
	mu     sync.RWMutex
	routes map[string]*httppattern.Pattern
}

// NewReverser returns an empty Reverser.
func NewReverser() *Reverser {
	return &Reverser{routes: map[string]*httppattern.Pattern{}}
}

// Names returns the registered route names in sorted order.
func (r *Reverser) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.routes)
	slices.Sort(names)

	return names
}

// Reverse fills the wildcards of the named pattern with vals, in order.
func (r *Reverser) Reverse(name string, vals ...string) (string, error) {
	r.mu.RLock()
	pat, ok := r.routes[name]
	r.mu.RUnlock()

	if !ok {
		return "", errors.Newf("no pattern named: %q, got: %v", name, r.Names())
	}

	url, err := httppattern.Build(pat, vals...)
	if err != nil {
		return "", errors.Wrapf(err, "reverse %q", name)
	}

	return url, nil
}

// Named registers pattern under name and returns the pattern unchanged. It panics when the name is
// taken or the pattern does not parse.
func (r *Reverser) Named(name, pattern string) string {
	if err := r.register(name, pattern); err != nil {
		panic("bapi: " + err.Error())
	}

	return pattern
}

// NamedPattern is [Reverser.Named] returning an error instead of panicking.
func (r *Reverser) NamedPattern(name, pattern string) (string, error) {
	return pattern, r.register(name, pattern)
}

func (r *Reverser) register(name, pattern string) error {
	pat, err := httppattern.ParsePattern(pattern)
	if err != nil {
		return errors.Wrap(err, "failed to parse pattern")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.routes[name]; taken {
		return errors.Newf("pattern with name %q already exists", name)
	}

	r.routes[name] = pat

	return nil
}
