package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Pair is a canonical trading pair identifier such as "BTC_ETH".
type Pair string

var pairRe = regexp.MustCompile(`^[A-Z0-9]{2,10}_[A-Z0-9]{2,10}$`)

// NormalizePair applies the fixed normalization policy: surrounding whitespace
// is trimmed, letters are upper-cased and "-" or "/" separators become "_".
// The second return value is false when the result is not in canonical form.
func NormalizePair(raw string) (Pair, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", "_", "/", "_").Replace(s)
	if !pairRe.MatchString(s) {
		return "", false
	}
	return Pair(s), true
}

// Base returns the currency code before the separator.
func (p Pair) Base() string {
	base, _, _ := strings.Cut(string(p), "_")
	return base
}

// Quote returns the currency code after the separator.
func (p Pair) Quote() string {
	_, quote, _ := strings.Cut(string(p), "_")
	return quote
}

// Registry is the closed set of pairs the service understands. It is built
// once at startup and never mutated, so it is safe for concurrent use.
type Registry struct {
	pairs  map[Pair]struct{}
	sorted []Pair
}

func NewRegistry(raw []string) (*Registry, error) {
	r := &Registry{pairs: make(map[Pair]struct{}, len(raw))}
	for _, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}
		p, ok := NormalizePair(s)
		if !ok {
			return nil, fmt.Errorf("registry entry %q: %w", s, ErrInvalidPair)
		}
		if _, dup := r.pairs[p]; dup {
			return nil, fmt.Errorf("registry entry %q is duplicated", s)
		}
		r.pairs[p] = struct{}{}
		r.sorted = append(r.sorted, p)
	}
	if len(r.pairs) == 0 {
		return nil, ErrEmptyRegistry
	}
	sort.Slice(r.sorted, func(i, j int) bool { return r.sorted[i] < r.sorted[j] })
	return r, nil
}

// Parse validates a caller supplied token and returns the registry member it names.
func (r *Registry) Parse(raw string) (Pair, error) {
	p, ok := NormalizePair(raw)
	if !ok || !r.Contains(p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPair, raw)
	}
	return p, nil
}

func (r *Registry) Contains(p Pair) bool {
	_, ok := r.pairs[p]
	return ok
}

// Pairs returns the registry members in lexical order. The slice is a copy.
func (r *Registry) Pairs() []Pair {
	out := make([]Pair, len(r.sorted))
	copy(out, r.sorted)
	return out
}

func (r *Registry) Len() int { return len(r.sorted) }
