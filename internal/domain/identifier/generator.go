// Package identifier issues fixed-length numeric identifiers for users and accounts.
package identifier

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrIdentifierSpaceExhausted is returned when no free identifier could be found
var ErrIdentifierSpaceExhausted = errors.New("identifier space exhausted")

// Namespace names an identifier space and fixes the length of its identifiers
type Namespace struct {
	Name   string
	Length int
}

// Default namespaces
var (
	Users    = Namespace{Name: "users", Length: 6}
	Accounts = Namespace{Name: "accounts", Length: 10}
)

// Capacity is the number of distinct identifiers in the namespace.
// It saturates at math.MaxInt for very long identifiers.
func (n Namespace) Capacity() int {
	capacity := 1
	for i := 0; i < n.Length; i++ {
		if capacity > math.MaxInt/10 {
			return math.MaxInt
		}
		capacity *= 10
	}
	return capacity
}

// DigitSource yields uniformly distributed integers in [0, n).
// *math/rand/v2.Rand satisfies it.
type DigitSource interface {
	IntN(n int) int
}

// Registry is the set of identifiers already taken in a namespace
type Registry interface {
	Contains(id string) bool
	Len() int
}

// Generate draws random identifiers for ns until one is not held by registry.
// Callers must hold whatever lock guards registry so that the returned
// identifier is still free when they insert it.
func Generate(src DigitSource, ns Namespace, registry Registry, maxAttempts int) (string, error) {
	if registry.Len() >= ns.Capacity() {
		return "", fmt.Errorf("%s namespace holds %d ids: %w", ns.Name, registry.Len(), ErrIdentifierSpaceExhausted)
	}

	var b strings.Builder
	b.Grow(ns.Length)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		b.Reset()
		for c := 0; c < ns.Length; c++ {
			b.WriteByte(byte('0' + src.IntN(10)))
		}
		id := b.String()
		if !registry.Contains(id) {
			return id, nil
		}
	}

	return "", fmt.Errorf("%s namespace: no free id after %d attempts: %w", ns.Name, maxAttempts, ErrIdentifierSpaceExhausted)
}

// Set is a map-backed Registry
type Set map[string]struct{}

// Contains reports whether id is taken
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of taken identifiers
func (s Set) Len() int { return len(s) }
