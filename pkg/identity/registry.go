// Package identity manages model identifiers: allocation of fresh canonical
// ids and per-import translation of foreign ids (Archi, ARIS) into canonical
// form.
package identity

import (
	"strings"

	"github.com/google/uuid"

	"github.com/archweave/archweave/pkg/errors"
)

// Allocate returns a fresh canonical identifier: "id-" followed by the hex
// digits of a random UUID.
func Allocate() string {
	u := uuid.New()
	return "id-" + strings.ReplaceAll(u.String(), "-", "")
}

// Canonical deterministically maps a foreign identifier to canonical form.
// The same input always yields the same output, so re-importing the same
// document produces the same ids. Characters that cannot appear in a
// canonical id are replaced with underscores.
func Canonical(foreign string) string {
	if foreign == "" {
		return ""
	}
	var b strings.Builder
	if !strings.HasPrefix(foreign, "id-") {
		b.WriteString("id-")
	}
	for _, r := range foreign {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Registry tracks the foreign-to-canonical mapping for one import session.
// It is not safe for concurrent use.
type Registry struct {
	byForeign map[string]string
	claimed   map[string]string // canonical -> foreign that claimed it
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byForeign: make(map[string]string),
		claimed:   make(map[string]string),
	}
}

// Register binds a foreign id to a canonical id. Registering the same foreign
// id twice fails with DUPLICATE_FOREIGN_ID, as does binding a canonical id
// already claimed by a different foreign id.
func (r *Registry) Register(foreign, canonical string) error {
	if foreign == "" {
		return errors.New(errors.ErrCodeDuplicateForeignID, "empty foreign identifier")
	}
	if prev, ok := r.byForeign[foreign]; ok {
		return errors.New(errors.ErrCodeDuplicateForeignID,
			"foreign id %s already registered as %s", foreign, prev)
	}
	if owner, ok := r.claimed[canonical]; ok && owner != foreign {
		return errors.New(errors.ErrCodeDuplicateForeignID,
			"canonical id %s already claimed by foreign id %s", canonical, owner)
	}
	r.byForeign[foreign] = canonical
	r.claimed[canonical] = foreign
	return nil
}

// Map registers foreign under its deterministic canonical form and returns
// the canonical id. If the canonical form is already claimed by a different
// foreign id, a fresh id is allocated instead so the import can proceed.
func (r *Registry) Map(foreign string) (string, error) {
	if c, ok := r.byForeign[foreign]; ok {
		return c, errors.New(errors.ErrCodeDuplicateForeignID,
			"foreign id %s already registered as %s", foreign, c)
	}
	canonical := Canonical(foreign)
	if err := errors.ValidateIdentifier(canonical); err != nil {
		canonical = Allocate()
	} else if _, taken := r.claimed[canonical]; taken {
		canonical = Allocate()
	}
	if err := r.Register(foreign, canonical); err != nil {
		return "", err
	}
	return canonical, nil
}

// Resolve returns the canonical id bound to a foreign id, failing with
// UNRESOLVED_REFERENCE when the foreign id was never registered.
func (r *Registry) Resolve(foreign string) (string, error) {
	c, ok := r.byForeign[foreign]
	if !ok {
		return "", errors.New(errors.ErrCodeUnresolvedReference,
			"foreign id %s is not registered", foreign)
	}
	return c, nil
}

// Registered reports whether a foreign id has a binding.
func (r *Registry) Registered(foreign string) bool {
	_, ok := r.byForeign[foreign]
	return ok
}

// Len returns the number of registered foreign ids.
func (r *Registry) Len() int { return len(r.byForeign) }
