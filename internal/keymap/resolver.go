package keymap

import (
	"strings"

	"github.com/samber/lo"
)

// Resolver maps key strings to actions. A key listed by several bindings
// resolves to the first one; the others are reported by Conflicts.
type Resolver struct {
	bindings  map[string]Action   // key -> action
	byAction  map[Action][]string // action -> keys that resolve to it
	conflicts []string
}

// NewResolver creates a resolver from bindings.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			if prev, ok := r.bindings[key]; ok && prev != b.Action {
				r.conflicts = append(r.conflicts, key)
				continue
			}
			r.bindings[key] = b.Action
			r.byAction[b.Action] = append(r.byAction[b.Action], key)
		}
	}
	for action, keys := range r.byAction {
		r.byAction[action] = lo.Uniq(keys)
	}
	r.conflicts = lo.Uniq(r.conflicts)
	return r
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(key string) Action {
	return r.bindings[key]
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}

// Label renders the keys of an action for display, e.g. "space/p".
func (r *Resolver) Label(action Action) string {
	return displayKeys(r.KeysFor(action))
}

// Conflicts returns the keys that more than one action tried to claim.
func (r *Resolver) Conflicts() []string {
	return r.conflicts
}

func displayKeys(keys []string) string {
	return strings.Join(lo.Map(keys, func(k string, _ int) string {
		if k == " " {
			return "space"
		}
		return k
	}), "/")
}
