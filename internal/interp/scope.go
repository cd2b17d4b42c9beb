package interp

// ScopeKind classifies a lexical scope the same way the debugger-facing
// model in spec §4.5 does: Global and Catch bindings are reported
// as-is, Local bindings belong to the current frame, and With/Closure
// bindings get inlined into the enclosing frame under a "parent:"
// prefix rather than modeled as a separate environment diagram (see
// §9's closures-are-inlined design note).
//
// The interpreter itself only creates Global, Local and Catch scopes;
// the stepping engine renders an enclosing function's Local scope,
// reached through a closure chain, as a closure scope. A catch block's
// Catch scope is a child of its frame's scope, and the stepping engine
// walks from the frame's scope toward Global, so the catch binding is
// not reported for the frame whose catch block is running.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeLocal
	ScopeClosure
	ScopeWith
	ScopeCatch
)

// Scope is a lexical environment: an ordered set of name->value
// bindings plus a parent link. Functions close over the Scope chain in
// effect at their definition site (FuncData.Closure); calling a
// function builds a fresh ScopeLocal on top of that chain.
type Scope struct {
	Kind   ScopeKind
	Parent *Scope

	keys []string
	vals map[string]Value
}

func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{Kind: kind, Parent: parent, vals: map[string]Value{}}
}

// Declare introduces a new binding in this scope, recording insertion
// order. Re-declaring an existing name just updates its value without
// reordering it.
func (s *Scope) Declare(name string, v Value) {
	if _, exists := s.vals[name]; !exists {
		s.keys = append(s.keys, name)
	}
	s.vals[name] = v
}

// Assign walks the scope chain looking for an existing binding of name
// and updates it in place. If none is found, it falls back to
// declaring name as a new global — matching the traced language's
// implicit-global assignment semantics (as in non-strict JS).
func (s *Scope) Assign(name string, v Value) {
	for cur := s; cur != nil; cur = cur.Parent {
		if _, ok := cur.vals[name]; ok {
			cur.vals[name] = v
			return
		}
	}
	s.Global().Declare(name, v)
}

// Lookup walks the scope chain for name.
func (s *Scope) Lookup(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.vals[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// OwnKeys returns this scope's own binding names in insertion order
// (not including parent scopes).
func (s *Scope) OwnKeys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// OwnValue looks up name in this scope only, without walking Parent —
// used by the globals/locals scan, which must attribute each binding
// to the specific scope object it lives in.
func (s *Scope) OwnValue(name string) (Value, bool) {
	v, ok := s.vals[name]
	return v, ok
}

func (s *Scope) Global() *Scope {
	cur := s
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}
