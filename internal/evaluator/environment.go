package evaluator

// Scope maps names to bindings. There is one scope for the global level
// and one per active function invocation; a function scope's parent is
// always the global scope. Scopes are owned by a single run and are not
// safe for concurrent use.
type Scope struct {
	vars   map[string]Value
	parent *Scope
}

func NewScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]Value), parent: parent}
}

// Find resolves name from this scope outwards.
func (s *Scope) Find(name string) (Value, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Local looks name up in this scope only.
func (s *Scope) Local(name string) (Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Declare binds name in this scope, replacing any existing binding.
// Values that are not already bindings are boxed in a LocalBinding.
func (s *Scope) Declare(name string, v Value) Value {
	if !isBinding(v) {
		v = &LocalBinding{Value: v}
	}
	s.vars[name] = v
	return v
}
