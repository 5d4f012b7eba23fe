package tree

import "sync"

// Type is an interned node type. Two nodes have the same type iff their
// Type pointers are equal, which only holds for types obtained from the
// same TypeSet.
type Type struct {
	name string
	id   int
}

// Name returns the type name
func (t *Type) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// ID returns the dense identifier assigned by the owning TypeSet
func (t *Type) ID() int {
	if t == nil {
		return -1
	}
	return t.id
}

func (t *Type) String() string {
	return t.Name()
}

// TypeSet interns type names. Trees that are compared with each other must
// be built from the same TypeSet.
type TypeSet struct {
	mu     sync.RWMutex
	byName map[string]*Type
	types  []*Type
}

// NewTypeSet creates an empty interner
func NewTypeSet() *TypeSet {
	return &TypeSet{
		byName: make(map[string]*Type),
	}
}

// Get returns the interned type for name, creating it on first use
func (s *TypeSet) Get(name string) *Type {
	s.mu.RLock()
	t, ok := s.byName[name]
	s.mu.RUnlock()
	if ok {
		return t
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.byName[name]; ok {
		return t
	}
	t = &Type{name: name, id: len(s.types)}
	s.byName[name] = t
	s.types = append(s.types, t)
	return t
}

// Lookup returns the interned type for name without creating it
func (s *TypeSet) Lookup(name string) (*Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byName[name]
	return t, ok
}

// Len returns the number of interned types
func (s *TypeSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.types)
}
