package value

import (
	"fmt"
	"sort"
)

// Descriptor describes a kind independent of its payload type.
// All *Kind[T] are descriptors.
type Descriptor interface {
	Tag() Tag
	Name() string
}

// TypeSet is the closed set of kinds a grammar declares. Parsers may use it to
// check values produced by semantic actions.
//
// TypeSet is not safe for concurrent modification. After set-up it is
// read-only and may be shared.
type TypeSet struct {
	name   string
	byTag  map[Tag]Descriptor
	byName map[string]Descriptor
}

// NewTypeSet creates a type set containing kinds.
// Returns an error if tags or names are not unique.
func NewTypeSet(name string, kinds ...Descriptor) (*TypeSet, error) {
	ts := &TypeSet{
		name:   name,
		byTag:  make(map[Tag]Descriptor),
		byName: make(map[string]Descriptor),
	}
	for _, k := range kinds {
		if err := ts.Define(k); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// Define inserts a kind into the set.
func (ts *TypeSet) Define(k Descriptor) error {
	if k.Tag() == Empty {
		return fmt.Errorf("type set %s: kind %q uses the empty tag", ts.name, k.Name())
	}
	if old, ok := ts.byTag[k.Tag()]; ok {
		return fmt.Errorf("type set %s: tag %d already used by %q", ts.name, k.Tag(), old.Name())
	}
	if _, ok := ts.byName[k.Name()]; ok {
		return fmt.Errorf("type set %s: duplicate kind name %q", ts.name, k.Name())
	}
	ts.byTag[k.Tag()] = k
	ts.byName[k.Name()] = k
	tracer().P("types", ts.name).Debugf("defined kind %s = %d", k.Name(), k.Tag())
	return nil
}

// Resolve finds a kind by name. Returns nil if not found.
func (ts *TypeSet) Resolve(name string) Descriptor {
	return ts.byName[name]
}

// Name returns the name of the kind with tag t.
func (ts *TypeSet) Name(t Tag) string {
	if t == Empty {
		return "empty"
	}
	if k, ok := ts.byTag[t]; ok {
		return k.Name()
	}
	return fmt.Sprintf("unknown(%d)", t)
}

// Contains is a predicate: does the set declare the kind of v? Empty values
// are always contained.
func (ts *TypeSet) Contains(v *Value) bool {
	if v.IsEmpty() {
		return true
	}
	_, ok := ts.byTag[v.Tag()]
	return ok
}

// Size counts the kinds in the set.
func (ts *TypeSet) Size() int {
	return len(ts.byTag)
}

// Each iterates over the kinds of the set in tag order.
func (ts *TypeSet) Each(mapper func(Descriptor)) {
	tags := make([]int, 0, len(ts.byTag))
	for t := range ts.byTag {
		tags = append(tags, int(t))
	}
	sort.Ints(tags)
	for _, t := range tags {
		mapper(ts.byTag[Tag(t)])
	}
}
