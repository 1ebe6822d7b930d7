package value

import "fmt"

// Tag identifies a payload type. Tags are assigned by a grammar when declaring
// its kinds.
type Tag uint16

// Empty is the tag of a value which holds no payload, either because it has
// never been assigned or because its payload has been moved out or released.
const Empty Tag = 0

// Releaser is implemented by payloads which hold resources and want to be told
// when a value is done with them. Release is called exactly once per payload.
type Releaser interface {
	Release()
}

// Cloner is implemented by payloads which know how to deep-copy themselves.
// Kinds declared without an explicit clone function will use it.
type Cloner[T any] interface {
	Clone() T
}

// payload is the type-erased box holding a payload of some kind.
type payload interface {
	tag() Tag
	kindName() string
	clone() payload
	release()
	dead() bool
	iface() interface{}
}

// Value is a container for a semantic value. The zero Value is empty and ready
// to use.
//
// Copying a Value struct by assignment aliases its payload. If one of the
// copies is released, the others become empty.
type Value struct {
	p payload
}

// live returns the payload of v. A payload released through an alias of v is
// dropped.
func (v *Value) live() payload {
	if v.p != nil && v.p.dead() {
		v.p = nil
	}
	return v.p
}

// Tag returns the tag of the payload currently held, or Empty.
func (v *Value) Tag() Tag {
	if v.live() == nil {
		return Empty
	}
	return v.p.tag()
}

// IsEmpty is a predicate: does v hold no payload?
func (v *Value) IsEmpty() bool {
	return v.live() == nil
}

// Interface returns the payload as an interface{}, or nil for empty values.
func (v *Value) Interface() interface{} {
	if v.live() == nil {
		return nil
	}
	return v.p.iface()
}

// Clone returns an independent deep copy of v. Mutating the payload of either
// value will not be observable in the other one.
func (v *Value) Clone() Value {
	if v.live() == nil {
		return Value{}
	}
	return Value{p: v.p.clone()}
}

// CloneFrom replaces the payload of v with a deep copy of src's payload.
func (v *Value) CloneFrom(src *Value) {
	if v == src {
		return
	}
	c := src.Clone()
	v.Release()
	v.p = c.p
}

// Move transfers the payload out of v, leaving v empty. Moving does not copy
// or allocate.
func (v *Value) Move() Value {
	p := v.live()
	v.p = nil
	return Value{p: p}
}

// MoveFrom releases the payload of v and takes over the payload of src,
// leaving src empty.
func (v *Value) MoveFrom(src *Value) {
	if v == src {
		return
	}
	v.Release()
	v.p = src.live()
	src.p = nil
}

// Release releases the payload held by v, if any. Afterwards v is empty.
func (v *Value) Release() {
	if v.p == nil {
		return
	}
	p := v.p
	v.p = nil
	p.release()
}

func (v Value) String() string {
	if v.live() == nil {
		return "<empty>"
	}
	return fmt.Sprintf("<%s:%v>", v.p.kindName(), v.p.iface())
}
