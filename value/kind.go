package value

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrTypeMismatch is the error class of all type mismatches when accessing values.
// Use errors.Is to test for it.
var ErrTypeMismatch = errors.New("semantic value type mismatch")

// TypeMismatchError is raised when a value is read as a kind it does not hold.
type TypeMismatchError struct {
	Want, Have         Tag
	WantName, HaveName string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("semantic value type mismatch: want %s(%d), have %s(%d)",
		e.WantName, e.Want, e.HaveName, e.Have)
}

// Is makes TypeMismatchError match ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// Kind is a payload type declared by a grammar. It is the only way to put
// payloads into values and to get them out again.
type Kind[T any] struct {
	tag    Tag
	name   string
	cloner func(T) T
}

// Declare declares a new kind with payload type T. tag must not be Empty.
// cloner is used to deep-copy payloads; if it is nil, payloads implementing
// Cloner[T] clone themselves and all others are copied by assignment.
//
// Assignment does not copy what a reference type points to. Declare therefore
// panics if T is a pointer, slice, map, channel, function or interface type
// which neither implements Cloner[T] nor comes with a cloner.
// Struct and array payloads are copied by assignment and must not hold
// references which a clone would have to own.
func Declare[T any](tag Tag, name string, cloner func(T) T) *Kind[T] {
	if tag == Empty {
		panic(fmt.Sprintf("cannot declare kind %q with empty tag", name))
	}
	if cloner == nil && !clonesByAssignment[T]() {
		panic(fmt.Sprintf("kind %q has reference payload type %s and needs a cloner",
			name, reflect.TypeOf((*T)(nil)).Elem()))
	}
	return &Kind[T]{tag: tag, name: name, cloner: cloner}
}

// clonesByAssignment is true if payloads of type T either clone themselves or
// are not of a reference type.
func clonesByAssignment[T any]() bool {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Implements(reflect.TypeOf((*Cloner[T])(nil)).Elem()) {
		return true
	}
	switch typ.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return false
	}
	return true
}

// Tag returns the tag of this kind.
func (k *Kind[T]) Tag() Tag {
	return k.tag
}

// Name returns the name of this kind.
func (k *Kind[T]) Name() string {
	return k.name
}

func (k *Kind[T]) String() string {
	return fmt.Sprintf("<kind %s:%d>", k.name, k.tag)
}

// New creates a value holding x.
func (k *Kind[T]) New(x T) Value {
	return Value{p: &box[T]{kind: k, x: x}}
}

// Assign stores x into v. A payload previously held by v is released.
func (k *Kind[T]) Assign(v *Value, x T) {
	v.Release()
	v.p = &box[T]{kind: k, x: x}
}

// Emplace constructs a payload with ctor and stores it into v. If ctor fails,
// v is left untouched and the error is returned. If ctor panics, v is left
// untouched as well.
func (k *Kind[T]) Emplace(v *Value, ctor func() (T, error)) error {
	x, err := ctor()
	if err != nil {
		return err
	}
	k.Assign(v, x)
	return nil
}

// Is is a predicate: does v hold a payload of this kind?
func (k *Kind[T]) Is(v *Value) bool {
	b, ok := v.live().(*box[T])
	return ok && b.kind.tag == k.tag
}

// Get returns a pointer to the payload of v. The pointer stays valid as long
// as v holds the payload. If v does not hold a payload of this kind, Get
// panics with a *TypeMismatchError.
func (k *Kind[T]) Get(v *Value) *T {
	x, err := k.Lookup(v)
	if err != nil {
		panic(err)
	}
	return x
}

// Lookup is like Get, but returns a *TypeMismatchError instead of panicking.
func (k *Kind[T]) Lookup(v *Value) (*T, error) {
	p := v.live()
	if b, ok := p.(*box[T]); ok && b.kind.tag == k.tag {
		return &b.x, nil
	}
	err := &TypeMismatchError{Want: k.tag, WantName: k.name, HaveName: "empty"}
	if p != nil {
		err.Have, err.HaveName = p.tag(), p.kindName()
	}
	tracer().Debugf("%v", err)
	return nil, err
}

func (k *Kind[T]) clone(x T) T {
	if k.cloner != nil {
		return k.cloner(x)
	}
	if c, ok := any(x).(Cloner[T]); ok {
		return c.Clone()
	}
	return x
}

// --- Boxes -----------------------------------------------------------------

type box[T any] struct {
	kind     *Kind[T]
	x        T
	released bool
}

func (b *box[T]) tag() Tag {
	return b.kind.tag
}

func (b *box[T]) kindName() string {
	return b.kind.name
}

func (b *box[T]) clone() payload {
	return &box[T]{kind: b.kind, x: b.kind.clone(b.x)}
}

func (b *box[T]) release() {
	if b.released {
		return
	}
	b.released = true
	if r, ok := any(b.x).(Releaser); ok {
		r.Release()
	}
	var zero T
	b.x = zero
}

func (b *box[T]) dead() bool {
	return b.released
}

func (b *box[T]) iface() interface{} {
	return b.x
}
