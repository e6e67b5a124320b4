package lifetime

import "reflect"

// registry maps a requested type identity to its configured slot. It is built
// once by the Builder and never mutated afterwards, so lookups need no lock.
type registry struct {
	slots map[reflect.Type]slot
}

func (r *registry) lookup(t reflect.Type) (slot, bool) {
	s, ok := r.slots[t]
	return s, ok
}

// typeOf returns the identity key for T. Interface types key on the interface
// itself, not on any concrete implementation.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
