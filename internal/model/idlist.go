package model

import (
	"encoding/json"
	"slices"
)

// IDList is an ordered list of entity ids. Ids come from monotonic counters
// and are appended when the entity is created, so insertion order and
// ascending order coincide; lookups rely on that and use binary search.
type IDList []int

func (l IDList) Contains(id int) bool {
	_, ok := slices.BinarySearch(l, id)

	return ok
}

// Add inserts id keeping the list ascending. It reports false if id was
// already present.
func (l *IDList) Add(id int) bool {
	i, ok := slices.BinarySearch(*l, id)
	if ok {
		return false
	}
	*l = slices.Insert(*l, i, id)

	return true
}

// Remove deletes id from the list and reports whether it was present.
func (l *IDList) Remove(id int) bool {
	i, ok := slices.BinarySearch(*l, id)
	if !ok {
		return false
	}
	*l = slices.Delete(*l, i, i+1)

	return true
}

// Normalize restores the ascending, duplicate-free form after the list was
// decoded from an external source.
func (l *IDList) Normalize() {
	if *l == nil {
		*l = IDList{}

		return
	}
	slices.Sort(*l)
	*l = slices.Compact(*l)
}

// MarshalJSON encodes an empty list as [] rather than null.
func (l IDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}

	return json.Marshal([]int(l))
}
