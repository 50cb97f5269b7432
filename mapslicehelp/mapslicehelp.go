package mapslicehelp

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// LastElement returns a pointer to the last element of elements, or nil if
// elements is empty.
func LastElement[T any](elements []T) *T {
	length := len(elements)
	if length > 0 {
		return &elements[length-1]
	}
	return nil
}

// OrderedMapKeys returns the keys of m in insertion order.
func OrderedMapKeys[K comparable, V any](m *orderedmap.OrderedMap[K, V]) []K {
	l := make([]K, m.Len())
	i := 0
	for p := m.Oldest(); p != nil; p = p.Next() {
		l[i] = p.Key
		i++
	}
	return l
}
