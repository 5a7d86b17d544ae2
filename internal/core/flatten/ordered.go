package flatten

// orderedMap is a map that remembers first-insertion order of its keys.
type orderedMap[V any] struct {
	keys   []string
	values map[string]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{values: make(map[string]V)}
}

func (m *orderedMap[V]) Get(k string) (V, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *orderedMap[V]) Set(k string, v V) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *orderedMap[V]) Keys() []string {
	return m.keys
}
