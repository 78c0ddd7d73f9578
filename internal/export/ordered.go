package export

// orderedMap is a string-keyed map iterating in insertion order.
// Overwriting a key keeps its original position.
type orderedMap[V any] struct {
	keys   []string
	values map[string]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{values: make(map[string]V)}
}

func (m *orderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *orderedMap[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

func (m *orderedMap[V]) Set(key string, v V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *orderedMap[V]) Len() int {
	return len(m.keys)
}

func (m *orderedMap[V]) Keys() []string {
	return m.keys
}

func (m *orderedMap[V]) Values() []V {
	out := make([]V, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.values[k]
	}
	return out
}
