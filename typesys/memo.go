package typesys

// memo is a small bounded read-through cache. When full it is cleared
// wholesale; the graph stabilizes early in a run, so entries re-warm fast.
type memo[K comparable, V any] struct {
	limit   int
	entries map[K]V
}

func newMemo[K comparable, V any](limit int) *memo[K, V] {
	return &memo[K, V]{
		limit:   limit,
		entries: make(map[K]V),
	}
}

func (m *memo[K, V]) get(k K) (V, bool) {
	v, ok := m.entries[k]
	return v, ok
}

func (m *memo[K, V]) put(k K, v V) {
	if len(m.entries) >= m.limit {
		m.entries = make(map[K]V)
	}
	m.entries[k] = v
}
