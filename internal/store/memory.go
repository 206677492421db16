package store

// Memory is an in-process Store used by tests. Setting FailWrites makes every
// Set and Remove return that error without touching the entries.
type Memory struct {
	Entries    map[string]string
	FailWrites error
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{Entries: map[string]string{}}
}

func (m *Memory) Get(key string) (string, error) {
	v, ok := m.Entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.Entries[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	delete(m.Entries, key)
	return nil
}

func (m *Memory) Close() error { return nil }
