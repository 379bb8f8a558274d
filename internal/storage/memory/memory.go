// Package memory provides a process-volatile implementation of
// storage.Storage: an ordered slice of records plus a monotonic id
// counter. Everything is lost when the process exits.
package memory

import (
	"sync"

	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/types"
)

// Memory is safe for concurrent use. Records handed in or out are
// copied, so callers never share the backing slice.
type Memory struct {
	mu     sync.Mutex
	people []types.Person
	lastID int64
}

// New returns an empty store whose first assigned id is 1.
func New() *Memory {
	return &Memory{people: make([]types.Person, 0)}
}

func (m *Memory) ListPeople() ([]types.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	people := make([]types.Person, 0, len(m.people))
	for _, p := range m.people {
		people = append(people, p.Clone())
	}
	return people, nil
}

func (m *Memory) GetPerson(id int64) (types.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return types.Person{}, storage.ErrNotFound
	}
	return m.people[i].Clone(), nil
}

func (m *Memory) InsertPerson(in types.CreatePersonInput) (types.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	p := types.NewPerson(m.lastID, in)
	m.people = append(m.people, p)

	return p.Clone(), nil
}

func (m *Memory) ReplacePerson(id int64, p types.Person) (types.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return types.Person{}, storage.ErrNotFound
	}

	p = p.Clone()
	p.ID = id
	m.people[i] = p

	return p.Clone(), nil
}

func (m *Memory) RemovePerson(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return storage.ErrNotFound
	}

	// Shift left rather than swap so list order stays insertion order.
	copy(m.people[i:], m.people[i+1:])
	m.people[len(m.people)-1] = types.Person{}
	m.people = m.people[:len(m.people)-1]

	return nil
}

// indexOf is a linear scan; callers must hold mu.
func (m *Memory) indexOf(id int64) int {
	for i := range m.people {
		if m.people[i].ID == id {
			return i
		}
	}
	return -1
}
