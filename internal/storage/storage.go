// Package storage defines the Storage interface, the contract every
// person store must satisfy.
//
// The service layer depends only on this interface, so the in-memory
// backend and the SQLite backend are interchangeable, and tests can run
// the same contract suite against both.
package storage

import (
	"errors"

	"github.com/aanand-mishra/people-api/internal/types"
)

// ErrNotFound is returned by id-addressed operations when no person
// with that id is stored.
var ErrNotFound = errors.New("person not found")

// Storage is the person store contract.
type Storage interface {
	// ListPeople returns every live person in insertion order.
	// Returns an empty slice (not nil) when the store is empty.
	ListPeople() ([]types.Person, error)

	// GetPerson returns the person with the given id or ErrNotFound.
	GetPerson(id int64) (types.Person, error)

	// InsertPerson assigns the next id, appends the record and returns it.
	// Ids only ever increase; an id is never handed out twice, even after
	// the record holding it was removed.
	InsertPerson(in types.CreatePersonInput) (types.Person, error)

	// ReplacePerson overwrites the stored fields of person id with p.
	// p.ID is ignored; the stored id never changes. Returns ErrNotFound
	// when id is not stored.
	ReplacePerson(id int64, p types.Person) (types.Person, error)

	// RemovePerson deletes the person permanently or returns ErrNotFound.
	RemovePerson(id int64) error
}
