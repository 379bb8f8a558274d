// Package service runs one person operation end to end: validate the
// request segments, execute against the store, and report the outcome
// as a Result the HTTP layer maps to a status code.
//
// A request moves received -> validated -> executed. It stops at
// validated with OutcomeInvalid, or at executed with OutcomeNotFound when
// the addressed person does not exist. The error return is reserved for
// failures nobody planned for (a broken store); those become 500s.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/types"
	"github.com/aanand-mishra/people-api/internal/validation"
)

// Outcome tags a Result.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeInvalid
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of one operation. Value is set for OutcomeOK,
// Problems for OutcomeInvalid and Message for OutcomeNotFound.
type Result[T any] struct {
	Outcome  Outcome
	Value    T
	Problems validation.Errors
	Message  string
}

func ok[T any](v T) Result[T] {
	return Result[T]{Outcome: OutcomeOK, Value: v}
}

func invalid[T any](errs validation.Errors) Result[T] {
	return Result[T]{Outcome: OutcomeInvalid, Problems: errs}
}

func notFound[T any](id int64) Result[T] {
	return Result[T]{Outcome: OutcomeNotFound, Message: NotFoundMessage(id)}
}

// NotFoundMessage is the client-facing text for a missing person.
func NotFoundMessage(id int64) string {
	return fmt.Sprintf("Person %d not found.", id)
}

// People is the person resource service.
//
// mu serializes every store access, so the read-merge-write of Update
// can never interleave with another request. The store is owned by the
// service for the life of the process; nothing else should mutate it.
type People struct {
	mu        sync.Mutex
	store     storage.Storage
	validator *validation.Validator
	log       *slog.Logger
}

// NewPeople wires a service around store. A nil log uses slog.Default().
func NewPeople(store storage.Storage, v *validation.Validator, log *slog.Logger) *People {
	if log == nil {
		log = slog.Default()
	}
	return &People{store: store, validator: v, log: log}
}

// List returns every person in insertion order.
func (s *People) List() (Result[[]types.Person], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	people, err := s.store.ListPeople()
	if err != nil {
		return Result[[]types.Person]{}, fmt.Errorf("list people: %w", err)
	}
	return ok(people), nil
}

// Get returns the person addressed by the raw path id.
func (s *People) Get(rawID string) (Result[types.Person], error) {
	id, errs := s.validator.PersonID(rawID)
	if errs != nil {
		return invalid[types.Person](errs), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	person, err := s.store.GetPerson(id)
	if errors.Is(err, storage.ErrNotFound) {
		s.logNotFound("get", id)
		return notFound[types.Person](id), nil
	}
	if err != nil {
		return Result[types.Person]{}, fmt.Errorf("get person %d: %w", id, err)
	}

	return ok(person), nil
}

// Create validates body and stores a new person under the next id.
func (s *People) Create(body []byte) (Result[types.Person], error) {
	in, errs := s.validator.CreatePerson(body)
	if errs != nil {
		return invalid[types.Person](errs), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	person, err := s.store.InsertPerson(in)
	if err != nil {
		return Result[types.Person]{}, fmt.Errorf("create person: %w", err)
	}

	s.log.Info("person created", slog.Int64("id", person.ID))
	return ok(person), nil
}

// Update merges the provided fields of body into the addressed person.
// Id and body violations are reported together.
func (s *People) Update(rawID string, body []byte) (Result[types.Person], error) {
	id, idErrs := s.validator.PersonID(rawID)
	in, bodyErrs := s.validator.UpdatePerson(body)
	if errs := append(idErrs, bodyErrs...); len(errs) > 0 {
		return invalid[types.Person](errs), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.GetPerson(id)
	if errors.Is(err, storage.ErrNotFound) {
		s.logNotFound("update", id)
		return notFound[types.Person](id), nil
	}
	if err != nil {
		return Result[types.Person]{}, fmt.Errorf("update person %d: load: %w", id, err)
	}

	updated, err := s.store.ReplacePerson(id, in.Apply(current))
	if err != nil {
		// Under mu the record cannot vanish between load and replace,
		// so ErrNotFound here is a store defect too.
		return Result[types.Person]{}, fmt.Errorf("update person %d: replace: %w", id, err)
	}

	s.log.Info("person updated", slog.Int64("id", id))
	return ok(updated), nil
}

// Delete removes the addressed person permanently.
func (s *People) Delete(rawID string) (Result[struct{}], error) {
	id, errs := s.validator.PersonID(rawID)
	if errs != nil {
		return invalid[struct{}](errs), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.RemovePerson(id)
	if errors.Is(err, storage.ErrNotFound) {
		s.logNotFound("delete", id)
		return notFound[struct{}](id), nil
	}
	if err != nil {
		return Result[struct{}]{}, fmt.Errorf("delete person %d: %w", id, err)
	}

	s.log.Info("person deleted", slog.Int64("id", id))
	return ok(struct{}{}), nil
}

func (s *People) logNotFound(op string, id int64) {
	s.log.Info("person not found", slog.String("op", op), slog.Int64("id", id))
}
