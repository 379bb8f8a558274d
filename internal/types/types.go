// Package types holds the shared data structures used across the
// application. Handlers, the service, storage and the docs generator all
// import types without depending on each other.
package types

// Person is a stored person record.
//
// ID is assigned by the store and never changes afterwards. Age is a
// pointer because it is optional: a nil Age is left out of the JSON
// encoding entirely, while an explicit 0 is kept.
type Person struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age,omitempty"`
}

// CreatePersonInput is the accepted body of POST /api/people.
//
// The validate tags are read by go-playground/validator during request
// validation and by the docs package when it builds the OpenAPI schema.
type CreatePersonInput struct {
	Name  string `json:"name"          validate:"required,min=3,max=120"`
	Email string `json:"email"         validate:"required,email"`
	Age   *int   `json:"age,omitempty" validate:"omitempty,min=0,max=130"`
}

// UpdatePersonInput is the accepted body of PUT /api/people/{id}.
//
// Every field is optional. A nil field means "keep the current value".
type UpdatePersonInput struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=3,max=120"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Age   *int    `json:"age,omitempty"   validate:"omitempty,min=0,max=130"`
}

// IsEmpty reports whether the update carries no field at all.
func (u UpdatePersonInput) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Age == nil
}

// Apply merges u into p field by field and returns the result.
// Provided fields overwrite, nil fields retain the value from p, and the
// ID is always carried over from p. Neither argument is modified.
func (u UpdatePersonInput) Apply(p Person) Person {
	merged := Person{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Age:   copyInt(p.Age),
	}

	if u.Name != nil {
		merged.Name = *u.Name
	}
	if u.Email != nil {
		merged.Email = *u.Email
	}
	if u.Age != nil {
		merged.Age = copyInt(u.Age)
	}

	return merged
}

// NewPerson builds the record a store inserts for in under the given id.
func NewPerson(id int64, in CreatePersonInput) Person {
	return Person{
		ID:    id,
		Name:  in.Name,
		Email: in.Email,
		Age:   copyInt(in.Age),
	}
}

// Clone returns a copy of p that shares no pointers with it.
func (p Person) Clone() Person {
	p.Age = copyInt(p.Age)
	return p
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
