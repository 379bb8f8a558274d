// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The database always lives in memory: the service keeps no data across
// restarts, whichever backend is selected. The pool is pinned to a single
// connection because every new connection to ":memory:" would open a
// fresh, empty database.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

const dsn = ":memory:"

// SQLite is the relational implementation of storage.Storage.
type SQLite struct {
	Db *sql.DB
}

// New opens a private in-memory database and creates the people table.
func New() (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	// AUTOINCREMENT (not just INTEGER PRIMARY KEY) keeps SQLite from
	// reusing the id of a deleted row.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS people (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			name  TEXT    NOT NULL,
			email TEXT    NOT NULL,
			age   INTEGER NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection, and with it the whole database.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

func (s *SQLite) InsertPerson(in types.CreatePersonInput) (types.Person, error) {
	stmt, err := s.Db.Prepare(
		"INSERT INTO people (name, email, age) VALUES (?, ?, ?)",
	)
	if err != nil {
		return types.Person{}, fmt.Errorf("InsertPerson: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(in.Name, in.Email, nullAge(in.Age))
	if err != nil {
		return types.Person{}, fmt.Errorf("InsertPerson: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Person{}, fmt.Errorf("InsertPerson: last insert id: %w", err)
	}

	return types.NewPerson(lastID, in), nil
}

func (s *SQLite) GetPerson(id int64) (types.Person, error) {
	stmt, err := s.Db.Prepare(
		"SELECT id, name, email, age FROM people WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Person{}, fmt.Errorf("GetPerson: prepare: %w", err)
	}
	defer stmt.Close()

	person, err := scanPerson(stmt.QueryRow(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Person{}, storage.ErrNotFound
		}
		return types.Person{}, fmt.Errorf("GetPerson: scan: %w", err)
	}

	return person, nil
}

func (s *SQLite) ListPeople() ([]types.Person, error) {
	// id order is insertion order because ids only increase.
	stmt, err := s.Db.Prepare(
		"SELECT id, name, email, age FROM people ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("ListPeople: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("ListPeople: query: %w", err)
	}
	defer rows.Close()

	people := make([]types.Person, 0)
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("ListPeople: scan row: %w", err)
		}
		people = append(people, person)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPeople: rows iteration: %w", err)
	}

	return people, nil
}

func (s *SQLite) ReplacePerson(id int64, p types.Person) (types.Person, error) {
	stmt, err := s.Db.Prepare(
		"UPDATE people SET name = ?, email = ?, age = ? WHERE id = ?",
	)
	if err != nil {
		return types.Person{}, fmt.Errorf("ReplacePerson: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(p.Name, p.Email, nullAge(p.Age), id)
	if err != nil {
		return types.Person{}, fmt.Errorf("ReplacePerson: exec: %w", err)
	}

	if err := expectOneRow(result); err != nil {
		return types.Person{}, fmt.Errorf("ReplacePerson: %w", err)
	}

	// Re-fetch so we return exactly what is stored.
	return s.GetPerson(id)
}

func (s *SQLite) RemovePerson(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM people WHERE id = ?")
	if err != nil {
		return fmt.Errorf("RemovePerson: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("RemovePerson: exec: %w", err)
	}

	if err := expectOneRow(result); err != nil {
		return fmt.Errorf("RemovePerson: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (types.Person, error) {
	var (
		person types.Person
		age    sql.NullInt64
	)

	if err := row.Scan(&person.ID, &person.Name, &person.Email, &age); err != nil {
		return types.Person{}, err
	}

	if age.Valid {
		v := int(age.Int64)
		person.Age = &v
	}

	return person, nil
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func nullAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*age), Valid: true}
}
