// Package person contains the HTTP handlers for the Person resource.
//
// Each exported function is a factory: it receives the service once at
// route registration and returns the http.HandlerFunc called on every
// request.
//
//	router.HandleFunc("POST /api/people", person.Create(svc))
//
// Handlers only translate between HTTP and the service: read the path
// value and body, call the service, map its Result to a status code.
package person

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/people-api/internal/service"
	"github.com/aanand-mishra/people-api/internal/utils/response"
	"github.com/aanand-mishra/people-api/internal/validation"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// List handles GET /api/people.
//
// Success response (200 OK), an empty array when nobody is stored:
//
//	[{ "id": 1, "name": "Ana Silva", "email": "ana@example.com" }]
func List(svc *service.People) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing people")

		res, err := svc.List()
		writeResult(w, "list", res, err, func() {
			writeJSON(w, http.StatusOK, res.Value)
		})
	}
}

// Get handles GET /api/people/{id}.
//
// Error responses:
//
//	400 Bad Request: id is not a positive integer
//	404 Not Found:   no person with that id
func Get(svc *service.People) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a person", slog.String("id", id))

		res, err := svc.Get(id)
		writeResult(w, "get", res, err, func() {
			writeJSON(w, http.StatusOK, res.Value)
		})
	}
}

// Create handles POST /api/people.
//
// Request body:
//
//	{ "name": "Ana Silva", "email": "ana@example.com", "age": 25 }
//
// Success response (201 Created) is the stored person including its id.
// A 400 lists every violated field rule.
func Create(svc *service.People) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a person")

		body, ok := readBody(w, r)
		if !ok {
			return
		}

		res, err := svc.Create(body)
		writeResult(w, "create", res, err, func() {
			writeJSON(w, http.StatusCreated, res.Value)
		})
	}
}

// Update handles PUT /api/people/{id}.
//
// The body is a partial person; omitted fields keep their value:
//
//	{ "age": 31 }
func Update(svc *service.People) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a person", slog.String("id", id))

		body, ok := readBody(w, r)
		if !ok {
			return
		}

		res, err := svc.Update(id, body)
		writeResult(w, "update", res, err, func() {
			writeJSON(w, http.StatusOK, res.Value)
		})
	}
}

// Delete handles DELETE /api/people/{id}. Success is 204 with no body.
func Delete(svc *service.People) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a person", slog.String("id", id))

		res, err := svc.Delete(id)
		writeResult(w, "delete", res, err, func() {
			response.NoContent(w, http.StatusNoContent)
		})
	}
}

// writeResult maps a service outcome onto the response; success runs
// only for OutcomeOK.
func writeResult[T any](w http.ResponseWriter, op string, res service.Result[T], err error, success func()) {
	if err != nil {
		slog.Error("person operation failed",
			slog.String("op", op),
			slog.String("error", err.Error()))
		response.InternalError(w, err)
		return
	}

	switch res.Outcome {
	case service.OutcomeInvalid:
		response.ValidationFailed(w, res.Problems)
	case service.OutcomeNotFound:
		response.NotFound(w, res.Message)
	default:
		success()
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err == nil {
		return body, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.ValidationFailed(w, validation.Errors{{
			Field:   "body",
			Message: `"body" must not exceed 1 MiB`,
		}})
		return nil, false
	}

	response.InternalError(w, err)
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	if err := response.WriteJSON(w, status, data); err != nil {
		slog.Error("write JSON response", slog.String("error", err.Error()))
	}
}
