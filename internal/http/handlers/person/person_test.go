package person_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/people-api/internal/http/handlers/person"
	"github.com/aanand-mishra/people-api/internal/http/router"
	"github.com/aanand-mishra/people-api/internal/logger"
	"github.com/aanand-mishra/people-api/internal/service"
	"github.com/aanand-mishra/people-api/internal/storage/memory"
	"github.com/aanand-mishra/people-api/internal/types"
	"github.com/aanand-mishra/people-api/internal/utils/response"
	"github.com/aanand-mishra/people-api/internal/validation"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	svc := service.NewPeople(memory.New(), validation.New(), logger.Nop())
	return router.New(router.Routes(svc)...)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func create(t *testing.T, h http.Handler, body string) types.Person {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/people", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[types.Person](t, w)
}

func TestCreateThenGet(t *testing.T) {
	h := newServer(t)

	created := create(t, h, `{"name":"Ana Silva","email":"ana@example.com"}`)
	assert.Equal(t, types.Person{ID: 1, Name: "Ana Silva", Email: "ana@example.com"}, created)

	w := do(t, h, http.MethodGet, "/api/people/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1,"name":"Ana Silva","email":"ana@example.com"}`, w.Body.String())
}

func TestList(t *testing.T) {
	h := newServer(t)

	w := do(t, h, http.MethodGet, "/api/people", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	first := create(t, h, `{"name":"Ana Silva","email":"ana@example.com","age":25}`)
	second := create(t, h, `{"name":"Bruno Lima","email":"bruno@example.com"}`)
	assert.Greater(t, second.ID, first.ID)

	people := decode[[]types.Person](t, do(t, h, http.MethodGet, "/api/people", ""))
	require.Len(t, people, 2)
	assert.Equal(t, second, people[len(people)-1])
}

func TestIDsNeverReused(t *testing.T) {
	h := newServer(t)

	create(t, h, `{"name":"Ana Silva","email":"ana@example.com"}`)
	second := create(t, h, `{"name":"Bruno Lima","email":"bruno@example.com"}`)
	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, fmt.Sprintf("/api/people/%d", second.ID), "").Code)

	third := create(t, h, `{"name":"Carla Dias","email":"carla@example.com"}`)
	assert.Greater(t, third.ID, second.ID)
}

func TestCreate_Validation(t *testing.T) {
	h := newServer(t)

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"missing email", `{"name":"Ana Silva"}`, []string{"email"}},
		{"short name", `{"name":"Al","email":"al@example.com"}`, []string{"name"}},
		{"empty body", ``, []string{"name", "email"}},
		{"bad age and email", `{"name":"Ana Silva","email":"nope","age":-1}`, []string{"email", "age"}},
		{"not an object", `[1,2]`, []string{"body"}},
		{"malformed", `{"name":`, []string{"body"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/people", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			got := decode[response.Validation](t, w)
			assert.Equal(t, response.MessageValidationFailed, got.Message)
			assert.ElementsMatch(t, tt.fields, got.Errors.Fields())
		})
	}

	people := decode[[]types.Person](t, do(t, h, http.MethodGet, "/api/people", ""))
	assert.Empty(t, people)
}

func TestCreate_NameOfThreeCharacters(t *testing.T) {
	h := newServer(t)
	created := create(t, h, `{"name":"Ana","email":"ana@example.com"}`)
	assert.Equal(t, "Ana", created.Name)
}

func TestCreate_BodyTooLarge(t *testing.T) {
	h := newServer(t)

	body := `{"name":"` + strings.Repeat("a", person.MaxBodyBytes) + `"}`
	w := do(t, h, http.MethodPost, "/api/people", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	got := decode[response.Validation](t, w)
	assert.Equal(t, []string{"body"}, got.Errors.Fields())
}

func TestUpdate(t *testing.T) {
	h := newServer(t)
	create(t, h, `{"name":"Ana Silva","email":"ana@example.com","age":25}`)

	t.Run("partial keeps untouched fields", func(t *testing.T) {
		w := do(t, h, http.MethodPut, "/api/people/1", `{"age":31}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1,"name":"Ana Silva","email":"ana@example.com","age":31}`, w.Body.String())

		w = do(t, h, http.MethodGet, "/api/people/1", "")
		assert.JSONEq(t, `{"id":1,"name":"Ana Silva","email":"ana@example.com","age":31}`, w.Body.String())
	})

	t.Run("empty object", func(t *testing.T) {
		w := do(t, h, http.MethodPut, "/api/people/1", `{}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		got := decode[response.Validation](t, w)
		assert.Equal(t, []string{"value"}, got.Errors.Fields())
	})

	t.Run("id and body errors together", func(t *testing.T) {
		w := do(t, h, http.MethodPut, "/api/people/abc", `{"email":"nope"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		got := decode[response.Validation](t, w)
		assert.ElementsMatch(t, []string{"id", "email"}, got.Errors.Fields())
	})

	t.Run("absent id", func(t *testing.T) {
		w := do(t, h, http.MethodPut, "/api/people/42", `{"age":3}`)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Person 42 not found."}`, w.Body.String())
	})
}

func TestGet_Errors(t *testing.T) {
	h := newServer(t)

	for _, id := range []string{"abc", "0", "-4", "1.5"} {
		t.Run("invalid "+id, func(t *testing.T) {
			w := do(t, h, http.MethodGet, "/api/people/"+id, "")
			require.Equal(t, http.StatusBadRequest, w.Code)
			got := decode[response.Validation](t, w)
			assert.Equal(t, []string{"id"}, got.Errors.Fields())
		})
	}

	t.Run("absent", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/people/7", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, service.NotFoundMessage(7), decode[response.Message](t, w).Message)
	})
}

func TestDelete(t *testing.T) {
	h := newServer(t)
	create(t, h, `{"name":"Ana Silva","email":"ana@example.com"}`)

	w := do(t, h, http.MethodDelete, "/api/people/1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, h, http.MethodDelete, "/api/people/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Person 1 not found."}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/people/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouteNotFound(t *testing.T) {
	h := newServer(t)

	tests := []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodPatch, "/api/people/1"},
		{http.MethodPost, "/api/people/1"},
		{http.MethodDelete, "/api/people"},
		{http.MethodGet, "/api/people/1/friends"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, "")
			require.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"message":"Route not found."}`, w.Body.String())
		})
	}
}

func TestHealthz(t *testing.T) {
	w := do(t, newServer(t), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
