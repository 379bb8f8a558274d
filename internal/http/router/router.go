// Package router holds the route table of the API and turns it into an
// http.ServeMux.
//
// A Route carries both its handler and the information the OpenAPI
// document is built from, so the served routes and the documented ones
// come from the same list.
package router

import (
	"net/http"

	"github.com/aanand-mishra/people-api/internal/http/handlers/person"
	"github.com/aanand-mishra/people-api/internal/service"
	"github.com/aanand-mishra/people-api/internal/types"
	"github.com/aanand-mishra/people-api/internal/utils/response"
)

// Route is one METHOD + path pair.
type Route struct {
	Method  string
	Path    string // ServeMux syntax, e.g. "/api/people/{id}"
	Handler http.HandlerFunc

	// Routes without an OperationID are served but left out of the
	// OpenAPI document.
	OperationID string
	Summary     string
	Tag         string
	Request     any // zero value of the request body type, nil for none
	Responses   []Response
}

// Response documents one possible status of a Route.
type Response struct {
	Status      int
	Description string
	Body        any // zero value of the body type, nil for an empty body
}

// Pattern is the ServeMux pattern for r.
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

// Health is the liveness body of GET /healthz.
type Health struct {
	Status string `json:"status"`
}

var (
	badRequest = Response{Status: http.StatusBadRequest, Description: "Validation failed", Body: response.Validation{}}
	notFound   = Response{Status: http.StatusNotFound, Description: "Person not found", Body: response.Message{}}
	unexpected = Response{Status: http.StatusInternalServerError, Description: "Unexpected error", Body: response.Unexpected{}}
)

// PersonRoutes returns the /api/people routes served by svc.
func PersonRoutes(svc *service.People) []Route {
	const tag = "people"

	return []Route{
		{
			Method: http.MethodGet, Path: "/api/people", Handler: person.List(svc),
			OperationID: "listPeople", Summary: "List every person in creation order", Tag: tag,
			Responses: []Response{
				{Status: http.StatusOK, Description: "All people", Body: []types.Person{}},
				unexpected,
			},
		},
		{
			Method: http.MethodGet, Path: "/api/people/{id}", Handler: person.Get(svc),
			OperationID: "getPerson", Summary: "Get one person", Tag: tag,
			Responses: []Response{
				{Status: http.StatusOK, Description: "The person", Body: types.Person{}},
				badRequest, notFound, unexpected,
			},
		},
		{
			Method: http.MethodPost, Path: "/api/people", Handler: person.Create(svc),
			OperationID: "createPerson", Summary: "Create a person", Tag: tag,
			Request: types.CreatePersonInput{},
			Responses: []Response{
				{Status: http.StatusCreated, Description: "The stored person", Body: types.Person{}},
				badRequest, unexpected,
			},
		},
		{
			Method: http.MethodPut, Path: "/api/people/{id}", Handler: person.Update(svc),
			OperationID: "updatePerson", Summary: "Update some fields of a person", Tag: tag,
			Request: types.UpdatePersonInput{},
			Responses: []Response{
				{Status: http.StatusOK, Description: "The updated person", Body: types.Person{}},
				badRequest, notFound, unexpected,
			},
		},
		{
			Method: http.MethodDelete, Path: "/api/people/{id}", Handler: person.Delete(svc),
			OperationID: "deletePerson", Summary: "Delete a person", Tag: tag,
			Responses: []Response{
				{Status: http.StatusNoContent, Description: "Deleted"},
				badRequest, notFound, unexpected,
			},
		},
	}
}

// Routes is every API route: the people resource and the health probe.
func Routes(svc *service.People) []Route {
	return append(PersonRoutes(svc), HealthRoute())
}

// HealthRoute is the GET /healthz liveness probe.
func HealthRoute() Route {
	return Route{
		Method: http.MethodGet, Path: "/healthz", Handler: healthz,
		OperationID: "healthz", Summary: "Liveness probe", Tag: "system",
		Responses: []Response{
			{Status: http.StatusOK, Description: "The service is up", Body: Health{}},
		},
	}
}

// New registers routes on a fresh ServeMux. Anything no route matches,
// including a known path with another method, gets 404 "Route not found.".
func New(routes ...Route) *http.ServeMux {
	mux := http.NewServeMux()
	for _, rt := range routes {
		mux.HandleFunc(rt.Pattern(), rt.Handler)
	}
	mux.HandleFunc("/", routeNotFound)
	return mux
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	response.NotFound(w, response.MessageRouteNotFound)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	_ = response.WriteJSON(w, http.StatusOK, Health{Status: "ok"})
}
