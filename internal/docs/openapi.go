// Package docs builds the OpenAPI 3 document of the API from the route
// table and serves it, together with a Swagger UI page, under /api-docs.
//
// Schemas are generated from the Go types with openapi3gen. The same
// `validate` tags that drive request validation are translated into
// schema constraints, so the document cannot drift from the rules.
package docs

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"

	"github.com/aanand-mishra/people-api/internal/http/router"
)

const (
	Title   = "People API"
	Version = "1.0.0"
)

var pathParam = regexp.MustCompile(`\{([^}]+)\}`)

// Build returns the OpenAPI document describing every documented route.
func Build(routes []router.Route) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       Title,
			Version:     Version,
			Description: "CRUD service over an in-memory collection of people.",
		},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
	}

	b := &builder{doc: doc}
	for _, rt := range routes {
		if rt.OperationID == "" {
			continue
		}
		if err := b.addRoute(rt); err != nil {
			return nil, fmt.Errorf("docs: %s: %w", rt.Pattern(), err)
		}
	}

	return doc, nil
}

type builder struct {
	doc *openapi3.T
}

func (b *builder) addRoute(rt router.Route) error {
	op := openapi3.NewOperation()
	op.OperationID = rt.OperationID
	op.Summary = rt.Summary
	if rt.Tag != "" {
		op.Tags = []string{rt.Tag}
	}

	for _, m := range pathParam.FindAllStringSubmatch(rt.Path, -1) {
		param := openapi3.NewPathParameter(m[1]).
			WithDescription("Positive integer id").
			WithSchema(openapi3.NewInt64Schema().WithMin(1))
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: param})
	}

	if rt.Request != nil {
		ref, err := b.schemaRef(rt.Request)
		if err != nil {
			return err
		}
		body := openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref)
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}

	var opts []openapi3.NewResponsesOption
	for _, resp := range rt.Responses {
		r := openapi3.NewResponse().WithDescription(resp.Description)
		if resp.Body != nil {
			ref, err := b.schemaRef(resp.Body)
			if err != nil {
				return err
			}
			r = r.WithJSONSchemaRef(ref)
		}
		opts = append(opts, openapi3.WithStatus(resp.Status, &openapi3.ResponseRef{Value: r}))
	}
	op.Responses = openapi3.NewResponses(opts...)

	item := b.doc.Paths.Value(rt.Path)
	if item == nil {
		item = &openapi3.PathItem{}
		b.doc.Paths.Set(rt.Path, item)
	}
	item.SetOperation(rt.Method, op)

	return nil
}

// schemaRef returns a reference to the component schema of v's type,
// generating the component on first use. Slices become inline arrays of
// their element's component.
func (b *builder) schemaRef(v any) (*openapi3.SchemaRef, error) {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Slice {
		items, err := b.schemaRef(reflect.Zero(t.Elem()).Interface())
		if err != nil {
			return nil, err
		}
		array := openapi3.NewArraySchema()
		array.Items = items
		return openapi3.NewSchemaRef("", array), nil
	}

	name := t.Name()
	if existing, ok := b.doc.Components.Schemas[name]; ok {
		return openapi3.NewSchemaRef("#/components/schemas/"+name, existing.Value), nil
	}

	ref, err := openapi3gen.NewSchemaRefForValue(v, openapi3.Schemas{},
		openapi3gen.SchemaCustomizer(applyValidateTag))
	if err != nil {
		return nil, err
	}
	ref.Value.Required = requiredFields(t)

	b.doc.Components.Schemas[name] = openapi3.NewSchemaRef("", ref.Value)
	return openapi3.NewSchemaRef("#/components/schemas/"+name, ref.Value), nil
}

// applyValidateTag maps the validate rules of one struct field onto its
// schema. Only the rules used by the person types are understood.
func applyValidateTag(_ string, t reflect.Type, tag reflect.StructTag, schema *openapi3.Schema) error {
	rules := tag.Get("validate")
	if rules == "" {
		return nil
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	isString := t.Kind() == reflect.String

	for _, rule := range strings.Split(rules, ",") {
		name, arg, _ := strings.Cut(rule, "=")
		switch name {
		case "email":
			schema.Format = "email"
		case "min":
			n, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("min=%q: %w", arg, err)
			}
			if isString {
				schema.MinLength = n
			} else {
				schema.WithMin(float64(n))
			}
		case "max":
			n, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("max=%q: %w", arg, err)
			}
			if isString {
				schema.WithMaxLength(int64(n))
			} else {
				schema.WithMax(float64(n))
			}
		}
	}
	return nil
}

// requiredFields lists the JSON names of t's required fields. Input
// types mark them with the required rule. Types without any validate tag
// are response bodies; there every field not marked omitempty is always
// present.
func requiredFields(t reflect.Type) []string {
	var tagged, present []string
	hasRules := false

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		rules := f.Tag.Get("validate")
		if rules != "" {
			hasRules = true
		}
		for _, rule := range strings.Split(rules, ",") {
			if rule == "required" {
				tagged = append(tagged, jsonName(f))
			}
		}
		if !strings.Contains(f.Tag.Get("json"), "omitempty") {
			present = append(present, jsonName(f))
		}
	}

	required := present
	if hasRules {
		required = tagged
	}
	sort.Strings(required)
	return required
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}
