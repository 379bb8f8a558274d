package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonID(t *testing.T) {
	t.Parallel()
	v := New()

	valid := map[string]int64{
		"1":   1,
		"42":  42,
		"7.0": 7,
	}
	for raw, want := range valid {
		got, errs := v.PersonID(raw)
		assert.Nil(t, errs, raw)
		assert.Equal(t, want, got, raw)
	}

	invalid := map[string]string{
		"abc":                `"id" must be a number`,
		"":                   `"id" must be a number`,
		"NaN":                `"id" must be a number`,
		"1.5":                `"id" must be an integer`,
		"0":                  `"id" must be a positive number`,
		"-3":                 `"id" must be a positive number`,
		"123456789012345678": `"id" must be a safe number`,
	}
	for raw, msg := range invalid {
		_, errs := v.PersonID(raw)
		require.Len(t, errs, 1, raw)
		assert.Equal(t, "id", errs[0].Field, raw)
		assert.Equal(t, msg, errs[0].Message, raw)
	}
}

func TestCreatePerson(t *testing.T) {
	t.Parallel()
	v := New()

	t.Run("valid without age", func(t *testing.T) {
		in, errs := v.CreatePerson([]byte(`{"name":"Ana Silva","email":"ana@example.com"}`))
		require.Nil(t, errs)
		assert.Equal(t, "Ana Silva", in.Name)
		assert.Equal(t, "ana@example.com", in.Email)
		assert.Nil(t, in.Age)
	})

	t.Run("trims strings and drops unknown fields", func(t *testing.T) {
		in, errs := v.CreatePerson([]byte(`{"name":"  Ana  ","email":" ana@example.com ","id":99,"role":"admin"}`))
		require.Nil(t, errs)
		assert.Equal(t, "Ana", in.Name)
		assert.Equal(t, "ana@example.com", in.Email)
	})

	t.Run("age accepted at both bounds", func(t *testing.T) {
		for _, body := range []string{
			`{"name":"Ana","email":"a@example.com","age":0}`,
			`{"name":"Ana","email":"a@example.com","age":130}`,
			`{"name":"Ana","email":"a@example.com","age":30.0}`,
		} {
			in, errs := v.CreatePerson([]byte(body))
			require.Nil(t, errs, body)
			assert.NotNil(t, in.Age, body)
		}
	})

	t.Run("missing email", func(t *testing.T) {
		_, errs := v.CreatePerson([]byte(`{"name":"Ana Silva"}`))
		require.Len(t, errs, 1)
		assert.Equal(t, "email", errs[0].Field)
		assert.Equal(t, `"email" is required`, errs[0].Message)
	})

	t.Run("empty body reports every required field", func(t *testing.T) {
		_, errs := v.CreatePerson(nil)
		assert.ElementsMatch(t, []string{"name", "email"}, errs.Fields())
	})

	t.Run("name length boundary", func(t *testing.T) {
		_, errs := v.CreatePerson([]byte(`{"name":"Ana","email":"a@example.com"}`))
		assert.Nil(t, errs)

		_, errs = v.CreatePerson([]byte(`{"name":"An","email":"a@example.com"}`))
		require.Len(t, errs, 1)
		assert.Equal(t, "name", errs[0].Field)
		assert.Equal(t, `"name" length must be at least 3 characters long`, errs[0].Message)

		_, errs = v.CreatePerson([]byte(`{"name":"` + strings.Repeat("a", 121) + `","email":"a@example.com"}`))
		require.Len(t, errs, 1)
		assert.Equal(t, `"name" length must be less than or equal to 120 characters long`, errs[0].Message)
	})

	t.Run("length is checked after trimming", func(t *testing.T) {
		_, errs := v.CreatePerson([]byte(`{"name":"  An  ","email":"a@example.com"}`))
		require.Len(t, errs, 1)
		assert.Equal(t, "name", errs[0].Field)
	})

	t.Run("all violations reported at once", func(t *testing.T) {
		_, errs := v.CreatePerson([]byte(`{"name":"A","email":"not-an-email","age":131}`))
		require.Len(t, errs, 3)
		assert.Equal(t, []string{"name", "email", "age"}, errs.Fields())
		assert.Equal(t, `"email" must be a valid email`, errs[1].Message)
		assert.Equal(t, `"age" must be less than or equal to 130`, errs[2].Message)
	})

	t.Run("type errors are field errors", func(t *testing.T) {
		_, errs := v.CreatePerson([]byte(`{"name":5,"email":null,"age":"old"}`))
		require.Len(t, errs, 3)
		assert.Equal(t, `"name" must be a string`, errs[0].Message)
		assert.Equal(t, `"email" must be a string`, errs[1].Message)
		assert.Equal(t, `"age" must be a number`, errs[2].Message)
	})

	t.Run("age must be integral and in range", func(t *testing.T) {
		_, errs := v.CreatePerson([]byte(`{"name":"Ana","email":"a@example.com","age":30.5}`))
		require.Len(t, errs, 1)
		assert.Equal(t, `"age" must be an integer`, errs[0].Message)

		_, errs = v.CreatePerson([]byte(`{"name":"Ana","email":"a@example.com","age":-1}`))
		require.Len(t, errs, 1)
		assert.Equal(t, `"age" must be greater than or equal to 0`, errs[0].Message)

		_, errs = v.CreatePerson([]byte(`{"name":"Ana","email":"a@example.com","age":1e12}`))
		require.Len(t, errs, 1)
		assert.Equal(t, "age", errs[0].Field)
	})

	t.Run("body must be an object", func(t *testing.T) {
		for _, body := range []string{`[1,2]`, `"text"`, `null`} {
			_, errs := v.CreatePerson([]byte(body))
			require.Len(t, errs, 1, body)
			assert.Equal(t, "body", errs[0].Field, body)
		}

		_, errs := v.CreatePerson([]byte(`{"name":`))
		require.Len(t, errs, 1)
		assert.Equal(t, `"body" must be valid JSON`, errs[0].Message)
	})
}

func TestUpdatePerson(t *testing.T) {
	t.Parallel()
	v := New()

	t.Run("single field", func(t *testing.T) {
		in, errs := v.UpdatePerson([]byte(`{"age":31}`))
		require.Nil(t, errs)
		require.NotNil(t, in.Age)
		assert.Equal(t, 31, *in.Age)
		assert.Nil(t, in.Name)
		assert.Nil(t, in.Email)
	})

	t.Run("empty object needs at least one key", func(t *testing.T) {
		for _, body := range []string{`{}`, ``, `{"nickname":"Ana"}`} {
			_, errs := v.UpdatePerson([]byte(body))
			require.Len(t, errs, 1, body)
			assert.Equal(t, "value", errs[0].Field, body)
			assert.Equal(t, `"value" must have at least 1 key`, errs[0].Message, body)
		}
	})

	t.Run("unknown fields are stripped alongside valid ones", func(t *testing.T) {
		in, errs := v.UpdatePerson([]byte(`{"name":"Ana Maria","id":5}`))
		require.Nil(t, errs)
		assert.Equal(t, "Ana Maria", *in.Name)
	})

	t.Run("provided fields follow the create rules", func(t *testing.T) {
		_, errs := v.UpdatePerson([]byte(`{"name":"  ","email":"nope","age":200}`))
		assert.Equal(t, []string{"name", "email", "age"}, errs.Fields())
	})

	t.Run("type error alone is not an empty update", func(t *testing.T) {
		_, errs := v.UpdatePerson([]byte(`{"name":true}`))
		require.Len(t, errs, 1)
		assert.Equal(t, `"name" must be a string`, errs[0].Message)
	})
}

func TestErrors_Error(t *testing.T) {
	errs := Errors{{Field: "a", Message: "first"}, {Field: "b", Message: "second"}}
	assert.Equal(t, "first; second", errs.Error())
	assert.Equal(t, []string{"a", "b"}, errs.Fields())
}
