package typedql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/typedql"
)

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("message without path", func(t *testing.T) {
		err := typedql.Error{Message: "field resolution failed"}
		assert.Contains(t, err.Error(), "typedql: server error")
		assert.Contains(t, err.Error(), "field resolution failed")
	})

	t.Run("message with path", func(t *testing.T) {
		err := typedql.Error{Message: "boom", Path: []any{"hero", 1, "name"}}
		assert.Contains(t, err.Error(), "hero.1.name")
	})
}

func TestErrors(t *testing.T) {
	t.Parallel()

	t.Run("single error uses its own message", func(t *testing.T) {
		errs := typedql.Errors{{Message: "boom"}}
		assert.Contains(t, errs.Error(), "boom")
	})

	t.Run("multiple errors are counted", func(t *testing.T) {
		errs := typedql.Errors{{Message: "first"}, {Message: "second"}}
		assert.Contains(t, errs.Error(), "2 server errors")
		assert.Contains(t, errs.Error(), "first")
		assert.Contains(t, errs.Error(), "second")
	})
}
