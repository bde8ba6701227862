package load

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/typedql/compiler/parse"
)

func TestFromFile(t *testing.T) {
	cfg, err := FromFile(filepath.Join("testdata", "typedql.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "schema.graphql"), cfg.Schema)
	assert.Equal(t, filepath.Join("testdata", "starwars"), cfg.Target)
	assert.Equal(t, "starwars", cfg.Package)
}

func TestFromFileErrors(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		_, err := FromFile(filepath.Join("testdata", "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("UnknownField", func(t *testing.T) {
		_, err := parseConfig([]byte("schema: s.graphql\ntarget: out\ndialect: mysql\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dialect")
	})
	t.Run("Incomplete", func(t *testing.T) {
		_, err := parseConfig([]byte("schema: s.graphql\n"))
		require.EqualError(t, err, "target directory is required")
		_, err = parseConfig([]byte("target: out\n"))
		require.EqualError(t, err, "schema path is required")
	})
}

func TestConfigAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typedql.yaml")
	schema := filepath.Join(dir, "elsewhere", "schema.graphql")
	require.NoError(t, os.WriteFile(path, []byte("schema: "+schema+"\ntarget: out\n"), 0o644))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, schema, cfg.Schema, "absolute paths pass through unresolved")
	assert.Equal(t, filepath.Join(dir, "out"), cfg.Target)
}

func TestSchemaFile(t *testing.T) {
	model, err := SchemaFile(filepath.Join("testdata", "schema.graphql"))
	require.NoError(t, err)
	assert.Equal(t, "Query", model.QueryTypeName())
	require.NotNil(t, model.Type("Character"))
	assert.Len(t, model.Type("Character").Fields(), 3)
}

func TestSchemaFileErrors(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		_, err := SchemaFile(filepath.Join("testdata", "nope.graphql"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("Syntax", func(t *testing.T) {
		_, err := SchemaFile(filepath.Join("testdata", "broken.graphql"))
		require.Error(t, err)
		assert.True(t, parse.IsSyntaxError(err), "parse errors keep their type through loading")
	})
}

func TestGenerate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "starwars")
	cfg := &Config{
		Schema: filepath.Join("testdata", "schema.graphql"),
		Target: target,
	}
	require.NoError(t, Generate(context.Background(), cfg))

	for _, name := range []string{"character.go", "query.go"} {
		src, err := os.ReadFile(filepath.Join(target, name))
		require.NoError(t, err)
		assert.Contains(t, string(src), "package starwars")
	}
}
