package gen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/typedql/compiler/parse"
	"github.com/syssam/typedql/schema"
)

func starwarsModel() *schema.Schema {
	character := schema.NewTypeDefinition("Character",
		&schema.Field{Name: "name", Type: schema.ScalarRef(schema.ScalarString).AsNonNull()},
		&schema.Field{Name: "age", Type: schema.ScalarRef(schema.ScalarInt)},
	)
	query := schema.NewTypeDefinition("Query",
		&schema.Field{Name: "hero", Type: schema.NamedRef("Character").AsNonNull()},
		&schema.Field{Name: "heroes", Type: schema.ListRef(schema.NamedRef("Character").AsNonNull()).AsNonNull()},
	)
	return schema.New("Query", character, query)
}

func TestFiles(t *testing.T) {
	g := NewGenerator(starwarsModel(), "starwars")
	files, err := g.Files()
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "character.go", files[0].Name)
	assert.Equal(t, "query.go", files[1].Name)

	character := string(files[0].Source)
	assert.Contains(t, character, "// Code generated by typedql. DO NOT EDIT.")
	assert.Contains(t, character, "package starwars")
	assert.Contains(t, character, `CharacterFieldName typedql.Field = "name"`)
	assert.Contains(t, character, `CharacterFieldAge typedql.Field = "age"`)
	assert.Contains(t, character, "type CharacterSelection[TName, TAge any] struct")
	assert.Contains(t, character, "func NewCharacterSelection() CharacterSelection[typedql.Skip, typedql.Skip]")
	assert.Contains(t, character, "func (s CharacterSelection[TName, TAge]) Name() CharacterSelection[typedql.Value[string], TAge]")
	assert.Contains(t, character, "func (s CharacterSelection[TName, TAge]) Age() CharacterSelection[TName, typedql.Value[*int]]")
	assert.Contains(t, character, "func (s CharacterSelection[TName, TAge]) Sub() typedql.Sub[CharacterData[TName, TAge]]")
	assert.Contains(t, character, "type CharacterData[TName, TAge any] struct")
	assert.Contains(t, character, "`json:\"name\"`")
	assert.NotContains(t, character, "Build", "only the root type finalizes into an operation")

	query := string(files[1].Source)
	assert.Contains(t, query, "func QueryWithHero[THero, THeroes, D any](s QuerySelection[THero, THeroes], sub typedql.Sub[D]) QuerySelection[typedql.Value[D], THeroes]")
	assert.Contains(t, query, "func QueryWithHeroes[THero, THeroes, D any](s QuerySelection[THero, THeroes], sub typedql.Sub[D]) QuerySelection[THero, typedql.Value[[]D]]")
	assert.Contains(t, query, "func (s QuerySelection[THero, THeroes]) Sub() typedql.Sub[QueryData[THero, THeroes]]")
	assert.Contains(t, query, "func (s QuerySelection[THero, THeroes]) Build() typedql.Operation[QueryData[THero, THeroes]]")
	assert.Contains(t, query, "s.set.AddSub(QueryFieldHero, sub.Set())")
}

// The committed example client is generator output; it must stay
// byte-identical to what the generator emits for its schema.
func TestFilesMatchCommittedExample(t *testing.T) {
	dir := filepath.Join("..", "..", "examples", "starwars")
	src, err := os.ReadFile(filepath.Join(dir, "schema.graphql"))
	require.NoError(t, err)
	model, err := parse.Parse(string(src))
	require.NoError(t, err)

	files, err := NewGenerator(model, dir).Files()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		committed, err := os.ReadFile(filepath.Join(dir, f.Name))
		require.NoError(t, err)
		assert.Equal(t, string(f.Source), string(committed),
			"examples/starwars/%s drifted from generator output, regenerate it", f.Name)
	}
}

func TestFilesDeterministic(t *testing.T) {
	first, err := NewGenerator(starwarsModel(), "starwars").Files()
	require.NoError(t, err)
	second, err := NewGenerator(starwarsModel(), "starwars").Files()
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, string(first[i].Source), string(second[i].Source))
	}
}

func TestFilesPackageName(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		files, err := NewGenerator(starwarsModel(), filepath.Join("internal", "swapi")).Files()
		require.NoError(t, err)
		assert.Contains(t, string(files[0].Source), "package swapi")
	})
	t.Run("Override", func(t *testing.T) {
		files, err := NewGenerator(starwarsModel(), "out").WithPackage("galaxy").Files()
		require.NoError(t, err)
		assert.Contains(t, string(files[0].Source), "package galaxy")
	})
}

func TestFilesEmptyType(t *testing.T) {
	model := schema.New("Query",
		schema.NewTypeDefinition("Query",
			&schema.Field{Name: "ok", Type: schema.ScalarRef(schema.ScalarBoolean).AsNonNull()},
		),
		schema.NewTypeDefinition("Unit"),
	)
	files, err := NewGenerator(model, "out").Files()
	require.NoError(t, err)
	require.Len(t, files, 2)

	unit := string(files[1].Source)
	assert.Contains(t, unit, "type UnitSelection struct")
	assert.Contains(t, unit, "type UnitData struct")
	assert.NotContains(t, unit, "const")
	assert.NotContains(t, unit, "any]", "field-less types are not generic")
}

// A schema may reference its own root type from a field; the root builder
// then needs a Sub handle alongside Build.
func TestFilesRecursiveRoot(t *testing.T) {
	model := schema.New("Query",
		schema.NewTypeDefinition("Query",
			&schema.Field{Name: "ok", Type: schema.ScalarRef(schema.ScalarBoolean).AsNonNull()},
			&schema.Field{Name: "self", Type: schema.NamedRef("Query")},
		),
	)
	files, err := NewGenerator(model, "out").Files()
	require.NoError(t, err)
	require.Len(t, files, 1)

	query := string(files[0].Source)
	assert.Contains(t, query, "func QueryWithSelf[TOk, TSelf, D any](s QuerySelection[TOk, TSelf], sub typedql.Sub[D]) QuerySelection[TOk, typedql.Value[*D]]")
	assert.Contains(t, query, "func (s QuerySelection[TOk, TSelf]) Sub() typedql.Sub[QueryData[TOk, TSelf]]")
	assert.Contains(t, query, "func (s QuerySelection[TOk, TSelf]) Build() typedql.Operation[QueryData[TOk, TSelf]]")
}

func TestFilesInvariant(t *testing.T) {
	t.Run("Unresolved", func(t *testing.T) {
		model := schema.New("Query",
			schema.NewTypeDefinition("Query",
				&schema.Field{Name: "hero", Type: schema.NamedRef("Ghost")},
			),
		)
		_, err := NewGenerator(model, "out").Files()
		require.Error(t, err)
		assert.True(t, IsInvariant(err))
		assert.Contains(t, err.Error(), "Ghost")
	})
	t.Run("MissingRoot", func(t *testing.T) {
		model := schema.New("Query",
			schema.NewTypeDefinition("Character",
				&schema.Field{Name: "name", Type: schema.ScalarRef(schema.ScalarString).AsNonNull()},
			),
		)
		_, err := NewGenerator(model, "out").Files()
		require.Error(t, err)
		assert.True(t, IsInvariant(err))
	})
}

func TestFilesNaming(t *testing.T) {
	t.Run("FieldCollision", func(t *testing.T) {
		model := schema.New("Query",
			schema.NewTypeDefinition("Query",
				&schema.Field{Name: "name", Type: schema.ScalarRef(schema.ScalarString).AsNonNull()},
				&schema.Field{Name: "Name", Type: schema.ScalarRef(schema.ScalarString).AsNonNull()},
			),
		)
		_, err := NewGenerator(model, "out").Files()
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrNaming))
		var nerr *NamingError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, "Query", nerr.Type)
		assert.Equal(t, "Name", nerr.Field)
	})
	t.Run("FileCollision", func(t *testing.T) {
		model := schema.New("Query",
			schema.NewTypeDefinition("Query",
				&schema.Field{Name: "ok", Type: schema.ScalarRef(schema.ScalarBoolean).AsNonNull()},
			),
			schema.NewTypeDefinition("QUERY"),
		)
		_, err := NewGenerator(model, "out").Files()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNaming))
	})
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "starwars")
	g := NewGenerator(starwarsModel(), dir).WithWorkers(2)
	require.NoError(t, g.Generate(context.Background()))

	files, err := g.Files()
	require.NoError(t, err)
	for _, f := range files {
		written, err := os.ReadFile(filepath.Join(dir, f.Name))
		require.NoError(t, err)
		assert.Equal(t, f.Source, written)
	}
}

func TestGenerateOutputError(t *testing.T) {
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0o644))

	err := NewGenerator(starwarsModel(), blocked).Generate(context.Background())
	require.Error(t, err)
	assert.True(t, IsOutput(err))
}

func TestNaming(t *testing.T) {
	assert.Equal(t, "HomeWorld", exported("home_world"))
	assert.Equal(t, "Name", methodName("name"))
	assert.Equal(t, "SubField", methodName("sub"), "reserved builder method names take a suffix")
	assert.Equal(t, "BuildField", methodName("build"))
	assert.Equal(t, "TName", typeParam("name"))
	assert.Equal(t, "CharacterFieldName", tokenName("Character", "name"))
	assert.Equal(t, "CharacterWithFriends", withName("Character", "friends"))
}
