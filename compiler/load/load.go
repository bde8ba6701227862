package load

import (
	"context"
	"fmt"
	"os"

	"github.com/syssam/typedql/compiler/gen"
	"github.com/syssam/typedql/compiler/parse"
	"github.com/syssam/typedql/schema"
)

// SchemaFile reads and parses the SDL file at path into a schema model.
// Parse errors keep their type and carry positions, so callers can report
// them precisely; only the I/O failure is wrapped here.
func SchemaFile(path string) (*schema.Schema, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("typedql: read schema: %w", err)
	}
	model, err := parse.Parse(string(src))
	if err != nil {
		return nil, err
	}
	return model, nil
}

// Generate runs the pipeline described by cfg: load the schema, render
// the client package, write it under the target directory.
func Generate(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("typedql: config: %w", err)
	}
	model, err := SchemaFile(cfg.Schema)
	if err != nil {
		return err
	}
	return gen.NewGenerator(model, cfg.Target).
		WithPackage(cfg.Package).
		Generate(ctx)
}
