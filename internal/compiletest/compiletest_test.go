// Package compiletest proves the static access guarantee with the Go
// compiler itself: fixture programs against a freshly generated client
// must compile when they touch only selected fields and must fail when
// they touch anything else.
package compiletest

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/syssam/typedql/compiler/load"
)

const fixtureMod = `module example.com/fixture

go 1.24.0

require github.com/syssam/typedql v0.0.0

replace github.com/syssam/typedql => %s
`

func TestCompile(t *testing.T) {
	if testing.Short() {
		t.Skip("compiles fixture programs with the go tool")
	}
	goTool, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go tool not found in PATH")
	}

	fixtures, err := filepath.Glob(filepath.Join("testdata", "*.txt"))
	require.NoError(t, err)
	require.NotEmpty(t, fixtures)

	for _, path := range fixtures {
		path := path
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txt"), func(t *testing.T) {
			t.Parallel()
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			dir := t.TempDir()
			var want []string
			for _, f := range ar.Files {
				if f.Name == "want" {
					for _, line := range strings.Split(string(f.Data), "\n") {
						if line = strings.TrimSpace(line); line != "" {
							want = append(want, line)
						}
					}
					continue
				}
				target := filepath.Join(dir, filepath.FromSlash(f.Name))
				require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
				require.NoError(t, os.WriteFile(target, f.Data, 0o644))
			}

			root, err := filepath.Abs(filepath.Join("..", ".."))
			require.NoError(t, err)
			mod := fmt.Sprintf(fixtureMod, root)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(mod), 0o644))

			// The fixture imports a client generated through the real
			// pipeline, not a hand-maintained copy.
			cfg := &load.Config{
				Schema:  filepath.Join("testdata", "schema.graphql"),
				Target:  filepath.Join(dir, "starwars"),
				Package: "starwars",
			}
			require.NoError(t, load.Generate(context.Background(), cfg))

			if out, err := run(goTool, dir, "mod", "tidy"); err != nil {
				t.Skipf("go mod tidy failed (offline?):\n%s", out)
			}
			out, err := run(goTool, dir, "build", "./...")
			if len(want) == 0 {
				require.NoError(t, err, "fixture should compile:\n%s", out)
				return
			}
			require.Error(t, err, "fixture should not compile:\n%s", out)
			for _, w := range want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func run(goTool, dir string, args ...string) (string, error) {
	cmd := exec.Command(goTool, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")
	out, err := cmd.CombinedOutput()
	return string(out), err
}
