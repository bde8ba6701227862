package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/typedql/schema"
)

// RuntimePkg is the import path of the runtime support library that
// generated code depends on.
const RuntimePkg = "github.com/syssam/typedql"

// A Generator maps one schema model to a package of generated source. The
// mapping is pure: the same model renders byte-identical output, with one
// file per type definition in declaration order. Generators assume a
// parser-validated model and re-check its invariants defensively.
type Generator struct {
	model      *schema.Schema
	outDir     string
	pkg        string
	runtimePkg string
	workers    int
}

// NewGenerator creates a generator writing to outDir. The output package
// name defaults to the base name of outDir.
func NewGenerator(model *schema.Schema, outDir string) *Generator {
	return &Generator{
		model:      model,
		outDir:     outDir,
		pkg:        filepath.Base(outDir),
		runtimePkg: RuntimePkg,
		workers:    runtime.GOMAXPROCS(0),
	}
}

// WithPackage sets the output package name.
func (g *Generator) WithPackage(pkg string) *Generator {
	if pkg != "" {
		g.pkg = pkg
	}
	return g
}

// WithRuntime overrides the import path of the runtime support library.
func (g *Generator) WithRuntime(path string) *Generator {
	if path != "" {
		g.runtimePkg = path
	}
	return g
}

// WithWorkers sets the number of parallel file writers used by Generate.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// A File is one generated source file.
type File struct {
	// Name is the file name relative to the output directory.
	Name string
	// Source is the rendered Go source.
	Source []byte
}

// Files renders the generated package without touching the filesystem.
// It is the pure core of the generator: equal models yield byte-identical
// files.
func (g *Generator) Files() ([]File, error) {
	if err := g.model.Validate(); err != nil {
		return nil, &InvariantError{Cause: err}
	}
	if err := g.checkNames(); err != nil {
		return nil, err
	}
	files := make([]File, 0, len(g.model.Types()))
	for _, t := range g.model.Types() {
		f, err := g.typeFile(t)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := f.Render(&buf); err != nil {
			return nil, fmt.Errorf("typedql: render type %s: %w", t.Name(), err)
		}
		files = append(files, File{Name: strings.ToLower(t.Name()) + ".go", Source: buf.Bytes()})
	}
	return files, nil
}

// Generate renders the package and writes the files under the output
// directory in parallel. Filesystem failures are reported as OutputError.
func (g *Generator) Generate(ctx context.Context) error {
	files, err := g.Files()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return &OutputError{Path: g.outDir, Cause: err}
	}
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for _, file := range files {
		file := file
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(g.outDir, file.Name)
			if err := os.WriteFile(path, file.Source, 0o644); err != nil {
				return &OutputError{Path: path, Cause: err}
			}
			return nil
		})
	}
	return errg.Wait()
}

// checkNames rejects schemas whose names collide after mapping onto Go
// identifiers or file names, e.g. fields "name" and "Name" on one type.
func (g *Generator) checkNames() error {
	typeIdents := make(map[string]bool, len(g.model.Types()))
	fileNames := make(map[string]bool, len(g.model.Types()))
	for _, t := range g.model.Types() {
		ident := exported(t.Name())
		if typeIdents[ident] {
			return &NamingError{Type: t.Name(), Ident: ident}
		}
		typeIdents[ident] = true

		lower := strings.ToLower(t.Name())
		if fileNames[lower] {
			return &NamingError{Type: t.Name(), Ident: lower}
		}
		fileNames[lower] = true

		fieldIdents := make(map[string]bool, len(t.Fields()))
		for _, fl := range t.Fields() {
			id := exported(fl.Name)
			if fieldIdents[id] {
				return &NamingError{Type: t.Name(), Field: fl.Name, Ident: id}
			}
			fieldIdents[id] = true
		}
	}
	return nil
}

func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.pkg)
	f.HeaderComment("Code generated by typedql. DO NOT EDIT.")
	// Registering the runtime package name keeps the import unaliased.
	f.ImportName(g.runtimePkg, path.Base(g.runtimePkg))
	return f
}

// typeFile renders the file for one type definition: field tokens, the
// selection builder with one slot-flipping selector per field, the Sub
// handle, Build on the root type and the response data struct. The root
// builder keeps Sub as well: the root type may be referenced by a field
// like any other type.
func (g *Generator) typeFile(t *schema.TypeDefinition) (*jen.File, error) {
	f := g.newFile()
	g.emitTokens(f, t)
	g.emitSelection(f, t)
	if err := g.emitSelectors(f, t); err != nil {
		return nil, err
	}
	g.emitSub(f, t)
	if t.Name() == g.model.QueryTypeName() {
		g.emitBuild(f, t)
	}
	g.emitData(f, t)
	return f, nil
}

func (g *Generator) emitTokens(f *jen.File, t *schema.TypeDefinition) {
	if len(t.Fields()) == 0 {
		return
	}
	f.Commentf("Field tokens for %s.", t.Name())
	f.Const().DefsFunc(func(grp *jen.Group) {
		for _, fl := range t.Fields() {
			grp.Id(tokenName(t.Name(), fl.Name)).Qual(g.runtimePkg, "Field").Op("=").Lit(fl.Name)
		}
	})
}

func (g *Generator) emitSelection(f *jen.File, t *schema.TypeDefinition) {
	sel := selectionName(t.Name())
	f.Commentf("%s builds a typed field selection of %s. Selecting a field flips its type parameter from Skip to a Value slot and records the field in the value-level selection set, so the response type and the request can never disagree.", sel, t.Name())
	decl := f.Type().Id(sel)
	if params := g.typeParamDecl(t, nil); params != nil {
		decl.Index(params)
	}
	decl.Struct(jen.Id("set").Op("*").Qual(g.runtimePkg, "SelectionSet"))

	skips := make([]jen.Code, len(t.Fields()))
	for i := range skips {
		skips[i] = jen.Qual(g.runtimePkg, "Skip")
	}
	f.Commentf("New%s returns an empty selection of %s.", sel, t.Name())
	f.Func().Id("New" + sel).Params().Add(g.selType(t, skips)).Block(
		jen.Return(g.selType(t, skips).Values(jen.Dict{
			jen.Id("set"): jen.Qual(g.runtimePkg, "NewSelectionSet").Call(jen.Lit(t.Name())),
		})),
	)
}

func (g *Generator) emitSelectors(f *jen.File, t *schema.TypeDefinition) error {
	for i, fl := range t.Fields() {
		switch base(fl.Type).Kind {
		case schema.RefScalar:
			g.emitScalarSelector(f, t, i)
		case schema.RefNamed:
			if _, ok := g.model.Resolve(fl.Type); !ok {
				return &InvariantError{Cause: fmt.Errorf("field %s.%s references undefined type %q", t.Name(), fl.Name, base(fl.Type).Named)}
			}
			g.emitObjectSelector(f, t, i)
		default:
			return &InvariantError{Cause: fmt.Errorf("field %s.%s has malformed type reference", t.Name(), fl.Name)}
		}
	}
	return nil
}

// emitScalarSelector emits the builder method for a scalar field: flip the
// field's slot to Value of the host type, add the token to the set.
func (g *Generator) emitScalarSelector(f *jen.File, t *schema.TypeDefinition, i int) {
	fl := t.Fields()[i]
	slot := jen.Qual(g.runtimePkg, "Value").Index(g.scalarHost(fl.Type))
	ret := func() *jen.Statement { return g.selType(t, g.slotRefs(t, i, slot)) }

	f.Commentf("%s selects the %s field (%s).", methodName(fl.Name), fl.Name, fl.Type)
	f.Func().
		Params(jen.Id("s").Add(g.selType(t, g.slotRefs(t, -1, nil)))).
		Id(methodName(fl.Name)).Params().
		Add(ret()).
		Block(jen.Return(ret().Values(jen.Dict{
			jen.Id("set"): jen.Id("s").Dot("set").Dot("Add").Call(jen.Id(tokenName(t.Name(), fl.Name))),
		})))
}

// emitObjectSelector emits the package-level function selecting an
// object-typed field. The sub-selection arrives as a Sub handle whose type
// parameter D is the sub-selection's data shape; methods cannot introduce
// type parameters, hence the free function.
func (g *Generator) emitObjectSelector(f *jen.File, t *schema.TypeDefinition, i int) {
	fl := t.Fields()[i]
	slot := jen.Qual(g.runtimePkg, "Value").Index(g.objectHost(fl.Type))
	ret := func() *jen.Statement { return g.selType(t, g.slotRefs(t, i, slot)) }

	f.Commentf("%s selects the %s field (%s) with the sub-selection sub.", withName(t.Name(), fl.Name), fl.Name, fl.Type)
	f.Func().
		Id(withName(t.Name(), fl.Name)).
		Index(g.typeParamDecl(t, jen.Id("D"))).
		Params(
			jen.Id("s").Add(g.selType(t, g.slotRefs(t, -1, nil))),
			jen.Id("sub").Qual(g.runtimePkg, "Sub").Index(jen.Id("D")),
		).
		Add(ret()).
		Block(jen.Return(ret().Values(jen.Dict{
			jen.Id("set"): jen.Id("s").Dot("set").Dot("AddSub").Call(
				jen.Id(tokenName(t.Name(), fl.Name)),
				jen.Id("sub").Dot("Set").Call(),
			),
		})))
}

func (g *Generator) emitSub(f *jen.File, t *schema.TypeDefinition) {
	data := func() *jen.Statement { return g.dataType(t, g.slotRefs(t, -1, nil)) }
	f.Comment("Sub returns the selection as a sub-selection handle for embedding into an enclosing selection.")
	f.Func().
		Params(jen.Id("s").Add(g.selType(t, g.slotRefs(t, -1, nil)))).
		Id("Sub").Params().
		Qual(g.runtimePkg, "Sub").Index(data()).
		Block(jen.Return(jen.Qual(g.runtimePkg, "NewSub").Index(data()).Call(jen.Id("s").Dot("set"))))
}

func (g *Generator) emitBuild(f *jen.File, t *schema.TypeDefinition) {
	data := func() *jen.Statement { return g.dataType(t, g.slotRefs(t, -1, nil)) }
	f.Comment("Build finalizes the selection into an executable operation.")
	f.Func().
		Params(jen.Id("s").Add(g.selType(t, g.slotRefs(t, -1, nil)))).
		Id("Build").Params().
		Qual(g.runtimePkg, "Operation").Index(data()).
		Block(jen.Return(jen.Qual(g.runtimePkg, "NewOperation").Index(data()).Call(jen.Id("s").Dot("set"))))
}

func (g *Generator) emitData(f *jen.File, t *schema.TypeDefinition) {
	data := dataName(t.Name())
	f.Commentf("%s is the response shape of a %s selection: one slot per field, instantiated as a Value slot for selected fields and Skip for the rest.", data, t.Name())
	decl := f.Type().Id(data)
	if params := g.typeParamDecl(t, nil); params != nil {
		decl.Index(params)
	}
	decl.StructFunc(func(grp *jen.Group) {
		for _, fl := range t.Fields() {
			grp.Id(exported(fl.Name)).Id(typeParam(fl.Name)).Tag(map[string]string{"json": fl.Name})
		}
	})
}

// typeParamDecl returns the declaration list "TA, TB any", with extra
// appended when given (used for the free-function D parameter). It returns
// nil for field-less types, whose generated types are not generic.
func (g *Generator) typeParamDecl(t *schema.TypeDefinition, extra jen.Code) jen.Code {
	if len(t.Fields()) == 0 && extra == nil {
		return nil
	}
	params := make([]jen.Code, 0, len(t.Fields())+1)
	for _, fl := range t.Fields() {
		params = append(params, jen.Id(typeParam(fl.Name)))
	}
	if extra != nil {
		params = append(params, extra)
	}
	return jen.List(params...).Any()
}

// slotRefs returns the instantiation arguments of a generated generic
// type: the field type parameters by name, with slot i (when >= 0)
// replaced by the given slot type.
func (g *Generator) slotRefs(t *schema.TypeDefinition, i int, slot jen.Code) []jen.Code {
	refs := make([]jen.Code, len(t.Fields()))
	for j, fl := range t.Fields() {
		if j == i {
			refs[j] = slot
		} else {
			refs[j] = jen.Id(typeParam(fl.Name))
		}
	}
	return refs
}

func (g *Generator) selType(t *schema.TypeDefinition, slots []jen.Code) *jen.Statement {
	s := jen.Id(selectionName(t.Name()))
	if len(slots) > 0 {
		s.Index(jen.List(slots...))
	}
	return s
}

func (g *Generator) dataType(t *schema.TypeDefinition, slots []jen.Code) *jen.Statement {
	s := jen.Id(dataName(t.Name()))
	if len(slots) > 0 {
		s.Index(jen.List(slots...))
	}
	return s
}

// scalarHost maps a scalar type reference to its Go host type: String and
// ID become string, Int int, Float float64, Boolean bool; a nullable
// scalar becomes a pointer; a list becomes a slice. A nullable list is a
// plain slice as well, nil standing in for null.
func (g *Generator) scalarHost(ref *schema.TypeRef) jen.Code {
	if ref.Kind == schema.RefList {
		return jen.Index().Add(g.scalarHost(ref.Elem))
	}
	var host *jen.Statement
	switch ref.Scalar {
	case schema.ScalarInt:
		host = jen.Int()
	case schema.ScalarFloat:
		host = jen.Float64()
	case schema.ScalarBoolean:
		host = jen.Bool()
	default: // String, ID
		host = jen.String()
	}
	if !ref.NonNull {
		return jen.Op("*").Add(host)
	}
	return host
}

// objectHost maps an object type reference to its host shape in terms of
// the sub-selection data parameter D.
func (g *Generator) objectHost(ref *schema.TypeRef) jen.Code {
	if ref.Kind == schema.RefList {
		return jen.Index().Add(g.objectHost(ref.Elem))
	}
	if !ref.NonNull {
		return jen.Op("*").Id("D")
	}
	return jen.Id("D")
}

// base unwraps list modifiers down to the scalar or named reference.
func base(ref *schema.TypeRef) *schema.TypeRef {
	for ref.Kind == schema.RefList {
		ref = ref.Elem
	}
	return ref
}
