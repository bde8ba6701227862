package gen

import "github.com/go-openapi/inflect"

// Method names every generated builder reserves for itself. A schema field
// mapping onto one of these gets a "Field" suffix so the generated method
// set stays unambiguous.
var reservedMethods = map[string]bool{
	"Sub":   true,
	"Build": true,
}

// exported returns the exported Go identifier for a schema name.
func exported(name string) string {
	return inflect.Camelize(name)
}

// methodName returns the builder method name selecting the given field.
func methodName(field string) string {
	name := exported(field)
	if reservedMethods[name] {
		name += "Field"
	}
	return name
}

// typeParam returns the type-parameter name of a field's slot.
func typeParam(field string) string {
	return "T" + exported(field)
}

// tokenName returns the name of a field's token constant.
func tokenName(typeName, field string) string {
	return exported(typeName) + "Field" + exported(field)
}

// selectionName returns the name of a type's selection builder.
func selectionName(typeName string) string {
	return exported(typeName) + "Selection"
}

// dataName returns the name of a type's response data struct.
func dataName(typeName string) string {
	return exported(typeName) + "Data"
}

// withName returns the name of the package-level function selecting an
// object-typed field together with its sub-selection.
func withName(typeName, field string) string {
	return exported(typeName) + "With" + exported(field)
}
