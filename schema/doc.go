// Package schema holds the resolved, validated in-memory representation of
// a GraphQL schema definition.
//
// A [Schema] is produced by compiler/parse and consumed read-only by
// compiler/gen; it is never mutated after construction. Named type
// references are non-owning: a [TypeRef] stores only the referenced type
// name and is resolved through the schema's type table, so self-referential
// and mutually referential type graphs need no cyclic ownership.
package schema
