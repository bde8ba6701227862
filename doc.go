// Package typedql is the runtime support library for typedql-generated
// GraphQL clients.
//
// The typedql command turns a GraphQL schema definition into a generated
// package of selection builders and response types. Generated code tracks
// the set of selected fields in its type parameters: every field of a
// response type is either a [Value] slot (the field was selected and has a
// typed accessor) or a [Skip] slot (the field was not selected and any
// access fails to compile). This package provides the schema-independent
// primitives that generated code is written against; it is written once and
// does not change per schema.
//
// A typical round trip with a generated package looks like:
//
//	sel := starwars.NewCharacterSelection().Name()
//	op := starwars.QueryWithHero(starwars.NewQuerySelection(), sel.Sub()).Build()
//
//	client := typedql.NewClient(transport)
//	resp, err := typedql.Send(ctx, client, op).Wait(ctx)
//	if err != nil {
//	    return err
//	}
//	name := resp.Data.Hero.Val().Name.Val()
//
// Accessing a field that was not selected, such as .Age on the selection
// above, is rejected by the compiler rather than failing at run time.
//
// Network transport is intentionally out of scope: callers supply a
// [Transport] implementation, and [Send] performs exactly one round trip
// through it.
package typedql
