package tapi

import (
	_ "github.com/ipld/go-ipld-prime/codec/json" // side-effecting import; registers a codec.
	"github.com/ipld/go-ipld-prime/schema"
)

// This file is for IPLD-related helpers and constants.

// TypeSystem describes all our API data types and their representation
// strategies in IPLD Schema form.
//
// The prelude types are spawned here; the files declaring Go bindings
// accumulate their own types in init functions.  (Package variable
// initialization is ordered before any init function, so this is safe.)
var TypeSystem = func() *schema.TypeSystem {
	ts := new(schema.TypeSystem)
	ts.Init()
	ts.Accumulate(schema.SpawnBool("Bool"))
	ts.Accumulate(schema.SpawnInt("Int"))
	ts.Accumulate(schema.SpawnFloat("Float"))
	ts.Accumulate(schema.SpawnString("String"))
	return ts
}()
