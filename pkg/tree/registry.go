package tree

import (
	"github.com/treantools/treant/pkg/limb"
	"github.com/treantools/treant/tapi"
)

// DefaultRegistry returns a registry carrying the limbs this package
// provides: "tags" and "categories".  Both require a state-backed host,
// so they attach to Treants and refuse plain Trees.
//
// The registry is a fresh value on every call; callers that want custom
// limbs add them to their own copy rather than mutating shared state.
func DefaultRegistry() *limb.Registry {
	r := limb.NewRegistry()
	r.Register(LimbName_Tags, func(host interface{}) (limb.Limb, error) {
		t, ok := host.(*Treant)
		if !ok {
			return nil, tapi.ErrorLimb(LimbName_Tags, "host carries no treant state record")
		}
		return t.Tags(), nil
	})
	r.Register(LimbName_Categories, func(host interface{}) (limb.Limb, error) {
		t, ok := host.(*Treant)
		if !ok {
			return nil, tapi.ErrorLimb(LimbName_Categories, "host carries no treant state record")
		}
		return t.Categories(), nil
	})
	return r
}
