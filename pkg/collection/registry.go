package collection

import (
	"github.com/treantools/treant/pkg/limb"
	"github.com/treantools/treant/pkg/tree"
	"github.com/treantools/treant/tapi"
)

// DefaultRegistry returns tree.DefaultRegistry extended with the aggregate
// factories this package provides for the same limb names: "tags" and
// "categories" attach to bundles.
//
// The registry is a fresh value on every call.
func DefaultRegistry() *limb.Registry {
	r := tree.DefaultRegistry()
	r.RegisterAggregate(tree.LimbName_Tags, func(host interface{}) (limb.Limb, error) {
		b, ok := host.(*Bundle)
		if !ok {
			return nil, tapi.ErrorLimb(tree.LimbName_Tags, "aggregate tags attach to bundles only")
		}
		return b.Tags(), nil
	})
	r.RegisterAggregate(tree.LimbName_Categories, func(host interface{}) (limb.Limb, error) {
		b, ok := host.(*Bundle)
		if !ok {
			return nil, tapi.ErrorLimb(tree.LimbName_Categories, "aggregate categories attach to bundles only")
		}
		return b.Categories(), nil
	})
	return r
}
