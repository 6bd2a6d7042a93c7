/*
	Package limb defines the capability-attachment model shared by trees,
	treants, and collections.

	A limb is a named behavior module bound to exactly one host.  Limbs
	carry no identity of their own: when collection set operations
	propagate limbs onto a result, the limb is re-instantiated fresh
	against the result host by its registered factory, never shared or
	copied across hosts.  (Sharing instances would alias behavior across
	unrelated collections.)

	Registries are explicit values passed to constructors rather than
	process-global state, so tests can run with isolated registries in
	parallel.
*/
package limb

import (
	"github.com/facette/natsort"

	"github.com/treantools/treant/tapi"
)

// Limb is a named capability instance bound to a single host.
type Limb interface {
	// Name returns the limb's registry name, unique per host.
	Name() string
}

// Factory constructs a limb instance bound to the given host.
//
// Factories inspect the host for the concrete types or interfaces they
// require (e.g. a state-backed treant), and must refuse unsuitable hosts
// with a treant-error-limb error rather than constructing a limb that
// cannot function.
//
// Errors:
//
//    - treant-error-limb -- when the host does not support this limb.
type Factory func(host interface{}) (Limb, error)

// Registry maps limb names to factories.
//
// Plain factories serve single-directory hosts (Tree, Treant); aggregate
// factories serve collection hosts (Bundle, View) under the same name.
type Registry struct {
	factories  map[string]Factory
	aggregates map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories:  make(map[string]Factory),
		aggregates: make(map[string]Factory),
	}
}

// Register adds (or replaces) the plain factory for a limb name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// RegisterAggregate adds (or replaces) the aggregate factory for a limb name.
func (r *Registry) RegisterAggregate(name string, f Factory) {
	r.aggregates[name] = f
}

// Has reports whether a plain factory is registered for the name.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// HasAggregate reports whether an aggregate factory is registered for the name.
func (r *Registry) HasAggregate(name string) bool {
	_, ok := r.aggregates[name]
	return ok
}

// New instantiates the named limb against the given host.
//
// Errors:
//
//    - treant-error-limb -- when the name is unknown, or the host does not support the limb.
func (r *Registry) New(name string, host interface{}) (Limb, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, tapi.ErrorLimb(name, "no such limb is registered")
	}
	return f(host)
}

// NewAggregate instantiates the named aggregate limb against a collection host.
//
// Errors:
//
//    - treant-error-limb -- when the name is unknown, or the host does not support the limb.
func (r *Registry) NewAggregate(name string, host interface{}) (Limb, error) {
	f, ok := r.aggregates[name]
	if !ok {
		return nil, tapi.ErrorLimb(name, "no such aggregate limb is registered")
	}
	return f(host)
}

// Names lists all registered plain limb names in natural sort order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	natsort.Sort(names)
	return names
}
