package collection

import (
	"io/fs"

	"github.com/facette/natsort"

	"github.com/treantools/treant/pkg/limb"
	"github.com/treantools/treant/pkg/tree"
	"github.com/treantools/treant/tapi"
)

// Bundle is an ordered, duplicate-free set of treants, keyed by treant id.
//
// Order is first-seen insertion order.  Adding a treant whose id is already
// present is a no-op, even when it was reached through a different path.
type Bundle struct {
	fsys     fs.FS
	registry *limb.Registry
	members  []*tree.Treant
	index    map[tapi.TreantID]int
	limbs    map[string]limb.Limb
}

// NewBundle builds a bundle from heterogeneous sources.
//
// Each source may be nil (skipped), a *tree.Treant, a *tree.Tree or a path
// string (opened as a treant), another *Bundle or *View (members absorbed),
// or a []interface{} of any of these.
//
// An fsys handle is required, but is typically `os.DirFS("/")` outside of tests.
//
// Errors:
//
//    - treant-error-invalid-argument -- when a source is of an unsupported type.
//    - treant-error-not-a-treant -- when a path or tree source has no state record.
//    - treant-error-corrupt-record -- when a source's record exists but fails to parse.
//    - treant-error-datatoonew -- when a source's record is from a newer version of this library.
//    - treant-error-io -- when a source's record cannot be read.
func NewBundle(fsys fs.FS, registry *limb.Registry, sources ...interface{}) (*Bundle, error) {
	b := &Bundle{
		fsys:     fsys,
		registry: registry,
		index:    make(map[tapi.TreantID]int),
		limbs:    make(map[string]limb.Limb),
	}
	if err := b.Add(sources...); err != nil {
		return nil, err
	}
	return b, nil
}

// Add inserts sources into the bundle, in order.  Sources take the same
// forms NewBundle accepts.  Members already present are left alone.
//
// Errors:
//
//    - treant-error-invalid-argument -- when a source is of an unsupported type.
//    - treant-error-not-a-treant -- when a path or tree source has no state record.
//    - treant-error-corrupt-record -- when a source's record exists but fails to parse.
//    - treant-error-datatoonew -- when a source's record is from a newer version of this library.
//    - treant-error-io -- when a source's record cannot be read.
func (b *Bundle) Add(sources ...interface{}) error {
	for _, src := range sources {
		switch src := src.(type) {
		case nil:
			// Tolerated so callers can splice in optional sources.
		case *tree.Treant:
			b.insert(src)
		case *tree.Tree:
			_, path := src.Path()
			t, err := tree.Open(b.fsys, path, b.registry)
			if err != nil {
				return err
			}
			b.insert(t)
		case string:
			t, err := tree.Open(b.fsys, src, b.registry)
			if err != nil {
				return err
			}
			b.insert(t)
		case *Bundle:
			for _, t := range src.members {
				b.insert(t)
			}
		case *View:
			vb, err := src.Bundle()
			if err != nil {
				return err
			}
			for _, t := range vb.members {
				b.insert(t)
			}
		case []interface{}:
			if err := b.Add(src...); err != nil {
				return err
			}
		default:
			return tapi.ErrorArgument("cannot bundle a value of type %T", src)
		}
	}
	return nil
}

func (b *Bundle) insert(t *tree.Treant) {
	if _, ok := b.index[t.ID()]; ok {
		return
	}
	b.index[t.ID()] = len(b.members)
	b.members = append(b.members, t)
}

// Remove deletes members from the bundle.  Each argument may be a
// *tree.Treant or a tapi.TreantID.  Removing an absent member is a no-op.
//
// Errors:
//
//    - treant-error-invalid-argument -- when an argument is of an unsupported type.
func (b *Bundle) Remove(members ...interface{}) error {
	for _, m := range members {
		switch m := m.(type) {
		case *tree.Treant:
			b.drop(m.ID())
		case tapi.TreantID:
			b.drop(m)
		default:
			return tapi.ErrorArgument("cannot remove a value of type %T from a bundle", m)
		}
	}
	return nil
}

func (b *Bundle) drop(id tapi.TreantID) {
	i, ok := b.index[id]
	if !ok {
		return
	}
	b.members = append(b.members[:i], b.members[i+1:]...)
	delete(b.index, id)
	for j := i; j < len(b.members); j++ {
		b.index[b.members[j].ID()] = j
	}
}

// Members returns the bundle's treants in first-seen order.
func (b *Bundle) Members() []*tree.Treant {
	return append([]*tree.Treant(nil), b.members...)
}

// Len returns the number of members.
func (b *Bundle) Len() int {
	return len(b.members)
}

// Contains reports whether a treant with the given id is a member.
func (b *Bundle) Contains(id tapi.TreantID) bool {
	_, ok := b.index[id]
	return ok
}

// Get returns the member with the given id, if present.
func (b *Bundle) Get(id tapi.TreantID) (*tree.Treant, bool) {
	i, ok := b.index[id]
	if !ok {
		return nil, false
	}
	return b.members[i], true
}

// IDs returns the member ids in first-seen order.
func (b *Bundle) IDs() []tapi.TreantID {
	out := make([]tapi.TreantID, len(b.members))
	for i, t := range b.members {
		out[i] = t.ID()
	}
	return out
}

// Names returns the member directory names in first-seen order.
func (b *Bundle) Names() []string {
	out := make([]string, len(b.members))
	for i, t := range b.members {
		out[i] = t.Name()
	}
	return out
}

// Registry returns the limb registry this bundle was constructed with.
func (b *Bundle) Registry() *limb.Registry {
	return b.registry
}

// Attach instantiates the named aggregate limbs on this bundle via its
// registry.  Attaching a limb that is already present is a no-op.
//
// Errors:
//
//    - treant-error-limb -- when a name is unknown, the bundle is an unsuitable
//       host, or the bundle has no registry.
func (b *Bundle) Attach(names ...string) error {
	if b.registry == nil {
		return tapi.ErrorLimb("", "this bundle has no limb registry")
	}
	for _, name := range names {
		if _, ok := b.limbs[name]; ok {
			continue
		}
		l, err := b.registry.NewAggregate(name, b)
		if err != nil {
			return err
		}
		b.limbs[name] = l
	}
	return nil
}

// Limb returns the attached aggregate limb with the given name, if present.
func (b *Bundle) Limb(name string) (limb.Limb, bool) {
	l, ok := b.limbs[name]
	return l, ok
}

// LimbNames lists the names of attached aggregate limbs in natural sort order.
func (b *Bundle) LimbNames() []string {
	names := make([]string, 0, len(b.limbs))
	for name := range b.limbs {
		names = append(names, name)
	}
	natsort.Sort(names)
	return names
}

// empty returns a fresh bundle sharing this one's fs and registry.
func (b *Bundle) empty() *Bundle {
	return &Bundle{
		fsys:     b.fsys,
		registry: b.registry,
		index:    make(map[tapi.TreantID]int),
		limbs:    make(map[string]limb.Limb),
	}
}

// propagateLimbs re-instantiates the union of the operands' limb names
// against out.  Names the registry cannot serve for this host are dropped
// rather than failing the whole set operation.
func (b *Bundle) propagateLimbs(out *Bundle, operands ...*Bundle) {
	if out.registry == nil {
		return
	}
	seen := make(map[string]struct{})
	for _, op := range operands {
		for name := range op.limbs {
			seen[name] = struct{}{}
		}
	}
	for name := range seen {
		l, err := out.registry.NewAggregate(name, out)
		if err != nil {
			continue
		}
		out.limbs[name] = l
	}
}

// Union returns a bundle holding every member of this bundle and the others.
// This bundle's members come first in their own order, then each other
// bundle's new members in operand order.
func (b *Bundle) Union(others ...*Bundle) *Bundle {
	out := b.empty()
	for _, t := range b.members {
		out.insert(t)
	}
	for _, other := range others {
		for _, t := range other.members {
			out.insert(t)
		}
	}
	b.propagateLimbs(out, append([]*Bundle{b}, others...)...)
	return out
}

// Intersection returns a bundle holding the members of this bundle that are
// present in every other, in this bundle's order.
func (b *Bundle) Intersection(others ...*Bundle) *Bundle {
	out := b.empty()
	for _, t := range b.members {
		inAll := true
		for _, other := range others {
			if !other.Contains(t.ID()) {
				inAll = false
				break
			}
		}
		if inAll {
			out.insert(t)
		}
	}
	b.propagateLimbs(out, append([]*Bundle{b}, others...)...)
	return out
}

// Difference returns a bundle holding the members of this bundle that are
// present in none of the others, in this bundle's order.
func (b *Bundle) Difference(others ...*Bundle) *Bundle {
	out := b.empty()
	for _, t := range b.members {
		inAny := false
		for _, other := range others {
			if other.Contains(t.ID()) {
				inAny = true
				break
			}
		}
		if !inAny {
			out.insert(t)
		}
	}
	b.propagateLimbs(out, append([]*Bundle{b}, others...)...)
	return out
}

// SymmetricDifference returns a bundle holding the members present in
// exactly one of the two bundles: this bundle's uniques first, then the
// other's, each in their own order.
func (b *Bundle) SymmetricDifference(other *Bundle) *Bundle {
	out := b.empty()
	for _, t := range b.members {
		if !other.Contains(t.ID()) {
			out.insert(t)
		}
	}
	for _, t := range other.members {
		if !b.Contains(t.ID()) {
			out.insert(t)
		}
	}
	b.propagateLimbs(out, b, other)
	return out
}

// View projects the bundle to a view over the members' directories,
// in the same order.  The projected trees share no limb instances with
// the bundle's treants.
func (b *Bundle) View() *View {
	v := newView(b.fsys, b.registry)
	for _, t := range b.members {
		v.insert(t.AsTree())
	}
	return v
}
