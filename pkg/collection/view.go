package collection

import (
	"io/fs"

	"github.com/facette/natsort"
	"github.com/serum-errors/go-serum"

	"github.com/treantools/treant/pkg/limb"
	"github.com/treantools/treant/pkg/tree"
	"github.com/treantools/treant/tapi"
)

// View is an ordered, duplicate-free set of trees, keyed by canonical path.
//
// Trees have no identity beyond their location, so two trees count as the
// same member exactly when their canonical paths are equal.  Order is
// first-seen insertion order.
type View struct {
	fsys     fs.FS
	registry *limb.Registry
	members  []*tree.Tree
	index    map[string]int
	limbs    map[string]limb.Limb
}

func newView(fsys fs.FS, registry *limb.Registry) *View {
	return &View{
		fsys:     fsys,
		registry: registry,
		index:    make(map[string]int),
		limbs:    make(map[string]limb.Limb),
	}
}

// NewView builds a view from heterogeneous sources.
//
// Each source may be nil (skipped), a *tree.Tree, a *tree.Treant (its
// directory), a path string, another *View or *Bundle (members absorbed),
// or a []interface{} of any of these.  No filesystem work is done; the
// directories need not exist yet.
//
// An fsys handle is required, but is typically `os.DirFS("/")` outside of tests.
//
// Errors:
//
//    - treant-error-invalid-argument -- when a source is of an unsupported type.
func NewView(fsys fs.FS, registry *limb.Registry, sources ...interface{}) (*View, error) {
	v := newView(fsys, registry)
	if err := v.Add(sources...); err != nil {
		return nil, err
	}
	return v, nil
}

// Add inserts sources into the view, in order.  Sources take the same forms
// NewView accepts.  Members already present are left alone.
//
// Errors:
//
//    - treant-error-invalid-argument -- when a source is of an unsupported type.
func (v *View) Add(sources ...interface{}) error {
	for _, src := range sources {
		switch src := src.(type) {
		case nil:
		case *tree.Tree:
			v.insert(src)
		case *tree.Treant:
			v.insert(src.AsTree())
		case string:
			v.insert(tree.New(v.fsys, src, v.registry))
		case *View:
			for _, t := range src.members {
				v.insert(t)
			}
		case *Bundle:
			for _, t := range src.View().members {
				v.insert(t)
			}
		case []interface{}:
			if err := v.Add(src...); err != nil {
				return err
			}
		default:
			return tapi.ErrorArgument("cannot view a value of type %T", src)
		}
	}
	return nil
}

func (v *View) insert(t *tree.Tree) {
	_, path := t.Path()
	if _, ok := v.index[path]; ok {
		return
	}
	v.index[path] = len(v.members)
	v.members = append(v.members, t)
}

// Remove deletes members from the view.  Each argument may be a *tree.Tree
// or a path string.  Removing an absent member is a no-op.
//
// Errors:
//
//    - treant-error-invalid-argument -- when an argument is of an unsupported type.
func (v *View) Remove(members ...interface{}) error {
	for _, m := range members {
		switch m := m.(type) {
		case *tree.Tree:
			_, path := m.Path()
			v.drop(path)
		case string:
			v.drop(tree.CanonicalPath(m))
		default:
			return tapi.ErrorArgument("cannot remove a value of type %T from a view", m)
		}
	}
	return nil
}

func (v *View) drop(path string) {
	i, ok := v.index[path]
	if !ok {
		return
	}
	v.members = append(v.members[:i], v.members[i+1:]...)
	delete(v.index, path)
	for j := i; j < len(v.members); j++ {
		_, p := v.members[j].Path()
		v.index[p] = j
	}
}

// Members returns the view's trees in first-seen order.
func (v *View) Members() []*tree.Tree {
	return append([]*tree.Tree(nil), v.members...)
}

// Len returns the number of members.
func (v *View) Len() int {
	return len(v.members)
}

// Contains reports whether a tree at the given path is a member.
func (v *View) Contains(path string) bool {
	_, ok := v.index[tree.CanonicalPath(path)]
	return ok
}

// Paths returns the member canonical paths in first-seen order.
func (v *View) Paths() []string {
	out := make([]string, len(v.members))
	for i, t := range v.members {
		_, out[i] = t.Path()
	}
	return out
}

// Names returns the member directory names in first-seen order.
func (v *View) Names() []string {
	out := make([]string, len(v.members))
	for i, t := range v.members {
		out[i] = t.Name()
	}
	return out
}

// Registry returns the limb registry this view was constructed with.
func (v *View) Registry() *limb.Registry {
	return v.registry
}

// Attach instantiates the named aggregate limbs on this view via its
// registry.  Attaching a limb that is already present is a no-op.
//
// Errors:
//
//    - treant-error-limb -- when a name is unknown, the view is an unsuitable
//       host, or the view has no registry.
func (v *View) Attach(names ...string) error {
	if v.registry == nil {
		return tapi.ErrorLimb("", "this view has no limb registry")
	}
	for _, name := range names {
		if _, ok := v.limbs[name]; ok {
			continue
		}
		l, err := v.registry.NewAggregate(name, v)
		if err != nil {
			return err
		}
		v.limbs[name] = l
	}
	return nil
}

// Limb returns the attached aggregate limb with the given name, if present.
func (v *View) Limb(name string) (limb.Limb, bool) {
	l, ok := v.limbs[name]
	return l, ok
}

// LimbNames lists the names of attached aggregate limbs in natural sort order.
func (v *View) LimbNames() []string {
	names := make([]string, 0, len(v.limbs))
	for name := range v.limbs {
		names = append(names, name)
	}
	natsort.Sort(names)
	return names
}

// propagateLimbs re-instantiates the union of the operands' limb names
// against out.  Names the registry cannot serve for this host are dropped
// rather than failing the whole set operation.
func (v *View) propagateLimbs(out *View, operands ...*View) {
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

// Union returns a view holding every member of this view and the others.
// This view's members come first in their own order, then each other view's
// new members in operand order.
func (v *View) Union(others ...*View) *View {
	out := newView(v.fsys, v.registry)
	for _, t := range v.members {
		out.insert(t)
	}
	for _, other := range others {
		for _, t := range other.members {
			out.insert(t)
		}
	}
	v.propagateLimbs(out, append([]*View{v}, others...)...)
	return out
}

// Intersection returns a view holding the members of this view that are
// present in every other, in this view's order.
func (v *View) Intersection(others ...*View) *View {
	out := newView(v.fsys, v.registry)
	for _, t := range v.members {
		_, path := t.Path()
		inAll := true
		for _, other := range others {
			if !other.Contains(path) {
				inAll = false
				break
			}
		}
		if inAll {
			out.insert(t)
		}
	}
	v.propagateLimbs(out, append([]*View{v}, others...)...)
	return out
}

// Difference returns a view holding the members of this view that are
// present in none of the others, in this view's order.
func (v *View) Difference(others ...*View) *View {
	out := newView(v.fsys, v.registry)
	for _, t := range v.members {
		_, path := t.Path()
		inAny := false
		for _, other := range others {
			if other.Contains(path) {
				inAny = true
				break
			}
		}
		if !inAny {
			out.insert(t)
		}
	}
	v.propagateLimbs(out, append([]*View{v}, others...)...)
	return out
}

// SymmetricDifference returns a view holding the members present in exactly
// one of the two views: this view's uniques first, then the other's, each in
// their own order.
func (v *View) SymmetricDifference(other *View) *View {
	out := newView(v.fsys, v.registry)
	for _, t := range v.members {
		_, path := t.Path()
		if !other.Contains(path) {
			out.insert(t)
		}
	}
	for _, t := range other.members {
		_, path := t.Path()
		if !v.Contains(path) {
			out.insert(t)
		}
	}
	v.propagateLimbs(out, v, other)
	return out
}

// Bundle projects the view to a bundle of the members that carry valid
// treant state records, in the same order.  Plain trees and trees whose
// records are corrupt or too new are silently excluded; that a member
// doesn't qualify is the expected case for a view, not an error.
//
// Errors:
//
//    - treant-error-io -- when a member's record exists but cannot be read.
func (v *View) Bundle() (*Bundle, error) {
	b := &Bundle{
		fsys:     v.fsys,
		registry: v.registry,
		index:    make(map[tapi.TreantID]int),
		limbs:    make(map[string]limb.Limb),
	}
	for _, t := range v.members {
		_, path := t.Path()
		treant, err := tree.Open(v.fsys, path, v.registry)
		switch serum.Code(err) {
		case "":
			b.insert(treant)
		case tapi.ECodeNotATreant, tapi.ECodeCorruptRecord, tapi.ECodeDataTooNew:
			// Not a (readable) treant; leave it out of the bundle.
		default:
			// Error Codes -= treant-error-not-a-treant, treant-error-corrupt-record, treant-error-datatoonew
			return nil, err
		}
	}
	return b, nil
}
