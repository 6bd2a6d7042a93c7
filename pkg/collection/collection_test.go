package collection

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"

	"github.com/treantools/treant/pkg/tree"
	"github.com/treantools/treant/tapi"
)

// makeTreants initializes n treant directories under a fresh temp dir and
// returns them, oldest first.
func makeTreants(t *testing.T, n int) []*tree.Treant {
	t.Helper()
	fsys := os.DirFS("/")
	base := t.TempDir()
	reg := DefaultRegistry()
	out := make([]*tree.Treant, n)
	for i := range out {
		tr, err := tree.Create(fsys, filepath.Join(base, "set"+string(rune('a'+i))), tree.DefaultKind, reg)
		qt.Assert(t, err, qt.IsNil)
		out[i] = tr
	}
	return out
}

func mustBundle(t *testing.T, sources ...interface{}) *Bundle {
	t.Helper()
	b, err := NewBundle(os.DirFS("/"), DefaultRegistry(), sources...)
	qt.Assert(t, err, qt.IsNil)
	return b
}

func TestBundleConstruction(t *testing.T) {
	ts := makeTreants(t, 3)
	fsys := os.DirFS("/")

	t.Run("mixed-sources-dedup-by-id", func(t *testing.T) {
		_, path0 := ts[0].Path()
		b, err := NewBundle(fsys, DefaultRegistry(),
			ts[0],
			path0, // same treant again, by path this time
			[]interface{}{ts[1], ts[2]},
			nil,
		)
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, b.Len(), qt.Equals, 3)
		qt.Check(t, b.IDs(), qt.DeepEquals, []tapi.TreantID{ts[0].ID(), ts[1].ID(), ts[2].ID()})
	})
	t.Run("path-to-a-plain-dir-refused", func(t *testing.T) {
		_, err := NewBundle(fsys, DefaultRegistry(), t.TempDir())
		qt.Check(t, serum.Code(err), qt.Equals, tapi.ECodeNotATreant)
	})
	t.Run("unsupported-source-type", func(t *testing.T) {
		_, err := NewBundle(fsys, DefaultRegistry(), 42)
		qt.Check(t, serum.Code(err), qt.Equals, tapi.ECodeArgument)
	})
	t.Run("add-and-remove-are-idempotent", func(t *testing.T) {
		b := mustBundle(t, ts[0], ts[1])
		qt.Assert(t, b.Add(ts[0]), qt.IsNil)
		qt.Check(t, b.Len(), qt.Equals, 2)

		qt.Assert(t, b.Remove(ts[0]), qt.IsNil)
		qt.Assert(t, b.Remove(ts[0]), qt.IsNil)
		qt.Assert(t, b.Remove(ts[2].ID()), qt.IsNil) // never was a member
		qt.Check(t, b.IDs(), qt.DeepEquals, []tapi.TreantID{ts[1].ID()})
		qt.Check(t, b.Contains(ts[0].ID()), qt.IsFalse)
	})
	t.Run("get", func(t *testing.T) {
		b := mustBundle(t, ts[0])
		got, ok := b.Get(ts[0].ID())
		qt.Assert(t, ok, qt.IsTrue)
		qt.Check(t, got.ID(), qt.Equals, ts[0].ID())
		_, ok = b.Get(ts[1].ID())
		qt.Check(t, ok, qt.IsFalse)
	})
}

func TestBundleSetAlgebra(t *testing.T) {
	ts := makeTreants(t, 4)
	ab := mustBundle(t, ts[0], ts[1])
	bc := mustBundle(t, ts[1], ts[2])
	cd := mustBundle(t, ts[2], ts[3])

	t.Run("union-keeps-left-order-then-new", func(t *testing.T) {
		got := ab.Union(bc)
		qt.Check(t, got.IDs(), qt.DeepEquals, []tapi.TreantID{ts[0].ID(), ts[1].ID(), ts[2].ID()})
		// operands are untouched
		qt.Check(t, ab.Len(), qt.Equals, 2)
		qt.Check(t, bc.Len(), qt.Equals, 2)
	})
	t.Run("union-membership-is-symmetric", func(t *testing.T) {
		left := ab.Union(bc)
		right := bc.Union(ab)
		qt.Check(t, left.Len(), qt.Equals, right.Len())
		for _, id := range left.IDs() {
			qt.Check(t, right.Contains(id), qt.IsTrue)
		}
	})
	t.Run("intersection", func(t *testing.T) {
		qt.Check(t, ab.Intersection(bc).IDs(), qt.DeepEquals, []tapi.TreantID{ts[1].ID()})
		qt.Check(t, ab.Intersection(cd).Len(), qt.Equals, 0)
		qt.Check(t, ab.Intersection(ab).IDs(), qt.DeepEquals, ab.IDs())
	})
	t.Run("difference", func(t *testing.T) {
		qt.Check(t, ab.Difference(bc).IDs(), qt.DeepEquals, []tapi.TreantID{ts[0].ID()})
		qt.Check(t, ab.Difference(ab).Len(), qt.Equals, 0)
		qt.Check(t, ab.Difference(bc, cd).IDs(), qt.DeepEquals, []tapi.TreantID{ts[0].ID()})
	})
	t.Run("symmetric-difference", func(t *testing.T) {
		got := ab.SymmetricDifference(bc)
		qt.Check(t, got.IDs(), qt.DeepEquals, []tapi.TreantID{ts[0].ID(), ts[2].ID()})
	})
	t.Run("n-ary-union", func(t *testing.T) {
		got := ab.Union(bc, cd)
		qt.Check(t, got.Len(), qt.Equals, 4)
	})
}

func TestBundleLimbPropagation(t *testing.T) {
	ts := makeTreants(t, 2)
	ab := mustBundle(t, ts[0])
	other := mustBundle(t, ts[1])

	qt.Assert(t, ab.Attach(tree.LimbName_Tags), qt.IsNil)
	qt.Assert(t, other.Attach(tree.LimbName_Categories), qt.IsNil)

	t.Run("results-carry-the-union-of-limb-names", func(t *testing.T) {
		got := ab.Union(other)
		qt.Check(t, got.LimbNames(), qt.DeepEquals, []string{tree.LimbName_Categories, tree.LimbName_Tags})
	})
	t.Run("limbs-are-fresh-instances-not-shared", func(t *testing.T) {
		got := ab.Union(other)
		orig, _ := ab.Limb(tree.LimbName_Tags)
		prop, _ := got.Limb(tree.LimbName_Tags)
		qt.Check(t, orig == prop, qt.IsFalse)
	})
	t.Run("attach-unknown-aggregate", func(t *testing.T) {
		err := ab.Attach("leaves")
		qt.Check(t, serum.Code(err), qt.Equals, tapi.ECodeLimb)
	})
}

func TestProjections(t *testing.T) {
	ts := makeTreants(t, 2)
	fsys := os.DirFS("/")
	plainDir := t.TempDir()

	t.Run("bundle-to-view-keeps-order", func(t *testing.T) {
		b := mustBundle(t, ts[0], ts[1])
		v := b.View()
		_, p0 := ts[0].Path()
		_, p1 := ts[1].Path()
		qt.Check(t, v.Paths(), qt.DeepEquals, []string{p0, p1})
	})
	t.Run("view-to-bundle-keeps-only-treants", func(t *testing.T) {
		_, p0 := ts[0].Path()
		v, err := NewView(fsys, DefaultRegistry(), p0, plainDir)
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, v.Len(), qt.Equals, 2)

		b, err := v.Bundle()
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, b.IDs(), qt.DeepEquals, []tapi.TreantID{ts[0].ID()})
	})
	t.Run("round-trip", func(t *testing.T) {
		b := mustBundle(t, ts[0], ts[1])
		back, err := b.View().Bundle()
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, back.IDs(), qt.DeepEquals, b.IDs())
	})
}

func TestView(t *testing.T) {
	fsys := os.DirFS("/")

	t.Run("keyed-by-canonical-path", func(t *testing.T) {
		v, err := NewView(fsys, nil, "/data/set1", "data/set1/", "data/set2")
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, v.Paths(), qt.DeepEquals, []string{"data/set1", "data/set2"})
		qt.Check(t, v.Contains("/data/set1"), qt.IsTrue)
		qt.Check(t, v.Names(), qt.DeepEquals, []string{"set1", "set2"})
	})
	t.Run("set-algebra", func(t *testing.T) {
		ab, err := NewView(fsys, nil, "data/a", "data/b")
		qt.Assert(t, err, qt.IsNil)
		bc, err := NewView(fsys, nil, "data/b", "data/c")
		qt.Assert(t, err, qt.IsNil)

		qt.Check(t, ab.Union(bc).Paths(), qt.DeepEquals, []string{"data/a", "data/b", "data/c"})
		qt.Check(t, ab.Intersection(bc).Paths(), qt.DeepEquals, []string{"data/b"})
		qt.Check(t, ab.Difference(bc).Paths(), qt.DeepEquals, []string{"data/a"})
		qt.Check(t, ab.SymmetricDifference(bc).Paths(), qt.DeepEquals, []string{"data/a", "data/c"})
	})
	t.Run("remove-is-idempotent", func(t *testing.T) {
		v, err := NewView(fsys, nil, "data/a", "data/b")
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, v.Remove("data/a"), qt.IsNil)
		qt.Assert(t, v.Remove("/data/a"), qt.IsNil)
		qt.Check(t, v.Paths(), qt.DeepEquals, []string{"data/b"})
	})
	t.Run("unsupported-source-type", func(t *testing.T) {
		_, err := NewView(fsys, nil, 3.14)
		qt.Check(t, serum.Code(err), qt.Equals, tapi.ECodeArgument)
	})
}

func TestAggregateLimbs(t *testing.T) {
	ts := makeTreants(t, 3)
	qt.Assert(t, ts[0].Tags().Add("science", "shared"), qt.IsNil)
	qt.Assert(t, ts[1].Tags().Add("archive", "shared"), qt.IsNil)
	qt.Assert(t, ts[2].Tags().Add("shared"), qt.IsNil)

	qt.Assert(t, ts[0].Categories().Set("temperature", "300"), qt.IsNil)
	qt.Assert(t, ts[0].Categories().Set("solvent", "water"), qt.IsNil)
	qt.Assert(t, ts[1].Categories().Set("temperature", "310"), qt.IsNil)

	b := mustBundle(t, ts[0], ts[1], ts[2])

	t.Run("tags-any-is-the-union", func(t *testing.T) {
		got, err := b.Tags().Any()
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, got, qt.DeepEquals, []string{"archive", "science", "shared"})
	})
	t.Run("tags-all-is-the-intersection", func(t *testing.T) {
		got, err := b.Tags().All()
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, got, qt.DeepEquals, []string{"shared"})
	})
	t.Run("category-keys", func(t *testing.T) {
		anyKeys, err := b.Categories().AnyKeys()
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, anyKeys, qt.DeepEquals, []string{"solvent", "temperature"})

		allKeys, err := b.Categories().AllKeys()
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, allKeys, qt.HasLen, 0)
	})
	t.Run("category-values-in-member-order", func(t *testing.T) {
		got, err := b.Categories().Get("temperature")
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, got, qt.DeepEquals, []string{"300", "310"})
	})
	t.Run("empty-bundle", func(t *testing.T) {
		empty := mustBundle(t)
		got, err := empty.Tags().All()
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, got, qt.HasLen, 0)
	})
}
