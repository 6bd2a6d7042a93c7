package tree

import (
	"io/fs"
	"testing"
	"testing/fstest"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"

	"github.com/treantools/treant/tapi"
)

// projects out just the paths from a list of trees; makes convenient diffables for test results.
func projectTreePaths(trees []*Tree) []string {
	var res []string
	for _, t := range trees {
		_, pth := t.Path()
		res = append(res, pth)
	}
	return res
}

func TestCanonicalPath(t *testing.T) {
	qt.Check(t, CanonicalPath("/data/set1"), qt.Equals, "data/set1")
	qt.Check(t, CanonicalPath("data/set1/"), qt.Equals, "data/set1")
	qt.Check(t, CanonicalPath("data//set1/../set2"), qt.Equals, "data/set2")
	qt.Check(t, CanonicalPath("/"), qt.Equals, "")
}

func TestTree(t *testing.T) {
	fsys := fstest.MapFS{
		"data/set1/.keep":        &fstest.MapFile{},
		"data/set1/run2/.keep":   &fstest.MapFile{},
		"data/set1/run10/.keep":  &fstest.MapFile{},
		"data/set1/extras/.keep": &fstest.MapFile{},
		"data/set1/notes.txt":    &fstest.MapFile{Data: []byte("hi")},
	}
	t.Run("identity-is-the-path", func(t *testing.T) {
		a := New(fsys, "/data/set1", nil)
		b := New(fsys, "data/set1/", nil)
		other := New(fsys, "data/set2", nil)
		qt.Check(t, a.Equal(b), qt.IsTrue)
		qt.Check(t, a.Equal(other), qt.IsFalse)
		qt.Check(t, a.Equal(nil), qt.IsFalse)
		qt.Check(t, a.Name(), qt.Equals, "set1")
	})
	t.Run("exists", func(t *testing.T) {
		qt.Check(t, New(fsys, "data/set1", nil).Exists(), qt.IsTrue)
		qt.Check(t, New(fsys, "data/set9", nil).Exists(), qt.IsFalse)
		qt.Check(t, New(fsys, "data/set1/notes.txt", nil).Exists(), qt.IsFalse)
	})
	t.Run("subtrees-are-natsorted-dirs-only", func(t *testing.T) {
		subs, err := New(fsys, "data/set1", nil).Subtrees()
		qt.Assert(t, err, qt.IsNil)
		qt.Check(t, projectTreePaths(subs), qt.DeepEquals, []string{
			"data/set1/extras",
			"data/set1/run2",
			"data/set1/run10",
		})
	})
	t.Run("subtrees-of-absent-dir", func(t *testing.T) {
		_, err := New(fsys, "data/set9", nil).Subtrees()
		qt.Check(t, serum.Code(err), qt.Equals, tapi.ECodeIo)
	})
	t.Run("attach-without-registry", func(t *testing.T) {
		err := New(fsys, "data/set1", nil).Attach(LimbName_Tags)
		qt.Check(t, serum.Code(err), qt.Equals, tapi.ECodeLimb)
	})
	t.Run("attach-unknown-limb", func(t *testing.T) {
		err := New(fsys, "data/set1", DefaultRegistry()).Attach("leaves")
		qt.Check(t, serum.Code(err), qt.Equals, tapi.ECodeLimb)
	})
	t.Run("state-limbs-refuse-plain-trees", func(t *testing.T) {
		err := New(fsys, "data/set1", DefaultRegistry()).Attach(LimbName_Tags)
		qt.Check(t, serum.Code(err), qt.Equals, tapi.ECodeLimb)
	})
}

func TestTreeFSContract(t *testing.T) {
	// Trees read through the fs.FS they were handed; nothing reaches around it.
	fsys := fstest.MapFS{
		"data/set1/run1/.keep": &fstest.MapFile{},
	}
	tr := New(fsys, "data/set1", nil)
	gotFS, gotPath := tr.Path()
	qt.Check(t, gotPath, qt.Equals, "data/set1")
	_, err := fs.Stat(gotFS, gotPath)
	qt.Check(t, err, qt.IsNil)
}
