/*
	Package tree provides the two base object types of this library:

	Tree wraps a directory path and can host attached limbs; it has no
	persistent identity beyond the path itself.

	Treant is a Tree whose directory additionally owns a persistent
	metadata record (stable id, tags, categories) kept in a hidden state
	file.  The on-disk record is the source of truth at all times: reads
	re-read it, and every mutation is a read-modify-write of the whole
	record under an exclusive advisory lock, with an atomic replace on
	the write path.
*/
package tree

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/facette/natsort"

	"github.com/treantools/treant/pkg/limb"
	"github.com/treantools/treant/tapi"
)

// Tree wraps a directory path.
//
// The path is canonicalized at construction and immutable afterwards;
// two Trees are equal iff their canonical paths are equal.
type Tree struct {
	fsys     fs.FS  // the fs.  (Most of the application is expected to use just one of these, but it's always configurable, largely for tests.)
	path     string // canonical directory path -- cleaned and de-rooted.
	registry *limb.Registry
	limbs    map[string]limb.Limb
}

// CanonicalPath cleans a path and strips any leading slash, for ease of
// comparison with other de-rootified paths.  (Paths are kept non-rooted
// internally for consistency with io/fs, whose implementations do not
// accept rooted paths.)
func CanonicalPath(path string) string {
	path = filepath.Clean(path)
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	return path
}

// New returns a Tree over the directory at path.
//
// New does no filesystem work; the directory need not exist yet.
// A nil registry is allowed, but Attach will refuse to work without one.
//
// An fsys handle is required, but is typically `os.DirFS("/")` outside of tests.
func New(fsys fs.FS, path string, registry *limb.Registry) *Tree {
	return &Tree{
		fsys:     fsys,
		path:     CanonicalPath(path),
		registry: registry,
		limbs:    make(map[string]limb.Limb),
	}
}

// Path returns the tree's fs and canonical directory path.
func (t *Tree) Path() (fs.FS, string) {
	return t.fsys, t.path
}

// Name returns the last segment of the tree's path.
func (t *Tree) Name() string {
	return filepath.Base(t.path)
}

// Exists reports whether the tree's directory currently exists.
func (t *Tree) Exists() bool {
	fi, err := fs.Stat(t.fsys, t.path)
	return err == nil && fi.IsDir()
}

// Equal reports whether two trees address the same directory.
func (t *Tree) Equal(other *Tree) bool {
	return other != nil && t.path == other.path
}

// Registry returns the limb registry this tree was constructed with.
func (t *Tree) Registry() *limb.Registry {
	return t.registry
}

// Attach instantiates the named limbs on this tree via its registry.
// Attaching a limb that is already present is a no-op.
//
// Errors:
//
//    - treant-error-limb -- when a name is unknown, the host is unsuitable,
//       or the tree has no registry.
func (t *Tree) Attach(names ...string) error {
	return t.attach(t, names)
}

// attach is shared by Tree and Treant so that limbs land on the outermost host.
func (t *Tree) attach(host interface{}, names []string) error {
	if t.registry == nil {
		return tapi.ErrorLimb("", "this tree has no limb registry")
	}
	for _, name := range names {
		if _, ok := t.limbs[name]; ok {
			continue
		}
		l, err := t.registry.New(name, host)
		if err != nil {
			return err
		}
		t.limbs[name] = l
	}
	return nil
}

// Limb returns the attached limb with the given name, if present.
func (t *Tree) Limb(name string) (limb.Limb, bool) {
	l, ok := t.limbs[name]
	return l, ok
}

// LimbNames lists the names of attached limbs in natural sort order.
func (t *Tree) LimbNames() []string {
	names := make([]string, 0, len(t.limbs))
	for name := range t.limbs {
		names = append(names, name)
	}
	natsort.Sort(names)
	return names
}

// Subtrees lists the immediate child directories of this tree as Trees,
// in natural sort order.
//
// Errors:
//
//    - treant-error-io -- when the directory cannot be read.
func (t *Tree) Subtrees() ([]*Tree, error) {
	entries, err := fs.ReadDir(t.fsys, t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tapi.ErrorIo("tree directory does not exist", t.path, err)
		}
		return nil, tapi.ErrorIo("could not read tree directory", t.path, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	natsort.Sort(names)
	out := make([]*Tree, 0, len(names))
	for _, name := range names {
		out = append(out, New(t.fsys, filepath.Join(t.path, name), t.registry))
	}
	return out, nil
}
