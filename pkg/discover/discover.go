/*
	Package discover locates treants (and, optionally, plain trees) under a
	root directory with a bounded, lazy, depth-first walk.

	Two independent bounds apply: Depth limits how many levels below the
	root are visited at all, and TreantDepth limits how many additional
	levels are searched below any treant that has been found, which is the
	knob for "don't descend into a dataset looking for more datasets".

	The walk holds no locks and tolerates concurrent mutation of the tree
	it is walking; per-directory failures (permissions, corrupt records)
	are warnings, never fatal.  Only a missing root is fatal.
*/
package discover

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/facette/natsort"
	"github.com/serum-errors/go-serum"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/treantools/treant/pkg/limb"
	"github.com/treantools/treant/pkg/logging"
	"github.com/treantools/treant/pkg/tracing"
	"github.com/treantools/treant/pkg/tree"
	"github.com/treantools/treant/tapi"
)

// Unbounded disables a depth limit.
const Unbounded = -1

// Config controls a walk.  The zero value visits only the root itself,
// yields treants only, and discards warnings; pass Unbounded to lift
// either depth bound.
type Config struct {
	// Depth is the maximum number of directory levels below the root that
	// will be visited at all.  Zero visits only the root itself; Unbounded
	// (or any negative value) lifts the limit.
	Depth int

	// TreantDepth bounds nesting under found treants: once a treant is
	// found at some directory, no more than TreantDepth additional levels
	// below it are searched for further nested treants.  This is
	// independent of Depth.  Zero stops descent at every treant found;
	// Unbounded (or any negative value) lifts the limit.
	TreantDepth int

	// Trees includes plain directories (yielded as Trees) in the results,
	// rather than yielding treants only.
	Trees bool

	// Registry is handed to every yielded Tree and Treant.
	Registry *limb.Registry

	// Logger receives recoverable warnings (skipped directories).
	// Nil discards them.
	Logger *logging.Logger
}

// Found is one result of a walk.  Tree is always set; Treant is set
// in addition when the directory carries a valid state record.
type Found struct {
	Tree   *tree.Tree
	Treant *tree.Treant
}

type frame struct {
	path        string
	depth       int // levels below the root.
	sinceTreant int // levels below the nearest treant ancestor; -1 when there is none.
}

// Walker is a lazy, single-pass iterator over the directories of a walk.
// Consuming the results twice requires a new Walker; a walk is not
// restartable midway.
type Walker struct {
	fsys   fs.FS
	root   string
	cfg    Config
	logger logging.Logger
	stack  []frame
}

// New prepares a walk rooted at the given directory.
//
// Finding every treant under root, however deeply nested, takes
// `Config{Depth: Unbounded, TreantDepth: Unbounded}`; the zero Config
// looks at the root directory alone.  An fsys handle is required, but is
// typically `os.DirFS("/")` outside of tests.
//
// Errors:
//
//    - treant-error-root-not-found -- when root does not exist or is not a directory.
//    - treant-error-searching-filesystem -- when root cannot be inspected at all.
func New(fsys fs.FS, root string, cfg Config) (*Walker, error) {
	root = tree.CanonicalPath(root)
	fi, err := fs.Stat(fsys, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tapi.ErrorRootNotFound(root, "no such directory")
		}
		return nil, tapi.ErrorSearchingFilesystem("discovery root", err)
	}
	if !fi.IsDir() {
		return nil, tapi.ErrorRootNotFound(root, "not a directory")
	}
	logger := logging.Quiet()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Walker{
		fsys:   fsys,
		root:   root,
		cfg:    cfg,
		logger: logger,
		stack:  []frame{{path: root, depth: 0, sinceTreant: -1}},
	}, nil
}

// Next visits directories until one qualifies as a result, and returns it.
// Results come in depth-first pre-order, children in natural sort order.
// When the walk is exhausted, Next returns nil for both values.
//
// Directories that cannot be read or whose records cannot be parsed are
// skipped with a warning; a directory removed since it was scheduled is
// skipped silently (trees being walked may be mutated concurrently).
//
// Errors:
//
//    - treant-error-searching-filesystem -- when a directory fails in a way
//       that leaves the search with blind spots it cannot account for.
func (w *Walker) Next() (*Found, error) {
	for len(w.stack) > 0 {
		fr := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		// Classify the directory by attempting to open it as a treant.
		var found *Found
		isTreant := false
		t, err := tree.Open(w.fsys, fr.path, w.cfg.Registry)
		switch serum.Code(err) {
		case "":
			isTreant = true
			found = &Found{Tree: t.AsTree(), Treant: t}
		case tapi.ECodeNotATreant:
			if w.cfg.Trees {
				found = &Found{Tree: tree.New(w.fsys, fr.path, w.cfg.Registry)}
			}
		default:
			// Corrupt, too-new, or unreadable record: skip this directory,
			// carry on with the rest of the walk.
			w.logger.Warn("discover", "skipping %q: %s", fr.path, err)
		}

		// Work out whether children may be visited at all, then schedule them.
		descend := w.cfg.Depth < 0 || fr.depth < w.cfg.Depth
		childSince := -1
		if isTreant {
			childSince = 1
		} else if fr.sinceTreant >= 0 {
			childSince = fr.sinceTreant + 1
		}
		if childSince >= 0 && w.cfg.TreantDepth >= 0 && childSince > w.cfg.TreantDepth {
			descend = false
		}
		if descend {
			if err := w.push(fr, childSince); err != nil {
				return nil, err
			}
		}

		if found != nil {
			return found, nil
		}
	}
	return nil, nil
}

// push schedules the subdirectories of fr, in reverse natural order so the
// stack pops them in natural order.
//
// Errors:
//
//    - treant-error-searching-filesystem -- when the directory listing fails
//       for reasons other than permissions or concurrent removal.
func (w *Walker) push(fr frame, childSince int) error {
	entries, err := fs.ReadDir(w.fsys, fr.path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrPermission):
			w.logger.Warn("discover", "skipping unreadable directory %q: %s", fr.path, err)
			return nil
		case errors.Is(err, fs.ErrNotExist):
			// Removed since it was scheduled; not an error for a live tree.
			return nil
		default:
			return tapi.ErrorSearchingFilesystem("treants", err)
		}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	natsort.Sort(names)
	for i := len(names) - 1; i >= 0; i-- {
		w.stack = append(w.stack, frame{
			path:        filepath.Join(fr.path, names[i]),
			depth:       fr.depth + 1,
			sinceTreant: childSince,
		})
	}
	return nil
}

// Collect drains the walker eagerly and returns everything found.
// A tracing span covers the whole drain; the first fatal error (if any)
// is recorded on it.
//
// Errors:
//
//    - treant-error-searching-filesystem -- when a directory fails in a way
//       that leaves the search with blind spots it cannot account for.
func (w *Walker) Collect(ctx context.Context) ([]*Found, error) {
	ctx, span := tracing.Start(ctx, "discover.collect",
		trace.WithAttributes(attribute.String(tracing.AttrKeyTreantDiscoverRoot, w.root)))
	defer span.End()

	var out []*Found
	for {
		found, err := w.Next()
		if err != nil {
			tracing.SetSpanError(ctx, err)
			return out, err
		}
		if found == nil {
			return out, nil
		}
		out = append(out, found)
	}
}
