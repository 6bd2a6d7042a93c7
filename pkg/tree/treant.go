package tree

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/serum-errors/go-serum"

	"github.com/treantools/treant/pkg/limb"
	"github.com/treantools/treant/pkg/statefile"
	"github.com/treantools/treant/tapi"
)

// DefaultKind is the kind written for treants created without a more
// specific kind of their own.
const DefaultKind tapi.TreantKind = "Treant"

// Treant is a Tree whose directory owns a persistent state record.
//
// The id and kind are loaded once (they are immutable for the life of the
// directory); tags and categories are never cached -- every access re-reads
// the record, so the in-memory object cannot silently diverge from disk.
type Treant struct {
	Tree
	id   tapi.TreantID
	kind tapi.TreantKind
}

// Create initializes the directory at path as a treant of the given kind.
//
// The directory is created if absent.  A fresh state record is written
// atomically, with a newly generated id, empty tags, and empty categories.
// If any state record already exists at path -- valid, corrupt, or from a
// newer version -- creation refuses to clobber it.
//
// An fsys handle is required, but is typically `os.DirFS("/")` outside of tests.
// Writes go through the os package against the rooted form of the path.
//
// Errors:
//
//    - treant-error-already-exists -- when a conflicting record already exists at path.
//    - treant-error-io -- when the directory or record cannot be written, or an existing record cannot be read.
//    - treant-error-serialization -- when the fresh record cannot be serialized.
//    - treant-error-syscall -- when the record lock cannot be acquired.
func Create(fsys fs.FS, path string, kind tapi.TreantKind, registry *limb.Registry) (*Treant, error) {
	t := New(fsys, path, registry)
	dirPath := filepath.Join("/", t.path)

	if errRaw := os.MkdirAll(dirPath, 0755); errRaw != nil {
		return nil, tapi.ErrorIo("could not create treant directory", dirPath, errRaw)
	}

	lk, err := statefile.LockDir(dirPath)
	if err != nil {
		return nil, err
	}
	defer lk.Unlock()

	// Check for a conflicting record now that we hold the lock.
	_, err = statefile.StateFromFile(fsys, statefile.StatePath(t.path))
	switch serum.Code(err) {
	case tapi.ECodeMissing:
		// No record; ours to create.
	case "":
		return nil, tapi.ErrorAlreadyExists(statefile.StatePath(dirPath))
	case tapi.ECodeCorruptRecord, tapi.ECodeDataTooNew:
		// Something is there, even if we can't make sense of it.  Refuse to clobber.
		return nil, tapi.ErrorAlreadyExists(statefile.StatePath(dirPath))
	default:
		// Error Codes -= treant-error-corrupt-record, treant-error-datatoonew, treant-error-missing
		return nil, err
	}

	state := statefile.InitState(kind)
	if err := statefile.SaveState(dirPath, state); err != nil {
		return nil, err
	}
	return &Treant{Tree: *t, id: state.Id, kind: state.Kind}, nil
}

// Open binds to the treant at path, loading id, tags, and categories from
// the existing state record.  Open assumes a treant is exactly where you
// say; it doesn't search.  Consider the discover package for that.
//
// Repeated opens of the same directory always reproduce the same id.
//
// Errors:
//
//    - treant-error-not-a-treant -- when no state record exists at path.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read.
func Open(fsys fs.FS, path string, registry *limb.Registry) (*Treant, error) {
	t := New(fsys, path, registry)
	state, err := statefile.StateFromFile(fsys, statefile.StatePath(t.path))
	if err != nil {
		switch serum.Code(err) {
		case tapi.ECodeMissing:
			return nil, tapi.ErrorNotATreant(t.path)
		default:
			// Error Codes -= treant-error-missing
			return nil, err
		}
	}
	return &Treant{Tree: *t, id: state.Id, kind: state.Kind}, nil
}

// ID returns the treant's stable identity.
func (t *Treant) ID() tapi.TreantID {
	return t.id
}

// Kind returns the kind recorded when the treant was created.
func (t *Treant) Kind() tapi.TreantKind {
	return t.kind
}

// AsTree returns a fresh Tree over the same directory.
// The new Tree shares no limb instances with the treant.
func (t *Treant) AsTree() *Tree {
	return New(t.fsys, t.path, t.registry)
}

// Attach instantiates the named limbs on this treant via its registry.
// Attaching a limb that is already present is a no-op.
//
// Errors:
//
//    - treant-error-limb -- when a name is unknown, the host is unsuitable,
//       or the treant has no registry.
func (t *Treant) Attach(names ...string) error {
	return t.attach(t, names)
}

// State re-reads the state record from disk and returns it.
// There is no long-lived cache: the result reflects the record at the time
// of the call.  If the record has been removed out from under this object,
// the object is stale and the read fails rather than returning old data.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read.
func (t *Treant) State() (*tapi.TreantState, error) {
	state, err := statefile.StateFromFile(t.fsys, statefile.StatePath(t.path))
	if err != nil {
		switch serum.Code(err) {
		case tapi.ECodeMissing:
			return nil, tapi.ErrorStateUnavailable(t.path, err)
		default:
			// Error Codes -= treant-error-missing
			return nil, err
		}
	}
	return &state, nil
}

// mutateState runs one read-modify-write transaction against the state record.
//
// The exclusive advisory lock is held for the whole cycle and released on
// every exit path; the write is an atomic replace.  This is what makes
// concurrent mutations from other threads or processes safe: each one sees
// the record its predecessor wrote, and no update is lost.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read or written.
//    - treant-error-serialization -- when the modified record cannot be serialized.
//    - treant-error-syscall -- when the record lock cannot be acquired or released.
func (t *Treant) mutateState(fn func(*tapi.TreantState)) error {
	dirPath := filepath.Join("/", t.path)
	lk, err := statefile.LockDir(dirPath)
	if err != nil {
		return err
	}
	defer lk.Unlock()

	state, err := statefile.StateFromFile(t.fsys, statefile.StatePath(t.path))
	if err != nil {
		switch serum.Code(err) {
		case tapi.ECodeMissing:
			return tapi.ErrorStateUnavailable(t.path, err)
		default:
			// Error Codes -= treant-error-missing
			return err
		}
	}
	fn(&state)
	return statefile.SaveState(dirPath, state)
}
