package statefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/json"

	"github.com/treantools/treant/tapi"
)

const (
	// MagicFilename_TreantState is the fixed name of the hidden state record
	// inside every treant directory.
	MagicFilename_TreantState = ".treant.json"

	// MagicFilename_TreantLock is the lock file guarding read-modify-write
	// cycles on the state record.  The record itself is replaced by rename,
	// so it cannot carry the lock; this file is never replaced.
	MagicFilename_TreantLock = ".treant.lock"
)

// StatePath returns the path of the state record within a treant directory.
func StatePath(dirPath string) string {
	return filepath.Join(dirPath, MagicFilename_TreantState)
}

// StateFromFile loads a tapi.TreantState from a filesystem path.
//
// In typical usage, the filename parameter will have the suffix of
// MagicFilename_TreantState.
//
// Errors:
//
// 	- treant-error-missing -- when no file exists at the path.
// 	- treant-error-io -- for other errors reading from fsys.
// 	- treant-error-corrupt-record -- when the record exists but fails to parse.
// 	- treant-error-datatoonew -- if encountering a record from a newer version of this library.
func StateFromFile(fsys fs.FS, filename string) (tapi.TreantState, error) {
	const situation = "loading a treant state record"
	if strings.HasPrefix(filename, "/") {
		filename = filename[1:]
	}
	f, err := fs.ReadFile(fsys, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tapi.TreantState{}, tapi.ErrorFileMissing(filename)
		}
		return tapi.TreantState{}, tapi.ErrorIo(situation, filename, err)
	}

	capsule := tapi.TreantStateCapsule{}
	_, err = ipld.Unmarshal(f, json.Decode, &capsule, tapi.TypeSystem.TypeByName("TreantStateCapsule"))
	if err != nil {
		return tapi.TreantState{}, tapi.ErrorCorruptRecord(filename, err)
	}
	if capsule.TreantState == nil {
		return tapi.TreantState{}, tapi.ErrorDataTooNew(situation, fmt.Errorf("no v1 TreantState in TreantStateCapsule"))
	}

	return *capsule.TreantState, nil
}

// SaveState replaces the state record in dirPath with the given state.
//
// The replacement is atomic: the record is serialized into a temporary
// file in the same directory and renamed over the old record, so a crash
// mid-write leaves the prior valid record intact and concurrent readers
// never observe a partial write.
//
// SaveState does not lock; callers performing a read-modify-write must
// hold the lock from LockDir across the whole cycle.
//
// Errors:
//
// 	- treant-error-serialization -- when the state cannot be serialized.
// 	- treant-error-io -- when writing or replacing the record fails.
func SaveState(dirPath string, state tapi.TreantState) error {
	const situation = "saving a treant state record"
	capsule := tapi.TreantStateCapsule{TreantState: &state}
	serial, err := ipld.Marshal(json.Encode, &capsule, tapi.TypeSystem.TypeByName("TreantStateCapsule"))
	if err != nil {
		return tapi.ErrorSerialization(situation, err)
	}

	tmp, errRaw := os.CreateTemp(dirPath, MagicFilename_TreantState+".tmp.*")
	if errRaw != nil {
		return tapi.ErrorIo("could not create temporary state file", dirPath, errRaw)
	}
	tmpPath := tmp.Name()
	if _, errRaw = tmp.Write(serial); errRaw == nil {
		errRaw = tmp.Sync()
	}
	if e2 := tmp.Close(); errRaw == nil {
		errRaw = e2
	}
	if errRaw != nil {
		os.Remove(tmpPath)
		return tapi.ErrorIo("could not write temporary state file", tmpPath, errRaw)
	}

	statePath := StatePath(dirPath)
	if errRaw := os.Rename(tmpPath, statePath); errRaw != nil {
		os.Remove(tmpPath)
		return tapi.ErrorIo("could not replace state file", statePath, errRaw)
	}
	return nil
}

// InitState returns a fresh state record of the given kind:
// a newly generated id, empty tags, empty categories.
func InitState(kind tapi.TreantKind) tapi.TreantState {
	state := tapi.TreantState{
		Id:   tapi.TreantID(uuid.New().String()),
		Kind: kind,
		Tags: []string{},
	}
	state.Categories.Keys = []string{}
	state.Categories.Values = map[string]string{}
	return state
}
