package tapi

import (
	"github.com/serum-errors/go-serum"
)

const (
	ECodeAlreadyExists        = "treant-error-already-exists"
	ECodeArgument             = "treant-error-invalid-argument"
	ECodeCorruptRecord        = "treant-error-corrupt-record"
	ECodeDataTooNew           = "treant-error-datatoonew"
	ECodeIo                   = "treant-error-io"
	ECodeLimb                 = "treant-error-limb"
	ECodeMissing              = "treant-error-missing"
	ECodeNotATreant           = "treant-error-not-a-treant"
	ECodeRootNotFound         = "treant-error-root-not-found"
	ECodeSearchingFilesystem  = "treant-error-searching-filesystem"
	ECodeSerialization        = "treant-error-serialization"
	ECodeStateUnavailable     = "treant-error-state-unavailable"
	ECodeSyscall              = "treant-error-syscall"
)

// ErrorIo wraps generic I/O errors from the Go stdlib
//
// Errors:
//
//    - treant-error-io --
func ErrorIo(context string, path string, cause error) error {
	result := serum.Errorf(ECodeIo,
		"io error: %s: %w", context, cause)
	addDetails(result, [][2]string{{"context", context}, {"path", path}})
	return result
}

// ErrorSerialization is returned when a serialization or deserialization error occurs
//
// Errors:
//
//    - treant-error-serialization --
func ErrorSerialization(context string, cause error) error {
	result := serum.Errorf(ECodeSerialization,
		"serialization error: %s: %w", context, cause)
	addDetails(result, [][2]string{
		{"context", context},
	})
	return result
}

// ErrorSearchingFilesystem is returned when an error occurs during search
//
// Errors:
//
//    - treant-error-searching-filesystem --
func ErrorSearchingFilesystem(searchingFor string, cause error) error {
	result := serum.Errorf(ECodeSearchingFilesystem,
		"error while searching filesystem for %s: %w", searchingFor, cause)
	addDetails(result, [][2]string{
		{"searchingFor", searchingFor},
		// the cause is presumed to have any path(s) relevant.
	})
	return result
}

// ErrorAlreadyExists is returned when creation would conflict with an existing state record
//
// Errors:
//
//    - treant-error-already-exists --
func ErrorAlreadyExists(path string) error {
	return serum.Error(ECodeAlreadyExists,
		serum.WithMessageTemplate("a treant state record already exists at path: {{path|q}}"),
		serum.WithDetail("path", path),
	)
}

// ErrorFileMissing is used when an expected file does not exist
//
// Errors:
//
//    - treant-error-missing --
func ErrorFileMissing(path string) error {
	return serum.Error(ECodeMissing,
		serum.WithMessageTemplate("file missing at path: {{path|q}}"),
		serum.WithDetail("path", path),
	)
}

// ErrorNotATreant is returned when a directory carries no valid treant state record.
// Callers may fall back to treating the path as a plain tree.
//
// Errors:
//
//    - treant-error-not-a-treant --
func ErrorNotATreant(path string) error {
	return serum.Error(ECodeNotATreant,
		serum.WithMessageTemplate("no treant state record found at path: {{path|q}}"),
		serum.WithDetail("path", path),
	)
}

// ErrorCorruptRecord is returned when a state record exists but fails to parse
//
// Errors:
//
//    - treant-error-corrupt-record --
func ErrorCorruptRecord(path string, cause error) error {
	result := serum.Errorf(ECodeCorruptRecord,
		"treant state record at %q is corrupt: %w", path, cause)
	addDetails(result, [][2]string{
		{"path", path},
	})
	return result
}

// ErrorStateUnavailable is returned when a previously opened treant's state record
// is missing or unreadable at read time.  The in-memory object is stale; no stale
// data is ever returned in its place.
//
// Errors:
//
//    - treant-error-state-unavailable --
func ErrorStateUnavailable(path string, cause error) error {
	result := serum.Errorf(ECodeStateUnavailable,
		"treant state at %q is unavailable: %w", path, cause)
	addDetails(result, [][2]string{
		{"path", path},
	})
	return result
}

// ErrorRootNotFound is returned when a discovery root does not exist or is not a directory.
// This is fatal to the walk; nothing can be discovered under a missing root.
//
// Errors:
//
//    - treant-error-root-not-found --
func ErrorRootNotFound(path string, reason string) error {
	return serum.Error(ECodeRootNotFound,
		serum.WithMessageTemplate("cannot discover under root {{path|q}}: {{reason}}"),
		serum.WithDetail("path", path),
		serum.WithDetail("reason", reason),
	)
}

// ErrorDataTooNew is returned when some data was (partially) deserialized,
// but only enough that we could recognize it as being a newer version of record
// than this library supports.
//
// Errors:
//
//    - treant-error-datatoonew -- if some data is too new to parse completely.
func ErrorDataTooNew(context string, cause error) error {
	result := serum.Errorf(ECodeDataTooNew,
		"while %s, encountered data from an unknown version: %w", context, cause)
	addDetails(result, [][2]string{
		{"context", context},
	})
	return result
}

// ErrorArgument is used when a caller hands us something we cannot work with
//
// Errors:
//
//    - treant-error-invalid-argument --
func ErrorArgument(fmtPattern string, args ...interface{}) error {
	return serum.Errorf(ECodeArgument, fmtPattern, args...)
}

// ErrorSyscall is used to wrap errors from the syscall layer
//
// Errors:
//
//    - treant-error-syscall --
func ErrorSyscall(fmtPattern string, args ...interface{}) error {
	return serum.Errorf(ECodeSyscall, fmtPattern, args...)
}

// ErrorLimb is returned when a limb cannot be attached to a host
//
// Errors:
//
//    - treant-error-limb --
func ErrorLimb(name string, reason string) error {
	return serum.Error(ECodeLimb,
		serum.WithMessageTemplate("cannot attach limb {{limb|q}}: {{reason}}"),
		serum.WithDetail("limb", name),
		serum.WithDetail("reason", reason),
	)
}

// addDetails is a helper method to get around the fact that doing a type coercion within
// an exported function is not currently allowed by serum.
// We won't need this if serum supports an equivalent to %w in message templates OR
// supports adding details when using serum.Errorf
func addDetails(err error, details [][2]string) {
	s := err.(*serum.ErrorValue)
	s.Data.Details = append(s.Data.Details, details...)
}
