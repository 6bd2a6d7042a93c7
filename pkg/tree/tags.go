package tree

import "github.com/treantools/treant/tapi"

// LimbName_Tags is the registry name of the tag-set limb.
const LimbName_Tags = "tags"

// Tags is the tag-set limb of a treant: an unordered, duplicate-free set
// of string labels kept in the state record.
//
// Every read reflects the on-disk record at the time of the call, and every
// mutation is a full read-modify-write under the record lock.
type Tags struct {
	t *Treant
}

// Tags returns the tag-set limb of this treant.
func (t *Treant) Tags() *Tags {
	return &Tags{t: t}
}

func (*Tags) Name() string {
	return LimbName_Tags
}

// All returns the current tag set.  No ordering is guaranteed.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read.
func (tg *Tags) All() ([]string, error) {
	state, err := tg.t.State()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), state.Tags...), nil
}

// Contains reports whether the tag is currently present.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read.
func (tg *Tags) Contains(tag string) (bool, error) {
	state, err := tg.t.State()
	if err != nil {
		return false, err
	}
	return state.HasTag(tag), nil
}

// Add inserts tags into the set.  Tags already present are left alone.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read or written.
//    - treant-error-serialization -- when the modified record cannot be serialized.
//    - treant-error-syscall -- when the record lock cannot be acquired or released.
func (tg *Tags) Add(tags ...string) error {
	return tg.t.mutateState(func(s *tapi.TreantState) {
		s.AddTags(tags...)
	})
}

// Remove deletes tags from the set.  Removing an absent tag is a no-op.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read or written.
//    - treant-error-serialization -- when the modified record cannot be serialized.
//    - treant-error-syscall -- when the record lock cannot be acquired or released.
func (tg *Tags) Remove(tags ...string) error {
	return tg.t.mutateState(func(s *tapi.TreantState) {
		s.RemoveTags(tags...)
	})
}

// Clear empties the tag set.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read or written.
//    - treant-error-serialization -- when the modified record cannot be serialized.
//    - treant-error-syscall -- when the record lock cannot be acquired or released.
func (tg *Tags) Clear() error {
	return tg.t.mutateState(func(s *tapi.TreantState) {
		s.ClearTags()
	})
}
