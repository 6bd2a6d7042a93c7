package tree

import (
	"github.com/treantools/treant/tapi"
)

// LimbName_Categories is the registry name of the categories limb.
const LimbName_Categories = "categories"

// Categories is the key/value limb of a treant: a mapping with unique
// string keys kept in the state record.  Values are strings; see the
// project design notes for why richer value types were not adopted.
//
// Every read reflects the on-disk record at the time of the call, and every
// mutation is a full read-modify-write under the record lock.
type Categories struct {
	t *Treant
}

// Categories returns the key/value limb of this treant.
func (t *Treant) Categories() *Categories {
	return &Categories{t: t}
}

func (*Categories) Name() string {
	return LimbName_Categories
}

// All returns a copy of the current mapping.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read.
func (c *Categories) All() (map[string]string, error) {
	state, err := c.t.State()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(state.Categories.Values))
	for k, v := range state.Categories.Values {
		out[k] = v
	}
	return out, nil
}

// Keys returns the current category keys.  No ordering is guaranteed.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read.
func (c *Categories) Keys() ([]string, error) {
	state, err := c.t.State()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), state.Categories.Keys...), nil
}

// Get returns the value stored for key, and whether the key is present.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read.
func (c *Categories) Get(key string) (string, bool, error) {
	state, err := c.t.State()
	if err != nil {
		return "", false, err
	}
	v, ok := state.Category(key)
	return v, ok, nil
}

// Set stores a value under key, replacing any previous value.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read or written.
//    - treant-error-serialization -- when the modified record cannot be serialized.
//    - treant-error-syscall -- when the record lock cannot be acquired or released.
func (c *Categories) Set(key, value string) error {
	return c.t.mutateState(func(s *tapi.TreantState) {
		s.SetCategory(key, value)
	})
}

// Remove deletes key from the mapping.  Removing an absent key is a no-op.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read or written.
//    - treant-error-serialization -- when the modified record cannot be serialized.
//    - treant-error-syscall -- when the record lock cannot be acquired or released.
func (c *Categories) Remove(key string) error {
	return c.t.mutateState(func(s *tapi.TreantState) {
		s.RemoveCategory(key)
	})
}

// Clear empties the mapping.
//
// Errors:
//
//    - treant-error-state-unavailable -- when the record is missing at read time.
//    - treant-error-corrupt-record -- when the record exists but fails to parse.
//    - treant-error-datatoonew -- when the record is from a newer version of this library.
//    - treant-error-io -- when the record cannot be read or written.
//    - treant-error-serialization -- when the modified record cannot be serialized.
//    - treant-error-syscall -- when the record lock cannot be acquired or released.
func (c *Categories) Clear() error {
	return c.t.mutateState(func(s *tapi.TreantState) {
		s.ClearCategories()
	})
}
