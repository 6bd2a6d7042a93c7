package collection

import (
	"github.com/facette/natsort"

	"github.com/treantools/treant/pkg/tree"
)

// AggTags is the aggregate tag limb of a bundle: set queries across every
// member's tag set.  Reads go to each member's record at call time, so the
// answers reflect the current on-disk state.
type AggTags struct {
	b *Bundle
}

// Tags returns the aggregate tag limb of this bundle.
func (b *Bundle) Tags() *AggTags {
	return &AggTags{b: b}
}

func (*AggTags) Name() string {
	return tree.LimbName_Tags
}

// Any returns the union of the members' tag sets, in natural sort order.
//
// Errors:
//
//    - treant-error-state-unavailable -- when a member's record is missing at read time.
//    - treant-error-corrupt-record -- when a member's record exists but fails to parse.
//    - treant-error-datatoonew -- when a member's record is from a newer version of this library.
//    - treant-error-io -- when a member's record cannot be read.
func (ag *AggTags) Any() ([]string, error) {
	seen := make(map[string]struct{})
	for _, t := range ag.b.members {
		state, err := t.State()
		if err != nil {
			return nil, err
		}
		for _, tag := range state.Tags {
			seen[tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	natsort.Sort(out)
	return out, nil
}

// All returns the intersection of the members' tag sets, in natural sort
// order.  An empty bundle has no tags in common.
//
// Errors:
//
//    - treant-error-state-unavailable -- when a member's record is missing at read time.
//    - treant-error-corrupt-record -- when a member's record exists but fails to parse.
//    - treant-error-datatoonew -- when a member's record is from a newer version of this library.
//    - treant-error-io -- when a member's record cannot be read.
func (ag *AggTags) All() ([]string, error) {
	if len(ag.b.members) == 0 {
		return []string{}, nil
	}
	counts := make(map[string]int)
	for _, t := range ag.b.members {
		state, err := t.State()
		if err != nil {
			return nil, err
		}
		for _, tag := range state.Tags {
			counts[tag]++
		}
	}
	out := make([]string, 0, len(counts))
	for tag, n := range counts {
		if n == len(ag.b.members) {
			out = append(out, tag)
		}
	}
	natsort.Sort(out)
	return out, nil
}

// AggCategories is the aggregate category limb of a bundle: key/value
// queries across every member's category mapping.
type AggCategories struct {
	b *Bundle
}

// Categories returns the aggregate category limb of this bundle.
func (b *Bundle) Categories() *AggCategories {
	return &AggCategories{b: b}
}

func (*AggCategories) Name() string {
	return tree.LimbName_Categories
}

// AnyKeys returns the union of the members' category key sets, in natural
// sort order.
//
// Errors:
//
//    - treant-error-state-unavailable -- when a member's record is missing at read time.
//    - treant-error-corrupt-record -- when a member's record exists but fails to parse.
//    - treant-error-datatoonew -- when a member's record is from a newer version of this library.
//    - treant-error-io -- when a member's record cannot be read.
func (ag *AggCategories) AnyKeys() ([]string, error) {
	seen := make(map[string]struct{})
	for _, t := range ag.b.members {
		state, err := t.State()
		if err != nil {
			return nil, err
		}
		for _, k := range state.Categories.Keys {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	natsort.Sort(out)
	return out, nil
}

// AllKeys returns the intersection of the members' category key sets, in
// natural sort order.  An empty bundle has no keys in common.
//
// Errors:
//
//    - treant-error-state-unavailable -- when a member's record is missing at read time.
//    - treant-error-corrupt-record -- when a member's record exists but fails to parse.
//    - treant-error-datatoonew -- when a member's record is from a newer version of this library.
//    - treant-error-io -- when a member's record cannot be read.
func (ag *AggCategories) AllKeys() ([]string, error) {
	if len(ag.b.members) == 0 {
		return []string{}, nil
	}
	counts := make(map[string]int)
	for _, t := range ag.b.members {
		state, err := t.State()
		if err != nil {
			return nil, err
		}
		for _, k := range state.Categories.Keys {
			counts[k]++
		}
	}
	out := make([]string, 0, len(counts))
	for k, n := range counts {
		if n == len(ag.b.members) {
			out = append(out, k)
		}
	}
	natsort.Sort(out)
	return out, nil
}

// Get returns the values stored under key, one per member that has the key,
// in member order.  Members lacking the key contribute nothing.
//
// Errors:
//
//    - treant-error-state-unavailable -- when a member's record is missing at read time.
//    - treant-error-corrupt-record -- when a member's record exists but fails to parse.
//    - treant-error-datatoonew -- when a member's record is from a newer version of this library.
//    - treant-error-io -- when a member's record cannot be read.
func (ag *AggCategories) Get(key string) ([]string, error) {
	out := []string{}
	for _, t := range ag.b.members {
		state, err := t.State()
		if err != nil {
			return nil, err
		}
		if v, ok := state.Category(key); ok {
			out = append(out, v)
		}
	}
	return out, nil
}
