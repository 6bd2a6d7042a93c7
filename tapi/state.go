package tapi

import (
	"github.com/ipld/go-ipld-prime/schema"
)

func init() {
	TypeSystem.Accumulate(schema.SpawnString("TreantID"))
	TypeSystem.Accumulate(schema.SpawnString("TreantKind"))
	TypeSystem.Accumulate(schema.SpawnStruct("TreantState",
		[]schema.StructField{
			schema.SpawnStructField("id", "TreantID", false, false),
			schema.SpawnStructField("kind", "TreantKind", false, false),
			schema.SpawnStructField("tags", "List__String", false, false),
			schema.SpawnStructField("categories", "Map__String__String", false, false),
		},
		schema.SpawnStructRepresentationMap(nil)))
	TypeSystem.Accumulate(schema.SpawnUnion("TreantStateCapsule",
		[]schema.TypeName{
			"TreantState",
		},
		schema.SpawnUnionRepresentationKeyed(map[string]schema.TypeName{
			"treant.v1": "TreantState",
		})))
	TypeSystem.Accumulate(schema.SpawnList("List__String",
		"String", false))
	TypeSystem.Accumulate(schema.SpawnMap("Map__String__String",
		"String", "String", false))
}

// TreantID is the stable identity of a treant.
// It is generated once, when a directory is first initialized as a treant,
// and is never reassigned for the life of that directory.
type TreantID string

// TreantKind names the kind of persistent record a treant carries.
// (Plain treants use the kind "Treant"; consuming applications may
// define their own kinds.)
type TreantKind string

// TreantStateCapsule is the versioning envelope around TreantState.
// New major versions of the record get a new capsule key rather than
// new semantics for old fields, which is what lets older code detect
// (rather than misread) newer records.
type TreantStateCapsule struct {
	TreantState *TreantState
}

// TreantState is the persistent metadata record of one treant directory.
//
// Tags are an unordered set (stored as a list, deduplicated on every write);
// categories are a string-keyed, string-valued mapping with unique keys.
// Category values are restricted to strings; see the project design notes.
type TreantState struct {
	Id   TreantID
	Kind TreantKind
	Tags []string
	Categories struct {
		Keys   []string
		Values map[string]string
	}
}

// HasTag reports whether the tag is present in the state's tag set.
func (s *TreantState) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTags inserts tags into the state's tag set.
// Tags already present are left alone; duplicates within the arguments collapse.
func (s *TreantState) AddTags(tags ...string) {
	for _, tag := range tags {
		if !s.HasTag(tag) {
			s.Tags = append(s.Tags, tag)
		}
	}
}

// RemoveTags deletes tags from the state's tag set.
// Removing an absent tag is a no-op.
func (s *TreantState) RemoveTags(tags ...string) {
	for _, tag := range tags {
		for i, t := range s.Tags {
			if t == tag {
				s.Tags = append(s.Tags[:i], s.Tags[i+1:]...)
				break
			}
		}
	}
}

// ClearTags empties the state's tag set.
func (s *TreantState) ClearTags() {
	s.Tags = s.Tags[:0]
}

// Category returns the value stored for key, and whether the key is present.
func (s *TreantState) Category(key string) (string, bool) {
	v, ok := s.Categories.Values[key]
	return v, ok
}

// SetCategory stores a value under key, replacing any previous value.
func (s *TreantState) SetCategory(key, value string) {
	if s.Categories.Values == nil {
		s.Categories.Values = make(map[string]string)
	}
	if _, ok := s.Categories.Values[key]; !ok {
		s.Categories.Keys = append(s.Categories.Keys, key)
	}
	s.Categories.Values[key] = value
}

// RemoveCategory deletes key from the categories mapping.
// Removing an absent key is a no-op.
func (s *TreantState) RemoveCategory(key string) {
	if _, ok := s.Categories.Values[key]; !ok {
		return
	}
	delete(s.Categories.Values, key)
	for i, k := range s.Categories.Keys {
		if k == key {
			s.Categories.Keys = append(s.Categories.Keys[:i], s.Categories.Keys[i+1:]...)
			break
		}
	}
}

// ClearCategories empties the categories mapping.
func (s *TreantState) ClearCategories() {
	s.Categories.Keys = s.Categories.Keys[:0]
	for k := range s.Categories.Values {
		delete(s.Categories.Values, k)
	}
}
