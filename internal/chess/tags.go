package chess

import "iter"

// Common tag names.
const (
	EventTag  = "Event"
	SiteTag   = "Site"
	DateTag   = "Date"
	RoundTag  = "Round"
	WhiteTag  = "White"
	BlackTag  = "Black"
	ResultTag = "Result"
	FENTag    = "FEN"
	SetupTag  = "SetUp"
)

// SevenTagRoster contains the seven required PGN tags in order.
var SevenTagRoster = []string{
	EventTag,
	SiteTag,
	DateTag,
	RoundTag,
	WhiteTag,
	BlackTag,
	ResultTag,
}

// IsSevenTagRosterTag returns true if the tag is one of the seven required tags.
func IsSevenTagRosterTag(tag string) bool {
	for _, t := range SevenTagRoster {
		if t == tag {
			return true
		}
	}
	return false
}

// Tag is a single header pair.
type Tag struct {
	Name  string
	Value string
}

// Tags is an insertion-ordered set of PGN headers with unique names.
// The zero value is ready to use.
type Tags struct {
	list  []Tag
	index map[string]int
}

// Set stores a tag. An existing tag keeps its position and takes the new value.
func (t *Tags) Set(name, value string) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[name]; ok {
		t.list[i].Value = value
		return
	}
	t.index[name] = len(t.list)
	t.list = append(t.list, Tag{Name: name, Value: value})
}

// Get returns a tag value and whether it is present.
func (t *Tags) Get(name string) (string, bool) {
	i, ok := t.index[name]
	if !ok {
		return "", false
	}
	return t.list[i].Value, true
}

// Value returns a tag value, or empty string if not present.
func (t *Tags) Value(name string) string {
	v, _ := t.Get(name)
	return v
}

// Has returns true if the tag is present.
func (t *Tags) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Delete removes a tag, keeping the order of the rest.
func (t *Tags) Delete(name string) {
	i, ok := t.index[name]
	if !ok {
		return
	}
	t.list = append(t.list[:i], t.list[i+1:]...)
	delete(t.index, name)
	for j := i; j < len(t.list); j++ {
		t.index[t.list[j].Name] = j
	}
}

// Len returns the number of tags.
func (t *Tags) Len() int {
	return len(t.list)
}

// List returns a copy of the tags in insertion order.
func (t *Tags) List() []Tag {
	out := make([]Tag, len(t.list))
	copy(out, t.list)
	return out
}

// All iterates over the tags in insertion order.
func (t *Tags) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, tag := range t.list {
			if !yield(tag.Name, tag.Value) {
				return
			}
		}
	}
}
