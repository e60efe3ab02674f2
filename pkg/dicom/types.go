package dicom

import (
	"sort"
	"strings"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/vr"
)

// Dataset represents a complete DICOM dataset
type Dataset struct {
	Elements map[Tag]*Element
}

// Element represents a single DICOM element.
//
// Value holds a string for string VRs, a scalar or slice for numeric VRs,
// []byte for OB/OW/UN and []*Dataset for SQ.
type Element struct {
	Tag   Tag
	VR    vr.VR
	Value interface{}
}

// Tag alias to avoid duplication
type Tag = tag.Tag

// Set stores elem, replacing any element with the same tag
func (ds *Dataset) Set(elem *Element) {
	if ds.Elements == nil {
		ds.Elements = make(map[Tag]*Element)
	}
	ds.Elements[elem.Tag] = elem
}

// Get returns the element for t
func (ds *Dataset) Get(t Tag) (*Element, bool) {
	if ds == nil {
		return nil, false
	}
	elem, ok := ds.Elements[t]
	return elem, ok
}

// FindElement returns an element by tag
func (ds *Dataset) FindElement(group, element uint16) (*Element, bool) {
	return ds.Get(Tag{Group: group, Element: element})
}

// Remove deletes the element for t, if present
func (ds *Dataset) Remove(t Tag) {
	delete(ds.Elements, t)
}

// Len returns the number of top-level elements
func (ds *Dataset) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.Elements)
}

// Tags returns the dataset's tags in ascending order
func (ds *Dataset) Tags() []Tag {
	if ds == nil {
		return nil
	}
	keys := make([]Tag, 0, ds.Len())
	for k := range ds.Elements {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// SortedElements returns the elements in ascending tag order
func (ds *Dataset) SortedElements() []*Element {
	keys := ds.Tags()
	elements := make([]*Element, 0, len(keys))
	for _, k := range keys {
		elements = append(elements, ds.Elements[k])
	}
	return elements
}

// GetString returns the string value of t, or "" when absent or not a string
func (ds *Dataset) GetString(t Tag) string {
	if elem, ok := ds.Get(t); ok {
		if s, ok := elem.GetString(); ok {
			return s
		}
	}
	return ""
}

// GetSequenceItems returns the items of the sequence element t, or nil
func GetSequenceItems(ds *Dataset, t Tag) []*Dataset {
	if elem, ok := ds.Get(t); ok {
		if items, ok := elem.GetItems(); ok {
			return items
		}
	}
	return nil
}

// GetString returns a string value from an element
func (elem *Element) GetString() (string, bool) {
	switch v := elem.Value.(type) {
	case string:
		return v, true
	case []string:
		return strings.Join(v, `\`), true
	}
	return "", false
}

// GetStrings splits a multi-valued string on backslash
func (elem *Element) GetStrings() ([]string, bool) {
	switch v := elem.Value.(type) {
	case []string:
		return v, true
	case string:
		if v == "" {
			return nil, true
		}
		if !elem.VR.IsMultiValued() {
			return []string{v}, true
		}
		return strings.Split(v, `\`), true
	}
	return nil, false
}

// GetUint16 returns a uint16 value from an element
func (elem *Element) GetUint16() (uint16, bool) {
	if u, ok := elem.Value.(uint16); ok {
		return u, true
	}
	return 0, false
}

// GetItems returns the item datasets of a sequence element
func (elem *Element) GetItems() ([]*Dataset, bool) {
	if items, ok := elem.Value.([]*Dataset); ok {
		return items, true
	}
	return nil, false
}

// IsEmpty reports whether the element carries no value
func (elem *Element) IsEmpty() bool {
	if elem == nil || elem.Value == nil {
		return true
	}
	switch v := elem.Value.(type) {
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []byte:
		return len(v) == 0
	case []uint16:
		return len(v) == 0
	case []*Dataset:
		return len(v) == 0
	default:
		return false
	}
}
