package dicom

import (
	"encoding/json"
	"fmt"
	"strings"
)

// String returns a one-line representation of the Element.
// Sequences render their item count; use Dataset.String for the nested items.
func (e *Element) String() string {
	// Format: [Tag] VR Name: Value
	tagName := e.Tag.LookupName()
	if tagName != "" {
		tagName = " " + tagName
	}

	valStr := ""
	switch v := e.Value.(type) {
	case []*Dataset:
		valStr = fmt.Sprintf("Sequence (%d items)", len(v))
	case string:
		valStr = v
	case []uint16:
		if len(v) > 10 {
			valStr = fmt.Sprintf("Array of %d values", len(v))
		} else {
			valStr = fmt.Sprintf("%v", v)
		}
	case []byte:
		if len(v) > 20 {
			valStr = fmt.Sprintf("Binary Data (%d bytes)", len(v))
		} else {
			valStr = fmt.Sprintf("%v", v)
		}
	case nil:
	default:
		valStr = fmt.Sprintf("%v", v)
	}

	return fmt.Sprintf("[%s] %s%s: %s", e.Tag, e.VR, tagName, valStr)
}

// MarshalJSON returns a JSON representation of the Element
func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Tag   string      `json:"tag"`
		Name  string      `json:"name,omitempty"`
		VR    string      `json:"vr"`
		Value interface{} `json:"value"`
	}{
		Tag:   e.Tag.String(),
		Name:  e.Tag.LookupName(),
		VR:    string(e.VR),
		Value: e.Value,
	})
}

// String returns the dataset in tag order, one element per line, with
// sequence items indented beneath their sequence
func (ds *Dataset) String() string {
	if ds == nil {
		return "<nil>"
	}
	var b strings.Builder
	ds.writeIndented(&b, 0)
	return b.String()
}

func (ds *Dataset) writeIndented(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, elem := range ds.SortedElements() {
		b.WriteString(indent)
		b.WriteString(elem.String())
		b.WriteString("\n")
		items, ok := elem.GetItems()
		if !ok {
			continue
		}
		for i, item := range items {
			fmt.Fprintf(b, "%s  > Item %d\n", indent, i+1)
			item.writeIndented(b, depth+2)
		}
	}
}

// MarshalJSON returns a sorted array of Elements instead of a Map
func (ds *Dataset) MarshalJSON() ([]byte, error) {
	elements := ds.SortedElements()
	if elements == nil {
		elements = []*Element{}
	}
	return json.Marshal(elements)
}
