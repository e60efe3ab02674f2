package dicom

import (
	"github.com/jpfielding/worklist.go/pkg/dicom/module"
	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/jpfielding/worklist.go/pkg/dicom/vr"
)

// Option configures a Dataset during construction
type Option func(*Dataset) error

// NewDataset creates a Dataset with the given options
func NewDataset(opts ...Option) (*Dataset, error) {
	ds := &Dataset{Elements: make(map[Tag]*Element)}
	for _, opt := range opts {
		if err := opt(ds); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// WithElement adds a single element using the dictionary VR for t.
// Unknown tags fail with UnknownTagError; use WithElementVR for those.
func WithElement(t tag.Tag, value interface{}) Option {
	return func(ds *Dataset) error {
		v, err := tag.VROf(t)
		if err != nil {
			return err
		}
		return WithElementVR(t, v, value)(ds)
	}
}

// WithElementVR adds an element with an explicit VR, for private or undefined tags.
// The value is checked against the VR immediately.
func WithElementVR(t tag.Tag, v vr.VR, value interface{}) Option {
	return func(ds *Dataset) error {
		if !v.IsKnown() {
			return invalidValue(t, v, "unknown VR code %q", string(v))
		}
		if v.IsSequence() {
			items, err := sequenceItems(t, value)
			if err != nil {
				return err
			}
			return WithSequence(t, items...)(ds)
		}
		if _, err := EncodeValue(t, v, value); err != nil {
			return err
		}
		ds.Set(&Element{Tag: t, VR: v, Value: value})
		return nil
	}
}

// WithSequence adds a sequence element to the dataset; no items yields an empty sequence
func WithSequence(t tag.Tag, items ...*Dataset) Option {
	return func(ds *Dataset) error {
		if items == nil {
			items = []*Dataset{}
		}
		ds.Set(&Element{Tag: t, VR: vr.SQ, Value: items})
		return nil
	}
}

// WithModule adds all elements from a module's ToTags() result
func WithModule(m module.IODModule) Option {
	return func(ds *Dataset) error {
		for _, el := range m.ToTags() {
			if err := WithElement(el.Tag, el.Value)(ds); err != nil {
				return err
			}
		}
		return nil
	}
}

func sequenceItems(t tag.Tag, value interface{}) ([]*Dataset, error) {
	switch val := value.(type) {
	case nil:
		return []*Dataset{}, nil
	case []*Dataset:
		return val, nil
	case *Dataset:
		return []*Dataset{val}, nil
	}
	return nil, invalidValue(t, vr.SQ, "unsupported sequence type %T", value)
}
