package dicom

import "fmt"

// SequenceBuilder collects the items of one sequence element such as the
// Scheduled Procedure Step Sequence.
//
// AddItem errors are kept and returned by Build, so calls can be chained
// without checking each one:
//
//	sps := dicom.NewSequenceBuilder(tag.ScheduledProcedureStepSequence)
//	sps.AddItem(
//		dicom.WithElement(tag.Modality, "CR"),
//		dicom.WithSequence(tag.ScheduledProtocolCodeSequence),
//	)
//	opt, err := sps.Build()
type SequenceBuilder struct {
	tag   Tag
	items []*Dataset
	errs  []error
}

// NewSequenceBuilder creates a builder for the SQ element t
func NewSequenceBuilder(t Tag) *SequenceBuilder {
	return &SequenceBuilder{tag: t, items: []*Dataset{}}
}

// AddItem appends an item built from opts, or records why it could not be built
func (sb *SequenceBuilder) AddItem(opts ...Option) *SequenceBuilder {
	item, err := NewDataset(opts...)
	if err != nil {
		sb.errs = append(sb.errs, fmt.Errorf("%v item %d: %w", sb.tag, len(sb.items)+len(sb.errs), err))
		return sb
	}
	sb.items = append(sb.items, item)
	return sb
}

// Build returns an Option that adds the sequence to a dataset, or the first
// recorded error along with the total count
func (sb *SequenceBuilder) Build() (Option, error) {
	if len(sb.errs) > 0 {
		return nil, fmt.Errorf("sequence builder has %d error(s): %w", len(sb.errs), sb.errs[0])
	}
	items := make([]*Dataset, len(sb.items))
	copy(items, sb.items)
	return WithSequence(sb.tag, items...), nil
}
