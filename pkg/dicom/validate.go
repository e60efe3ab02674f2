package dicom

import (
	"fmt"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
)

// AttributeType represents DICOM attribute type requirements
type AttributeType int

const (
	// Type1 - Required, must have value
	Type1 AttributeType = 1
	// Type1C - Conditionally required, must have value if present
	Type1C AttributeType = 2
	// Type2 - Required, may be empty
	Type2 AttributeType = 3
	// Type2C - Conditionally required, may be empty if present
	Type2C AttributeType = 4
	// Type3 - Optional
	Type3 AttributeType = 5
)

// ValidationError represents a single validation failure.
// Path names the enclosing sequence items for nested attributes.
type ValidationError struct {
	Tag        tag.Tag
	Path       string
	Type       AttributeType
	Message    string
	IsCritical bool // Type 1 and 1C violations are critical
}

func (e ValidationError) Error() string {
	name := e.Tag.LookupName()
	if name == "" {
		name = e.Tag.String()
	}
	if e.Path != "" {
		name = e.Path + "/" + name
	}
	return fmt.Sprintf("%s %s: %s", name, e.typeName(), e.Message)
}

func (e ValidationError) typeName() string {
	switch e.Type {
	case Type1:
		return "Type 1"
	case Type1C:
		return "Type 1C"
	case Type2:
		return "Type 2"
	case Type2C:
		return "Type 2C"
	case Type3:
		return "Type 3"
	default:
		return "Unknown"
	}
}

// ValidationResult contains all validation errors for a dataset
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no critical errors
func (r ValidationResult) IsValid() bool {
	for _, err := range r.Errors {
		if err.IsCritical {
			return false
		}
	}
	return true
}

func (r ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// IODRequirement defines a required attribute for an IOD.
// Items, when set, is checked against every item of a sequence attribute.
type IODRequirement struct {
	Tag       tag.Tag
	Type      AttributeType
	Condition func(*Dataset) bool // For Type 1C/2C, returns true if attribute is required
	Items     []IODRequirement
	// MinItems is the fewest items a present sequence must carry
	MinItems int
}

// ValidateDataset validates a dataset against a set of requirements
func ValidateDataset(ds *Dataset, requirements []IODRequirement) ValidationResult {
	result := ValidationResult{}
	validateInto(&result, "", ds, requirements)
	return result
}

func validateInto(result *ValidationResult, path string, ds *Dataset, requirements []IODRequirement) {
	fail := func(req IODRequirement, typ AttributeType, msg string, critical bool) {
		ve := ValidationError{Tag: req.Tag, Path: path, Type: typ, Message: msg, IsCritical: critical}
		if critical {
			result.Errors = append(result.Errors, ve)
		} else {
			result.Warnings = append(result.Warnings, ve)
		}
	}

	for _, req := range requirements {
		elem, exists := ds.Get(req.Tag)

		switch req.Type {
		case Type1:
			if !exists {
				fail(req, Type1, "Required attribute missing", true)
			} else if elem.IsEmpty() {
				fail(req, Type1, "Required attribute is empty", true)
			}

		case Type1C:
			if req.Condition != nil && req.Condition(ds) {
				if !exists {
					fail(req, Type1C, "Conditionally required attribute missing", true)
				} else if elem.IsEmpty() {
					fail(req, Type1C, "Conditionally required attribute is empty", true)
				}
			}

		case Type2:
			if !exists {
				fail(req, Type2, "Required attribute missing (may be empty)", false)
			}

		case Type2C:
			if req.Condition != nil && req.Condition(ds) && !exists {
				fail(req, Type2C, "Conditionally required attribute missing (may be empty)", false)
			}

		case Type3:
			// Optional - no validation needed
		}

		if !exists {
			continue
		}
		items, ok := elem.GetItems()
		if !ok {
			continue
		}
		if len(items) < req.MinItems {
			fail(req, req.Type, fmt.Sprintf("Sequence has %d item(s), expected at least %d", len(items), req.MinItems), req.Type == Type1)
		}
		for i, item := range items {
			validateInto(result, fmt.Sprintf("%s%s[%d]", prefix(path), req.Tag.LookupName(), i), item, req.Items)
		}
	}
}

func prefix(path string) string {
	if path == "" {
		return ""
	}
	return path + "/"
}

// Modality Worklist requirements, following the attribute types of the
// Modality Worklist Information Model return keys

// PatientModuleRequirements defines required attributes for the Patient Module
var PatientModuleRequirements = []IODRequirement{
	{Tag: tag.PatientName, Type: Type1},
	{Tag: tag.PatientID, Type: Type1},
	{Tag: tag.PatientBirthDate, Type: Type2},
	{Tag: tag.PatientSex, Type: Type2},
}

// ImagingServiceRequestRequirements defines required attributes for the Imaging Service Request
var ImagingServiceRequestRequirements = []IODRequirement{
	{Tag: tag.AccessionNumber, Type: Type2},
	{Tag: tag.ReferringPhysicianName, Type: Type2},
}

// RequestedProcedureRequirements defines required attributes for the Requested Procedure
var RequestedProcedureRequirements = []IODRequirement{
	{Tag: tag.RequestedProcedureID, Type: Type1},
	{Tag: tag.RequestedProcedureDescription, Type: Type1C, Condition: func(ds *Dataset) bool {
		_, ok := ds.Get(tag.RequestedProcedureCodeSeq)
		return !ok
	}},
	{Tag: tag.StudyInstanceUID, Type: Type1},
	{Tag: tag.RequestedProcedurePriority, Type: Type2},
}

// ScheduledProcedureStepRequirements applies to each Scheduled Procedure Step Sequence item
var ScheduledProcedureStepRequirements = []IODRequirement{
	{Tag: tag.Modality, Type: Type1},
	{Tag: tag.ScheduledStationAETitle, Type: Type1},
	{Tag: tag.ScheduledProcedureStepStartDate, Type: Type1},
	{Tag: tag.ScheduledProcedureStepStartTime, Type: Type1},
	{Tag: tag.ScheduledPerformingPhysicianName, Type: Type2},
	{Tag: tag.ScheduledProcedureStepDescription, Type: Type1C, Condition: func(ds *Dataset) bool {
		_, ok := ds.Get(tag.ScheduledProtocolCodeSequence)
		return !ok
	}},
	{Tag: tag.ScheduledProtocolCodeSequence, Type: Type1C, Condition: func(ds *Dataset) bool {
		_, ok := ds.Get(tag.ScheduledProcedureStepDescription)
		return !ok
	}},
	{Tag: tag.ScheduledProcedureStepID, Type: Type1},
}

// WorklistRequirements combines all requirements for a Modality Worklist item
var WorklistRequirements = append(append(append(append(
	[]IODRequirement{{Tag: tag.SpecificCharacterSet, Type: Type1C, Condition: func(ds *Dataset) bool {
		_, ok := ds.Get(tag.SpecificCharacterSet)
		return ok
	}}},
	PatientModuleRequirements...),
	ImagingServiceRequestRequirements...),
	RequestedProcedureRequirements...),
	IODRequirement{
		Tag:      tag.ScheduledProcedureStepSequence,
		Type:     Type1,
		MinItems: 1,
		Items:    ScheduledProcedureStepRequirements,
	},
)

// ValidateWorklist validates a Modality Worklist dataset
func ValidateWorklist(ds *Dataset) ValidationResult {
	return ValidateDataset(ds, WorklistRequirements)
}
