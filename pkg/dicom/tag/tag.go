// Package tag defines standard DICOM tags and the data dictionary used to resolve their VRs
package tag

// Tag represents a DICOM tag with Group and Element
type Tag struct {
	Group   uint16
	Element uint16
}

// New creates a new Tag
func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

// Compare orders tags by (group, element): -1, 0 or +1
func (t Tag) Compare(other Tag) int {
	switch {
	case t.Group < other.Group:
		return -1
	case t.Group > other.Group:
		return 1
	case t.Element < other.Element:
		return -1
	case t.Element > other.Element:
		return 1
	}
	return 0
}

// Less reports whether t sorts before other
func (t Tag) Less(other Tag) bool {
	return t.Compare(other) < 0
}

// Uint32 packs the tag as group<<16 | element
func (t Tag) Uint32() uint32 {
	return uint32(t.Group)<<16 | uint32(t.Element)
}

// IsPrivate returns true if this is a private tag (odd group number)
func (t Tag) IsPrivate() bool {
	return t.Group%2 == 1
}

// IsGroup0002 returns true if this tag is in the File Meta Information group
func (t Tag) IsGroup0002() bool {
	return t.Group == 0x0002
}

// IsGroupLength returns true for (gggg,0000) group length elements
func (t Tag) IsGroupLength() bool {
	return t.Element == 0x0000
}

// IsDelimiter returns true for the item and sequence delimiters in group FFFE
func (t Tag) IsDelimiter() bool {
	return t.Group == 0xFFFE
}

// File Meta Information (Group 0002)
var (
	FileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	FileMetaInformationVersion     = Tag{0x0002, 0x0001}
	MediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID     = Tag{0x0002, 0x0003}
	TransferSyntaxUID              = Tag{0x0002, 0x0010}
	ImplementationClassUID         = Tag{0x0002, 0x0012}
	ImplementationVersionName      = Tag{0x0002, 0x0013}
	SourceApplicationEntityTitle   = Tag{0x0002, 0x0016}
)

// SOP Common Module
var (
	SpecificCharacterSet = Tag{0x0008, 0x0005}
	InstanceCreationDate = Tag{0x0008, 0x0012}
	InstanceCreationTime = Tag{0x0008, 0x0013}
	SOPClassUID          = Tag{0x0008, 0x0016}
	SOPInstanceUID       = Tag{0x0008, 0x0018}
)

// Patient Module (Group 0010)
var (
	PatientName                 = Tag{0x0010, 0x0010}
	PatientID                   = Tag{0x0010, 0x0020}
	IssuerOfPatientID           = Tag{0x0010, 0x0021}
	PatientBirthDate            = Tag{0x0010, 0x0030}
	PatientSex                  = Tag{0x0010, 0x0040}
	OtherPatientIDs             = Tag{0x0010, 0x1000}
	PatientAge                  = Tag{0x0010, 0x1010}
	PatientSize                 = Tag{0x0010, 0x1020}
	PatientWeight               = Tag{0x0010, 0x1030}
	MedicalAlerts               = Tag{0x0010, 0x2000}
	Allergies                   = Tag{0x0010, 0x2110}
	PregnancyStatus             = Tag{0x0010, 0x21C0}
	PatientComments             = Tag{0x0010, 0x4000}
	ConfidentialityConstraintOn = Tag{0x0040, 0x3001} // LO - Confidentiality Constraint on Patient Data Description
)

// General Study / Imaging Service Request (Group 0008, 0020, 0032)
var (
	StudyDate                     = Tag{0x0008, 0x0020}
	StudyTime                     = Tag{0x0008, 0x0030}
	AccessionNumber               = Tag{0x0008, 0x0050}
	Modality                      = Tag{0x0008, 0x0060}
	InstitutionName               = Tag{0x0008, 0x0080}
	ReferringPhysicianName        = Tag{0x0008, 0x0090}
	StudyDescription              = Tag{0x0008, 0x1030}
	ReferencedStudySequence       = Tag{0x0008, 0x1110}
	ReferencedPatientSequence     = Tag{0x0008, 0x1120}
	ReferencedSOPClassUID         = Tag{0x0008, 0x1150}
	ReferencedSOPInstanceUID      = Tag{0x0008, 0x1155}
	StudyInstanceUID              = Tag{0x0020, 0x000D}
	StudyID                       = Tag{0x0020, 0x0010}
	RequestingPhysician           = Tag{0x0032, 0x1032}
	RequestingService             = Tag{0x0032, 0x1033}
	RequestedProcedureDescription = Tag{0x0032, 0x1060}
	RequestedProcedureCodeSeq     = Tag{0x0032, 0x1064}
	AdmissionID                   = Tag{0x0038, 0x0010}
	CurrentPatientLocation        = Tag{0x0038, 0x0300}
)

// Code Sequence Macro
var (
	CodeValue              = Tag{0x0008, 0x0100}
	CodingSchemeDesignator = Tag{0x0008, 0x0102}
	CodingSchemeVersion    = Tag{0x0008, 0x0103}
	CodeMeaning            = Tag{0x0008, 0x0104}
)

// Scheduled Procedure Step Module (Group 0040)
var (
	ScheduledStationAETitle           = Tag{0x0040, 0x0001}
	ScheduledProcedureStepStartDate   = Tag{0x0040, 0x0002}
	ScheduledProcedureStepStartTime   = Tag{0x0040, 0x0003}
	ScheduledProcedureStepEndDate     = Tag{0x0040, 0x0004}
	ScheduledProcedureStepEndTime     = Tag{0x0040, 0x0005}
	ScheduledPerformingPhysicianName  = Tag{0x0040, 0x0006}
	ScheduledProcedureStepDescription = Tag{0x0040, 0x0007}
	ScheduledProtocolCodeSequence     = Tag{0x0040, 0x0008}
	ScheduledProcedureStepID          = Tag{0x0040, 0x0009}
	ScheduledStationName              = Tag{0x0040, 0x0010}
	ScheduledProcedureStepLocation    = Tag{0x0040, 0x0011}
	PreMedication                     = Tag{0x0040, 0x0012}
	ScheduledProcedureStepStatus      = Tag{0x0040, 0x0020}
	ScheduledProcedureStepSequence    = Tag{0x0040, 0x0100}
	CommentsOnScheduledProcedureStep  = Tag{0x0040, 0x0400}
)

// Requested Procedure Module (Group 0040)
var (
	RequestedProcedureID          = Tag{0x0040, 0x1001}
	ReasonForRequestedProcedure   = Tag{0x0040, 0x1002}
	RequestedProcedurePriority    = Tag{0x0040, 0x1003}
	PatientTransportArrangements  = Tag{0x0040, 0x1004}
	RequestedProcedureLocation    = Tag{0x0040, 0x1005}
	RequestedProcedureComments    = Tag{0x0040, 0x1400}
	ReasonForImagingServiceReq    = Tag{0x0040, 0x2001}
	IssueDateOfImagingServiceReq  = Tag{0x0040, 0x2004}
	IssueTimeOfImagingServiceReq  = Tag{0x0040, 0x2005}
	OrderEnteredBy                = Tag{0x0040, 0x2008}
	OrderEntererLocation          = Tag{0x0040, 0x2009}
	OrderCallbackPhoneNumber      = Tag{0x0040, 0x2010}
	ImagingServiceRequestComments = Tag{0x0040, 0x2400}
)

// Sequence delimiters
var (
	Item                     = Tag{0xFFFE, 0xE000}
	ItemDelimitationItem     = Tag{0xFFFE, 0xE00D}
	SequenceDelimitationItem = Tag{0xFFFE, 0xE0DD}
)

// DataSetTrailingPadding may close a top-level dataset; its value is ignored
var DataSetTrailingPadding = Tag{0xFFFC, 0xFFFC}

// LookupName returns the dictionary keyword for the tag, or "" when it is not in the dictionary
func (t Tag) LookupName() string {
	if info, ok := dictionary[t]; ok {
		return info.Keyword
	}
	if t.IsGroupLength() {
		return "GroupLength"
	}
	return ""
}
