package tag

import (
	"fmt"

	"github.com/jpfielding/worklist.go/pkg/dicom/vr"
)

// Info describes a dictionary entry
type Info struct {
	Tag     Tag
	VR      vr.VR
	Keyword string
	Name    string
}

// UnknownTagError is returned when a tag is not in the dictionary and no VR override was given
type UnknownTagError struct {
	Tag Tag
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag %s: no dictionary entry, supply an explicit VR", e.Tag)
}

// Find returns the dictionary entry for t.
// Group length elements (gggg,0000) always resolve to UL.
func Find(t Tag) (Info, error) {
	if info, ok := dictionary[t]; ok {
		return info, nil
	}
	if t.IsGroupLength() && !t.IsDelimiter() {
		return Info{Tag: t, VR: vr.UL, Keyword: "GroupLength", Name: "Group Length"}, nil
	}
	return Info{}, &UnknownTagError{Tag: t}
}

// VROf returns the dictionary VR for t
func VROf(t Tag) (vr.VR, error) {
	info, err := Find(t)
	if err != nil {
		return "", err
	}
	return info.VR, nil
}

// FindByKeyword resolves a dictionary keyword such as "PatientID"
func FindByKeyword(keyword string) (Info, bool) {
	info, ok := byKeyword[keyword]
	return info, ok
}

var dictionary = map[Tag]Info{}
var byKeyword = map[string]Info{}

func add(t Tag, v vr.VR, keyword, name string) {
	info := Info{Tag: t, VR: v, Keyword: keyword, Name: name}
	dictionary[t] = info
	byKeyword[keyword] = info
}

func init() {
	add(FileMetaInformationGroupLength, vr.UL, "FileMetaInformationGroupLength", "File Meta Information Group Length")
	add(FileMetaInformationVersion, vr.OB, "FileMetaInformationVersion", "File Meta Information Version")
	add(MediaStorageSOPClassUID, vr.UI, "MediaStorageSOPClassUID", "Media Storage SOP Class UID")
	add(MediaStorageSOPInstanceUID, vr.UI, "MediaStorageSOPInstanceUID", "Media Storage SOP Instance UID")
	add(TransferSyntaxUID, vr.UI, "TransferSyntaxUID", "Transfer Syntax UID")
	add(ImplementationClassUID, vr.UI, "ImplementationClassUID", "Implementation Class UID")
	add(ImplementationVersionName, vr.SH, "ImplementationVersionName", "Implementation Version Name")
	add(SourceApplicationEntityTitle, vr.AE, "SourceApplicationEntityTitle", "Source Application Entity Title")

	add(DataSetTrailingPadding, vr.OB, "DataSetTrailingPadding", "Data Set Trailing Padding")

	add(SpecificCharacterSet, vr.CS, "SpecificCharacterSet", "Specific Character Set")
	add(InstanceCreationDate, vr.DA, "InstanceCreationDate", "Instance Creation Date")
	add(InstanceCreationTime, vr.TM, "InstanceCreationTime", "Instance Creation Time")
	add(SOPClassUID, vr.UI, "SOPClassUID", "SOP Class UID")
	add(SOPInstanceUID, vr.UI, "SOPInstanceUID", "SOP Instance UID")

	add(PatientName, vr.PN, "PatientName", "Patient's Name")
	add(PatientID, vr.LO, "PatientID", "Patient ID")
	add(IssuerOfPatientID, vr.LO, "IssuerOfPatientID", "Issuer of Patient ID")
	add(PatientBirthDate, vr.DA, "PatientBirthDate", "Patient's Birth Date")
	add(PatientSex, vr.CS, "PatientSex", "Patient's Sex")
	add(OtherPatientIDs, vr.LO, "OtherPatientIDs", "Other Patient IDs")
	add(PatientAge, vr.AS, "PatientAge", "Patient's Age")
	add(PatientSize, vr.DS, "PatientSize", "Patient's Size")
	add(PatientWeight, vr.DS, "PatientWeight", "Patient's Weight")
	add(MedicalAlerts, vr.LO, "MedicalAlerts", "Medical Alerts")
	add(Allergies, vr.LO, "Allergies", "Allergies")
	add(PregnancyStatus, vr.US, "PregnancyStatus", "Pregnancy Status")
	add(PatientComments, vr.LT, "PatientComments", "Patient Comments")
	add(ConfidentialityConstraintOn, vr.LO, "ConfidentialityConstraintOnPatientDataDescription", "Confidentiality Constraint on Patient Data Description")

	add(StudyDate, vr.DA, "StudyDate", "Study Date")
	add(StudyTime, vr.TM, "StudyTime", "Study Time")
	add(AccessionNumber, vr.SH, "AccessionNumber", "Accession Number")
	add(Modality, vr.CS, "Modality", "Modality")
	add(InstitutionName, vr.LO, "InstitutionName", "Institution Name")
	add(ReferringPhysicianName, vr.PN, "ReferringPhysicianName", "Referring Physician's Name")
	add(StudyDescription, vr.LO, "StudyDescription", "Study Description")
	add(ReferencedStudySequence, vr.SQ, "ReferencedStudySequence", "Referenced Study Sequence")
	add(ReferencedPatientSequence, vr.SQ, "ReferencedPatientSequence", "Referenced Patient Sequence")
	add(ReferencedSOPClassUID, vr.UI, "ReferencedSOPClassUID", "Referenced SOP Class UID")
	add(ReferencedSOPInstanceUID, vr.UI, "ReferencedSOPInstanceUID", "Referenced SOP Instance UID")
	add(StudyInstanceUID, vr.UI, "StudyInstanceUID", "Study Instance UID")
	add(StudyID, vr.SH, "StudyID", "Study ID")
	add(RequestingPhysician, vr.PN, "RequestingPhysician", "Requesting Physician")
	add(RequestingService, vr.LO, "RequestingService", "Requesting Service")
	add(RequestedProcedureDescription, vr.LO, "RequestedProcedureDescription", "Requested Procedure Description")
	add(RequestedProcedureCodeSeq, vr.SQ, "RequestedProcedureCodeSequence", "Requested Procedure Code Sequence")
	add(AdmissionID, vr.LO, "AdmissionID", "Admission ID")
	add(CurrentPatientLocation, vr.LO, "CurrentPatientLocation", "Current Patient Location")

	add(CodeValue, vr.SH, "CodeValue", "Code Value")
	add(CodingSchemeDesignator, vr.SH, "CodingSchemeDesignator", "Coding Scheme Designator")
	add(CodingSchemeVersion, vr.SH, "CodingSchemeVersion", "Coding Scheme Version")
	add(CodeMeaning, vr.LO, "CodeMeaning", "Code Meaning")

	add(ScheduledStationAETitle, vr.AE, "ScheduledStationAETitle", "Scheduled Station AE Title")
	add(ScheduledProcedureStepStartDate, vr.DA, "ScheduledProcedureStepStartDate", "Scheduled Procedure Step Start Date")
	add(ScheduledProcedureStepStartTime, vr.TM, "ScheduledProcedureStepStartTime", "Scheduled Procedure Step Start Time")
	add(ScheduledProcedureStepEndDate, vr.DA, "ScheduledProcedureStepEndDate", "Scheduled Procedure Step End Date")
	add(ScheduledProcedureStepEndTime, vr.TM, "ScheduledProcedureStepEndTime", "Scheduled Procedure Step End Time")
	add(ScheduledPerformingPhysicianName, vr.PN, "ScheduledPerformingPhysicianName", "Scheduled Performing Physician's Name")
	add(ScheduledProcedureStepDescription, vr.LO, "ScheduledProcedureStepDescription", "Scheduled Procedure Step Description")
	add(ScheduledProtocolCodeSequence, vr.SQ, "ScheduledProtocolCodeSequence", "Scheduled Protocol Code Sequence")
	add(ScheduledProcedureStepID, vr.SH, "ScheduledProcedureStepID", "Scheduled Procedure Step ID")
	add(ScheduledStationName, vr.SH, "ScheduledStationName", "Scheduled Station Name")
	add(ScheduledProcedureStepLocation, vr.SH, "ScheduledProcedureStepLocation", "Scheduled Procedure Step Location")
	add(PreMedication, vr.LO, "PreMedication", "Pre-Medication")
	add(ScheduledProcedureStepStatus, vr.CS, "ScheduledProcedureStepStatus", "Scheduled Procedure Step Status")
	add(ScheduledProcedureStepSequence, vr.SQ, "ScheduledProcedureStepSequence", "Scheduled Procedure Step Sequence")
	add(CommentsOnScheduledProcedureStep, vr.LT, "CommentsOnTheScheduledProcedureStep", "Comments on the Scheduled Procedure Step")

	add(RequestedProcedureID, vr.SH, "RequestedProcedureID", "Requested Procedure ID")
	add(ReasonForRequestedProcedure, vr.LO, "ReasonForTheRequestedProcedure", "Reason for the Requested Procedure")
	add(RequestedProcedurePriority, vr.SH, "RequestedProcedurePriority", "Requested Procedure Priority")
	add(PatientTransportArrangements, vr.LO, "PatientTransportArrangements", "Patient Transport Arrangements")
	add(RequestedProcedureLocation, vr.LO, "RequestedProcedureLocation", "Requested Procedure Location")
	add(RequestedProcedureComments, vr.LT, "RequestedProcedureComments", "Requested Procedure Comments")
	add(ReasonForImagingServiceReq, vr.LO, "ReasonForTheImagingServiceRequest", "Reason for the Imaging Service Request")
	add(IssueDateOfImagingServiceReq, vr.DA, "IssueDateOfImagingServiceRequest", "Issue Date of Imaging Service Request")
	add(IssueTimeOfImagingServiceReq, vr.TM, "IssueTimeOfImagingServiceRequest", "Issue Time of Imaging Service Request")
	add(OrderEnteredBy, vr.PN, "OrderEnteredBy", "Order Entered By")
	add(OrderEntererLocation, vr.SH, "OrderEntererLocation", "Order Enterer's Location")
	add(OrderCallbackPhoneNumber, vr.SH, "OrderCallbackPhoneNumber", "Order Callback Phone Number")
	add(ImagingServiceRequestComments, vr.LT, "ImagingServiceRequestComments", "Imaging Service Request Comments")
}
