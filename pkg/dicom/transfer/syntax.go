// Package transfer defines DICOM Transfer Syntaxes
package transfer

import (
	"fmt"
	"strings"
)

// Syntax represents a DICOM Transfer Syntax
type Syntax string

// Standard Transfer Syntaxes
const (
	ImplicitVRLittleEndian Syntax = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian Syntax = "1.2.840.10008.1.2.1"
	ExplicitVRBigEndian    Syntax = "1.2.840.10008.1.2.2"    // Retired
	DeflatedExplicitVR     Syntax = "1.2.840.10008.1.2.1.99" // not supported for worklists
)

// IsExplicitVR returns true if this transfer syntax uses explicit VR
func (s Syntax) IsExplicitVR() bool {
	return s != ImplicitVRLittleEndian
}

// IsLittleEndian returns true if this transfer syntax uses little endian byte order
func (s Syntax) IsLittleEndian() bool {
	return s != ExplicitVRBigEndian
}

// IsSupported returns true for the syntaxes the encoder and decoder handle
func (s Syntax) IsSupported() bool {
	return s == ImplicitVRLittleEndian || s == ExplicitVRLittleEndian
}

// UID returns the transfer syntax UID
func (s Syntax) UID() string {
	return string(s)
}

// Name returns a human-readable name for the transfer syntax
func (s Syntax) Name() string {
	switch s {
	case ImplicitVRLittleEndian:
		return "Implicit VR Little Endian"
	case ExplicitVRLittleEndian:
		return "Explicit VR Little Endian"
	case ExplicitVRBigEndian:
		return "Explicit VR Big Endian (Retired)"
	case DeflatedExplicitVR:
		return "Deflated Explicit VR Little Endian"
	default:
		return string(s)
	}
}

// FromUID converts a UID string to a Syntax, dropping any NUL or space padding
func FromUID(uid string) Syntax {
	return Syntax(strings.TrimRight(uid, "\x00 "))
}

// Parse accepts "implicit", "explicit" or a supported transfer syntax UID
func Parse(s string) (Syntax, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "implicit", "implicit-le", "implicitvrlittleendian":
		return ImplicitVRLittleEndian, nil
	case "explicit", "explicit-le", "explicitvrlittleendian":
		return ExplicitVRLittleEndian, nil
	}
	ts := FromUID(strings.TrimSpace(s))
	if !ts.IsSupported() {
		return "", fmt.Errorf("unsupported transfer syntax %q (want implicit, explicit or %s/%s)",
			s, ImplicitVRLittleEndian, ExplicitVRLittleEndian)
	}
	return ts, nil
}
