package module

import (
	"fmt"
	"strings"
	"time"

	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
)

// Date represents a DICOM Date (DA VR)
type Date struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as YYYYMMDD, or "" for the zero Date
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func NewDate(t time.Time) Date {
	return Date{
		Year:  t.Year(),
		Month: int(t.Month()),
		Day:   t.Day(),
	}
}

// ParseDate parses a DA value (YYYYMMDD). The empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse("20060102", s)
	if err != nil || len(s) != 8 {
		return Date{}, fmt.Errorf("date %q is not YYYYMMDD", s)
	}
	return NewDate(t), nil
}

// Time represents a DICOM Time (TM VR)
type Time struct {
	Hour   int
	Minute int
	Second int
	Nano   int
	valid  bool
}

// String formats as HHMMSS, with .FFFFFF only when there are fractional seconds
func (t Time) String() string {
	if !t.valid {
		return ""
	}
	s := fmt.Sprintf("%02d%02d%02d", t.Hour, t.Minute, t.Second)
	if us := t.Nano / 1000; us > 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}

func (t Time) IsZero() bool {
	return !t.valid
}

func NewTime(t time.Time) Time {
	return Time{
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
		Nano:   t.Nanosecond(),
		valid:  true,
	}
}

// ParseTime parses a TM value: HH, HHMM, HHMMSS or HHMMSS.F{1,6}.
// Colons from the ACR-NEMA form (HH:MM:SS) are accepted. The empty string yields the zero Time.
func ParseTime(s string) (Time, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ":", "")
	if s == "" {
		return Time{}, nil
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if strings.Trim(whole, "0123456789") != "" || strings.Trim(frac, "0123456789") != "" {
		return Time{}, fmt.Errorf("time %q is not HHMMSS.FFFFFF", s)
	}
	if len(whole) != 2 && len(whole) != 4 && len(whole) != 6 || (hasFrac && (len(whole) != 6 || frac == "" || len(frac) > 6)) {
		return Time{}, fmt.Errorf("time %q is not HHMMSS.FFFFFF", s)
	}
	t := Time{valid: true}
	fmt.Sscanf(whole[0:2], "%d", &t.Hour)
	if len(whole) >= 4 {
		fmt.Sscanf(whole[2:4], "%d", &t.Minute)
	}
	if len(whole) == 6 {
		fmt.Sscanf(whole[4:6], "%d", &t.Second)
	}
	if hasFrac {
		var us int
		fmt.Sscanf(frac+strings.Repeat("0", 6-len(frac)), "%d", &us)
		t.Nano = us * 1000
	}
	if t.Hour > 23 || t.Minute > 59 || t.Second > 60 {
		return Time{}, fmt.Errorf("time %q out of range", s)
	}
	return t, nil
}

// PersonName represents a DICOM Person Name (PN VR).
// Only the alphabetic component group is split; ideographic and phonetic
// groups are carried verbatim.
type PersonName struct {
	FamilyName  string
	GivenName   string
	MiddleName  string
	Prefix      string
	Suffix      string
	Ideographic string
	Phonetic    string
}

// String renders Family^Given^Middle^Prefix^Suffix with empty trailing components dropped
func (p PersonName) String() string {
	s := strings.TrimRight(strings.Join([]string{p.FamilyName, p.GivenName, p.MiddleName, p.Prefix, p.Suffix}, "^"), "^")
	switch {
	case p.Phonetic != "":
		return s + "=" + p.Ideographic + "=" + p.Phonetic
	case p.Ideographic != "":
		return s + "=" + p.Ideographic
	}
	return s
}

// ParsePersonName splits a PN value into its components
func ParsePersonName(s string) PersonName {
	groups := strings.SplitN(strings.TrimSpace(s), "=", 3)
	parts := strings.SplitN(groups[0], "^", 5)
	for len(parts) < 5 {
		parts = append(parts, "")
	}
	p := PersonName{FamilyName: parts[0], GivenName: parts[1], MiddleName: parts[2], Prefix: parts[3], Suffix: parts[4]}
	if len(groups) > 1 {
		p.Ideographic = groups[1]
	}
	if len(groups) > 2 {
		p.Phonetic = groups[2]
	}
	return p
}

// Common module interfaces
type IODModule interface {
	ToTags() []IODElement
}

type IODElement struct {
	Tag   tag.Tag
	Value interface{}
}

// optional appends the element only when value is non-empty
func optional(els []IODElement, t tag.Tag, value string) []IODElement {
	if value == "" {
		return els
	}
	return append(els, IODElement{Tag: t, Value: value})
}
