// Package models defines the decoded national identifier domain types.
//
// Domain Purity: this package contains only pure domain types with no I/O
// and no time.Now() calls. Time is always received as a parameter from the
// application layer.
package models

import (
	"fmt"
	"time"
)

// Gender is derived from the parity of the sequence number's last digit.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ErrorKind is the stable machine-readable defect classification.
// Kind is what callers and tests key on; Message is advisory.
type ErrorKind string

const (
	KindBadLength         ErrorKind = "bad_length"
	KindNonDigitCharacter ErrorKind = "non_digit_character"
	KindBadCenturyMarker  ErrorKind = "bad_century_marker"
	KindBadMonth          ErrorKind = "bad_month"
	KindBadDay            ErrorKind = "bad_day"
	KindFutureBirthDate   ErrorKind = "future_birth_date"
	KindUnknownRegion     ErrorKind = "unknown_region"
	KindChecksumMismatch  ErrorKind = "checksum_mismatch"
)

// ValidationError is a single recorded defect.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Outcome reports validity per phase plus the ordered defect list.
//
// Invariants:
//   - Errors is empty iff StructurallyValid && SemanticallyValid
//   - Errors order matches check execution order, so identical input
//     always yields an identical outcome
type Outcome struct {
	StructurallyValid bool              `json:"structurally_valid"`
	SemanticallyValid bool              `json:"semantically_valid"`
	Errors            []ValidationError `json:"errors"`
}

// Valid is the overall verdict exposed to callers.
func (o Outcome) Valid() bool {
	return o.StructurallyValid && o.SemanticallyValid
}

// Fields holds the decoded identifier fields, populated best-effort.
// Callers must consult the Outcome before trusting derived values.
type Fields struct {
	// Century base (1800/1900/2000); zero when the marker is unrecognized.
	Century int

	// Birth date components. BirthDate is set only when century, month and
	// day all resolved; year/month/day carry the raw readings regardless.
	BirthYear  int
	BirthMonth int
	BirthDay   int
	BirthDate  *time.Time

	// Age in whole years relative to the decode's asOf date. Meaningful
	// only when BirthDate is set.
	Age int

	RegionCode string
	RegionName string

	// Zero-padded 4-digit sequence; leading zeros are significant.
	SequenceNumber string
	Gender         Gender

	ChecksumDigit int
}

// Result pairs the raw identifier with its decoded fields and outcome.
type Result struct {
	NationalID string
	Fields     Fields
	Outcome    Outcome
}

// Valid is shorthand for Outcome.Valid.
func (r Result) Valid() bool {
	return r.Outcome.Valid()
}

// centuryMarkers maps century bases back to their marker digit. Kept in
// sync with the decoder's policy table.
var centuryMarkers = map[int]byte{1800: '7', 1900: '2', 2000: '3'}

// Encode reproduces the original 14-digit identifier from fully decoded
// fields. Returns false when any required field is missing, which is the
// case for every structurally or date-invalid decode.
func (f Fields) Encode() (string, bool) {
	marker, ok := centuryMarkers[f.Century]
	if !ok || f.BirthDate == nil || len(f.RegionCode) != 2 || len(f.SequenceNumber) != 4 {
		return "", false
	}
	return fmt.Sprintf("%c%02d%02d%02d%s%s%d",
		marker, f.BirthYear-f.Century, f.BirthMonth, f.BirthDay,
		f.RegionCode, f.SequenceNumber, f.ChecksumDigit), true
}
