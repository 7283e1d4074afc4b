// Package decoder parses and validates 14-digit Egyptian national
// identifiers, extracting birth date, gender, birth governorate, sequence
// and checksum fields.
//
// Decode is a pure function of its inputs: no I/O, no clock reads, no
// shared mutable state. It is safe to call from any number of goroutines.
package decoder

import (
	"fmt"
	"time"

	"nidegypt/internal/nid/governorate"
	"nidegypt/internal/nid/models"
)

// centuryEntry pairs a marker digit with its century base. Ordered table
// rather than inline conditionals so new markers are data edits.
type centuryEntry struct {
	marker byte
	base   int
}

var centuryTable = []centuryEntry{
	{'7', 1800},
	{'2', 1900},
	{'3', 2000},
}

// Decoder validates raw identifiers against a configured checksum policy.
type Decoder struct {
	checksum ChecksumFunc
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithChecksum overrides the checksum predicate. Nil funcs are ignored.
func WithChecksum(fn ChecksumFunc) Option {
	return func(d *Decoder) {
		if fn != nil {
			d.checksum = fn
		}
	}
}

// New builds a Decoder. The default checksum policy is AcceptAll.
func New(opts ...Option) *Decoder {
	d := &Decoder{checksum: AcceptAll}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode parses raw and reports every structural and semantic defect
// found. It always returns a populated Result and never panics; on
// structural failure the decoded fields are left entirely unset.
//
// Validation runs in two phases. The structural phase (length, character
// class) gates the semantic phase: a malformed string cannot be sliced
// into fields safely. Within the semantic phase every sub-check runs and
// all failures are collected, in a fixed order, so the same input always
// produces the same error list.
func (d *Decoder) Decode(raw string, asOf time.Time) models.Result {
	res := models.Result{NationalID: raw}

	if len(raw) != 14 {
		res.Outcome.Errors = append(res.Outcome.Errors, models.ValidationError{
			Kind:    models.KindBadLength,
			Message: fmt.Sprintf("national ID must be exactly 14 digits, got %d characters", len(raw)),
		})
		return res
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			res.Outcome.Errors = append(res.Outcome.Errors, models.ValidationError{
				Kind:    models.KindNonDigitCharacter,
				Message: fmt.Sprintf("non-digit character at position %d", i+1),
			})
			return res
		}
	}
	res.Outcome.StructurallyValid = true

	f := &res.Fields

	// Field slicing is now safe. Gender depends only on one digit's parity
	// and is always derivable past this point.
	f.SequenceNumber = raw[9:13]
	if (raw[12]-'0')%2 == 1 {
		f.Gender = models.GenderMale
	} else {
		f.Gender = models.GenderFemale
	}
	f.RegionCode = raw[7:9]
	f.ChecksumDigit = int(raw[13] - '0')

	// Semantic sub-checks, in order: century, month, day, future date,
	// region, checksum. None short-circuits the others.
	centuryKnown := false
	for _, e := range centuryTable {
		if e.marker == raw[0] {
			f.Century = e.base
			centuryKnown = true
			break
		}
	}
	if !centuryKnown {
		res.Outcome.Errors = append(res.Outcome.Errors, models.ValidationError{
			Kind:    models.KindBadCenturyMarker,
			Message: fmt.Sprintf("invalid century indicator: %c", raw[0]),
		})
	}

	yy := digits2(raw[1:3])
	f.BirthMonth = digits2(raw[3:5])
	f.BirthDay = digits2(raw[5:7])
	if centuryKnown {
		f.BirthYear = f.Century + yy
	}

	monthValid := f.BirthMonth >= 1 && f.BirthMonth <= 12
	if !monthValid {
		res.Outcome.Errors = append(res.Outcome.Errors, models.ValidationError{
			Kind:    models.KindBadMonth,
			Message: fmt.Sprintf("month %02d out of range [1,12]", f.BirthMonth),
		})
	}

	dayValid := false
	if monthValid {
		// Leap-year resolution needs a year; with the century unknown the
		// 1900-based reading still catches out-of-range days.
		leapYear := f.BirthYear
		if !centuryKnown {
			leapYear = 1900 + yy
		}
		maxDay := daysInMonth(f.BirthMonth, leapYear)
		dayValid = f.BirthDay >= 1 && f.BirthDay <= maxDay
		if !dayValid {
			res.Outcome.Errors = append(res.Outcome.Errors, models.ValidationError{
				Kind:    models.KindBadDay,
				Message: fmt.Sprintf("day %02d out of range [1,%d] for month %02d", f.BirthDay, maxDay, f.BirthMonth),
			})
		}
	}

	if centuryKnown && monthValid && dayValid {
		birth := time.Date(f.BirthYear, time.Month(f.BirthMonth), f.BirthDay, 0, 0, 0, 0, time.UTC)
		f.BirthDate = &birth
		f.Age = ageAt(birth, asOf)
		if birth.After(asOf) {
			res.Outcome.Errors = append(res.Outcome.Errors, models.ValidationError{
				Kind:    models.KindFutureBirthDate,
				Message: "birth date cannot be in the future",
			})
		}
	}

	if name, ok := governorate.Lookup(f.RegionCode); ok {
		f.RegionName = name
	} else {
		f.RegionName = governorate.Unknown
		res.Outcome.Errors = append(res.Outcome.Errors, models.ValidationError{
			Kind:    models.KindUnknownRegion,
			Message: fmt.Sprintf("unknown governorate code: %s", f.RegionCode),
		})
	}

	if !d.checksum(raw[:13], f.ChecksumDigit) {
		res.Outcome.Errors = append(res.Outcome.Errors, models.ValidationError{
			Kind:    models.KindChecksumMismatch,
			Message: "checksum digit does not match",
		})
	}

	res.Outcome.SemanticallyValid = len(res.Outcome.Errors) == 0
	return res
}

// digits2 reads a two-character all-digit slice as an int. Callers
// guarantee the character class via the structural phase.
func digits2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

// daysInMonth accounts for leap years via the time package's day-zero
// normalization.
func daysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ageAt computes whole years between birth and asOf.
func ageAt(birth, asOf time.Time) int {
	age := asOf.Year() - birth.Year()
	if asOf.Month() < birth.Month() || (asOf.Month() == birth.Month() && asOf.Day() < birth.Day()) {
		age--
	}
	return age
}
