//go:build go1.18

package decoder

import (
	"testing"
	"time"

	"nidegypt/internal/nid/models"
)

// FuzzDecode verifies the trust-boundary invariants on arbitrary input:
// no panics, a populated outcome on every call, and an error list that is
// empty exactly when both validity flags hold.
func FuzzDecode(f *testing.F) {
	f.Add("29501011234567")
	f.Add("")
	f.Add("12345")
	f.Add("2950101123456X")
	f.Add("99999999999999")
	f.Add("'; DROP TABLE clients;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	d := New()
	asOf := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	f.Fuzz(func(t *testing.T, input string) {
		res := d.Decode(input, asOf)

		valid := res.Outcome.StructurallyValid && res.Outcome.SemanticallyValid
		if valid != (len(res.Outcome.Errors) == 0) {
			t.Errorf("errors empty iff valid violated: valid=%v errors=%d", valid, len(res.Outcome.Errors))
		}
		if res.Valid() != valid {
			t.Error("Valid() disagrees with phase flags")
		}

		if !res.Outcome.StructurallyValid && res.Fields != (models.Fields{}) {
			t.Error("structural failure must leave fields unset")
		}

		// Determinism: a second decode is byte-identical.
		again := d.Decode(input, asOf)
		if len(again.Outcome.Errors) != len(res.Outcome.Errors) {
			t.Error("decode is not deterministic")
		}
		for i := range res.Outcome.Errors {
			if again.Outcome.Errors[i] != res.Outcome.Errors[i] {
				t.Error("error order changed between decodes")
			}
		}
	})
}
