package decoder

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nidegypt/internal/nid/models"
)

func TestDecodeMany_OrderAndLength(t *testing.T) {
	d := New()
	asOf := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	raws := []string{
		"29501011234567", // valid
		"12345",          // bad length
		"2950101123456X", // non-digit
		"99501011234567", // bad century
		"29501011234517", // valid, male
	}

	results := d.DecodeMany(context.Background(), raws, asOf)
	require.Len(t, results, len(raws))
	for i, raw := range raws {
		require.Equal(t, raw, results[i].NationalID, "position %d", i)
	}

	require.True(t, results[0].Valid())
	require.Equal(t, models.KindBadLength, results[1].Outcome.Errors[0].Kind)
	require.Equal(t, models.KindNonDigitCharacter, results[2].Outcome.Errors[0].Kind)
	require.Equal(t, models.KindBadCenturyMarker, results[3].Outcome.Errors[0].Kind)
	require.Equal(t, models.GenderMale, results[4].Fields.Gender)
}

func TestDecodeMany_EmptyBatch(t *testing.T) {
	d := New()
	results := d.DecodeMany(context.Background(), nil, time.Now())
	require.Empty(t, results)
}

func TestDecodeMany_FailureIsolation(t *testing.T) {
	d := New()
	asOf := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	// A batch larger than the worker pool, alternating good and bad items.
	raws := make([]string, 50)
	for i := range raws {
		if i%2 == 0 {
			raws[i] = "29501011234567"
		} else {
			raws[i] = fmt.Sprintf("bad-%d", i)
		}
	}

	results := d.DecodeMany(context.Background(), raws, asOf)
	require.Len(t, results, len(raws))
	for i, res := range results {
		if i%2 == 0 {
			require.True(t, res.Valid(), "position %d", i)
		} else {
			require.False(t, res.Valid(), "position %d", i)
			require.Equal(t, raws[i], res.NationalID)
		}
	}
}
