package decoder

// ChecksumFunc decides whether the 14th digit is consistent with the first
// 13. The authoritative Egyptian formula is not publicly documented, so the
// predicate is injected rather than hardcoded; alternate formulas can be
// validated independently without touching decode logic.
type ChecksumFunc func(first13 string, checkDigit int) bool

// AcceptAll treats every check digit as valid. This mirrors the upstream
// behavior of record-keeping deployments that extract fields without
// enforcing an unverified formula.
func AcceptAll(first13 string, checkDigit int) bool {
	return true
}

// Weighted is a position-weighted mod-11 candidate formula: each of the 13
// payload digits is multiplied by its distance from the check position,
// summed, and folded into a single expected digit. Deterministic and
// stable, but NOT confirmed against authoritative documentation.
func Weighted(first13 string, checkDigit int) bool {
	sum := 0
	for i := 0; i < len(first13); i++ {
		sum += int(first13[i]-'0') * (len(first13) + 1 - i)
	}
	expected := (11 - sum%11) % 11 % 10
	return checkDigit == expected
}

// ChecksumByName resolves a configured checksum mode to its function.
// Unknown names fall back to AcceptAll; config validation rejects them
// before this point in the wired server.
func ChecksumByName(name string) ChecksumFunc {
	if name == "weighted" {
		return Weighted
	}
	return AcceptAll
}
