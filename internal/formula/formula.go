// Package formula verifies derived monetary amounts against declared
// commission rates within an absolute tolerance.
package formula

import (
	"fmt"
	"math"
	"strings"
)

// DefaultTolerance is the absolute tolerance for amount comparisons.
const DefaultTolerance = 0.01

// RatePolicy controls how a raw percent value is normalized into a
// fraction. The auto heuristic treats magnitudes >= 1 as whole-number
// percents; fields whose legitimate rates sit above 1 can pin a policy.
type RatePolicy string

const (
	PolicyAuto     RatePolicy = "auto"
	PolicyPercent  RatePolicy = "percent"
	PolicyFraction RatePolicy = "fraction"
)

// CheckResult is the outcome of verifying one derived amount.
type CheckResult struct {
	OK           bool    `json:"ok"`
	Expected     float64 `json:"expected"`
	Actual       float64 `json:"actual"`
	RateFraction float64 `json:"rate_fraction"`
}

// RateFraction normalizes a raw percent value into a fraction under the
// given policy. Under PolicyAuto, values with magnitude >= 1 are treated as
// whole-number percents (20 -> 0.20); smaller values are already fractional
// (0.2 -> 0.2).
func RateFraction(percent float64, policy RatePolicy) float64 {
	switch policy {
	case PolicyPercent:
		return percent / 100
	case PolicyFraction:
		return percent
	default:
		if math.Abs(percent) >= 1 {
			return percent / 100
		}
		return percent
	}
}

// CheckAmountFromPercent verifies amount == base * fraction(percent) within
// tolerance. A tolerance <= 0 falls back to DefaultTolerance.
func CheckAmountFromPercent(base, percent, amount, tolerance float64) CheckResult {
	return checkWithPolicy(base, percent, amount, tolerance, PolicyAuto)
}

// CheckAmountFromPercentPolicy is CheckAmountFromPercent with an explicit
// percent-vs-fraction policy for fields where the auto heuristic misreads
// legitimate rates.
func CheckAmountFromPercentPolicy(base, percent, amount, tolerance float64, policy RatePolicy) CheckResult {
	return checkWithPolicy(base, percent, amount, tolerance, policy)
}

func checkWithPolicy(base, percent, amount, tolerance float64, policy RatePolicy) CheckResult {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	fraction := RateFraction(percent, policy)
	expected := base * fraction
	return CheckResult{
		OK:           math.Abs(expected-amount) <= tolerance,
		Expected:     expected,
		Actual:       amount,
		RateFraction: fraction,
	}
}

// CheckAmountFromBPS verifies amount == base * rateBPS / 10000 within
// tolerance. 1 bps = 0.01%.
func CheckAmountFromBPS(base, rateBPS, amount, tolerance float64) CheckResult {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	fraction := rateBPS / 10000
	expected := base * fraction
	return CheckResult{
		OK:           math.Abs(expected-amount) <= tolerance,
		Expected:     expected,
		Actual:       amount,
		RateFraction: fraction,
	}
}

// PercentCopiedIntoAmount flags the data-entry smell where a percent value
// and an amount value are numerically identical while the base amount
// exceeds a minimum threshold: a strong signal that a percentage was typed
// into an amount column.
func PercentCopiedIntoAmount(percent, amount, base, minimumBase float64) bool {
	if percent == 0 {
		return false
	}
	return math.Abs(percent-amount) < 1e-9 && base >= minimumBase
}

// TierLabel normalizes a database basis-type code, which encodes its tier
// via a separate numeric field, into the label space used by the
// spreadsheet-derived tier labels, so formula checks compare like with like
// across sources.
func TierLabel(basisCode string, tier int) string {
	kind := strings.ToLower(strings.TrimSpace(basisCode))
	switch kind {
	case "p", "pct", "percent", "percentage":
		kind = "percent"
	case "b", "bp", "bps", "basis", "basispoints":
		kind = "bps"
	case "f", "flat", "fixed":
		kind = "flat"
	}
	if kind == "" {
		kind = "unknown"
	}
	if tier > 0 {
		return fmt.Sprintf("%s_tier_%d", kind, tier)
	}
	return kind
}
