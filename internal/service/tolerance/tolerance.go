package tolerance

import (
	"fmt"
	"math"
	"strconv"

	"calibration-report/internal/lib/numeric"
)

const (
	StatusConforme   = "Conforme"
	StatusNoConforme = "No conforme"
)

// Band is an acceptance interval around a reference solution value.
// Margin is absolute unless Relative is set, in which case it is a fraction of Target.
type Band struct {
	Name     string
	Target   float64
	Margin   float64
	Relative bool
}

var (
	PH701  = Band{Name: "pH 7.01", Target: 7.01, Margin: 0.05}
	PH401  = Band{Name: "pH 4.01", Target: 4.01, Margin: 0.05}
	EC1288 = Band{Name: "EC 12.88 mS/cm", Target: 12.88, Margin: 0.02, Relative: true}
)

// Result is the outcome of checking one reading against a band.
type Result struct {
	IsWithinRange bool          `json:"is_within_range"`
	LowerBound    float64       `json:"lower_bound"`
	UpperBound    float64       `json:"upper_bound"`
	Deviation     float64       `json:"deviation"`
	Target        float64       `json:"target"`
	Reading       numeric.Value `json:"reading"`
}

// ValidateAbsolute checks reading against [target-margin, target+margin], both ends included.
// An absent reading is never within range.
func ValidateAbsolute(reading numeric.Value, target, margin float64) Result {
	return check(reading, target, target-margin, target+margin)
}

// ValidateRelative checks reading against target*(1-fraction) .. target*(1+fraction).
func ValidateRelative(reading numeric.Value, target, fraction float64) Result {
	return check(reading, target, target*(1-fraction), target*(1+fraction))
}

func (b Band) Check(reading numeric.Value) Result {
	if b.Relative {
		return ValidateRelative(reading, b.Target, b.Margin)
	}
	return ValidateAbsolute(reading, b.Target, b.Margin)
}

// MarginLabel renders the margin the way the report prints it: "±0.05" or "±2%".
func (b Band) MarginLabel() string {
	if b.Relative {
		pct := math.Round(b.Margin*10000) / 100
		return "±" + strconv.FormatFloat(pct, 'f', -1, 64) + "%"
	}
	return fmt.Sprintf("±%.2f", b.Margin)
}

func check(reading numeric.Value, target, lower, upper float64) Result {
	res := Result{
		LowerBound: lower,
		UpperBound: upper,
		Target:     target,
		Reading:    reading,
	}

	v, ok := reading.Float()
	if !ok {
		return res
	}

	res.IsWithinRange = v >= lower && v <= upper
	res.Deviation = math.Abs(v - target)

	return res
}

// Range renders the band as "6.96 - 7.06".
func (r Result) Range() string {
	return fmt.Sprintf("%.2f - %.2f", r.LowerBound, r.UpperBound)
}

func (r Result) Status() string {
	if r.IsWithinRange {
		return StatusConforme
	}
	return StatusNoConforme
}

// DeviationPercent is the deviation relative to the target, used for conductivity.
func (r Result) DeviationPercent() float64 {
	if r.Target == 0 || !r.Reading.Present() {
		return 0
	}
	return r.Deviation / r.Target * 100
}
