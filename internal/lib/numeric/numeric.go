package numeric

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a number typed into a form field. It may be absent: an empty field,
// null, or text that does not parse. Absent values never compare as numbers.
type Value struct {
	f  float64
	ok bool
}

func Of(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{f: f, ok: true}
}

func Missing() Value {
	return Value{}
}

// Parse reads a form field the way the browser did with parseFloat on a number input.
func Parse(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}
	}
	return Of(f)
}

func (v Value) Float() (float64, bool) {
	return v.f, v.ok
}

func (v Value) Present() bool {
	return v.ok
}

// Or returns the number or def when absent.
func (v Value) Or(def float64) float64 {
	if !v.ok {
		return def
	}
	return v.f
}

// String renders two decimals, the precision readings are entered with.
func (v Value) String() string {
	if !v.ok {
		return ""
	}
	return strconv.FormatFloat(v.f, 'f', 2, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.f, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null. Anything else decodes
// to an absent value instead of failing the whole payload.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = Value{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*v = Parse(s)
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	*v = Of(f)
	return nil
}
