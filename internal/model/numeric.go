package model

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrNotANumber is returned when a value cannot be coerced to a finite number.
var ErrNotANumber = errors.New("not a number")

var jsonNull = []byte("null")

// Numeric holds a JSON scalar as received and coerces it to a float64 on
// demand. Numbers and numeric strings ("674", " 5.5") coerce; booleans,
// objects, arrays and other strings do not.
type Numeric struct {
	raw []byte
}

// Num returns a Numeric holding v.
func Num(v float64) *Numeric {
	return &Numeric{raw: strconv.AppendFloat(nil, v, 'f', -1, 64)}
}

// RawNumeric returns a Numeric holding the given JSON text unchanged.
func RawNumeric(raw string) *Numeric {
	return &Numeric{raw: []byte(raw)}
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	n.raw = append(n.raw[:0], b...)
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if len(n.raw) == 0 {
		return jsonNull, nil
	}
	return n.raw, nil
}

// Float coerces the value to a finite float64.
func (n *Numeric) Float() (float64, error) {
	if n == nil {
		return 0, fmt.Errorf("%w: <absent>", ErrNotANumber)
	}
	raw := bytes.TrimSpace(n.raw)
	if len(raw) == 0 {
		return 0, fmt.Errorf("%w: <empty>", ErrNotANumber)
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: %s", ErrNotANumber, text)
		}
		text = strings.TrimSpace(s)
	} else if !isNumberStart(raw[0]) {
		return 0, fmt.Errorf("%w: %s", ErrNotANumber, text)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || hasHexPrefix(text) {
		return 0, fmt.Errorf("%w: %s", ErrNotANumber, string(raw))
	}
	return f, nil
}

func (n *Numeric) String() string {
	if n == nil {
		return "<nil>"
	}
	return string(n.raw)
}

func isNumberStart(c byte) bool {
	return c == '-' || (c >= '0' && c <= '9')
}

// hasHexPrefix rejects hexadecimal floats, which ParseFloat accepts.
func hasHexPrefix(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
