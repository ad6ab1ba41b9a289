package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used for figure sizes, line widths and font sizes.

// Unit represents the original unit of a length value as written in a chart file.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as inches for figure sizes
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt, in and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	InToMm = 25.4
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts the length to millimeters. Unit-less values are inches,
// matching how figure sizes are specified.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value * InToMm
	}
}

// ToIN converts the length to inches.
func (l Length) ToIN() float64 { return l.ToMM() / InToMm }

// Inches is shorthand for Length{v, UnitIN}.
func Inches(v float64) Length { return Length{Value: v, Unit: UnitIN} }

// ParseLength parses a length string such as "15in", "38cm" or "2" preserving its unit.
func ParseLength(value string) (Length, error) {
	lower := strings.ToLower(strings.TrimSpace(value))
	unit := UnitNone
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: f, Unit: unit}, nil
}
