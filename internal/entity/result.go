package entity

import (
	"strconv"
	"time"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
)

// Result is one named QC value for transfer between the sink and its writers.
// Exactly one of String, Float or Time is meaningful, selected by Category.
type Result struct {
	Name     string
	Category constants.ResultCategory
	String   string
	Float    float64
	Time     time.Time
	Position int
}

// Value returns the typed value selected by Category.
func (r Result) Value() any {
	switch r.Category {
	case constants.ResultFloat:
		return r.Float
	case constants.ResultDateTime:
		return r.Time
	default:
		return r.String
	}
}

// Text renders the value the way it is stored in text columns.
func (r Result) Text() string {
	switch r.Category {
	case constants.ResultDateTime:
		return r.Time.Format("2006-01-02 15:04:05")
	case constants.ResultFloat:
		return strconv.FormatFloat(r.Float, 'g', -1, 64)
	default:
		return r.String
	}
}
