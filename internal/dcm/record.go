package dcm

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tells which value slice of an Element is populated.
type Kind int

const (
	KindStrings Kind = iota
	KindInts
	KindFloats
	KindBytes
	KindSequence
	KindPixelData
)

// Element is one coded field of a Record.
type Element struct {
	Tag     Tag
	VR      string
	Kind    Kind
	Strings []string
	Ints    []int
	Floats  []float64
	Bytes   []byte
	Items   []Record
}

// Record is an ordered collection of elements: a whole exam record or one
// item of a sequence.
type Record struct {
	Elements []*Element
}

// Find returns the first element with tag t.
func (r Record) Find(t Tag) (*Element, bool) {
	for _, e := range r.Elements {
		if e.Tag == t {
			return e, true
		}
	}
	return nil, false
}

// String renders the value. Multiple values are joined with the DICOM value
// delimiter "\".
func (e *Element) String() string {
	switch e.Kind {
	case KindStrings:
		return strings.Join(e.Strings, `\`)
	case KindInts:
		parts := make([]string, len(e.Ints))
		for i, v := range e.Ints {
			parts[i] = strconv.Itoa(v)
		}
		return strings.Join(parts, `\`)
	case KindFloats:
		parts := make([]string, len(e.Floats))
		for i, v := range e.Floats {
			parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return strings.Join(parts, `\`)
	case KindBytes:
		return strings.TrimRight(string(e.Bytes), "\x00 ")
	case KindSequence:
		return fmt.Sprintf("sequence[%d]", len(e.Items))
	case KindPixelData:
		return "pixel data"
	default:
		return ""
	}
}

// First returns the first string value, or "" when the element holds none.
func (e *Element) First() string {
	if e.Kind == KindStrings && len(e.Strings) > 0 {
		return e.Strings[0]
	}
	return e.String()
}

// Constructors, mostly for building records by hand.

func StringElement(t Tag, vr string, values ...string) *Element {
	return &Element{Tag: t, VR: vr, Kind: KindStrings, Strings: values}
}

func IntElement(t Tag, vr string, values ...int) *Element {
	return &Element{Tag: t, VR: vr, Kind: KindInts, Ints: values}
}

func FloatElement(t Tag, vr string, values ...float64) *Element {
	return &Element{Tag: t, VR: vr, Kind: KindFloats, Floats: values}
}

func BytesElement(t Tag, vr string, b []byte) *Element {
	return &Element{Tag: t, VR: vr, Kind: KindBytes, Bytes: b}
}

func SequenceElement(t Tag, items ...Record) *Element {
	return &Element{Tag: t, VR: "SQ", Kind: KindSequence, Items: items}
}

// NewRecord builds a Record from elements in order.
func NewRecord(elements ...*Element) Record {
	return Record{Elements: elements}
}
