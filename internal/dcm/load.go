package dcm

import (
	"fmt"
	"strings"

	"github.com/suyashkumar/dicom"
)

// LoadFile parses a DICOM file into a Record. With headersOnly the pixel data
// is skipped, which is all the timestamp and header extractors need.
func LoadFile(path string, headersOnly bool) (Record, error) {
	var opts []dicom.ParseOption
	if headersOnly {
		opts = append(opts, dicom.SkipPixelData())
	}
	ds, err := dicom.ParseFile(path, nil, opts...)
	if err != nil {
		return Record{}, fmt.Errorf("parse dicom %s: %w", path, err)
	}
	return FromDataset(ds), nil
}

// FromDataset converts a parsed dataset, including nested sequences.
func FromDataset(ds dicom.Dataset) Record {
	return fromElements(ds.Elements)
}

func fromElements(els []*dicom.Element) Record {
	rec := Record{Elements: make([]*Element, 0, len(els))}
	for _, el := range els {
		if el == nil || el.Value == nil {
			continue
		}
		rec.Elements = append(rec.Elements, fromElement(el))
	}
	return rec
}

func fromElement(el *dicom.Element) *Element {
	out := &Element{
		Tag: Tag{Group: el.Tag.Group, Element: el.Tag.Element},
		VR:  el.RawValueRepresentation,
	}
	switch el.Value.ValueType() {
	case dicom.Strings:
		out.Kind = KindStrings
		vals, _ := el.Value.GetValue().([]string)
		out.Strings = make([]string, len(vals))
		for i, v := range vals {
			out.Strings[i] = strings.TrimRight(v, "\x00 ")
		}
	case dicom.Ints:
		out.Kind = KindInts
		out.Ints, _ = el.Value.GetValue().([]int)
	case dicom.Floats:
		out.Kind = KindFloats
		out.Floats, _ = el.Value.GetValue().([]float64)
	case dicom.Bytes:
		out.Kind = KindBytes
		out.Bytes, _ = el.Value.GetValue().([]byte)
	case dicom.Sequences:
		out.Kind = KindSequence
		items, _ := el.Value.GetValue().([]*dicom.SequenceItemValue)
		out.Items = make([]Record, 0, len(items))
		for _, item := range items {
			nested, _ := item.GetValue().([]*dicom.Element)
			out.Items = append(out.Items, fromElements(nested))
		}
	case dicom.SequenceItem:
		out.Kind = KindSequence
		nested, _ := el.Value.GetValue().([]*dicom.Element)
		out.Items = []Record{fromElements(nested)}
	default:
		out.Kind = KindPixelData
	}
	return out
}
