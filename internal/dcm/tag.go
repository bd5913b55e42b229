// Package dcm models DICOM exam records as plain Go values and resolves coded
// field paths against them.
package dcm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Tag is a coded field identifier: a (group, element) pair.
type Tag struct {
	Group   uint16
	Element uint16
}

func (t Tag) String() string {
	return fmt.Sprintf("(%04X,%04X)", t.Group, t.Element)
}

// Coded fields used by the extractors.
var (
	TagStudyDate           = Tag{0x0008, 0x0020}
	TagSeriesDate          = Tag{0x0008, 0x0021}
	TagAcquisitionDate     = Tag{0x0008, 0x0022}
	TagContentDate         = Tag{0x0008, 0x0023}
	TagAcquisitionDateTime = Tag{0x0008, 0x002A}
	TagStudyTime           = Tag{0x0008, 0x0030}
	TagSeriesTime          = Tag{0x0008, 0x0031}
	TagAcquisitionTime     = Tag{0x0008, 0x0032}
	TagContentTime         = Tag{0x0008, 0x0033}
	TagEncapsulatedDoc     = Tag{0x0042, 0x0011}
	TagMIMEType            = Tag{0x0042, 0x0012}
)

var ErrInvalidTag = errors.New("invalid coded field")

// ParseTag parses "gggg,eeee" (hex). Surrounding parentheses, whitespace and
// 0x prefixes are accepted.
func ParseTag(s string) (Tag, error) {
	in := strings.TrimSpace(s)
	in = strings.TrimSuffix(strings.TrimPrefix(in, "("), ")")
	parts := strings.Split(in, ",")
	if len(parts) != 2 {
		return Tag{}, fmt.Errorf("%w: %q", ErrInvalidTag, s)
	}
	var nums [2]uint16
	for i, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(strings.TrimPrefix(p, "0x"), "0X")
		n, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return Tag{}, fmt.Errorf("%w: %q", ErrInvalidTag, s)
		}
		nums[i] = uint16(n)
	}
	return Tag{Group: nums[0], Element: nums[1]}, nil
}
