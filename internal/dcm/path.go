package dcm

import (
	"fmt"
	"strings"
)

// MaxPathSegments is the deepest path resolved: a field inside two nested sequences.
const MaxPathSegments = 3

// Path is a parsed coded field path such as "0040,0275/0032,1064/0008,0104".
type Path struct {
	Raw  string
	Tags []Tag
	// TooDeep marks paths with more than MaxPathSegments segments. Their tags are not parsed.
	TooDeep bool
}

func (p Path) String() string { return p.Raw }

// ParsePath splits s on "/" and parses each segment as a tag.
func ParsePath(s string) (Path, error) {
	segs := strings.Split(s, "/")
	if len(segs) > MaxPathSegments {
		return Path{Raw: s, TooDeep: true}, nil
	}
	p := Path{Raw: s, Tags: make([]Tag, 0, len(segs))}
	for i, seg := range segs {
		t, err := ParseTag(seg)
		if err != nil {
			return Path{}, fmt.Errorf("path %q segment %d: %w", s, i+1, err)
		}
		p.Tags = append(p.Tags, t)
	}
	return p, nil
}
