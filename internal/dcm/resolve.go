package dcm

import (
	"errors"
	"fmt"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
)

var (
	ErrFieldNotFound = errors.New("coded field not found")
	ErrNotSequence   = errors.New("coded field is not a sequence")
	ErrEmptySequence = errors.New("sequence has no items")
	ErrTooManyLevels = errors.New(constants.TooManyLevels)
)

// Resolve walks p against rec. Every segment but the last must be a sequence;
// the walk descends into its first item.
func Resolve(rec Record, p Path) (*Element, error) {
	if p.TooDeep {
		return nil, fmt.Errorf("%s: %w", p.Raw, ErrTooManyLevels)
	}
	if len(p.Tags) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidTag)
	}
	cur := rec
	for i, t := range p.Tags {
		el, ok := cur.Find(t)
		if !ok {
			return nil, fmt.Errorf("%s at %s: %w", p.Raw, t, ErrFieldNotFound)
		}
		if i == len(p.Tags)-1 {
			return el, nil
		}
		if el.Kind != KindSequence {
			return nil, fmt.Errorf("%s at %s: %w", p.Raw, t, ErrNotSequence)
		}
		if len(el.Items) == 0 {
			return nil, fmt.Errorf("%s at %s: %w", p.Raw, t, ErrEmptySequence)
		}
		cur = el.Items[0]
	}
	// unreachable: the loop returns on the last tag
	return nil, fmt.Errorf("%s: %w", p.Raw, ErrFieldNotFound)
}

// ResolveString resolves p and renders the value. Paths nested deeper than
// MaxPathSegments yield constants.TooManyLevels instead of an error.
func ResolveString(rec Record, p Path) (string, error) {
	if p.TooDeep {
		return constants.TooManyLevels, nil
	}
	el, err := Resolve(rec, p)
	if err != nil {
		return "", err
	}
	return el.String(), nil
}
