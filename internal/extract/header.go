package extract

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/actions"
	"github.com/joseph-ayodele/qc-pdfreader/internal/common"
	"github.com/joseph-ayodele/qc-pdfreader/internal/dcm"
)

// HeaderSeries reports every configured coded field of the instance as a
// string result, in configuration order.
func (e *Extractor) HeaderSeries(ctx context.Context, in Input, out Recorder, a actions.Action) error {
	rec, err := e.firstInstance(ctx, in, a.Name)
	if err != nil {
		return err
	}
	for _, f := range a.Tags {
		value, err := dcm.ResolveString(rec, f.Path)
		if err != nil {
			return fmt.Errorf("tag %q: %w", f.Name, err)
		}
		if f.Path.TooDeep {
			e.logger.Debug("coded field nested too deep", "tag", f.Name, "path", f.Path.Raw)
		}
		out.AddString(f.Name, common.TruncateRunes(value, constants.MaxStringLength))
	}
	return nil
}
