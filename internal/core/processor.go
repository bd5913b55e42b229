// Package core runs a module configuration against one set of exam records.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/actions"
	"github.com/joseph-ayodele/qc-pdfreader/internal/common"
	"github.com/joseph-ayodele/qc-pdfreader/internal/extract"
)

// Sink receives results and persists them once at the end of a run.
type Sink interface {
	extract.Recorder
	Write(ctx context.Context) error
}

type handler func(ctx context.Context, in extract.Input, out extract.Recorder, a actions.Action) error

// Processor dispatches each configured action to its extractor.
type Processor struct {
	logger   *slog.Logger
	handlers map[constants.ActionName]handler
}

func NewProcessor(logger *slog.Logger, extractor *extract.Extractor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = extract.NewExtractor(logger)
	}
	return &Processor{
		logger: logger,
		handlers: map[constants.ActionName]handler{
			constants.ActionIgnore:       func(context.Context, extract.Input, extract.Recorder, actions.Action) error { return nil },
			constants.ActionAcqDateTime:  extractor.AcqDateTime,
			constants.ActionHeaderSeries: extractor.HeaderSeries,
			constants.ActionPDFSeries:    extractor.PDFSeries,
		},
	}
}

// Run executes the actions in configuration order and writes the sink once
// after the last one. The first failing action stops the run; the sink is then
// left unwritten.
func (p *Processor) Run(ctx context.Context, cfg *actions.Config, in extract.Input, sink Sink) error {
	start := time.Now()
	logger := common.LoggerFromContext(ctx, p.logger)

	for _, a := range cfg.Actions {
		h, ok := p.handlers[a.Kind]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		actionStart := time.Now()
		if err := h(ctx, in, sink, a); err != nil {
			logger.Error("action failed", "action", a.Name, "error", err)
			return common.NewAppError(common.CodeAction, fmt.Sprintf("action %s", a.Name), err)
		}
		logger.Debug("action done", "action", a.Name, "elapsed_ms", time.Since(actionStart).Milliseconds())
	}

	if err := sink.Write(ctx); err != nil {
		return err
	}
	logger.Info("run complete", "actions", len(cfg.Actions), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}
