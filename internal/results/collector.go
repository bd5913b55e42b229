// Package results is the QC results sink: an append-only collector that hands
// its results to the configured writers once, at the end of a run.
package results

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/common"
	"github.com/joseph-ayodele/qc-pdfreader/internal/entity"
)

var ErrAlreadyWritten = errors.New("results already written")

// Writer persists the results of one run.
type Writer interface {
	Name() string
	WriteResults(ctx context.Context, runID uuid.UUID, results []entity.Result) error
}

// Collector accumulates results in insertion order.
type Collector struct {
	mu      sync.Mutex
	results []entity.Result
	written bool

	writers []Writer
	logger  *slog.Logger
}

func NewCollector(logger *slog.Logger, writers ...Writer) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{writers: writers, logger: logger}
}

func (c *Collector) AddDateTime(name string, value time.Time) {
	c.add(entity.Result{Name: name, Category: constants.ResultDateTime, Time: value})
}

// AddString records value cut to constants.MaxStringLength runes.
func (c *Collector) AddString(name, value string) {
	c.add(entity.Result{
		Name:     name,
		Category: constants.ResultString,
		String:   common.TruncateRunes(value, constants.MaxStringLength),
	})
}

func (c *Collector) AddFloat(name string, value float64) {
	c.add(entity.Result{Name: name, Category: constants.ResultFloat, Float: value})
}

func (c *Collector) add(r entity.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r.Position = len(c.results)
	c.results = append(c.results, r)
	c.logger.Debug("result added", "name", r.Name, "category", string(r.Category))
}

// Results returns a copy of the collected results.
func (c *Collector) Results() []entity.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.Result, len(c.results))
	copy(out, c.results)
	return out
}

// Write hands the results to every writer in order. It may be called once;
// later calls return ErrAlreadyWritten. The run id comes from the context
// (common.WithRunID) or is generated.
func (c *Collector) Write(ctx context.Context) error {
	c.mu.Lock()
	if c.written {
		c.mu.Unlock()
		return ErrAlreadyWritten
	}
	c.written = true
	results := make([]entity.Result, len(c.results))
	copy(results, c.results)
	c.mu.Unlock()

	runID, ok := common.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.New()
	}

	for _, w := range c.writers {
		start := time.Now()
		if err := w.WriteResults(ctx, runID, results); err != nil {
			c.logger.Error("failed to write results", "writer", w.Name(), "error", err)
			return common.NewAppError(common.CodeResults, fmt.Sprintf("write %s", w.Name()), err)
		}
		c.logger.Info("results written",
			"writer", w.Name(),
			"run_id", runID.String(),
			"rows", len(results),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
	return nil
}
