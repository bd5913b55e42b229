// Package extract implements the QC extractors: acquisition timestamp, header
// fields and labeled values in an encapsulated PDF.
package extract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/qc-pdfreader/internal/dcm"
)

var ErrNoInstances = errors.New("no instances in input")

// Input supplies the exam records of one run.
type Input interface {
	AllInstances(ctx context.Context) ([]dcm.Record, error)
	FirstHeader(ctx context.Context) (dcm.Record, error)
}

// Recorder receives typed, named results.
type Recorder interface {
	AddDateTime(name string, value time.Time)
	AddString(name, value string)
	AddFloat(name string, value float64)
}

// ContentTextFunc extracts displayable text from a PDF byte stream.
type ContentTextFunc func(pdf []byte) (string, error)

type Extractor struct {
	logger      *slog.Logger
	contentText ContentTextFunc
}

type Option func(*Extractor)

// WithContentText replaces the PDF content-stream text extractor.
func WithContentText(fn ContentTextFunc) Option {
	return func(e *Extractor) {
		if fn != nil {
			e.contentText = fn
		}
	}
}

func NewExtractor(logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{logger: logger, contentText: ContentText}
	for _, o := range opts {
		o(e)
	}
	return e
}

// firstInstance returns the first record, warning when the input does not hold exactly one.
func (e *Extractor) firstInstance(ctx context.Context, in Input, action string) (dcm.Record, error) {
	instances, err := in.AllInstances(ctx)
	if err != nil {
		return dcm.Record{}, err
	}
	if len(instances) == 0 {
		return dcm.Record{}, ErrNoInstances
	}
	if len(instances) != 1 {
		e.logger.Warn("number of instances not equal to 1, using the first",
			"action", action, "instances", len(instances))
	}
	return instances[0], nil
}
