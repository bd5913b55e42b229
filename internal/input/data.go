// Package input is the boundary that supplies exam records to the extractors.
package input

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/qc-pdfreader/internal/dcm"
)

var ErrNoFiles = errors.New("no input files")

// LoadFunc parses one file. headersOnly skips bulk pixel data.
type LoadFunc func(path string, headersOnly bool) (dcm.Record, error)

// Data holds the per-series file lists of one run and loads records on demand.
type Data struct {
	SeriesFileList [][]string

	load      LoadFunc
	logger    *slog.Logger
	instances []dcm.Record
	loaded    bool
}

// New returns Data over the given series. A nil load uses dcm.LoadFile.
func New(series [][]string, load LoadFunc, logger *slog.Logger) *Data {
	if logger == nil {
		logger = slog.Default()
	}
	if load == nil {
		load = dcm.LoadFile
	}
	return &Data{SeriesFileList: series, load: load, logger: logger}
}

// AllInstances loads every file of every series, in order. The result is cached.
func (d *Data) AllInstances(ctx context.Context) ([]dcm.Record, error) {
	if d.loaded {
		return d.instances, nil
	}
	var out []dcm.Record
	for _, files := range d.SeriesFileList {
		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rec, err := d.load(path, false)
			if err != nil {
				d.logger.Error("failed to load instance", "path", path, "error", err)
				return nil, err
			}
			out = append(out, rec)
		}
	}
	d.logger.Debug("instances loaded", "count", len(out), "series", len(d.SeriesFileList))
	d.instances = out
	d.loaded = true
	return out, nil
}

// FirstHeader loads the header of the first file of the first series.
func (d *Data) FirstHeader(ctx context.Context) (dcm.Record, error) {
	if err := ctx.Err(); err != nil {
		return dcm.Record{}, err
	}
	if len(d.SeriesFileList) == 0 || len(d.SeriesFileList[0]) == 0 {
		return dcm.Record{}, ErrNoFiles
	}
	path := d.SeriesFileList[0][0]
	rec, err := d.load(path, true)
	if err != nil {
		return dcm.Record{}, fmt.Errorf("read header: %w", err)
	}
	return rec, nil
}

// FileCount returns the number of files over all series.
func (d *Data) FileCount() int {
	n := 0
	for _, s := range d.SeriesFileList {
		n += len(s)
	}
	return n
}
