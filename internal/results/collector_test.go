package results

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/common"
	"github.com/joseph-ayodele/qc-pdfreader/internal/entity"
)

type memWriter struct {
	runs    []uuid.UUID
	results [][]entity.Result
	err     error
}

func (m *memWriter) Name() string { return "mem" }

func (m *memWriter) WriteResults(_ context.Context, runID uuid.UUID, results []entity.Result) error {
	m.runs = append(m.runs, runID)
	m.results = append(m.results, results)
	return m.err
}

func sampleCollector(writers ...Writer) *Collector {
	c := NewCollector(nil, writers...)
	c.AddDateTime("AcquisitionDateTime", time.Date(2024, 1, 31, 14, 23, 5, 0, time.UTC))
	c.AddString("PatientName", "Phantom^Water")
	c.AddFloat("Label", 42.5)
	return c
}

func TestCollectorOrderAndTruncation(t *testing.T) {
	c := sampleCollector()
	c.AddString("Long", strings.Repeat("é", 150))

	got := c.Results()
	if len(got) != 4 {
		t.Fatalf("got %d results, want 4", len(got))
	}
	wantNames := []string{"AcquisitionDateTime", "PatientName", "Label", "Long"}
	for i, r := range got {
		if r.Name != wantNames[i] || r.Position != i {
			t.Errorf("result %d = %s@%d, want %s@%d", i, r.Name, r.Position, wantNames[i], i)
		}
	}
	if n := len([]rune(got[3].String)); n != constants.MaxStringLength {
		t.Errorf("truncated length = %d runes, want %d", n, constants.MaxStringLength)
	}
}

func TestCollectorWriteOnce(t *testing.T) {
	w := &memWriter{}
	c := sampleCollector(w)
	runID := uuid.New()
	ctx := common.WithRunID(context.Background(), runID)

	if err := c.Write(ctx); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := c.Write(ctx); !errors.Is(err, ErrAlreadyWritten) {
		t.Fatalf("second Write error = %v, want ErrAlreadyWritten", err)
	}
	if len(w.runs) != 1 || w.runs[0] != runID {
		t.Fatalf("writer runs = %v, want [%s]", w.runs, runID)
	}
	if len(w.results[0]) != 3 {
		t.Errorf("writer got %d results, want 3", len(w.results[0]))
	}
}

func TestCollectorWriterError(t *testing.T) {
	boom := errors.New("disk full")
	failing := &memWriter{err: boom}
	after := &memWriter{}
	c := sampleCollector(failing, after)

	err := c.Write(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
	if common.CodeOf(err) != common.CodeResults {
		t.Errorf("code = %q, want %q", common.CodeOf(err), common.CodeResults)
	}
	if len(after.runs) != 0 {
		t.Error("writers after a failure must not run")
	}
	if failing.runs[0] == uuid.Nil {
		t.Error("expected a generated run id")
	}
}
