package extract

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/actions"
	"github.com/joseph-ayodele/qc-pdfreader/internal/dcm"
)

// AcqDateTime reads the header of the first file and reports its acquisition
// date and time as AcquisitionDateTime. Params are accepted and ignored.
func (e *Extractor) AcqDateTime(ctx context.Context, in Input, out Recorder, _ actions.Action) error {
	hdr, err := in.FirstHeader(ctx)
	if err != nil {
		return err
	}
	dt, err := AcquisitionDateTime(hdr)
	if err != nil {
		return err
	}
	e.logger.Debug("acquisition datetime", "value", dt)
	out.AddDateTime(constants.ResultAcquisitionDateTime, dt)
	return nil
}

// date/time pairs tried after AcquisitionDateTime, first complete pair wins
var dateTimePairs = [][2]dcm.Tag{
	{dcm.TagAcquisitionDate, dcm.TagAcquisitionTime},
	{dcm.TagContentDate, dcm.TagContentTime},
	{dcm.TagSeriesDate, dcm.TagSeriesTime},
	{dcm.TagStudyDate, dcm.TagStudyTime},
}

// AcquisitionDateTime derives the acquisition moment from a header. Values
// without a timezone offset are taken as UTC.
func AcquisitionDateTime(rec dcm.Record) (time.Time, error) {
	if el, ok := rec.Find(dcm.TagAcquisitionDateTime); ok {
		if s := strings.TrimSpace(el.First()); s != "" {
			return ParseDT(s)
		}
	}
	for _, pair := range dateTimePairs {
		d, okD := nonEmpty(rec, pair[0])
		t, okT := nonEmpty(rec, pair[1])
		if okD && okT {
			return ParseDT(strings.ReplaceAll(d, ".", "") + strings.ReplaceAll(t, ":", ""))
		}
	}
	return time.Time{}, fmt.Errorf("acquisition date/time: %w", dcm.ErrFieldNotFound)
}

func nonEmpty(rec dcm.Record, t dcm.Tag) (string, bool) {
	el, ok := rec.Find(t)
	if !ok {
		return "", false
	}
	s := strings.TrimSpace(el.First())
	return s, s != ""
}

// ParseDT parses a DICOM DT value: YYYYMMDD[HH[MM[SS[.F{1,6}]]]][&ZZXX].
func ParseDT(s string) (time.Time, error) {
	in := strings.TrimSpace(s)
	loc := time.UTC
	if i := strings.LastIndexAny(in, "+-"); i >= 8 {
		off := in[i+1:]
		if len(off) != 4 {
			return time.Time{}, fmt.Errorf("datetime %q: bad offset", s)
		}
		h, errH := strconv.Atoi(off[:2])
		m, errM := strconv.Atoi(off[2:])
		if errH != nil || errM != nil {
			return time.Time{}, fmt.Errorf("datetime %q: bad offset", s)
		}
		secs := h*3600 + m*60
		if in[i] == '-' {
			secs = -secs
		}
		loc = time.FixedZone("", secs)
		in = in[:i]
	}
	if len(in) < 8 {
		return time.Time{}, fmt.Errorf("datetime %q: date must be YYYYMMDD", s)
	}
	day, err := time.ParseInLocation("20060102", in[:8], loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("datetime %q: %w", s, err)
	}

	clock := in[8:]
	var frac string
	if i := strings.IndexByte(clock, '.'); i >= 0 {
		clock, frac = clock[:i], clock[i+1:]
	}
	if len(clock)%2 != 0 || len(clock) > 6 {
		return time.Time{}, fmt.Errorf("datetime %q: bad time", s)
	}
	var parts [3]int
	for i := 0; i < len(clock)/2; i++ {
		n, err := strconv.Atoi(clock[2*i : 2*i+2])
		if err != nil {
			return time.Time{}, fmt.Errorf("datetime %q: bad time", s)
		}
		parts[i] = n
	}
	if parts[0] > 23 || parts[1] > 59 || parts[2] > 60 {
		return time.Time{}, fmt.Errorf("datetime %q: time out of range", s)
	}
	nsec := 0
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		n, err := strconv.Atoi(frac + strings.Repeat("0", 9-len(frac)))
		if err != nil {
			return time.Time{}, fmt.Errorf("datetime %q: bad fraction", s)
		}
		nsec = n
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parts[0], parts[1], parts[2], nsec, loc), nil
}
