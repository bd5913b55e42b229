package extract

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/actions"
	"github.com/joseph-ayodele/qc-pdfreader/internal/dcm"
)

type stubInput struct {
	instances []dcm.Record
	header    dcm.Record
	err       error
}

func (s *stubInput) AllInstances(context.Context) ([]dcm.Record, error) { return s.instances, s.err }
func (s *stubInput) FirstHeader(context.Context) (dcm.Record, error)    { return s.header, s.err }

type recorded struct {
	name  string
	kind  constants.ResultCategory
	str   string
	float float64
	time  time.Time
}

type memRecorder struct{ results []recorded }

func (m *memRecorder) AddDateTime(name string, v time.Time) {
	m.results = append(m.results, recorded{name: name, kind: constants.ResultDateTime, time: v})
}
func (m *memRecorder) AddString(name, v string) {
	m.results = append(m.results, recorded{name: name, kind: constants.ResultString, str: v})
}
func (m *memRecorder) AddFloat(name string, v float64) {
	m.results = append(m.results, recorded{name: name, kind: constants.ResultFloat, float: v})
}

var tagPatientName = dcm.Tag{Group: 0x0010, Element: 0x0010}

func pdfRecord(mime string, doc string) dcm.Record {
	return dcm.NewRecord(
		dcm.StringElement(tagPatientName, "PN", "Phantom^Water"),
		dcm.StringElement(dcm.TagMIMEType, "LO", mime),
		dcm.BytesElement(dcm.TagEncapsulatedDoc, "OB", []byte(doc)),
	)
}

func pdfAction(rules ...actions.TextRule) actions.Action {
	return actions.Action{
		Name:  string(constants.ActionPDFSeries),
		Kind:  constants.ActionPDFSeries,
		Texts: rules,
		PDF:   actions.PDFParams{Encoding: constants.EncodingUTF8, TextSource: constants.TextSourceRaw},
	}
}

const reportText = "%PDF-1.4\n1 0 obj\nBT (Report) Tj ET\nLABEL: 42.5 mm\nNAME: John  Doe;\nSerial: 12 3\n4#\n%%EOF"

func TestPDFSeriesExtractsRules(t *testing.T) {
	in := &stubInput{instances: []dcm.Record{pdfRecord("application/pdf", reportText)}}
	out := &memRecorder{}
	a := pdfAction(
		actions.TextRule{Name: "Label", Pre: "LABEL:", Post: "mm", Type: constants.TextTypeFloat},
		actions.TextRule{Name: "Name", Pre: "NAME:", Post: ";", Type: constants.TextTypeString},
		actions.TextRule{Name: "Serial", Pre: "Serial:", Post: "#", Type: constants.TextTypeString},
		actions.TextRule{Name: "Other", Pre: "NAME:", Post: ";", Type: "integer"},
		actions.TextRule{Name: "Missing", Pre: "Nope:", Post: ";", Type: constants.TextTypeString},
	)

	if err := NewExtractor(nil).PDFSeries(context.Background(), in, out, a); err != nil {
		t.Fatalf("PDFSeries: %v", err)
	}
	if len(out.results) != 3 {
		t.Fatalf("got %d results, want 3: %+v", len(out.results), out.results)
	}
	if r := out.results[0]; r.name != "Label" || r.kind != constants.ResultFloat || r.float != 42.5 {
		t.Errorf("Label result = %+v", r)
	}
	if r := out.results[1]; r.name != "Name" || r.str != "JohnDoe" {
		t.Errorf("Name result = %+v", r)
	}
	if r := out.results[2]; r.name != "Serial" || r.str != "1234" {
		t.Errorf("Serial result = %+v", r)
	}
}

func TestPDFSeriesFatalChecks(t *testing.T) {
	rule := actions.TextRule{Name: "Label", Pre: "LABEL:", Post: "mm", Type: constants.TextTypeFloat}
	tests := []struct {
		name string
		rec  dcm.Record
		want error
	}{
		{"octet stream", pdfRecord("application/octet-stream", reportText), ErrNotPDF},
		{"missing percent", pdfRecord("application/pdf", "PDF-1.7\nLABEL: 1 mm"), ErrNotPDF},
		{"no mime", dcm.NewRecord(dcm.BytesElement(dcm.TagEncapsulatedDoc, "OB", []byte(reportText))), ErrMissingMIMEType},
		{"no document", dcm.NewRecord(dcm.StringElement(dcm.TagMIMEType, "LO", "application/pdf")), ErrMissingDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &memRecorder{}
			err := NewExtractor(nil).PDFSeries(context.Background(), &stubInput{instances: []dcm.Record{tt.rec}}, out, pdfAction(rule))
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if len(out.results) != 0 {
				t.Errorf("rules ran before the check failed: %+v", out.results)
			}
		})
	}
}

func TestPDFSeriesFloatParseIsFatal(t *testing.T) {
	in := &stubInput{instances: []dcm.Record{pdfRecord("application/pdf", reportText)}}
	a := pdfAction(actions.TextRule{Name: "Name", Pre: "NAME:", Post: ";", Type: constants.TextTypeFloat})
	err := NewExtractor(nil).PDFSeries(context.Background(), in, &memRecorder{}, a)
	if !errors.Is(err, ErrParseFloat) {
		t.Fatalf("error = %v, want ErrParseFloat", err)
	}
}

func TestPDFSeriesNonFiniteFloats(t *testing.T) {
	doc := "%PDF-1.4\nHUGE= 1e400;\nTINY= -1e-400;\nINF= inf;\nNEG= -Infinity;\nNAN= NaN;\n%%EOF"
	in := &stubInput{instances: []dcm.Record{pdfRecord("application/pdf", doc)}}
	out := &memRecorder{}
	a := pdfAction(
		actions.TextRule{Name: "Huge", Pre: "HUGE=", Post: ";", Type: constants.TextTypeFloat},
		actions.TextRule{Name: "Tiny", Pre: "TINY=", Post: ";", Type: constants.TextTypeFloat},
		actions.TextRule{Name: "Inf", Pre: "INF=", Post: ";", Type: constants.TextTypeFloat},
		actions.TextRule{Name: "Neg", Pre: "NEG=", Post: ";", Type: constants.TextTypeFloat},
		actions.TextRule{Name: "NaN", Pre: "NAN=", Post: ";", Type: constants.TextTypeFloat},
	)
	if err := NewExtractor(nil).PDFSeries(context.Background(), in, out, a); err != nil {
		t.Fatalf("PDFSeries: %v", err)
	}
	if len(out.results) != 5 {
		t.Fatalf("got %d results, want 5: %+v", len(out.results), out.results)
	}
	checks := []func(float64) bool{
		func(f float64) bool { return math.IsInf(f, 1) },
		func(f float64) bool { return f == 0 },
		func(f float64) bool { return math.IsInf(f, 1) },
		func(f float64) bool { return math.IsInf(f, -1) },
		math.IsNaN,
	}
	for i, ok := range checks {
		if r := out.results[i]; !ok(r.float) {
			t.Errorf("%s = %v", r.name, r.float)
		}
	}
}

func TestPDFSeriesTruncatesStrings(t *testing.T) {
	doc := "%PDF-1.4 Comment:" + strings.Repeat("x", 150) + ";"
	in := &stubInput{instances: []dcm.Record{pdfRecord("application/pdf", doc)}}
	out := &memRecorder{}
	a := pdfAction(actions.TextRule{Name: "Comment", Pre: "Comment:", Post: ";", Type: constants.TextTypeString})
	if err := NewExtractor(nil).PDFSeries(context.Background(), in, out, a); err != nil {
		t.Fatal(err)
	}
	if got := len(out.results[0].str); got != constants.MaxStringLength {
		t.Errorf("string length = %d, want %d", got, constants.MaxStringLength)
	}
}

func TestPDFSeriesContentSource(t *testing.T) {
	in := &stubInput{instances: []dcm.Record{pdfRecord("application/pdf", "%PDF-1.7 compressed")}}
	out := &memRecorder{}
	var seen []byte
	x := NewExtractor(nil, WithContentText(func(pdf []byte) (string, error) {
		seen = pdf
		return "Dose: 1.25 mGy", nil
	}))
	a := pdfAction(actions.TextRule{Name: "Dose", Pre: "Dose:", Post: "mGy", Type: constants.TextTypeFloat})
	a.PDF.TextSource = constants.TextSourceContent

	if err := x.PDFSeries(context.Background(), in, out, a); err != nil {
		t.Fatal(err)
	}
	if string(seen) != "%PDF-1.7 compressed" {
		t.Errorf("content extractor got %q", seen)
	}
	if len(out.results) != 1 || out.results[0].float != 1.25 {
		t.Errorf("results = %+v", out.results)
	}
}

func TestBetween(t *testing.T) {
	tests := []struct {
		text, pre, post string
		want            string
		err             error
	}{
		{"...LABEL: 42.5 mm...", "LABEL:", "mm", " 42.5 ", nil},
		{"a=1; b=2;", "b=", ";", "2", nil},
		{"no markers", "x=", ";", "", ErrPreNotFound},
		{"x= 1", "x=", ";", "", ErrPostNotFound},
		{"key: value", "key:", "ey", "", nil},
	}
	for _, tt := range tests {
		got, err := Between(tt.text, tt.pre, tt.post)
		if !errors.Is(err, tt.err) {
			t.Errorf("Between(%q) error = %v, want %v", tt.text, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("Between(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestStripWhitespace(t *testing.T) {
	if got := StripWhitespace("12 3\n4"); got != "1234" {
		t.Errorf("StripWhitespace = %q, want 1234", got)
	}
	if got := StripWhitespace(" \tJohn  Doe\r\n"); got != "JohnDoe" {
		t.Errorf("StripWhitespace = %q, want JohnDoe", got)
	}
}

func TestDecodeDocument(t *testing.T) {
	got, err := DecodeDocument([]byte("%PDF\xff\xfe"), constants.EncodingUTF8)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "%PDF") || !strings.Contains(got, "�") {
		t.Errorf("utf-8 decode = %q", got)
	}

	got, err = DecodeDocument([]byte("caf\xe9"), constants.EncodingLatin1)
	if err != nil {
		t.Fatal(err)
	}
	if got != "café" {
		t.Errorf("latin1 decode = %q, want café", got)
	}

	if _, err := DecodeDocument(nil, "ebcdic"); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}
