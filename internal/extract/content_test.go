package extract

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/actions"
	"github.com/joseph-ayodele/qc-pdfreader/internal/dcm"
)

// buildPDF writes a one page document whose content stream is Flate
// compressed and shown with a standard Helvetica font.
func buildPDF(t *testing.T, content string) []byte {
	t.Helper()

	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d /Filter /FlateDecode >>\nstream\n%s\nendstream", z.Len(), z.Bytes()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

const doseReport = "BT\n/F1 12 Tf\n72 712 Td\n(Dose: 1.25 mGy) Tj\n0 -14 Td\n(Name: Phantom;) Tj\nET\n"

func TestContentText(t *testing.T) {
	got, err := ContentText(buildPDF(t, doseReport))
	if err != nil {
		t.Fatalf("ContentText: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 {
		t.Fatalf("ContentText = %q, want two lines", got)
	}
	for i, want := range []string{"Dose: 1.25 mGy", "Name: Phantom;"} {
		if strings.TrimSpace(lines[i]) != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestContentTextRejectsGarbage(t *testing.T) {
	if _, err := ContentText([]byte("%PDF-1.4\nnot really a pdf")); err == nil {
		t.Fatal("expected an error for a document without xref")
	}
}

func TestPDFSeriesContentSourceReadsCompressedStream(t *testing.T) {
	doc := buildPDF(t, doseReport)
	rec := dcm.NewRecord(
		dcm.StringElement(dcm.TagMIMEType, "LO", "application/pdf"),
		dcm.BytesElement(dcm.TagEncapsulatedDoc, "OB", doc),
	)
	a := pdfAction(
		actions.TextRule{Name: "Dose", Pre: "Dose:", Post: "mGy", Type: constants.TextTypeFloat},
		actions.TextRule{Name: "Name", Pre: "Name:", Post: ";", Type: constants.TextTypeString},
	)
	a.PDF.TextSource = constants.TextSourceContent
	out := &memRecorder{}

	if err := NewExtractor(nil).PDFSeries(context.Background(), &stubInput{instances: []dcm.Record{rec}}, out, a); err != nil {
		t.Fatalf("PDFSeries: %v", err)
	}
	if len(out.results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(out.results), out.results)
	}
	if r := out.results[0]; r.name != "Dose" || r.float != 1.25 {
		t.Errorf("Dose result = %+v", r)
	}
	if r := out.results[1]; r.name != "Name" || r.str != "Phantom" {
		t.Errorf("Name result = %+v", r)
	}
}
