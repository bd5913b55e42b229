package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/common"
	"github.com/joseph-ayodele/qc-pdfreader/internal/dcm"
	"github.com/joseph-ayodele/qc-pdfreader/internal/extract"
)

// pdftext prints the text pdf_series rules are matched against, for writing
// pre/post markers.
func main() {
	var (
		encoding = flag.String("encoding", constants.EncodingUTF8, "document encoding: utf-8 or latin1")
		source   = flag.String("source", constants.TextSourceRaw, "text source: raw or content")
	)
	flag.Parse()

	logger := common.NewLogger(common.LoadConfig().Log)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "pdftext [-encoding utf-8|latin1] [-source raw|content] <dicom-file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	rec, err := dcm.LoadFile(path, false)
	if err != nil {
		logger.Error("failed to read DICOM file", "path", path, "error", err)
		os.Exit(1)
	}
	raw, err := extract.EncapsulatedPDF(rec)
	if err != nil {
		logger.Error("no encapsulated pdf", "path", path, "error", err)
		os.Exit(1)
	}

	var text string
	switch *source {
	case constants.TextSourceRaw:
		text, err = extract.DecodeDocument(raw, *encoding)
	case constants.TextSourceContent:
		text, err = extract.ContentText(raw)
	default:
		err = fmt.Errorf("%w: unknown text source %q", common.ErrInvalidInput, *source)
	}
	if err != nil {
		logger.Error("text extraction failed", "path", path, "error", err)
		os.Exit(1)
	}

	logger.Info("text extraction OK", "path", path, "bytes", len(raw), "source", *source)
	fmt.Println(text)
}
