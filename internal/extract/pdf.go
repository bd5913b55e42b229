package extract

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/actions"
	"github.com/joseph-ayodele/qc-pdfreader/internal/common"
	"github.com/joseph-ayodele/qc-pdfreader/internal/dcm"
)

var (
	ErrMissingMIMEType = errors.New("MIME type of encapsulated document not present")
	ErrNotPDF          = errors.New("encapsulated document is not a pdf")
	ErrMissingDocument = errors.New("encapsulated document not present")
	ErrParseFloat      = errors.New("text rule value is not a number")
	ErrPreNotFound     = errors.New("pre marker not found")
	ErrPostNotFound    = errors.New("post marker not found")
)

// PDFSeries checks that the instance carries an encapsulated PDF and applies
// each text rule to its decoded text, in configuration order.
func (e *Extractor) PDFSeries(ctx context.Context, in Input, out Recorder, a actions.Action) error {
	rec, err := e.firstInstance(ctx, in, a.Name)
	if err != nil {
		return err
	}
	raw, err := EncapsulatedPDF(rec)
	if err != nil {
		return err
	}
	text, err := DecodeDocument(raw, a.PDF.Encoding)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(text, constants.PDFMagic) {
		return fmt.Errorf("%w: stream does not start with %s", ErrNotPDF, constants.PDFMagic)
	}
	e.logger.Debug("encapsulated pdf found", "bytes", len(raw), "text_source", a.PDF.TextSource)

	if a.PDF.TextSource == constants.TextSourceContent {
		text, err = e.contentText(raw)
		if err != nil {
			return fmt.Errorf("pdf content text: %w", err)
		}
	}

	for _, rule := range a.Texts {
		if err := e.applyRule(text, rule, out); err != nil {
			return err
		}
	}
	return nil
}

// EncapsulatedPDF returns the document bytes after checking the MIME type field.
func EncapsulatedPDF(rec dcm.Record) ([]byte, error) {
	mime, ok := rec.Find(dcm.TagMIMEType)
	if !ok {
		return nil, ErrMissingMIMEType
	}
	if !strings.Contains(mime.String(), "pdf") {
		return nil, fmt.Errorf("%w: MIME type %q", ErrNotPDF, mime.String())
	}
	doc, ok := rec.Find(dcm.TagEncapsulatedDoc)
	if !ok {
		return nil, ErrMissingDocument
	}
	if doc.Kind != dcm.KindBytes {
		return nil, fmt.Errorf("%w: %s holds no byte stream", ErrNotPDF, dcm.TagEncapsulatedDoc)
	}
	return doc.Bytes, nil
}

func (e *Extractor) applyRule(text string, rule actions.TextRule, out Recorder) error {
	value, err := Between(text, rule.Pre, rule.Post)
	if err != nil {
		e.logger.Warn("text rule skipped", "rule", rule.Name, "reason", err.Error())
		return nil
	}
	value = StripWhitespace(value)

	switch rule.Type {
	case constants.TextTypeString:
		out.AddString(rule.Name, common.TruncateRunes(value, constants.MaxStringLength))
	case constants.TextTypeFloat:
		f, err := strconv.ParseFloat(value, 64)
		// Out of range values come back as ±Inf or 0 and are kept.
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return fmt.Errorf("rule %q value %q: %w", rule.Name, value, ErrParseFloat)
		}
		out.AddFloat(rule.Name, f)
	default:
		e.logger.Warn("unrecognized text rule type", "rule", rule.Name, "type", string(rule.Type))
	}
	return nil
}

// Between returns the text after the first pre and before the first post found
// from the start of that pre match. When post lies inside the pre match the
// result is empty.
func Between(text, pre, post string) (string, error) {
	i := strings.Index(text, pre)
	if i < 0 {
		return "", ErrPreNotFound
	}
	j := strings.Index(text[i:], post)
	if j < 0 {
		return "", ErrPostNotFound
	}
	start, end := i+len(pre), i+j
	if end <= start {
		return "", nil
	}
	return text[start:end], nil
}

// StripWhitespace removes every whitespace rune, including inner ones.
func StripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
