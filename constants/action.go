package constants

// ActionName names an entry under "actions" in a module configuration.
type ActionName string

const (
	ActionIgnore       ActionName = "ignore"
	ActionAcqDateTime  ActionName = "acqdatetime"
	ActionHeaderSeries ActionName = "header_series"
	ActionPDFSeries    ActionName = "pdf_series"
)

var allActions = []ActionName{
	ActionIgnore,
	ActionAcqDateTime,
	ActionHeaderSeries,
	ActionPDFSeries,
}

func AsStringSlice() []string {
	result := make([]string, len(allActions))
	for i, a := range allActions {
		result[i] = string(a)
	}
	return result
}

// LookupAction matches name exactly (case-sensitive) against the known actions.
func LookupAction(name string) (ActionName, bool) {
	for _, a := range allActions {
		if name == string(a) {
			return a, true
		}
	}
	return "", false
}

// TextType is the declared type of a pdf_series text rule.
type TextType string

const (
	TextTypeString TextType = "string"
	TextTypeFloat  TextType = "float"
)

// Text sources for pdf_series.
const (
	TextSourceRaw     = "raw"     // scan the decoded PDF bytes
	TextSourceContent = "content" // scan text pulled out of the page content streams
)

// Encodings accepted for decoding the encapsulated document.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)
