// Package actions loads and validates the module configuration: an ordered set
// of named actions, each with its own parameter shape.
package actions

import (
	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/dcm"
)

// Config is a loaded module configuration. Actions keep file order.
type Config struct {
	Actions []Action
}

// Action is one entry of "actions". Kind is empty for names outside the known
// set; the dispatcher skips those.
type Action struct {
	Name   string
	Kind   constants.ActionName
	Params map[string]any

	// header_series
	Tags []TagField
	// pdf_series
	Texts []TextRule
	PDF   PDFParams
}

// Known reports whether the action name is one the dispatcher handles.
func (a Action) Known() bool { return a.Kind != "" }

// TagField maps a result name to a coded field path.
type TagField struct {
	Name string
	Path dcm.Path
}

// TextRule carves one value out of the document text between Pre and Post.
type TextRule struct {
	Name string             `json:"name"`
	Pre  string             `json:"pre"`
	Post string             `json:"post"`
	Type constants.TextType `json:"type"`
}

// PDFParams are the optional pdf_series parameters.
type PDFParams struct {
	Encoding   string `json:"encoding"`
	TextSource string `json:"text_source"`
}

func (p PDFParams) withDefaults() PDFParams {
	if p.Encoding == "" {
		p.Encoding = constants.EncodingUTF8
	}
	if p.TextSource == "" {
		p.TextSource = constants.TextSourceRaw
	}
	return p
}
