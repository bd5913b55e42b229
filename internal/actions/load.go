package actions

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/common"
	"github.com/joseph-ayodele/qc-pdfreader/internal/dcm"
)

// LoadFile reads a JSON or YAML (.yaml, .yml) module configuration.
func LoadFile(path string, logger *slog.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "read config", err)
	}
	switch constants.NormalizeExt(filepath.Ext(path)) {
	case "yaml", "yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, common.NewAppError(common.CodeConfig, path, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
		}
	}
	cfg, err := Parse(data, logger)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, path, err)
	}
	return cfg, nil
}

// Parse validates a JSON configuration and decodes its actions in file order.
func Parse(data []byte, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := ValidateJSONAgainstSchema(BuildConfigJSONSchema(), data); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	_, top, err := objectFields(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	names, raw, err := objectFields(top["actions"])
	if err != nil {
		return nil, fmt.Errorf("%w: actions: %v", common.ErrInvalidInput, err)
	}

	cfg := &Config{Actions: make([]Action, 0, len(names))}
	for _, name := range names {
		a, err := decodeAction(name, raw[name])
		if err != nil {
			return nil, fmt.Errorf("%w: action %q: %v", common.ErrInvalidInput, name, err)
		}
		if !a.Known() {
			logger.Debug("unknown action in config, skipped", "action", name, "known", constants.AsStringSlice())
		}
		cfg.Actions = append(cfg.Actions, a)
	}
	return cfg, nil
}

type actionBody struct {
	Params map[string]any `json:"params"`
}

func decodeAction(name string, raw json.RawMessage) (Action, error) {
	a := Action{Name: name}
	kind, ok := constants.LookupAction(name)
	if !ok {
		return a, nil
	}
	a.Kind = kind

	var body actionBody
	// ignore may carry anything, including a non-object
	if kind != constants.ActionIgnore {
		if err := json.Unmarshal(raw, &body); err != nil {
			return a, err
		}
	}
	a.Params = body.Params

	switch kind {
	case constants.ActionHeaderSeries:
		tags, err := decodeTags(raw)
		if err != nil {
			return a, err
		}
		a.Tags = tags
	case constants.ActionPDFSeries:
		var pdf struct {
			Params PDFParams  `json:"params"`
			Texts  []TextRule `json:"texts"`
		}
		if err := json.Unmarshal(raw, &pdf); err != nil {
			return a, err
		}
		a.PDF = pdf.Params.withDefaults()
		a.Texts = pdf.Texts
	}
	return a, nil
}

func decodeTags(raw json.RawMessage) ([]TagField, error) {
	_, fields, err := objectFields(raw)
	if err != nil {
		return nil, err
	}
	names, values, err := objectFields(fields["tags"])
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	out := make([]TagField, 0, len(names))
	for _, name := range names {
		var s string
		if err := json.Unmarshal(values[name], &s); err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
		p, err := dcm.ParsePath(s)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
		out = append(out, TagField{Name: name, Path: p})
	}
	return out, nil
}
