package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/text"
)

// ContentText reads pdf with pdfcpu and returns the text shown by each page's
// content stream, pages separated by a newline. Page fonts are registered
// with the extractor so ToUnicode maps and encodings are honoured.
func ContentText(pdf []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}
	resolve := resolver(ctx)

	var sb strings.Builder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", pageNr, err)
		}
		if r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", pageNr, err)
		}

		ex := text.NewExtractor()
		if res := pageResources(ctx, pageNr); res != nil {
			if err := ex.RegisterFontsFromResources(res, resolve); err != nil {
				return "", fmt.Errorf("page %d fonts: %w", pageNr, err)
			}
		}
		if _, err := ex.ExtractFromBytes(data); err != nil {
			return "", fmt.Errorf("page %d: %w", pageNr, err)
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(ex.GetText())
	}
	return sb.String(), nil
}

// pageResources returns the page's resource dictionary, inherited entries
// included, or nil when the page has none.
func pageResources(ctx *model.Context, pageNr int) core.Dict {
	d, _, inh, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return nil
	}
	var res types.Object
	if inh != nil && inh.Resources != nil {
		res = inh.Resources
	} else if d != nil {
		res = d["Resources"]
	}
	if res == nil {
		return nil
	}
	obj, err := toCore(ctx, res)
	if err != nil {
		return nil
	}
	out, _ := obj.(core.Dict)
	return out
}

func resolver(ctx *model.Context) func(core.IndirectRef) (core.Object, error) {
	return func(ref core.IndirectRef) (core.Object, error) {
		obj, err := ctx.Dereference(types.IndirectRef{
			ObjectNumber:     types.Integer(ref.Number),
			GenerationNumber: types.Integer(ref.Generation),
		})
		if err != nil {
			return nil, err
		}
		return toCore(ctx, obj)
	}
}

// toCore converts a pdfcpu object into its tabula equivalent. Indirect
// references stay references; streams are handed over decoded.
func toCore(ctx *model.Context, o types.Object) (core.Object, error) {
	switch v := o.(type) {
	case nil:
		return core.Null{}, nil
	case types.Boolean:
		return core.Bool(v), nil
	case types.Integer:
		return core.Int(v), nil
	case types.Float:
		return core.Real(v), nil
	case types.Name:
		return core.Name(v), nil
	case types.StringLiteral:
		b, err := types.Unescape(string(v))
		if err != nil {
			return nil, err
		}
		return core.String(b), nil
	case types.HexLiteral:
		b, err := v.Bytes()
		if err != nil {
			return nil, err
		}
		return core.String(b), nil
	case types.IndirectRef:
		return core.IndirectRef{Number: v.ObjectNumber.Value(), Generation: v.GenerationNumber.Value()}, nil
	case types.Array:
		out := make(core.Array, 0, len(v))
		for _, item := range v {
			c, err := toCore(ctx, item)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	case types.Dict:
		return dictToCore(ctx, v, false)
	case types.StreamDict:
		return streamToCore(ctx, &v)
	case *types.StreamDict:
		return streamToCore(ctx, v)
	default:
		return core.Null{}, nil
	}
}

func dictToCore(ctx *model.Context, d types.Dict, dropFilters bool) (core.Dict, error) {
	out := make(core.Dict, len(d))
	for k, item := range d {
		if dropFilters && (k == "Filter" || k == "DecodeParms") {
			continue
		}
		c, err := toCore(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("/%s: %w", k, err)
		}
		out[k] = c
	}
	return out, nil
}

func streamToCore(ctx *model.Context, sd *types.StreamDict) (*core.Stream, error) {
	if sd.Content == nil {
		if err := sd.Decode(); err != nil {
			return nil, fmt.Errorf("decode stream: %w", err)
		}
	}
	d, err := dictToCore(ctx, sd.Dict, true)
	if err != nil {
		return nil, err
	}
	return &core.Stream{Dict: d, Data: sd.Content}, nil
}
