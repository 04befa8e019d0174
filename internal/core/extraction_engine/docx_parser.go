package extraction_engine

import (
	"bytes"
	"context"

	"code.sajari.com/docconv"

	"github.com/markdave123-py/docdrop/internal/core"
)

var _ core.DOCXParser = DocconvDOCXParser{}

// DocconvDOCXParser implements core.DOCXParser using sajari/docconv.
type DocconvDOCXParser struct{}

func NewDOCXParser() DocconvDOCXParser { return DocconvDOCXParser{} }

// ExtractRawText returns the body text docconv produces, untouched.
func (DocconvDOCXParser) ExtractRawText(_ context.Context, data []byte) (core.RawText, error) {
	body, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return core.RawText{}, err
	}
	return core.RawText{Value: body}, nil
}
