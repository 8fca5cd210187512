package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/errors"
	"github.com/matzehuels/lyphgraph/pkg/excel"
	lgio "github.com/matzehuels/lyphgraph/pkg/io"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

// Load reads a model document. A directory of CSV sheets or an .xlsx file is
// read as a workbook and converted; the returned logger then holds the
// conversion problems. Any other path is decoded by its extension. reg may
// be nil.
func Load(path string, reg *schema.Registry) (model.Object, *diag.Logger, error) {
	d := diag.New()
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, d, errors.Wrap(errors.ErrCodeFileNotFound, err, "model %s not found", path)
		}
		return nil, d, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	var wb *excel.Workbook
	switch {
	case info.IsDir():
		wb, err = excel.ReadCSVDir(path)
	case strings.EqualFold(filepath.Ext(path), ".xlsx"):
		wb, err = excel.ReadXLSX(path)
	default:
		doc, err := lgio.ImportModel(path)
		return doc, d, err
	}
	if err != nil {
		return nil, d, err
	}
	if reg == nil {
		reg = schema.Default()
	}
	return excel.Convert(wb, reg, d), d, nil
}
