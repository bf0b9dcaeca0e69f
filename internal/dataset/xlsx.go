package dataset

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/JordanChem/VideoGame-prediction/pkg/logger"
	"github.com/JordanChem/VideoGame-prediction/pkg/utils"
)

// LoadXLSX reads the training table from an Excel workbook. An empty sheet
// name selects the first sheet.
func LoadXLSX(path, sheet string, cols Columns) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	table, err := Parse(rows, cols)
	if err != nil {
		return nil, err
	}

	table.Sheet = sheet
	table.Fingerprint = utils.HashBytes(data)

	logger.Info("Dataset loaded",
		zap.String("path", path),
		zap.String("sheet", sheet),
		zap.Int("records", len(table.Records)),
		zap.String("fingerprint", table.Fingerprint),
	)

	return table, nil
}
