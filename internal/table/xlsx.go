package table

import (
	"io"

	"github.com/nconklindev/csv2po/internal/types"

	"github.com/xuri/excelize/v2"
	"golang.org/x/xerrors"
)

type xlsxSource struct {
	file  *excelize.File
	rows  [][]string
	pos   int
	width int
}

func openXLSX(path, sheet string) (*xlsxSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &types.InputError{Path: path, Err: err}
	}

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		f.Close()
		return nil, &types.InputError{Path: path, Err: xerrors.Errorf("sheet %q not found", sheet)}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		f.Close()
		return nil, &types.InputError{Path: path, Err: err}
	}

	return &xlsxSource{file: f, rows: rows}, nil
}

func (s *xlsxSource) next() ([]string, int, error) {
	for s.pos < len(s.rows) {
		row := s.rows[s.pos]
		s.pos++

		// Blank rows carry nothing, like blank lines in a CSV file.
		if len(row) == 0 {
			continue
		}

		if s.width == 0 {
			s.width = len(row)
			return row, s.pos, nil
		}

		// GetRows trims trailing empty cells. A sheet has no absent cell,
		// only blank ones, so pad data rows back to the header width.
		if len(row) < s.width {
			padded := make([]string, s.width)
			copy(padded, row)
			row = padded
		}
		return row, s.pos, nil
	}
	return nil, 0, io.EOF
}

func (s *xlsxSource) progress() float64 {
	if len(s.rows) == 0 {
		return 1
	}
	return float64(s.pos) / float64(len(s.rows))
}

func (s *xlsxSource) close() error {
	return s.file.Close()
}
