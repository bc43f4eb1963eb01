package table

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/nconklindev/csv2po/internal/types"

	"golang.org/x/xerrors"
)

type csvSource struct {
	path string
	file *os.File
	r    *csv.Reader
	size int64
}

func openCSV(path string, delim rune) (*csvSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &types.InputError{Path: path, Err: err}
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &types.InputError{Path: path, Err: err}
	}
	if info.IsDir() {
		file.Close()
		return nil, &types.InputError{Path: path, Err: xerrors.New("is a directory")}
	}

	r := csv.NewReader(file)
	r.Comma = delim
	// Rows may be shorter than the header; Reader decides what that means.
	r.FieldsPerRecord = -1

	return &csvSource{path: path, file: file, r: r, size: info.Size()}, nil
}

func (s *csvSource) next() ([]string, int, error) {
	record, err := s.r.Read()
	if err == io.EOF {
		return nil, 0, io.EOF
	}
	if err != nil {
		line := 0
		var perr *csv.ParseError
		if xerrors.As(err, &perr) {
			line = perr.Line
		}
		return nil, line, &types.InputError{Path: s.path, Line: line, Err: err}
	}

	line, _ := s.r.FieldPos(0)
	return record, line, nil
}

func (s *csvSource) progress() float64 {
	if s.size == 0 {
		return 1
	}
	return float64(s.r.InputOffset()) / float64(s.size)
}

func (s *csvSource) close() error {
	return s.file.Close()
}
