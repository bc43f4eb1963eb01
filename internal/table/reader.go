// Package table reads translation tables: a header row naming the
// identifier column and one column per language, followed by data rows.
package table

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/nconklindev/csv2po/internal/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Options controls how a table is opened and iterated.
type Options struct {
	// Delimiter overrides the field separator of delimited files. Zero picks
	// the default for the file extension (tab for .tsv, comma otherwise).
	Delimiter rune
	// Sheet selects the worksheet of an XLSX file. Empty means the first one.
	Sheet string
	// Strict turns rows whose length differs from the header into a
	// FormatError instead of tolerating them.
	Strict bool
	Log    logrus.FieldLogger
}

type rowSource interface {
	next() ([]string, int, error)
	progress() float64
	close() error
}

// Reader iterates the records of a translation table in a single forward
// pass. It is not restartable.
type Reader struct {
	path      string
	src       rowSource
	strict    bool
	log       logrus.FieldLogger
	idColumn  string
	languages []string
	skipped   int
}

// Open opens path and consumes its header row.
func Open(path string, opts Options) (*Reader, error) {
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	src, err := openSource(path, opts)
	if err != nil {
		return nil, err
	}

	header, _, err := src.next()
	if err == io.EOF {
		src.close()
		return nil, &types.InputError{Path: path, Err: types.ErrEmptyInput}
	}
	if err != nil {
		src.close()
		return nil, err
	}

	languages := header[1:]
	seen := make(map[string]int, len(languages))
	for i, lang := range languages {
		if prev, ok := seen[lang]; ok {
			src.close()
			return nil, &types.FormatError{
				Path: path,
				Line: 1,
				Err:  xerrors.Errorf("language %q in columns %d and %d: %w", lang, prev+2, i+2, types.ErrDuplicateLanguage),
			}
		}
		seen[lang] = i
	}

	return &Reader{
		path:      path,
		src:       src,
		strict:    opts.Strict,
		log:       log.WithField("input", path),
		idColumn:  header[0],
		languages: languages,
	}, nil
}

func openSource(path string, opts Options) (rowSource, error) {
	delim := ','

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return openXLSX(path, opts.Sheet)
	case ".xls":
		return nil, &types.InputError{Path: path, Err: xerrors.Errorf("legacy .xls, save the sheet as .xlsx or .csv: %w", types.ErrUnsupportedFormat)}
	case ".tsv":
		delim = '\t'
	}

	if opts.Delimiter != 0 {
		delim = opts.Delimiter
	}
	return openCSV(path, delim)
}

// Headers returns the language identifiers in column order.
func (r *Reader) Headers() []string {
	return r.languages
}

// IDColumn returns the label of the identifier column.
func (r *Reader) IDColumn() string {
	return r.idColumn
}

// Next returns the next record with a non-empty identifier, or io.EOF once
// the input is exhausted. Rows without an identifier are skipped.
func (r *Reader) Next() (types.Record, error) {
	for {
		fields, line, err := r.src.next()
		if err != nil {
			return types.Record{}, err
		}

		if len(fields) == 0 || fields[0] == "" {
			r.skipped++
			r.log.WithField("line", line).Debug("skipping row without identifier")
			continue
		}

		translations := fields[1:]
		if len(translations) != len(r.languages) {
			if r.strict {
				return types.Record{}, &types.FormatError{
					Path: r.path,
					Line: line,
					Err:  xerrors.Errorf("got %d fields, want %d: %w", len(fields), len(r.languages)+1, types.ErrRowLength),
				}
			}
			if len(translations) > len(r.languages) {
				r.log.WithFields(logrus.Fields{
					"line":  line,
					"extra": len(translations) - len(r.languages),
				}).Warn("dropping cells beyond the last language column")
				translations = translations[:len(r.languages)]
			}
		}

		return types.Record{Line: line, ID: fields[0], Translations: translations}, nil
	}
}

// Skipped reports how many rows were dropped for lacking an identifier.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Progress reports the consumed fraction of the input, between 0 and 1.
func (r *Reader) Progress() float64 {
	return r.src.progress()
}

func (r *Reader) Close() error {
	return r.src.close()
}
