package po

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/nconklindev/csv2po/internal/types"
)

const TemplateName = "template.pot"

// CatalogName returns the file name of the catalog for lang. The language
// identifier is used verbatim.
func CatalogName(lang string) string {
	return lang + ".po"
}

type writer struct {
	path string
	file *os.File
	bw   *bufio.Writer
}

func createWriter(path, preamble string) (*writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &types.OutputError{Path: path, Err: err}
	}

	w := &writer{path: path, file: f, bw: bufio.NewWriter(f)}
	if err := w.write(preamble); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (w *writer) write(s string) error {
	if _, err := io.WriteString(w.bw, s); err != nil {
		return &types.OutputError{Path: w.path, Err: err}
	}
	return nil
}

func (w *writer) close() error {
	flushErr := w.bw.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return &types.OutputError{Path: w.path, Err: flushErr}
	}
	if closeErr != nil {
		return &types.OutputError{Path: w.path, Err: closeErr}
	}
	return nil
}

// WriterSet owns the template writer and one writer per language. All files
// are created up front, each with its preamble already written.
type WriterSet struct {
	template  *writer
	languages []*writer
	closed    bool
}

// Create opens template.pot and <lang>.po for every language in dir. On
// failure the files created so far are closed but left on disk.
func Create(dir string, meta Metadata, languages []string) (*WriterSet, error) {
	tmpl, err := createWriter(filepath.Join(dir, TemplateName), TemplateHeader(meta))
	if err != nil {
		return nil, err
	}

	s := &WriterSet{template: tmpl}
	for _, lang := range languages {
		w, err := createWriter(filepath.Join(dir, CatalogName(lang)), LanguageHeader(meta, lang))
		if err != nil {
			s.Close()
			return nil, err
		}
		s.languages = append(s.languages, w)
	}

	return s, nil
}

// Write appends rec to the template, and to every language whose cell is
// present in the row. Blank cells produce an empty msgstr.
func (s *WriterSet) Write(rec types.Record) error {
	if err := s.template.write(FormatMessage(rec.ID, "")); err != nil {
		return err
	}

	for i, w := range s.languages {
		str, ok := rec.Translation(i)
		if !ok {
			continue
		}
		if err := w.write(FormatMessage(rec.ID, str)); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes every writer. It returns the first failure but
// always attempts all writers. Calling Close twice is a no-op.
func (s *WriterSet) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	firstErr := s.template.close()
	for _, w := range s.languages {
		if err := w.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *WriterSet) TemplatePath() string {
	return s.template.path
}

// Paths returns the language catalog paths in column order.
func (s *WriterSet) Paths() []string {
	paths := make([]string, len(s.languages))
	for i, w := range s.languages {
		paths[i] = w.path
	}
	return paths
}
