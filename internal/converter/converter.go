package converter

import (
	"io"
	"io/fs"
	"os"

	"github.com/nconklindev/csv2po/internal/po"
	"github.com/nconklindev/csv2po/internal/table"
	"github.com/nconklindev/csv2po/internal/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/xerrors"
)

// PreviewLimit is the number of identifiers Inspect collects.
const PreviewLimit = 10

type Options struct {
	InputFile   string
	OutputDir   string
	ProjectName string
	Table       table.Options
	Log         logrus.FieldLogger
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ResolveOutputDir picks the directory the catalogs are written to. An empty
// path or a path naming a plain file falls back to the working directory; a
// missing directory is created.
func ResolveOutputDir(dir string, log logrus.FieldLogger) (string, error) {
	if log == nil {
		log = discardLogger()
	}
	if dir == "" {
		return ".", nil
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return dir, nil
	case err == nil:
		log.WithField("path", dir).Warn("output path is not a directory, using the current directory")
		return ".", nil
	case xerrors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", &types.OutputError{Path: dir, Err: err}
		}
		log.WithField("path", dir).Debug("created output directory")
		return dir, nil
	default:
		return "", &types.OutputError{Path: dir, Err: err}
	}
}

// PlannedOutputDir reports where ResolveOutputDir would put the catalogs
// without touching the filesystem, and whether dir was replaced by the
// working directory because it names a plain file.
func PlannedOutputDir(dir string) (string, bool) {
	if dir == "" {
		return ".", false
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return ".", true
	}
	return dir, false
}

// checkLanguageTags warns about headers that are not BCP 47 tags. They are
// still used verbatim.
func checkLanguageTags(languages []string, log logrus.FieldLogger) {
	for _, lang := range languages {
		if _, err := language.Parse(lang); err != nil {
			log.WithField("language", lang).Warnf("column header is not a BCP 47 language tag: %v", err)
		}
	}
}

// Convert writes template.pot and one <lang>.po per language column of the
// input table. Progress in [0, 1] is sent to progressChan when it is not nil;
// sends never block.
func Convert(opts Options, progressChan chan<- float64) (*types.ConversionResult, error) {
	log := opts.Log
	if log == nil {
		log = discardLogger()
	}
	if opts.Table.Log == nil {
		opts.Table.Log = log
	}

	reportProgress := func(p float64) {
		if progressChan == nil {
			return
		}
		select {
		case progressChan <- p:
		default:
		}
	}

	r, err := table.Open(opts.InputFile, opts.Table)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	outDir, err := ResolveOutputDir(opts.OutputDir, log)
	if err != nil {
		return nil, err
	}

	languages := r.Headers()
	checkLanguageTags(languages, log)

	writers, err := po.Create(outDir, po.Metadata{ProjectName: opts.ProjectName}, languages)
	if err != nil {
		return nil, err
	}
	defer writers.Close()

	log.WithFields(logrus.Fields{
		"template":  writers.TemplatePath(),
		"languages": languages,
	}).Debug("created catalogs")

	messages := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if err := writers.Write(rec); err != nil {
			return nil, err
		}
		messages++
		reportProgress(r.Progress())
	}

	if err := writers.Close(); err != nil {
		return nil, err
	}
	reportProgress(1)

	log.WithFields(logrus.Fields{
		"messages":  messages,
		"skipped":   r.Skipped(),
		"languages": len(languages),
	}).Info("conversion complete")

	return &types.ConversionResult{
		InputFile: opts.InputFile,
		OutputDir: outDir,
		Template:  writers.TemplatePath(),
		Files:     writers.Paths(),
		Languages: languages,
		Messages:  messages,
		Skipped:   r.Skipped(),
	}, nil
}

// Inspect reads the header and the first few identifiers of a table without
// writing anything.
func Inspect(path string, opts table.Options) (*types.FileData, error) {
	r, err := table.Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data := &types.FileData{
		IDColumn:  r.IDColumn(),
		Languages: r.Headers(),
	}

	for len(data.Preview) < PreviewLimit {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		data.Preview = append(data.Preview, rec.ID)
	}

	return data, nil
}
