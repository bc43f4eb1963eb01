package table

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nconklindev/csv2po/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/xerrors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readAll(t *testing.T, r *Reader) []types.Record {
	t.Helper()
	var records []types.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records
		}
		require.NoError(t, err)
		records = append(records, rec)
	}
}

func TestOpen_Headers(t *testing.T) {
	path := writeFile(t, "in.csv", "key,en,fr\nhello,Hello,Bonjour\n")

	r, err := Open(path, Options{})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "key", r.IDColumn())
	assert.Equal(t, []string{"en", "fr"}, r.Headers())
}

func TestOpen_HeaderOnly(t *testing.T) {
	path := writeFile(t, "in.csv", "key\n")

	r, err := Open(path, Options{})
	require.NoError(t, err)
	defer r.Close()

	assert.Empty(t, r.Headers())
	assert.Empty(t, readAll(t, r))
}

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		strict   bool
		expected []types.Record
		skipped  int
	}{
		{
			name:  "Full rows",
			input: "key,en,fr\nhello,Hello,Bonjour\nbye,Bye,Salut\n",
			expected: []types.Record{
				{Line: 2, ID: "hello", Translations: []string{"Hello", "Bonjour"}},
				{Line: 3, ID: "bye", Translations: []string{"Bye", "Salut"}},
			},
		},
		{
			name:  "Empty identifier skipped",
			input: "key,en\nhello,Hello\n,Orphan\nbye,Bye\n",
			expected: []types.Record{
				{Line: 2, ID: "hello", Translations: []string{"Hello"}},
				{Line: 4, ID: "bye", Translations: []string{"Bye"}},
			},
			skipped: 1,
		},
		{
			name:  "Short row kept short",
			input: "key,en,fr\nhello,Hello\nbye\n",
			expected: []types.Record{
				{Line: 2, ID: "hello", Translations: []string{"Hello"}},
				{Line: 3, ID: "bye", Translations: []string{}},
			},
		},
		{
			name:  "Long row truncated",
			input: "key,en\nhello,Hello,extra,more\n",
			expected: []types.Record{
				{Line: 2, ID: "hello", Translations: []string{"Hello"}},
			},
		},
		{
			name:  "Quoted fields",
			input: "key,en\n\"say \"\"hi\"\"\",\"Hi, there\"\n",
			expected: []types.Record{
				{Line: 2, ID: `say "hi"`, Translations: []string{"Hi, there"}},
			},
		},
		{
			name:  "Multiline cell keeps first line number",
			input: "key,en\nhello,\"two\nlines\"\nbye,Bye\n",
			expected: []types.Record{
				{Line: 2, ID: "hello", Translations: []string{"two\nlines"}},
				{Line: 4, ID: "bye", Translations: []string{"Bye"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(writeFile(t, "in.csv", tt.input), Options{Strict: tt.strict})
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, tt.expected, readAll(t, r))
			assert.Equal(t, tt.skipped, r.Skipped())
			assert.Equal(t, 1.0, r.Progress())
		})
	}
}

func TestNext_Strict(t *testing.T) {
	path := writeFile(t, "in.csv", "key,en,fr\nhello,Hello,Bonjour\nbye,Bye\n")

	r, err := Open(path, Options{Strict: true})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	var fmtErr *types.FormatError
	require.True(t, xerrors.As(err, &fmtErr))
	assert.Equal(t, 3, fmtErr.Line)
	assert.True(t, xerrors.Is(err, types.ErrRowLength))
	assert.Equal(t, "format "+path+":3: got 2 fields, want 3: row length does not match header", err.Error())
}

func TestNext_MalformedRow(t *testing.T) {
	path := writeFile(t, "in.csv", "key,en\nhello,Hello\n\"bad\"x,1\n")

	r, err := Open(path, Options{})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	var inErr *types.InputError
	require.True(t, xerrors.As(err, &inErr))
	assert.Equal(t, path, inErr.Path)
	assert.Equal(t, 3, inErr.Line)
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		path      string
		wantInput bool
		target    error
		message   string
	}{
		{"Missing file", filepath.Join(dir, "nope.csv"), true, os.ErrNotExist, ""},
		{"Empty file", writeFile(t, "empty.csv", ""), true, types.ErrEmptyInput, ""},
		{"Unterminated header quote", writeFile(t, "bad.csv", "\"key,en\n"), true, nil, ""},
		{"Legacy xls", writeFile(t, "old.xls", "whatever"), true, types.ErrUnsupportedFormat, "legacy .xls, save the sheet as .xlsx or .csv: unsupported file type"},
		{"Directory", dir, true, nil, ""},
		{"Duplicate language", writeFile(t, "dup.csv", "key,en,fr,en\n"), false, types.ErrDuplicateLanguage, `language "en" in columns 2 and 4: duplicate language column`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path, Options{})
			require.Error(t, err)

			if tt.wantInput {
				var inErr *types.InputError
				assert.True(t, xerrors.As(err, &inErr), "want InputError, got %T", err)
			} else {
				var fmtErr *types.FormatError
				assert.True(t, xerrors.As(err, &fmtErr), "want FormatError, got %T", err)
			}
			if tt.target != nil {
				assert.True(t, xerrors.Is(err, tt.target), "want %v in chain, got %v", tt.target, err)
			}
			if tt.message != "" {
				assert.True(t, strings.HasSuffix(err.Error(), ": "+tt.message), "got %q", err.Error())
				assert.Equal(t, 1, strings.Count(err.Error(), tt.target.Error()), "cause printed more than once: %q", err.Error())
			}
		})
	}
}

func TestOpen_Delimiters(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		input string
		delim rune
	}{
		{"Semicolon", "in.csv", "key;en;fr\nhello;Hello;Bonjour\n", ';'},
		{"TSV default", "in.tsv", "key\ten\tfr\nhello\tHello\tBonjour\n", 0},
		{"Tab override on csv", "in.csv", "key\ten\tfr\nhello\tHello\tBonjour\n", '\t'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(writeFile(t, tt.file, tt.input), Options{Delimiter: tt.delim})
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, []string{"en", "fr"}, r.Headers())
			assert.Equal(t, []types.Record{
				{Line: 2, ID: "hello", Translations: []string{"Hello", "Bonjour"}},
			}, readAll(t, r))
		})
	}
}

func writeXLSX(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "in.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestOpen_XLSX(t *testing.T) {
	path := writeXLSX(t, "Sheet1", [][]any{
		{"key", "en", "fr"},
		{"hello", "Hello", "Bonjour"},
		{"", "Orphan"},
		nil,
		{"bye", "Bye", ""},
	})

	// Trailing blank cells are padded, so strict mode accepts the "bye" row.
	r, err := Open(path, Options{Strict: true})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"en", "fr"}, r.Headers())
	assert.Equal(t, []types.Record{
		{Line: 2, ID: "hello", Translations: []string{"Hello", "Bonjour"}},
		{Line: 5, ID: "bye", Translations: []string{"Bye", ""}},
	}, readAll(t, r))
	assert.Equal(t, 1, r.Skipped())
	assert.Equal(t, 1.0, r.Progress())
}

func TestOpen_XLSXNamedSheet(t *testing.T) {
	path := writeXLSX(t, "Translations", [][]any{
		nil,
		{"key", "de"},
		{"hello", "Hallo"},
	})

	r, err := Open(path, Options{Sheet: "Translations"})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"de"}, r.Headers())
	records := readAll(t, r)
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records[0].ID)
	assert.Equal(t, []string{"Hallo"}, records[0].Translations)

	_, err = Open(path, Options{Sheet: "Missing"})
	var inErr *types.InputError
	assert.True(t, xerrors.As(err, &inErr))
}
