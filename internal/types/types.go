package types

// Record is one data row of the translation table.
type Record struct {
	Line         int
	ID           string
	Translations []string
}

// Translation returns the cell for language column i and whether it was
// present in the row at all.
func (r Record) Translation(i int) (string, bool) {
	if i < 0 || i >= len(r.Translations) {
		return "", false
	}
	return r.Translations[i], true
}

type ConversionResult struct {
	InputFile string
	OutputDir string
	Template  string
	Files     []string
	Languages []string
	Messages  int
	Skipped   int
}

type FileData struct {
	IDColumn  string
	Languages []string
	Preview   []string
}
