// Package cli wires configuration, logging and the converter behind the
// csv2po command line.
package cli

import (
	"fmt"
	"io"

	"github.com/nconklindev/csv2po/internal/config"
	"github.com/nconklindev/csv2po/internal/converter"
	"github.com/nconklindev/csv2po/internal/table"
	"github.com/nconklindev/csv2po/internal/types"
	"github.com/nconklindev/csv2po/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

type flags struct {
	configPath  string
	projectName string
	delimiter   string
	sheet       string
	strict      bool
	logLevel    string
	interactive bool
}

// NewRootCommand returns the csv2po command.
func NewRootCommand(version string) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "csv2po [flags] <input-file> [output-dir]",
		Short: "Convert a translation table into gettext .pot/.po files",
		Long: `csv2po reads a table whose first row is a header (identifier column,
then one column per language) and writes template.pot plus one <language>.po
per language column into the output directory.`,
		Args:          cobra.MaximumNArgs(2),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f)
		},
	}
	cmd.SetVersionTemplate("csv2po {{.Version}}\n")

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "TOML configuration file")
	fl.StringVarP(&f.projectName, "project-name", "p", "", "value of the Project-Id-Version header")
	fl.StringVarP(&f.delimiter, "delimiter", "d", "", `field delimiter of delimited input ("tab" for tabs)`)
	fl.StringVar(&f.sheet, "sheet", "", "worksheet to read from XLSX input (default first sheet)")
	fl.BoolVar(&f.strict, "strict", false, "fail on rows whose length differs from the header")
	fl.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fl.BoolVarP(&f.interactive, "interactive", "i", false, "pick the input file and review the conversion in a terminal UI")

	return cmd
}

// loadConfig merges the configuration sources with the flags the user set
// explicitly.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	if fl.Changed("project-name") {
		cfg.ProjectName = f.projectName
	}
	if fl.Changed("delimiter") {
		cfg.Delimiter = f.delimiter
	}
	if fl.Changed("sheet") {
		cfg.Sheet = f.sheet
	}
	if fl.Changed("strict") {
		cfg.Strict = f.strict
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log
}

func run(cmd *cobra.Command, args []string, f *flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	level, _ := cfg.Level()
	log := newLogger(cmd.ErrOrStderr(), level)
	delim, _ := cfg.DelimiterRune()

	opts := converter.Options{
		OutputDir:   cfg.OutputDir,
		ProjectName: cfg.ProjectName,
		Table: table.Options{
			Delimiter: delim,
			Sheet:     cfg.Sheet,
			Strict:    cfg.Strict,
			Log:       log,
		},
		Log: log,
	}
	if len(args) > 0 {
		opts.InputFile = args[0]
	}
	if len(args) > 1 {
		opts.OutputDir = args[1]
	}

	if f.interactive {
		// Log lines would tear the alternate screen apart.
		log.SetOutput(io.Discard)
		return runInteractive(cmd.OutOrStdout(), opts)
	}

	if opts.InputFile == "" {
		return xerrors.Errorf("pass an input file or --interactive (see --help): %w", types.ErrNoInput)
	}

	result, err := converter.Convert(opts, nil)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), result)
	return nil
}

func runInteractive(out io.Writer, opts converter.Options) error {
	p := tea.NewProgram(ui.InitialModel(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := final.(ui.Model)
	if !ok {
		return nil
	}
	if err := m.Err(); err != nil {
		return err
	}
	if result := m.Result(); result != nil {
		printSummary(out, result)
	}
	return nil
}

func printSummary(w io.Writer, result *types.ConversionResult) {
	fmt.Fprintln(w, ui.SuccessStyle.Render(fmt.Sprintf("✓ %d messages, %d languages", result.Messages, len(result.Languages))))
	fmt.Fprintf(w, "  %s\n", ui.PathStyle.Render(result.Template))
	for _, path := range result.Files {
		fmt.Fprintf(w, "  %s\n", ui.PathStyle.Render(path))
	}
	if result.Skipped > 0 {
		fmt.Fprintln(w, ui.WarningStyle.Render(fmt.Sprintf("  %d rows without identifier skipped", result.Skipped)))
	}
}

// Execute runs the command against os.Args and returns the process exit
// code.
func Execute(version, commit, date string) int {
	cmd := NewRootCommand(fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version, commit, date))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.ErrorStyle.Render("Error: "+err.Error()))
		return 1
	}
	return 0
}
