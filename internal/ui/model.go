package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/csv2po/internal/converter"
	"github.com/nconklindev/csv2po/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateReview
	stateProcessing
	stateComplete
	stateError
)

// AllowedTypes are the extensions offered by the file picker.
var AllowedTypes = []string{".csv", ".tsv", ".xlsx"}

type Model struct {
	state        state
	filepicker   filepicker.Model
	opts         converter.Options
	fileData     *types.FileData
	result       *types.ConversionResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type fileLoadedMsg struct {
	data *types.FileData
	err  error
}

type conversionCompleteMsg struct {
	result *types.ConversionResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

// InitialModel builds the interactive model. When opts.InputFile is already
// set the picker is skipped and the file is inspected right away.
func InitialModel(opts converter.Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = AllowedTypes
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(warm)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(warm)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	return Model{
		state:      stateFilePicker,
		filepicker: fp,
		opts:       opts,
		progress:   progress.New(progress.WithGradient("#3FA7D6", "#59CD90")),
	}
}

func (m Model) Init() tea.Cmd {
	if m.opts.InputFile != "" {
		return m.loadFile(m.opts.InputFile)
	}
	return m.filepicker.Init()
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error {
	return m.err
}

// Result returns the conversion result once the session completed.
func (m Model) Result() *types.ConversionResult {
	return m.result
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for the title, subtitle and help lines.
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateReview:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "backspace":
				m.state = stateFilePicker
				m.fileData = nil
				return m, m.filepicker.Init()
			case "s":
				m.opts.Table.Strict = !m.opts.Table.Strict
			case "enter":
				m.state = stateProcessing
				return m.convertFile()
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.fileData = msg.data
		m.state = stateReview
		return m, nil

	case conversionCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.opts.InputFile = path
			return m, m.loadFile(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) loadFile(path string) tea.Cmd {
	opts := m.opts.Table
	return func() tea.Msg {
		data, err := converter.Inspect(path, opts)
		return fileLoadedMsg{data: data, err: err}
	}
}

func (m Model) convertFile() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	progressChan := m.progressChan
	resultChan := m.resultChan
	opts := m.opts

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := converter.Convert(opts, progressChan)

				resultChan <- conversionResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateReview:
		return m.viewReview()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("csv2po - translation table to gettext"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV, TSV or XLSX translation table"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) outputDir() string {
	dir, fellBack := converter.PlannedOutputDir(m.opts.OutputDir)
	if fellBack {
		return fmt.Sprintf("%s (%s is not a directory)", dir, m.opts.OutputDir)
	}
	return dir
}

func (m Model) viewReview() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Review"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.opts.InputFile))))
	s.WriteString("\n\n")

	s.WriteString(LabelStyle.Render("Identifier column: "))
	s.WriteString(m.fileData.IDColumn)
	s.WriteString("\n")

	s.WriteString(LabelStyle.Render("Languages: "))
	if len(m.fileData.Languages) == 0 {
		s.WriteString(WarningStyle.Render("none, only template.pot will be written"))
	} else {
		langs := make([]string, len(m.fileData.Languages))
		for i, lang := range m.fileData.Languages {
			langs[i] = LanguageStyle.Render(lang)
		}
		s.WriteString(strings.Join(langs, ", "))
	}
	s.WriteString("\n\n")

	if len(m.fileData.Preview) > 0 {
		s.WriteString(LabelStyle.Render(fmt.Sprintf("First %d identifiers:", len(m.fileData.Preview))))
		s.WriteString("\n")
		for _, id := range m.fileData.Preview {
			s.WriteString("  " + id + "\n")
		}
		s.WriteString("\n")
	}

	s.WriteString(LabelStyle.Render("Output directory: "))
	s.WriteString(PathStyle.Render(m.outputDir()))
	s.WriteString("\n")
	s.WriteString(LabelStyle.Render("Project: "))
	s.WriteString(m.opts.ProjectName)
	s.WriteString("\n")

	strict := "[ ]"
	if m.opts.Table.Strict {
		strict = "[x]"
	}
	s.WriteString(fmt.Sprintf("Strict row length: %s\n", strict))
	s.WriteString(HelpStyle.Render("enter: convert • s: toggle strict • esc: pick another file • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Converting..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Writing catalogs to %s", m.outputDir()))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

// truncatePath keeps the tail of long paths so they fit the box.
func (m Model) truncatePath(path string) string {
	maxLen := m.width - 20
	if maxLen < 30 {
		maxLen = 30
	}
	if len(path) > maxLen {
		return "..." + path[len(path)-maxLen+3:]
	}
	return path
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Conversion Complete!"))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Input:  %s\n", m.truncatePath(m.result.InputFile)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Template: %s", m.truncatePath(m.result.Template))))
	s.WriteString("\n")
	for _, path := range m.result.Files {
		s.WriteString(fmt.Sprintf("Catalog:  %s\n", m.truncatePath(path)))
	}
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Messages written: %d\n", m.result.Messages))
	if m.result.Skipped > 0 {
		s.WriteString(WarningStyle.Render(fmt.Sprintf("Rows skipped (no identifier): %d", m.result.Skipped)))
		s.WriteString("\n")
	}
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
