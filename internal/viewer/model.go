// Package viewer is the terminal front end that shows one still frame and
// switches transforms on key presses.
package viewer

import (
	"fmt"
	"os"
	"strings"

	"go-frame-filters/internal/filter"
	"go-frame-filters/internal/frame"
	"go-frame-filters/internal/logger"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// SaveKey writes the displayed frame to the save path
const SaveKey = 'w'

// DefaultSavePath is where SaveKey writes unless configured otherwise
const DefaultSavePath = "saved_image.png"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD787"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787"))
)

// Model holds the viewer state. The active mode lives here, not in package
// state, so several viewers can run side by side.
type Model struct {
	proc     *filter.Processor
	src      *frame.Frame
	out      *frame.Frame
	mode     filter.Mode
	savePath string
	status   string
	err      error
	width    int
	height   int
}

// New creates a model showing src unmodified
func New(src *frame.Frame, proc *filter.Processor, savePath string) *Model {
	if savePath == "" {
		savePath = DefaultSavePath
	}
	m := &Model{
		proc:     proc,
		src:      src,
		mode:     filter.ModeColor,
		savePath: savePath,
		width:    80,
		height:   24,
	}
	m.apply()
	return m
}

// Mode returns the active mode
func (m *Model) Mode() filter.Mode {
	return m.mode
}

// Output returns the frame currently displayed
func (m *Model) Output() *frame.Frame {
	return m.out
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		var key rune
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			key = msg.Runes[0]
		}
		if key == SaveKey {
			m.save()
			return m, nil
		}
		next, quit := filter.NextMode(m.mode, key)
		if quit {
			return m, tea.Quit
		}
		if next != m.mode {
			m.mode = next
			m.apply()
		}
	}
	return m, nil
}

func (m *Model) apply() {
	out, err := m.proc.Apply(m.mode, m.src)
	m.err = err
	m.status = ""
	if err != nil {
		logger.WithError(err).WithField("mode", m.mode.String()).Warn("Transform failed")
		m.out = m.src
		return
	}
	m.out = out
}

func (m *Model) save() {
	data, err := frame.EncodeAs(m.out, frame.FormatPNG)
	if err == nil {
		err = os.WriteFile(m.savePath, data, 0o644)
	}
	if err != nil {
		m.err = err
		m.status = ""
		logger.WithError(err).WithField("path", m.savePath).Error("Failed to save frame")
		return
	}
	m.err = nil
	m.status = "saved " + m.savePath
	logger.WithFields(logrus.Fields{"path": m.savePath, "mode": m.mode.String()}).Info("Frame saved")
}

// View implements tea.Model
func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s  %dx%d", m.mode, m.src.Cols, m.src.Rows)))
	sb.WriteByte('\n')

	imageHeight := m.height - 3
	if imageHeight < 1 {
		imageHeight = 1
	}
	sb.WriteString(Render(m.out, m.width, imageHeight))
	sb.WriteByte('\n')

	switch {
	case m.err != nil:
		sb.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		sb.WriteString(statusStyle.Render(m.status))
	}
	sb.WriteByte('\n')
	sb.WriteString(helpStyle.Render(keyHelp()))
	return sb.String()
}

func keyHelp() string {
	parts := make([]string, 0, len(filter.Modes())+2)
	for _, mode := range filter.Modes() {
		if k := mode.Key(); k != 0 {
			parts = append(parts, fmt.Sprintf("%c %s", k, mode))
		}
	}
	parts = append(parts, fmt.Sprintf("%c save", SaveKey), fmt.Sprintf("%c quit", filter.QuitKey))
	return strings.Join(parts, " · ") + " · other: color"
}
