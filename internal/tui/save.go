package tui

import (
	"errors"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/xcurs/internal/config"
)

var errNoChanges = errors.New("no changes to save")

type savePhase int

const (
	saveHidden savePhase = iota
	savePreview
	saveResult
)

type diffKind int

const (
	diffRemoved diffKind = iota
	diffAdded
)

type diffLine struct {
	kind diffKind
	text string
}

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// SaveOverlay lists the settings that changed since the config was loaded
// and writes the config when confirmed.
type SaveOverlay struct {
	phase  savePhase
	lines  []diffLine
	scroll int
	path   string
	err    error
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool { return s.phase != saveHidden }

// SaveSucceeded reports whether the overlay shows a completed save.
func (s SaveOverlay) SaveSucceeded() bool { return s.phase == saveResult && s.err == nil }

// Show opens the change list, or a notice when nothing changed.
func (s *SaveOverlay) Show(original, current *config.Config) {
	*s = SaveOverlay{lines: computeDiffLines(original, current)}
	if len(s.lines) == 0 {
		s.phase, s.err = saveResult, errNoChanges
		return
	}
	s.phase = savePreview
}

// Update handles a message while the overlay is active. Confirming writes
// cfg to path.
func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	if s.phase == saveResult {
		s.phase = saveHidden
		return s
	}
	switch km.String() {
	case "esc", "n":
		s.phase = saveHidden
	case "enter", "y":
		s.path = path
		s.err = cfg.SaveTo(path)
		s.phase = saveResult
	case "up", "k":
		s.scroll = max(0, s.scroll-1)
	case "down", "j":
		s.scroll = min(s.scroll+1, max(0, len(s.lines)-1))
	}
	return s
}

// View renders the overlay centered in a width x height area.
func (s SaveOverlay) View(width, height int) string {
	var body string
	switch s.phase {
	case savePreview:
		body = s.previewBody(width, height)
	case saveResult:
		body = s.resultBody()
	default:
		return ""
	}
	boxWidth := min(max(width-8, 30), 80)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		overlayStyle.Width(boxWidth).Render(body))
}

func (s SaveOverlay) previewBody(width, height int) string {
	visible := max(height-10, 3)
	start := min(s.scroll, max(0, len(s.lines)-visible))
	end := min(start+visible, len(s.lines))
	textWidth := max(min(width-8, 80)-8, 10)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Save changes"))
	b.WriteString("\n\n")
	for _, l := range s.lines[start:end] {
		text := l.text
		if len(text) > textWidth {
			text = text[:textWidth]
		}
		if l.kind == diffAdded {
			b.WriteString(addedStyle.Render("+ " + text))
		} else {
			b.WriteString(removedStyle.Render("- " + text))
		}
		b.WriteByte('\n')
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter/y: save  esc/n: cancel  j/k: scroll"))
	return b.String()
}

func (s SaveOverlay) resultBody() string {
	if s.err != nil {
		return errStyle.Render(s.err.Error()) + "\n\n" + dimStyle.Render("press any key")
	}
	return okStyle.Render("Saved "+s.path) + "\n" +
		dimStyle.Render("run `xcurs apply` to use the new settings") + "\n\n" +
		dimStyle.Render("press any key")
}

// yamlBlock is one top level key of a marshaled config with its nested
// lines.
type yamlBlock struct {
	key   string
	lines []string
}

func splitBlocks(data []byte) []yamlBlock {
	var blocks []yamlBlock
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		indented := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "-")
		if !indented || len(blocks) == 0 {
			key, _, _ := strings.Cut(line, ":")
			blocks = append(blocks, yamlBlock{key: key})
		}
		last := &blocks[len(blocks)-1]
		last.lines = append(last.lines, line)
	}
	return blocks
}

// computeDiffLines compares the marshaled configs one top level key at a
// time. A changed key lists its old lines then its new ones. Unchanged
// keys are left out.
func computeDiffLines(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}
	before, err := original.Marshal()
	if err != nil {
		return nil
	}
	after, err := current.Marshal()
	if err != nil {
		return nil
	}

	old := map[string][]string{}
	for _, b := range splitBlocks(before) {
		old[b.key] = b.lines
	}

	var out []diffLine
	for _, b := range splitBlocks(after) {
		prev, existed := old[b.key]
		delete(old, b.key)
		if existed && slices.Equal(prev, b.lines) {
			continue
		}
		for _, l := range prev {
			out = append(out, diffLine{kind: diffRemoved, text: l})
		}
		for _, l := range b.lines {
			out = append(out, diffLine{kind: diffAdded, text: l})
		}
	}
	for _, lines := range old {
		for _, l := range lines {
			out = append(out, diffLine{kind: diffRemoved, text: l})
		}
	}
	return out
}

// cloneConfig deep copies cfg through YAML.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var clone config.Config
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return nil
	}
	if clone.Cursors == nil {
		clone.Cursors = map[string]config.CursorOverride{}
	}
	return &clone
}
