package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/xcurs/internal/xcursor"
)

// defaultPreviewSize is used when the config leaves the size to the
// resource database.
const defaultPreviewSize = 24

type cursorItem string

func (i cursorItem) Title() string       { return string(i) }
func (i cursorItem) Description() string { return "" }
func (i cursorItem) FilterValue() string { return string(i) }

// CursorsTab browses the cursors of one theme with a preview of the
// selected one.
type CursorsTab struct {
	list     list.Model
	resolver *xcursor.Resolver
	theme    string
	size     uint32
	detail   cursorDetail
	width    int
	height   int
}

// NewCursorsTab opens theme with the given preview size.
func NewCursorsTab(resolver *xcursor.Resolver, theme string, size uint32) CursorsTab {
	if size == 0 {
		size = defaultPreviewSize
	}
	c := CursorsTab{list: newList("Cursors", false), resolver: resolver, size: size}
	c.SetTheme(theme)
	return c
}

// SetTheme reloads the list for theme.
func (c *CursorsTab) SetTheme(theme string) {
	c.theme = theme
	c.list.Title = "Cursors: " + displayOrDefault(theme, "-")
	c.list.ResetFilter()
	c.list.ResetSelected()

	names, _ := c.resolver.Cursors(theme, "")
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		items = append(items, cursorItem(name))
	}
	c.list.SetItems(items)
	c.detail = cursorDetail{}
	c.refresh()
}

// Filtering reports whether the filter input has the keyboard.
func (c CursorsTab) Filtering() bool {
	return c.list.FilterState() == list.Filtering
}

func (c *CursorsTab) refresh() {
	item, ok := c.list.SelectedItem().(cursorItem)
	if !ok {
		c.detail = cursorDetail{}
		return
	}
	c.detail = loadCursorDetail(c.resolver, c.theme, string(item), c.size)
}

// Update handles messages for the cursors tab.
func (c CursorsTab) Update(msg tea.Msg) (CursorsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.list.SetSize(splitWidth(c.width), c.height)
		return c, nil

	case tea.KeyMsg:
		if !c.Filtering() && msg.String() == "s" {
			c.size = nextSize(c.detail.sizes, c.size)
			c.refresh()
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.list, cmd = c.list.Update(msg)
	if item, ok := c.list.SelectedItem().(cursorItem); ok && string(item) != c.detail.name {
		c.refresh()
	}
	return c, cmd
}

// View implements tea.Model.
func (c CursorsTab) View() string {
	if c.width == 0 || c.height == 0 {
		return ""
	}
	leftWidth := splitWidth(c.width)
	rightWidth := max(c.width-leftWidth, 10)

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(c.height).
		Render(c.list.View())

	if c.theme == "" {
		return lipgloss.JoinHorizontal(lipgloss.Top, left,
			renderEmpty("Pick a theme in the Themes tab", rightWidth, c.height))
	}
	if c.detail.name == "" {
		return lipgloss.JoinHorizontal(lipgloss.Top, left,
			renderEmpty("No cursors in "+c.theme, rightWidth, c.height))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, c.renderDetail(rightWidth))
}

func (c CursorsTab) renderDetail(width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(10)

	d := c.detail
	lines := []string{titleStyle.Render(d.name), ""}
	if d.res.Path != "" {
		lines = append(lines,
			labelStyle.Render("Theme")+d.res.Theme,
			labelStyle.Render("File")+d.res.Path)
	}
	if d.err != nil {
		lines = append(lines, "", errStyle.Render(d.err.Error()))
	} else if len(d.frames) > 0 {
		img := d.frames[0]
		sizes := make([]string, 0, len(d.sizes))
		for _, s := range d.sizes {
			label := fmt.Sprint(s)
			if s == c.size {
				label = "[" + label + "]"
			}
			sizes = append(sizes, label)
		}
		lines = append(lines,
			labelStyle.Render("Sizes")+strings.Join(sizes, " "),
			labelStyle.Render("Image")+fmt.Sprintf("%dx%d hotspot %d,%d", img.Width, img.Height, img.XHot, img.YHot),
			labelStyle.Render("Frames")+frameSummary(d.frames),
			"")
		previewHeight := max(c.height-len(lines)-4, 1)
		lines = append(lines, renderCursorPreview(img, width-6, previewHeight)...)
		lines = append(lines, "", dimStyle.Render("s: next size"))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(c.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func frameSummary(frames []xcursor.Image) string {
	if len(frames) == 1 {
		return "1 (static)"
	}
	var total uint32
	for _, f := range frames {
		total += f.Delay
	}
	return fmt.Sprintf("%d, %dms cycle", len(frames), total)
}
