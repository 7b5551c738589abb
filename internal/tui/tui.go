package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/term"

	"github.com/1broseidon/xcurs/internal/config"
)

// Run starts the theme browser on configPath, or on the default config
// path when it is empty.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if configPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = path
	}

	m := newModel(configPath, osfs.New("/"), os.Getenv)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
