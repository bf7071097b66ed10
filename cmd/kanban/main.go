package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/kanban/internal/app"
	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	dataFile := flag.String("data", "", "path to the task CSV file (overrides config)")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}

	s, err := store.NewCSVStore(cfg.DataFile, cfg.Display.PreviewRows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening task store: %v\n", err)
		os.Exit(1)
	}

	mgr := board.New(s)

	p := tea.NewProgram(app.New(mgr, s), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "running app: %v\n", err)
		os.Exit(1)
	}
}
