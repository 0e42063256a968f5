// Command editor is a minimal modal text editor host that wires the
// completion package's debounce/orchestrator/filter/hooks pipeline to a
// bubbletea terminal UI and a set of stdio language servers.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"codenerd/internal/completion"
	"codenerd/internal/languageserver"
	"codenerd/internal/logging"
)

var (
	workspace string
	openPath  string
)

var rootCmd = &cobra.Command{
	Use:   "editor [file]",
	Short: "a modal terminal text editor with coordinated multi-provider completion",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			openPath = args[0]
		}
		return runEditor()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: current)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runEditor() error {
	ws := workspace
	if ws == "" {
		var err error
		ws, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("getwd: %w", err)
		}
	}
	if err := logging.Initialize(ws); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to initialize logging: %v\n", err)
	}
	defer logging.CloseAll()

	hc := loadHostConfig(ws)
	cfg := hc.Completion

	var initial string
	path := openPath
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			initial = string(data)
		}
	} else {
		path = "untitled"
	}

	doc := newBuffer(completion.DocID(path), path)
	for _, r := range initial {
		doc.text = append(doc.text, r)
	}
	state := newEditorState(doc)

	var program *tea.Program
	pop := newPopup(func() {
		if program != nil {
			program.Send(popupUpdatedMsg{})
		}
	})

	coord := completion.New(cfg, state, pop, completion.NewEditorThread(), nil)

	serverConfigs := hc.LanguageServers
	if len(serverConfigs) == 0 {
		serverConfigs = defaultLanguageServerConfigs()
	}
	toURI := func(id completion.DocID) string {
		abs, err := filepath.Abs(string(id))
		if err != nil {
			abs = string(id)
		}
		return "file://" + abs
	}
	resolvePos := func(id completion.DocID, offset int) (line, character int) {
		d := state.Document(id)
		if d == nil {
			return 0, offset
		}
		text := string(d.Slice(0, offset))
		parts := strings.Split(text, "\n")
		line = len(parts) - 1
		character = len([]rune(parts[len(parts)-1]))
		return line, character
	}

	mgr := languageserver.NewManager(serverConfigs, toURI, resolvePos)
	state.SetProviders(nil)
	go func() {
		ctx := context.Background()
		_ = mgr.ConnectAll(ctx)
		state.SetProviders(mgr.ProvidersFor(languageForPath(path)))
		if program != nil {
			program.Send(popupUpdatedMsg{})
		}
	}()

	m := newModel(doc, state, pop, coord, mgr)
	program = tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func languageForPath(path string) string {
	switch filepath.Ext(path) {
	case ".go":
		return "go"
	case ".rs":
		return "rust"
	case ".py":
		return "python"
	default:
		return ""
	}
}
