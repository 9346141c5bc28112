package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/wb/internal/app"
	"github.com/nikbrunner/wb/internal/exporter"
	"github.com/nikbrunner/wb/internal/fetch"
	"github.com/nikbrunner/wb/internal/importer"
	"github.com/nikbrunner/wb/internal/model"
	"github.com/nikbrunner/wb/internal/picker"
	"github.com/nikbrunner/wb/internal/search"
	"github.com/nikbrunner/wb/internal/storage"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "add":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: wb add <url>\n")
				os.Exit(1)
			}
			runAdd(os.Args[2])
			return
		case "ws":
			var name string
			if len(os.Args) >= 3 {
				name = strings.Join(os.Args[2:], " ")
			}
			runWorkspaces(name)
			return
		case "import":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: wb import <file.html>\n")
				os.Exit(1)
			}
			runImport(os.Args[2])
			return
		case "export":
			// Export with optional path
			var outputPath string
			if len(os.Args) >= 3 {
				outputPath = os.Args[2]
			}
			runExport(outputPath)
			return
		default:
			// Treat as search query (join all remaining args)
			query := strings.Join(os.Args[1:], " ")
			runQuickSearch(query)
			return
		}
	}

	// No args - print the current workspace tree
	runList()
}

func printHelp() {
	help := `wb - workspace bookmark manager

Usage:
  wb                    Print the current workspace tree
  wb <query>            Quick search → select → open or copy
  wb add <url>          Add a link to the current workspace
  wb ws [name]          List workspaces / select one by name
  wb import <file>      Import bookmarks from HTML into the current workspace
  wb export [path]      Export the current workspace to HTML
  wb help               Show this help

Data Storage:
  ~/.config/wb/workspaces.json
`
	fmt.Print(help)
}

// openApp loads the persisted state and wraps it in the mutation API.
func openApp() *app.App {
	store, err := storage.OpenStorage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}

	state, err := store.Load()
	if err != nil {
		// One corrupt file must not make the tool unusable
		fmt.Fprintf(os.Stderr, "Warning: could not read saved state, starting fresh: %v\n", err)
		state = model.NewAppState()
	}

	var selection *storage.SelectionFile
	if path, err := storage.DefaultSelectionPath(); err == nil {
		selection = storage.NewSelectionFile(path)
	}

	a := app.New(app.Params{State: state, Storage: store, Selection: selection})
	a.RestoreSelection()
	return a
}

// runList prints the current workspace's tree.
func runList() {
	a := openApp()
	ws := a.CurrentWorkspace()

	fmt.Printf("%s (%s)\n", ws.Name, ws.ColorID)
	for i := range ws.PinnedLinks {
		fmt.Printf("  * %s  %s\n", ws.PinnedLinks[i].Title, ws.PinnedLinks[i].URL)
	}
	printForest(ws.Items, 1)
}

// printForest prints one level of the forest, indented.
func printForest(forest model.Forest, depth int) {
	prefix := strings.Repeat("  ", depth)
	for _, n := range forest {
		switch v := n.(type) {
		case *model.Folder:
			fmt.Printf("%s%s/\n", prefix, v.Name)
			printForest(v.Children, depth+1)
		case *model.Link:
			fmt.Printf("%s%s  %s\n", prefix, v.Title, v.URL)
		}
	}
}

// runWorkspaces lists workspaces, or selects one by name.
func runWorkspaces(name string) {
	a := openApp()

	if name == "" {
		current := a.CurrentWorkspace()
		for _, ws := range a.Workspaces() {
			marker := " "
			if ws.ID == current.ID {
				marker = "*"
			}
			fmt.Printf("%s %s (%s)\n", marker, ws.Name, ws.ColorID)
		}
		return
	}

	for _, ws := range a.Workspaces() {
		if ws.Name == name {
			if err := a.SelectWorkspace(ws.ID); err != nil {
				fmt.Fprintf(os.Stderr, "Error selecting workspace: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Selected workspace %s\n", ws.Name)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "No workspace named %q\n", name)
	os.Exit(1)
}

// runAdd adds a link to the current workspace and fetches its title
// and favicon.
func runAdd(url string) {
	a := openApp()

	id, err := a.AddLink(url, "", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding link: %v\n", err)
		os.Exit(1)
	}

	configPath, err := storage.DefaultConfigFilePath()
	if err == nil {
		if config, err := storage.LoadConfig(configPath); err == nil {
			fetchMetadata(a, config, id, url)
		}
	}

	ws := a.CurrentWorkspace()
	if link, ok := ws.Items.Find(id).(*model.Link); ok {
		fmt.Printf("Added %s to %s\n", link.Title, ws.Name)
	}
}

// fetchMetadata fetches title and favicon for a freshly added link.
func fetchMetadata(a *app.App, config *storage.Config, linkID, url string) {
	cacheDir, err := storage.DefaultFaviconDir()
	if err != nil {
		return
	}

	service := fetch.NewService(fetch.Params{
		CacheDir:       cacheDir,
		ExcludeDomains: config.FetchExcludeDomains,
	})

	if !config.DisableTitleFetch {
		service.QueueTitle(a, linkID, url)
	}
	if !config.DisableFaviconFetch {
		service.QueueFavicon(a, linkID, url)
	}
	service.Wait()
}

// runQuickSearch performs a fuzzy search and opens the selected link.
func runQuickSearch(query string) {
	a := openApp()

	results := search.Links(a.State(), query)
	if len(results) == 0 {
		fmt.Printf("No links found for '%s'\n", query)
		os.Exit(0)
	}

	var selected *model.Link
	action := picker.ActionOpen

	if len(results) == 1 {
		// Single result - select it directly
		selected = results[0].Link
		fmt.Printf("Opening: %s\n", selected.Title)
	} else {
		// Multiple results - show picker
		p := picker.New(a.State(), query)
		program := tea.NewProgram(p)
		finalModel, err := program.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
			os.Exit(1)
		}

		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			os.Exit(0)
		}
		selected = finalPicker.SelectedLink()
		action = finalPicker.Action()
	}

	if selected == nil {
		os.Exit(0)
	}

	if action == picker.ActionCopy {
		if err := clipboard.WriteAll(selected.URL); err != nil {
			fmt.Fprintf(os.Stderr, "Error copying URL: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Copied: %s\n", selected.URL)
		return
	}

	openURL(selected.URL)
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}

// runImport handles the import subcommand.
func runImport(filePath string) {
	a := openApp()

	file, err := os.Open(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	forest, err := importer.ParseHTMLBookmarks(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing HTML: %v\n", err)
		os.Exit(1)
	}

	added, err := a.ImportForest(forest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		os.Exit(1)
	}

	ws := a.CurrentWorkspace()
	fmt.Printf("Imported %d links into %s\n", added, ws.Name)
}

// runExport handles the export subcommand.
func runExport(outputPath string) {
	// Determine output path
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting default export path: %v\n", err)
			os.Exit(1)
		}
	}

	a := openApp()
	ws := a.CurrentWorkspace()

	html := exporter.ExportHTML(ws)

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d links from %s to %s\n",
		len(ws.Items.Links())+len(ws.PinnedLinks), ws.Name, outputPath)
}
