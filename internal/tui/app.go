// Package tui is the terminal front end: a tab router over the search and
// ingest views plus the cross-cutting summary modal. All decision logic
// lives in the controllers; this package only translates key presses into
// controller calls and controller state into screen content.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kiran-cloud/tubedex/internal/backend"
	"github.com/kiran-cloud/tubedex/internal/controller"
)

// Tab selects which view is active.
type Tab int

// Tabs. Search is the default.
const (
	TabSearch Tab = iota
	TabIngest
)

// App is the root Bubble Tea model.
type App struct {
	ctx    context.Context
	client *backend.Client
	logger *zap.Logger

	search  *controller.Search
	summary *controller.Summary
	ingest  *controller.Ingest

	tab          Tab
	queryInput   textinput.Model
	spin         spinner.Model
	picker       filepicker.Model
	inputFocused bool
	cursor       int

	width  int
	height int
	ready  bool
}

// New creates the root model. ctx bounds every outbound request: when the
// program is torn down the context is cancelled and in-flight calls abort.
func New(ctx context.Context, client *backend.Client, topK int, logger *zap.Logger) App {
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "Search videos..."
	input.CharLimit = 256
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv"}
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	return App{
		ctx:          ctx,
		client:       client,
		logger:       logger,
		search:       controller.NewSearch(topK),
		summary:      controller.NewSummary(),
		ingest:       controller.NewIngest(),
		queryInput:   input,
		spin:         sp,
		picker:       fp,
		inputFocused: true,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.picker.Init())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.picker.Height = max(msg.Height-10, 5)
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		if a.busy() {
			return a, cmd
		}
		return a, nil

	case searchDoneMsg:
		if a.search.Resolve(msg.gen, msg.payloads, msg.err) {
			a.cursor = 0
		}
		return a, nil

	case summaryDoneMsg:
		a.summary.Resolve(msg.gen, msg.text, msg.err)
		return a, nil

	case ingestDoneMsg:
		a.ingest.Resolve(msg.gen, msg.res, msg.err)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateComponents(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	// A transport-failure alert blocks everything until acknowledged.
	if a.search.Alert() != "" {
		a.search.ClearAlert()
		return a, nil
	}

	// The modal captures all input while open.
	if a.summary.Visible() {
		switch msg.String() {
		case "esc", "q", "enter":
			a.summary.Close()
		}
		return a, nil
	}

	if msg.String() == "tab" && !a.inputFocused {
		if a.tab == TabSearch {
			a.tab = TabIngest
		} else {
			a.tab = TabSearch
		}
		return a, nil
	}

	switch a.tab {
	case TabSearch:
		return a.handleSearchKey(msg)
	case TabIngest:
		return a.handleIngestKey(msg)
	}
	return a, nil
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.inputFocused {
		switch msg.Type {
		case tea.KeyEnter:
			gen := a.search.Start()
			return a, tea.Batch(
				searchCmd(a.ctx, a.client, gen, a.search.Query(), a.search.TopK()),
				a.spin.Tick,
			)
		case tea.KeyEsc:
			a.inputFocused = false
			a.queryInput.Blur()
			return a, nil
		}

		var cmd tea.Cmd
		a.queryInput, cmd = a.queryInput.Update(msg)
		a.search.SetQuery(a.queryInput.Value())
		return a, cmd
	}

	switch msg.String() {
	case "/", "i":
		a.inputFocused = true
		return a, a.queryInput.Focus()
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.search.Items())-1 {
			a.cursor++
		}
	case "enter", "s":
		items := a.search.Items()
		if a.cursor < len(items) {
			req, gen := a.summary.Open(items[a.cursor])
			return a, tea.Batch(
				summarizeCmd(a.ctx, a.client, gen, req),
				a.spin.Tick,
			)
		}
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a App) handleIngestKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "u":
		gen, err := a.ingest.Start()
		if err != nil {
			// Local validation failure: message shown, nothing sent.
			return a, nil
		}
		return a, tea.Batch(
			ingestCmd(a.ctx, a.client, gen, a.ingest.File()),
			a.spin.Tick,
		)
	case "q":
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(msg)
	if didSelect, path := a.picker.DidSelectFile(msg); didSelect {
		a.ingest.SetFile(path)
	}
	return a, cmd
}

func (a App) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	a.queryInput, cmd = a.queryInput.Update(msg)
	cmds = append(cmds, cmd)

	a.picker, cmd = a.picker.Update(msg)
	cmds = append(cmds, cmd)
	if didSelect, path := a.picker.DidSelectFile(msg); didSelect {
		a.ingest.SetFile(path)
	}

	return a, tea.Batch(cmds...)
}

func (a App) busy() bool {
	kind, _ := a.ingest.Status()
	return a.search.Searching() || a.summary.Loading() || kind == controller.StatusUploading
}

// View implements tea.Model.
func (a App) View() string {
	if !a.ready {
		return "loading..."
	}

	if a.summary.Visible() {
		return a.viewModal()
	}

	var b strings.Builder
	b.WriteString(a.viewTabs())
	b.WriteString("\n\n")

	if alert := a.search.Alert(); alert != "" {
		b.WriteString(alertStyle.Render(alert))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("press any key to dismiss"))
		b.WriteString("\n\n")
	}

	switch a.tab {
	case TabSearch:
		b.WriteString(a.viewSearch())
	case TabIngest:
		b.WriteString(a.viewIngest())
	}

	return b.String()
}

func (a App) viewTabs() string {
	searchTab := tabStyle.Render("Search")
	ingestTab := tabStyle.Render("Ingest CSV")
	if a.tab == TabSearch {
		searchTab = activeTabStyle.Render("Search")
	} else {
		ingestTab = activeTabStyle.Render("Ingest CSV")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, searchTab, ingestTab)
}

func (a App) viewModal() string {
	var body string
	if a.summary.Loading() {
		body = a.spin.View() + " Generating summary..."
	} else {
		body = renderMarkdown(a.summary.Text(), a.modalWidth()-6)
	}

	content := titleStyle.Render(a.summary.Title()) + "\n\n" + body +
		"\n\n" + helpStyle.Render("esc: close")

	box := modalStyle.Width(a.modalWidth()).Render(content)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

func (a App) modalWidth() int {
	w := a.width - 8
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderMarkdown pretty-prints summary text; on any rendering problem the
// raw text is shown instead.
func renderMarkdown(text string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

func (a App) viewSearch() string {
	var b strings.Builder
	b.WriteString(a.queryInput.View())
	b.WriteString("\n\n")

	if a.search.Searching() {
		b.WriteString(a.spin.View() + " Searching...\n")
		b.WriteString(a.searchHelp())
		return b.String()
	}

	items := a.search.Items()
	if len(items) == 0 {
		b.WriteString(metaStyle.Render("No results."))
		b.WriteString("\n")
		b.WriteString(a.searchHelp())
		return b.String()
	}

	for i, item := range items {
		line := titleStyle.Render(item.Title) + "\n" +
			metaStyle.Render(fmt.Sprintf("%s views · %s likes · %s · transcript: %s",
				formatCount(item.Views), formatCount(item.Likes), item.Duration, yesNo(item.HasTranscript))) + "\n" +
			descStyle.Render(item.DescriptionPreview) + "\n" +
			metaStyle.Render(item.WatchURL)

		if i == a.cursor && !a.inputFocused {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(unselectedStyle.Render(line))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(a.searchHelp())
	return b.String()
}

func (a App) searchHelp() string {
	if a.inputFocused {
		return helpStyle.Render("enter: search · esc: browse results · ctrl+c: quit")
	}
	return helpStyle.Render("j/k: move · enter: summarize · /: edit query · tab: switch tab · q: quit")
}

func (a App) viewIngest() string {
	var b strings.Builder

	if file := a.ingest.File(); file != "" {
		b.WriteString("Selected: " + titleStyle.Render(file))
	} else {
		b.WriteString(metaStyle.Render("Select a CSV file to ingest:"))
	}
	b.WriteString("\n\n")
	b.WriteString(a.picker.View())
	b.WriteString("\n")

	kind, msg := a.ingest.Status()
	switch kind {
	case controller.StatusUploading:
		b.WriteString(a.spin.View() + " " + statusNeutralStyle.Render(msg))
	case controller.StatusSuccess:
		b.WriteString(statusSuccessStyle.Render(msg))
	case controller.StatusError:
		b.WriteString(statusErrorStyle.Render(msg))
	default:
		if a.ingest.File() == "" {
			b.WriteString(statusNeutralStyle.Render("No file selected."))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: select file · u: upload · tab: switch tab · q: quit"))

	return b.String()
}

func formatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
