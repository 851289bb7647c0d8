// Package tui holds the interactive report browser and the terminal styles
// shared with plain CLI output.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherklint97/pontaj/internal/format"
	"github.com/christopherklint97/pontaj/internal/report"
)

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Mode  key.Binding
	Dates key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Next:  key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next worker")),
	Prev:  key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "previous")),
	Mode:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "hours format")),
	Dates: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "date format")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// chrome is the number of lines around the viewport: title, tabs, help.
const chrome = 5

// Viewer browses a report one worker at a time. Tab 0 shows every worker
// plus the comparative summary.
type Viewer struct {
	rep     report.Report
	opts    format.Options
	tabs    []string
	current int
	content string

	vp     viewport.Model
	width  int
	height int
}

func NewViewer(rep report.Report, opts format.Options) *Viewer {
	tabs := []string{"Toți"}
	for _, e := range rep.Comparisons.Ranking {
		tabs = append(tabs, e.Worker)
	}
	v := &Viewer{
		rep:  rep,
		opts: opts,
		tabs: tabs,
		vp:   viewport.New(0, 0),
	}
	v.render()
	return v
}

func (v *Viewer) Init() tea.Cmd {
	return nil
}

func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		v.vp.Width = msg.Width
		v.vp.Height = max(1, msg.Height-chrome)
		v.vp.SetContent(v.content)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, keys.Next):
			v.current = (v.current + 1) % len(v.tabs)
			v.render()
			return v, nil
		case key.Matches(msg, keys.Prev):
			v.current = (v.current - 1 + len(v.tabs)) % len(v.tabs)
			v.render()
			return v, nil
		case key.Matches(msg, keys.Mode):
			if v.opts.Mode == format.HoursMinute {
				v.opts.Mode = format.Decimal
			} else {
				v.opts.Mode = format.HoursMinute
			}
			v.render()
			return v, nil
		case key.Matches(msg, keys.Dates):
			if v.opts.Dates == format.DateISO {
				v.opts.Dates = format.DateDMY
			} else {
				v.opts.Dates = format.DateISO
			}
			v.render()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

// render rebuilds the viewport content for the selected tab.
func (v *Viewer) render() {
	var text string
	if v.current == 0 {
		text = format.Text(v.rep, v.opts)
	} else if w, ok := v.rep.Workers[v.tabs[v.current]]; ok {
		text = format.Worker(w, v.opts)
	}
	if text == "" {
		text = format.NoActivity
	}
	v.content = Highlight(text)
	v.vp.SetContent(v.content)
	v.vp.GotoTop()
}

func (v *Viewer) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Raport pontaj"))
	sb.WriteString("  ")
	sb.WriteString(subtitleStyle.Render(v.period()))
	sb.WriteString("\n")

	tabs := make([]string, len(v.tabs))
	for i, t := range v.tabs {
		if i == v.current {
			tabs[i] = selectedStyle.Render(t)
		} else {
			tabs[i] = dimStyle.Render(t)
		}
	}
	sb.WriteString(boxStyle.Render(strings.Join(tabs, "  ")))
	sb.WriteString("\n")

	sb.WriteString(v.vp.View())
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(v.help()))
	return sb.String()
}

func (v *Viewer) period() string {
	from, to := v.rep.Metadata.From, v.rep.Metadata.To
	if from == "" {
		from = "…"
	}
	if to == "" {
		to = "…"
	}
	return fmt.Sprintf("%s – %s", from, to)
}

func (v *Viewer) help() string {
	var parts []string
	for _, b := range []key.Binding{keys.Prev, keys.Next, keys.Mode, keys.Dates, keys.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return scrollIndicator(v.vp) + "  " + strings.Join(parts, " • ")
}

func scrollIndicator(vp viewport.Model) string {
	switch {
	case vp.AtTop():
		return "[TOP]"
	case vp.AtBottom():
		return "[END]"
	}
	return fmt.Sprintf("[%d%%]", int(vp.ScrollPercent()*100))
}
