package tui

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/pontaj/internal/format"
	"github.com/christopherklint97/pontaj/internal/report"
	"github.com/christopherklint97/pontaj/internal/timesheet"
)

func init() {
	ConfigureColor("never", os.Stdout)
}

func sampleReport() report.Report {
	return report.Aggregate([]timesheet.WorkerTimesheet{
		{Meta: timesheet.Meta{"worker": "Ana"}, Rows: []timesheet.ShiftRow{
			{Date: "2025-09-01", Start: "08:00", End: "18:00"},
		}},
		{Meta: timesheet.Meta{"worker": "Dan"}, Rows: []timesheet.ShiftRow{
			{Date: "2025-09-02", Start: "08:00", End: "12:00"},
		}},
	}, report.Range{}, timesheet.DefaultPolicy())
}

func press(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewer_TabsFollowRanking(t *testing.T) {
	v := NewViewer(sampleReport(), format.Options{})
	assert.Equal(t, []string{"Toți", "Ana", "Dan"}, v.tabs)
	assert.Contains(t, v.content, "Sumar comparativ:")
}

func TestViewer_Navigation(t *testing.T) {
	v := NewViewer(sampleReport(), format.Options{})
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	v.Update(press("right"))
	assert.Equal(t, 1, v.current)
	assert.True(t, strings.HasPrefix(v.content, "Ana"))
	assert.NotContains(t, v.content, "Dan")

	v.Update(press("right"))
	v.Update(press("right"))
	assert.Equal(t, 0, v.current)

	v.Update(press("left"))
	assert.Equal(t, 2, v.current)
	assert.Contains(t, v.content, "4.00 h")

	view := v.View()
	assert.Contains(t, view, "Raport pontaj")
	assert.Contains(t, view, "Dan")
}

func TestViewer_Toggles(t *testing.T) {
	v := NewViewer(sampleReport(), format.Options{Mode: format.Decimal})
	assert.Contains(t, v.content, "10.00 h")

	v.Update(press("m"))
	assert.Equal(t, format.HoursMinute, v.opts.Mode)
	assert.Contains(t, v.content, "10 h 00 m")

	v.Update(press("d"))
	assert.Contains(t, v.content, "2025-09-01")
	v.Update(press("d"))
	assert.Contains(t, v.content, "01/09/2025")
}

func TestViewer_Quit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		v := NewViewer(sampleReport(), format.Options{})
		_, cmd := v.Update(press(k))
		require.NotNil(t, cmd, k)
		assert.IsType(t, tea.QuitMsg{}, cmd(), k)
	}
}

func TestViewer_EmptyReport(t *testing.T) {
	v := NewViewer(report.Report{}, format.Options{})
	assert.Equal(t, []string{"Toți"}, v.tabs)
	assert.Contains(t, v.content, format.NoActivity)
	v.Update(press("right"))
	assert.Equal(t, 0, v.current)
}

func TestHighlight_KeepsText(t *testing.T) {
	text := format.Text(sampleReport(), format.Options{})
	got := Highlight(text)
	for _, line := range strings.Split(text, "\n") {
		assert.Contains(t, got, line)
	}
}

func TestHasOvertime(t *testing.T) {
	assert.True(t, hasOvertime("    01/09/2025: 10.00 h (Reg: 8.00 h, Supl: 2.00 h) [1 schimb]"))
	assert.True(t, hasOvertime("    01/09/2025: 8 h 30 m (Reg: 8 h 00 m, Supl: 0 h 30 m) [1 schimb]"))
	assert.False(t, hasOvertime("    01/09/2025: 4.00 h (Reg: 4.00 h, Supl: 0.00 h) [1 schimb]"))
	assert.False(t, hasOvertime("  Zile:"))
}

func TestConfigureColor(t *testing.T) {
	assert.False(t, ConfigureColor("never", os.Stdout))
	assert.True(t, ConfigureColor("always", os.Stdout))
	ConfigureColor("never", os.Stdout)
}
