package tui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"slotting.dev/slotting/internal/engine"
	"slotting.dev/slotting/internal/utilization"
)

func init() {
	// Plain output so assertions can match text
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestSplog(t *testing.T) {
	t.Run("console gets messages only", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithConfig(&buf, LogOptions{})
		require.NoError(t, err)

		splog.Info("solved %d items", 3)
		splog.Warn("careful")
		splog.Error("broken")
		splog.Tip("try --force")
		splog.Debug("hidden")

		out := buf.String()
		require.Contains(t, out, "solved 3 items\n")
		require.Contains(t, out, "⚠️  careful")
		require.Contains(t, out, "❌ broken")
		require.Contains(t, out, "💡 try --force")
		require.NotContains(t, out, "hidden")
	})

	t.Run("debug and quiet", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithConfig(&buf, LogOptions{Debug: true})
		require.NoError(t, err)

		splog.Debug("visible")
		splog.SetQuiet(true)
		require.True(t, splog.IsQuiet())
		splog.Info("suppressed")
		splog.SetQuiet(false)

		require.Contains(t, buf.String(), "visible")
		require.NotContains(t, buf.String(), "suppressed")
	})

	t.Run("file receives structured records", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "slotting.log")
		splog, err := NewSplogWithConfig(&buf, LogOptions{File: path, MaxSize: 5})
		require.NoError(t, err)

		splog.Info("to both")
		splog.Logger().Info("search complete", "nodes", 42)
		require.NoError(t, splog.Close())

		require.NotContains(t, buf.String(), "search complete", "library records stay out of the console")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "to both")
		require.Contains(t, string(data), "nodes=42")
	})

	t.Run("console-only logger discards", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithConfig(&buf, LogOptions{})
		require.NoError(t, err)
		splog.Logger().Info("nowhere")
		require.Empty(t, buf.String())
		require.NoError(t, splog.Close())
	})
}

func TestLumberjackOptions(t *testing.T) {
	t.Setenv("SLOTTING_LOG_MAX_SIZE", "9")
	t.Setenv("SLOTTING_LOG_MAX_BACKUPS", "")
	t.Setenv("SLOTTING_LOG_MAX_AGE", "bogus")

	l := createLumberjackLogger(LogOptions{File: "x.log", MaxSize: 3, MaxBackups: 4})
	require.Equal(t, 9, l.MaxSize)
	require.Equal(t, 4, l.MaxBackups)
	require.Equal(t, 30, l.MaxAge)
}

func TestGetLogFilePath(t *testing.T) {
	t.Setenv("SLOTTING_LOG_FILE", "/tmp/custom.log")
	require.Equal(t, "/tmp/custom.log", GetLogFilePath())

	t.Setenv("SLOTTING_LOG_FILE", "")
	require.True(t, strings.HasSuffix(GetLogFilePath(), filepath.Join(".slotting", "logs", "slotting.log")))
}

func TestFormatProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   engine.Progress
		want string
	}{
		{
			name: "no incumbent",
			in:   engine.Progress{Nodes: 3, Open: 2, Elapsed: 1500 * time.Microsecond},
			want: "nodes 3  open 2  incumbent -  2ms",
		},
		{
			name: "with gap",
			in: engine.Progress{
				Nodes: 10, Open: 4,
				Incumbent: 20, HasIncumbent: true,
				Bound: 15, HasBound: true,
				Elapsed: time.Second,
			},
			want: "nodes 10  open 4  incumbent 20.00  bound 15.00  gap 25.0%  1s",
		},
		{
			name: "closed gap",
			in:   engine.Progress{Incumbent: 6, HasIncumbent: true, Bound: 6, HasBound: true},
			want: "nodes 0  open 0  incumbent 6.00  bound 6.00  0s",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, FormatProgress(tt.in))
		})
	}
}

func TestSolveProgressModel(t *testing.T) {
	t.Parallel()

	canceled := false
	m := NewSolveProgressModel("Solving", func() { canceled = true })
	require.NotNil(t, m.Init())

	next, _ := m.Update(ProgressMsg(engine.Progress{Nodes: 7, Open: 1}))
	m = next.(SolveProgressModel)
	require.Contains(t, m.View(), "Solving")
	require.Contains(t, m.View(), "nodes 7")

	next, cmd := m.Update(SolveDoneMsg{})
	m = next.(SolveProgressModel)
	require.NotNil(t, cmd)
	require.Empty(t, m.View())
	require.False(t, canceled)

	m = NewSolveProgressModel("Solving", func() { canceled = true })
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, canceled)
	require.Empty(t, next.View())
}

func TestLineReporter(t *testing.T) {
	t.Setenv("SLOTTING_NO_INTERACTIVE", "1")

	var buf bytes.Buffer
	splog, err := NewSplogWithConfig(&buf, LogOptions{Debug: true})
	require.NoError(t, err)

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewProgressReporter(splog, "Solving", cancel)
	r.Update(engine.Progress{Nodes: 5})
	r.Done()
	require.Contains(t, buf.String(), "nodes 5")
}

func TestRenderUtilization(t *testing.T) {
	t.Parallel()

	usages := []utilization.ShelfUsage{
		{ShelfID: "S1", Distance: 1, Items: 2, Volume: 9.5, Capacity: 10, Utilization: 0.95},
		{ShelfID: "S2", Distance: 10, Capacity: 10},
	}
	out := RenderUtilization(usages, utilization.Summarize(usages))

	lines := strings.Split(out, "\n")
	require.Contains(t, lines[1], "Shelf")
	require.Contains(t, out, "95.0%")
	require.Contains(t, out, "9.5")
	require.Contains(t, out, "1 used of 2")
	require.Contains(t, out, "47.5%")

	s1 := strings.Index(out, "S1")
	s2 := strings.Index(out, "S2")
	require.Less(t, s1, s2)
}

func TestRenderResult(t *testing.T) {
	t.Parallel()

	bound := 12.0
	out := RenderResult(ResultSummary{
		Status:     "timed-out",
		Objective:  15,
		LowerBound: &bound,
		Gap:        0.2,
		Dropped:    2,
		Nodes:      40,
	})
	require.Contains(t, out, "Status:     timed-out")
	require.Contains(t, out, "Objective:  15.00")
	require.Contains(t, out, "Bound:      12.00 (gap 20.00%)")
	require.Contains(t, out, "Nodes:      40")
	require.Contains(t, out, "2 items without par")

	out = RenderResult(ResultSummary{Status: "optimal", Objective: 6})
	require.NotContains(t, out, "Bound")
	require.NotContains(t, out, "Dropped")
}
