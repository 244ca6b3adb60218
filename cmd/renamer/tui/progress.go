package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/renamer/pkg/renamer/logging"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

var logger = logging.Get("tui")

// ErrInterrupted is returned by Run when the user stopped the job.
var ErrInterrupted = errors.New("interrupted by user")

// Phase is the stage of a rename run shown by the progress view.
type Phase int

const (
	// PhaseScan walks the source directory.
	PhaseScan Phase = iota
	// PhaseRules runs the rule pipeline.
	PhaseRules
	// PhaseRename applies the plan on disk.
	PhaseRename
)

// String returns the label shown next to the spinner.
func (p Phase) String() string {
	switch p {
	case PhaseScan:
		return "Scanning"
	case PhaseRules:
		return "Applying rules"
	case PhaseRename:
		return "Renaming"
	default:
		return "Working"
	}
}

// Options configures the progress view.
type Options struct {
	// Source is the directory being renamed, shown in the header.
	Source string

	// Rule names the rule, shown in the header.
	Rule string

	// Output receives the view. Nil means stderr.
	Output io.Writer
}

// Job is the work run behind the progress view. It must return promptly
// once ctx is cancelled.
type Job func(ctx context.Context, r *Reporter) error

// Reporter forwards job progress to the view. Its methods never block; an
// update is dropped when the view is behind, as only the latest one matters.
type Reporter struct {
	updates chan tea.Msg
}

func newReporter() *Reporter {
	return &Reporter{updates: make(chan tea.Msg, 100)}
}

// Scan reports walk progress.
func (r *Reporter) Scan(p types.ScanProgress) {
	r.send(scanMsg(p))
}

// Step reports that current of total elements of phase are done.
func (r *Reporter) Step(phase Phase, current, total int) {
	r.send(stepMsg{phase: phase, current: current, total: total})
}

func (r *Reporter) send(msg tea.Msg) {
	select {
	case r.updates <- msg:
	default:
	}
}

type scanMsg types.ScanProgress

type stepMsg struct {
	phase   Phase
	current int
	total   int
}

type doneMsg struct {
	err error
}

// Model is the Bubble Tea model of the progress view.
type Model struct {
	opts     Options
	job      Job
	reporter *Reporter
	ctx      context.Context
	cancel   context.CancelFunc

	phase   Phase
	scan    types.ScanProgress
	current int
	total   int

	spinner   spinner.Model
	bar       progress.Model
	startTime time.Time
	width     int

	interrupted bool
	done        bool
	err         error
}

// NewModel creates a progress view that runs job when started.
func NewModel(ctx context.Context, opts Options, job Job) Model {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	return Model{
		opts:      opts,
		job:       job,
		reporter:  newReporter(),
		ctx:       ctx,
		cancel:    cancel,
		spinner:   s,
		bar:       bar,
		startTime: time.Now(),
		width:     80,
	}
}

// Init starts the job and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startJob(),
		m.listenForProgress(),
	)
}

// startJob runs the job on a background goroutine and reports its result.
func (m Model) startJob() tea.Cmd {
	job, ctx, reporter, cancel := m.job, m.ctx, m.reporter, m.cancel
	return func() tea.Msg {
		defer cancel()
		err := runJob(ctx, job, reporter)
		close(reporter.updates)
		return doneMsg{err: err}
	}
}

// runJob contains a panicking job so the terminal is always restored.
func runJob(ctx context.Context, job Job, r *Reporter) (err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("job panicked", "panic", p)
			err = fmt.Errorf("job panicked: %v", p)
		}
	}()
	return job(ctx, r)
}

// listenForProgress waits for the next update from the job.
func (m Model) listenForProgress() tea.Cmd {
	updates := m.reporter.updates
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return nil
		}
		return msg
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// The job finishes its current step; doneMsg quits.
			if !m.interrupted {
				logger.Info("interrupt requested", "phase", m.phase)
				m.interrupted = true
				m.cancel()
			}
		}
		return m, nil

	case scanMsg:
		m.phase = PhaseScan
		m.scan = types.ScanProgress(msg)
		return m, m.listenForProgress()

	case stepMsg:
		m.phase = msg.phase
		m.current = msg.current
		m.total = msg.total
		return m, m.listenForProgress()

	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress view. It is empty once the job is done so the
// final report printed afterwards starts on a clean line.
func (m Model) View() string {
	if m.done {
		return ""
	}

	contentWidth := max(m.width-4, 40)

	var b strings.Builder
	b.WriteString(m.renderHeader(contentWidth))
	b.WriteString("\n")

	switch {
	case m.interrupted:
		b.WriteString(warningTextStyle.Render(fmt.Sprintf("  %s Stopping...", m.spinner.View())))
	case m.phase == PhaseScan:
		b.WriteString(fmt.Sprintf("  %s %s %s", m.spinner.View(), m.phase,
			pathStyle.Render(truncatePath(m.scan.CurrentPath, contentWidth-20))))
	default:
		b.WriteString(fmt.Sprintf("  %s %s", m.spinner.View(), m.phase))
	}
	b.WriteString("\n")

	if m.phase == PhaseScan {
		b.WriteString(m.renderScanStats())
	} else {
		b.WriteString(m.renderProgressBar(contentWidth))
	}
	b.WriteString("\n")

	return b.String()
}

// renderHeader renders the title line with the source and the stop hint.
func (m Model) renderHeader(width int) string {
	title := titleStyle.Render("  renamer")
	if m.opts.Rule != "" {
		title += mutedTextStyle.Render("  " + m.opts.Rule)
	}
	if m.opts.Source != "" {
		title += "  " + pathStyle.Render(truncatePath(m.opts.Source, width/2))
	}
	hint := mutedTextStyle.Render("[ctrl+c to stop]")

	spacing := max(width-lipgloss.Width(title)-lipgloss.Width(hint), 1)
	return title + strings.Repeat(" ", spacing) + hint
}

// renderScanStats renders the walk counters.
func (m Model) renderScanStats() string {
	parts := []string{
		fmt.Sprintf("%s entries", humanize.Comma(m.scan.EntriesSeen)),
		fmt.Sprintf("%s items", humanize.Comma(m.scan.ItemsCollected)),
	}
	if m.scan.CacheHits > 0 {
		parts = append(parts, fmt.Sprintf("%s cached", humanize.Comma(m.scan.CacheHits)))
	}
	parts = append(parts, formatDuration(time.Since(m.startTime)))
	return mutedTextStyle.Render("  " + strings.Join(parts, "  ·  "))
}

// renderProgressBar renders the determinate bar of the rule and rename phases.
func (m Model) renderProgressBar(width int) string {
	counter := fmt.Sprintf("%s/%s", humanize.Comma(int64(m.current)), humanize.Comma(int64(m.total)))

	bar := m.bar
	bar.Width = max(width-lipgloss.Width(counter)-6, 10)

	return "  " + bar.ViewAs(m.percent()) + "  " + statsValueStyle.Render(counter)
}

// percent returns the completed fraction of the current phase.
func (m Model) percent() float64 {
	if m.total <= 0 {
		return 1
	}
	return min(float64(m.current)/float64(m.total), 1)
}

// formatDuration formats a duration as M:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

// Run shows the progress view while job runs and returns the job's error.
// When the user stops the view, the job's context is cancelled and Run
// returns ErrInterrupted joined with whatever the job returned.
func Run(ctx context.Context, opts Options, job Job) error {
	model := NewModel(ctx, opts, job)
	defer model.cancel()

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	final, err := tea.NewProgram(model, tea.WithOutput(out)).Run()
	if err != nil {
		return fmt.Errorf("running progress view: %w", err)
	}

	fm, ok := final.(Model)
	if !ok {
		return nil
	}
	if fm.interrupted {
		return errors.Join(ErrInterrupted, fm.err)
	}
	return fm.err
}
