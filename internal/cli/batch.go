package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathcover/pkg/engine"
)

// batchManifest is the TOML file driving a batch run.
type batchManifest struct {
	// Workers caps the number of jobs running concurrently (0 = one per CPU).
	Workers int        `toml:"workers"`
	Jobs    []batchJob `toml:"job"`
}

// batchJob describes a single engine execution within a manifest.
type batchJob struct {
	Source string   `toml:"source"`
	Text   string   `toml:"text"`
	Index  int      `toml:"index"`
	Starts []string `toml:"starts"`
	Ends   []string `toml:"ends"`

	Operation string   `toml:"operation"`
	Ignore    []string `toml:"ignore"`
	Condense  bool     `toml:"condense"`
	Weights   []string `toml:"weights"`
	Mode      string   `toml:"mode"`
	Edges     []string `toml:"edges"`
	Workers   int      `toml:"workers"`

	Format       string   `toml:"format"`
	Output       string   `toml:"output"`
	ShowFlow     bool     `toml:"show_flow"`
	HideBoundary bool     `toml:"hide_boundary"`
	Highlight    []string `toml:"highlight"`
}

// options converts the job into engine options.
func (j *batchJob) options() (engine.Options, error) {
	ignore, err := engine.ParseKeys(j.Ignore)
	if err != nil {
		return engine.Options{}, err
	}
	weights, err := engine.ParseWeights(j.Weights)
	if err != nil {
		return engine.Options{}, err
	}
	edges, err := engine.ParseKeys(j.Edges)
	if err != nil {
		return engine.Options{}, err
	}
	highlight, err := engine.ParseKeys(j.Highlight)
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		Source:           j.Source,
		Text:             j.Text,
		Index:            j.Index,
		AdditionalStarts: j.Starts,
		AdditionalEnds:   j.Ends,
		Operation:        j.Operation,
		Ignore:           ignore,
		Condense:         j.Condense,
		Weights:          weights,
		SafetyMode:       j.Mode,
		Edges:            edges,
		Workers:          j.Workers,
		Format:           j.Format,
		ShowFlow:         j.ShowFlow,
		HideBoundary:     j.HideBoundary,
		Highlight:        highlight,
	}, nil
}

// label returns the job's display name for progress and summary lines.
func (j *batchJob) label() string {
	op := j.Operation
	if op == "" {
		op = "width"
	}
	src := j.Source
	if src == "" {
		src = "<inline>"
	}
	return op + " " + src
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		noCache bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch [manifest.toml]",
		Short: "Run a manifest of analyses concurrently",
		Long: `Run every job in a TOML manifest through a worker pool, with live
progress. Each [[job]] entry names a source and an operation plus that
operation's options:

  workers = 4

  [[job]]
  source = "graphs/chr1.txt"
  operation = "width"
  condense = true

  [[job]]
  source = "graphs/chr1.txt"
  operation = "safety"
  mode = "dominators"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], workers, noCache)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent jobs (0 = manifest setting, then one per CPU)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, path string, workers int, noCache bool) error {
	var manifest batchManifest
	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		return fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(manifest.Jobs) == 0 {
		printWarning("Manifest %s has no jobs", path)
		return nil
	}

	if workers == 0 {
		workers = manifest.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(manifest.Jobs) {
		workers = len(manifest.Jobs)
	}

	eng, err := c.newEngine(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Close()

	prog := newProgress(c.Logger)
	model := newBatchModel(manifest.Jobs)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	go c.dispatchJobs(ctx, eng, manifest.Jobs, workers, program)

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	fm := final.(batchModel)
	failed := 0
	for i, job := range manifest.Jobs {
		if fm.errs[i] != nil {
			printError("%s: %v", job.label(), fm.errs[i])
			failed++
		} else {
			printSuccess("%s: %s", job.label(), fm.notes[i])
		}
	}
	printNewline()
	if failed > 0 {
		return fmt.Errorf("batch: %d of %d jobs failed", failed, len(manifest.Jobs))
	}
	prog.done(fmt.Sprintf("Completed %d jobs", len(manifest.Jobs)))
	return nil
}

// dispatchJobs feeds the manifest through a bounded worker pool, reporting
// progress to the bubbletea program.
func (c *CLI) dispatchJobs(ctx context.Context, eng *engine.Engine, jobs []batchJob, workers int, program *tea.Program) {
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				program.Send(jobStartMsg{index: i})
				note, err := c.runJob(ctx, eng, &jobs[i])
				program.Send(jobDoneMsg{index: i, note: note, err: err})
			}
		}()
	}
	for i := range jobs {
		select {
		case indexes <- i:
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return
		}
	}
	close(indexes)
	wg.Wait()
}

// runJob executes one manifest job and returns a one-line summary.
func (c *CLI) runJob(ctx context.Context, eng *engine.Engine, job *batchJob) (string, error) {
	opts, err := job.options()
	if err != nil {
		return "", err
	}
	opts.Logger = c.Logger

	result, err := eng.Execute(ctx, opts)
	if err != nil {
		return "", err
	}

	if result.Artifact != nil {
		format := job.Format
		if format == "" {
			format = "svg"
		}
		out := job.Output
		if out == "" {
			out = outputPath(job.Source, result.GraphID, format)
		}
		if err := os.WriteFile(out, result.Artifact, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", out, err)
		}
		return fmt.Sprintf("wrote %s (%d bytes)", out, len(result.Artifact)), nil
	}

	return describeResult(result), nil
}

// describeResult summarizes an analysis result in one line.
func describeResult(r *engine.Result) string {
	switch {
	case r.Width != nil:
		return fmt.Sprintf("width %d", r.Width.Width)
	case r.Antichain != nil:
		return fmt.Sprintf("antichain weight %d", r.Antichain.Weight)
	case r.Safety != nil:
		if r.Safety.IncompatibleCount > 0 {
			return fmt.Sprintf("%d %s (%d incompatible)",
				len(r.Safety.Sequences), r.Safety.Mode, r.Safety.IncompatibleCount)
		}
		return fmt.Sprintf("%d %s", len(r.Safety.Sequences), r.Safety.Mode)
	case r.Decompose != nil:
		return fmt.Sprintf("%d paths", len(r.Decompose.Paths))
	default:
		return "done"
	}
}

// =============================================================================
// Progress Model
// =============================================================================

type jobState int

const (
	jobPending jobState = iota
	jobRunning
	jobDone
	jobFailed
)

// batchModel is the bubbletea model showing live batch progress.
type batchModel struct {
	jobs   []batchJob
	states []jobState
	notes  []string
	errs   []error

	finished int
	frame    int
	frames   []string
}

type jobStartMsg struct{ index int }

type jobDoneMsg struct {
	index int
	note  string
	err   error
}

type tickMsg time.Time

func newBatchModel(jobs []batchJob) batchModel {
	return batchModel{
		jobs:   jobs,
		states: make([]jobState, len(jobs)),
		notes:  make([]string, len(jobs)),
		errs:   make([]error, len(jobs)),
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m batchModel) Init() tea.Cmd {
	return tick()
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case jobStartMsg:
		m.states[msg.index] = jobRunning
	case jobDoneMsg:
		m.notes[msg.index] = msg.note
		m.errs[msg.index] = msg.err
		if msg.err != nil {
			m.states[msg.index] = jobFailed
		} else {
			m.states[msg.index] = jobDone
		}
		m.finished++
		if m.finished == len(m.jobs) {
			return m, tea.Quit
		}
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m batchModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Running %d jobs", len(m.jobs))))
	b.WriteString("\n\n")

	for i, job := range m.jobs {
		var marker, note string
		switch m.states[i] {
		case jobPending:
			marker = StyleDim.Render("·")
		case jobRunning:
			marker = styleIconSpinner.Render(m.frames[m.frame%len(m.frames)])
		case jobDone:
			marker = styleIconSuccess.Render(iconSuccess)
			note = StyleDim.Render("  " + m.notes[i])
		case jobFailed:
			marker = styleIconError.Render(iconError)
			note = StyleWarning.Render("  " + m.errs[i].Error())
		}
		b.WriteString(fmt.Sprintf("  %s %s%s\n", marker, job.label(), note))
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d/%d done", m.finished, len(m.jobs))))
	b.WriteString("\n")
	return b.String()
}
