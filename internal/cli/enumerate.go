package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/cantus/internal/engine"
	"github.com/roach88/cantus/internal/exercise"
	"github.com/roach88/cantus/internal/pitch"
	"github.com/roach88/cantus/internal/telemetry"
)

// EnumerateOptions holds flags for the enumerate command.
type EnumerateOptions struct {
	*RootOptions
	Cantus    string // space separated note names
	Voice     string
	Mode      string
	Degrees   []int
	Policy    string
	Exercise  string // exercise name within a CUE file or directory
	Workers   int
	MaxStates int
	Metrics   bool // dump Prometheus text to stderr when done
}

// LineOutput is one line of enumerate output.
type LineOutput struct {
	Line  string `json:"line"`
	Count int    `json:"count"`
}

// EnumerateResult is the JSON payload of the enumerate command.
type EnumerateResult struct {
	Exercise   string       `json:"exercise"`
	Cantus     string       `json:"cantus"`
	Voice      string       `json:"voice"`
	Mode       string       `json:"mode"`
	Policy     string       `json:"policy"`
	Digest     string       `json:"digest"`
	Distinct   int          `json:"distinct"`
	Total      int          `json:"total"`
	Duplicates int          `json:"duplicates"`
	Stats      engine.Stats `json:"stats"`
	Lines      []LineOutput `json:"lines"`
}

// NewEnumerateCommand creates the enumerate command.
func NewEnumerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EnumerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "enumerate [exercise-path]",
		Short: "Enumerate every counterpoint to a cantus firmus",
		Long: `Enumerate every legal first species counterpoint line.

The exercise comes either from flags (--cantus, --voice, --mode) or from a
CUE file or directory. A path holding more than one exercise needs
--exercise to pick one.

Each distinct line is printed with the number of times the search derived
it. A count above 1 is a duplicate derivation and is also reported on
stderr.

Exit codes:
  0 - Search completed
  1 - Search failed (state quota exceeded, interrupted, etc.)
  2 - Command error (bad exercise, files not found, etc.)

Examples:
  cantus enumerate --cantus "d f e d" --mode dorian
  cantus enumerate --cantus "d f e d" --voice below --policy breadth-first
  cantus enumerate ./exercises --exercise fux_dorian --workers 4
  cantus enumerate ./exercises/fux.cue --exercise fux_dorian --metrics`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnumerate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Cantus, "cantus", "", "cantus firmus as space separated note names")
	cmd.Flags().StringVar(&opts.Voice, "voice", exercise.DefaultVoice, "voice to add (above|below)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "dorian", "built-in mode name")
	cmd.Flags().IntSliceVar(&opts.Degrees, "degrees", nil, "custom mode degree table in semitones")
	cmd.Flags().StringVar(&opts.Policy, "policy", exercise.DefaultPolicy, "agenda policy (depth-first|breadth-first)")
	cmd.Flags().StringVar(&opts.Exercise, "exercise", "", "exercise name within the CUE path")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "number of parallel search workers")
	cmd.Flags().IntVar(&opts.MaxStates, "max-states", 0, "maximum states to expand (0 = unbounded)")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "write Prometheus metrics to stderr when done")

	return cmd
}

func runEnumerate(opts *EnumerateOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ex, err := resolveExercise(opts, args, cmd)
	if err != nil {
		return err
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	var metrics *telemetry.Metrics
	if opts.Metrics {
		if metrics, err = telemetry.NewMetrics(""); err != nil {
			return WrapExitError(ExitCommandError, "failed to create metrics", err)
		}
	}

	// The run ID is drawn up front so search errors can report it.
	runID := engine.UUIDv7Generator{}.Generate()

	eng, err := ex.Engine(
		engine.WithMaxStates(opts.MaxStates),
		engine.WithLogger(logger),
		engine.WithMetrics(metrics),
		engine.WithRunIDGenerator(engine.NewFixedGenerator(runID)),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create engine", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := eng.RunParallel(ctx, opts.Workers)
	if metrics != nil {
		if werr := metrics.WriteText(cmd.ErrOrStderr()); werr != nil {
			logger.Warn("failed to write metrics", "error", werr)
		}
	}
	if err != nil {
		return outputSearchError(formatter, runID, err)
	}

	digest, err := results.Digest()
	if err != nil {
		return err
	}

	entries := results.Entries()
	dups := results.Duplicates()
	for _, d := range dups {
		fmt.Fprintf(cmd.ErrOrStderr(), "duplicate: %s derived %d times\n", d.Key, d.Count)
	}

	if opts.Format == "json" {
		out := EnumerateResult{
			Exercise:   ex.Name,
			Cantus:     pitch.Line(ex.Cantus),
			Voice:      ex.Voice.String(),
			Mode:       ex.Mode.Name(),
			Policy:     ex.Policy.String(),
			Digest:     digest,
			Distinct:   results.Len(),
			Total:      results.Total(),
			Duplicates: len(dups),
			Stats:      results.Stats(),
			Lines:      make([]LineOutput, len(entries)),
		}
		for i, e := range entries {
			out.Lines[i] = LineOutput{Line: e.Key, Count: e.Count}
		}
		return formatter.JSON(CLIResponse{Status: "ok", Data: out, RunID: runID})
	}

	w := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(w, "%d %s\n", e.Count, e.Key)
	}
	formatter.VerboseLog("%d distinct lines, %d derivations, %d duplicates (digest %s)",
		results.Len(), results.Total(), len(dups), digest)
	return nil
}

// resolveExercise builds the exercise from a CUE path or from flags.
// Flags set explicitly override the CUE exercise's settings.
func resolveExercise(opts *EnumerateOptions, args []string, cmd *cobra.Command) (*exercise.Exercise, error) {
	if len(args) == 0 {
		if strings.TrimSpace(opts.Cantus) == "" {
			return nil, NewExitError(ExitCommandError, "either an exercise path or --cantus is required")
		}
		def := exercise.Definition{
			Mode:    opts.Mode,
			Degrees: opts.Degrees,
			Voice:   opts.Voice,
			Policy:  opts.Policy,
			Cantus:  strings.Fields(opts.Cantus),
		}
		ex, err := exercise.FromDefinition("cli", def)
		if err != nil {
			return nil, exerciseExitError(err)
		}
		return ex, nil
	}

	if opts.Cantus != "" {
		return nil, NewExitError(ExitCommandError, "--cantus cannot be combined with an exercise path")
	}

	exercises, errs := loadPath(args[0])
	if len(errs) > 0 {
		return nil, exerciseExitError(errs[0])
	}

	var ex *exercise.Exercise
	switch {
	case opts.Exercise != "":
		for _, e := range exercises {
			if e.Name == opts.Exercise {
				ex = e
				break
			}
		}
		if ex == nil {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("exercise %q not found in %s", opts.Exercise, args[0]))
		}
	case len(exercises) == 1:
		ex = exercises[0]
	default:
		names := make([]string, len(exercises))
		for i, e := range exercises {
			names[i] = e.Name
		}
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("%s holds %d exercises, pick one with --exercise: %s",
			args[0], len(exercises), strings.Join(names, ", ")))
	}

	return overrideExercise(ex, opts, cmd)
}

// overrideExercise rebuilds a loaded exercise with the --voice, --mode,
// --degrees and --policy flags the user set explicitly. --mode alone
// replaces a custom degree table; --degrees alone names the mode after the
// exercise.
func overrideExercise(ex *exercise.Exercise, opts *EnumerateOptions, cmd *cobra.Command) (*exercise.Exercise, error) {
	flags := cmd.Flags()
	def := ex.Definition()
	changed := false

	if flags.Changed("voice") {
		def.Voice = opts.Voice
		changed = true
	}
	if flags.Changed("policy") {
		def.Policy = opts.Policy
		changed = true
	}
	if flags.Changed("mode") {
		def.Mode = opts.Mode
		def.Degrees = nil
		changed = true
	}
	if flags.Changed("degrees") {
		def.Degrees = opts.Degrees
		if !flags.Changed("mode") {
			def.Mode = ""
		}
		changed = true
	}
	if !changed {
		return ex, nil
	}

	out, err := exercise.FromDefinition(ex.Name, def)
	if err != nil {
		return nil, exerciseExitError(err)
	}
	out.Pos = ex.Pos
	return out, nil
}

// loadPath loads every exercise in a CUE file or directory.
func loadPath(path string) ([]*exercise.Exercise, []error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, []error{&exercise.LoadError{Code: exercise.ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}}
	}
	if !info.IsDir() {
		return exercise.LoadFile(path, exercise.LoadModeFailFast)
	}
	res, errs := exercise.LoadDir(path, exercise.LoadModeFailFast)
	if res == nil {
		return nil, errs
	}
	return res.Exercises, errs
}

func exerciseExitError(err error) error {
	var ce *exercise.CompileError
	if errors.As(err, &ce) {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid exercise [%s]", ce.Code()), err)
	}
	var le *exercise.LoadError
	if errors.As(err, &le) {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load exercise [%s]", le.Code), err)
	}
	return WrapExitError(ExitCommandError, "invalid exercise", err)
}

// outputSearchError reports a failed search. Search failures exit 1.
func outputSearchError(formatter *OutputFormatter, runID string, err error) error {
	code := "SEARCH_FAILED"
	var se *engine.SearchError
	if errors.As(err, &se) {
		code = string(se.Code)
	}
	if formatter.Format == "json" {
		if jerr := formatter.JSON(CLIResponse{
			Status: "error",
			RunID:  runID,
			Error:  &CLIError{Code: code, Message: err.Error()},
		}); jerr != nil {
			return jerr
		}
	}
	if errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "search interrupted", err)
	}
	return WrapExitError(ExitFailure, "search failed", err)
}
