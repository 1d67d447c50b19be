package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cantus/internal/pitch"
)

// ModeInfo describes a built-in mode.
type ModeInfo struct {
	Name    string `json:"name"`
	Final   string `json:"final"`
	Degrees []int  `json:"degrees"`
	Scale   string `json:"scale"`
}

// NewModesCommand creates the modes command.
func NewModesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "modes",
		Short:         "List the built-in modes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModes(rootOpts, cmd)
		},
	}
}

func runModes(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	names := pitch.ModeNames()
	infos := make([]ModeInfo, 0, len(names))
	for _, name := range names {
		m, err := pitch.LookupMode(name)
		if err != nil {
			return err
		}
		infos = append(infos, describeMode(m))
	}

	if opts.Format == "json" {
		return formatter.Success(infos)
	}

	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "%-11s %s\n", info.Name, info.Scale)
	}
	return nil
}

func describeMode(m pitch.Mode) ModeInfo {
	final := m.Final(pitch.MiddleOctave)
	scale := make([]string, 0, m.Len())
	for degree := 1; degree <= m.Len(); degree++ {
		scale = append(scale, pitch.Name(m.Above(final, degree)))
	}
	return ModeInfo{
		Name:    m.Name(),
		Final:   pitch.Name(final),
		Degrees: m.Degrees(),
		Scale:   strings.Join(scale, " "),
	}
}
