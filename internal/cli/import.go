package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/toerig/internal/clips"
	"github.com/roach88/toerig/internal/engine"
	"github.com/roach88/toerig/internal/store"
)

// ImportClipOptions holds import-clip command flags.
type ImportClipOptions struct {
	Container string
}

// NewImportClipCommand creates the import-clip command.
func NewImportClipCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportClipOptions{}

	cmd := &cobra.Command{
		Use:   "import-clip <clip.json>",
		Short: "Store a hand-made clip in the asset store",
		Long: `Store an existing clip so flat states can reference it by clipName
or clipPath. The clip is stored in canonical form under
<container>/<name>.anim and replaces any clip already at that path.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportClip(rootOpts, opts, args[0], cmd)
		},
	}

	container := rootOpts.Env.OutputContainer
	if container == "" {
		container = engine.DefaultContainer
	}
	cmd.Flags().StringVar(&opts.Container, "container", container, "container to store the clip in")
	return cmd
}

func runImportClip(rootOpts *RootOptions, opts *ImportClipOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	clip, err := readClip(path)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			_ = formatter.Error(exitErr.Message, fileErrorMessage(path, exitErr), nil)
			return exitErr
		}
		_ = formatter.Error(ErrCodeClip, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid clip", err)
	}

	s, err := store.Open(rootOpts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer s.Close()

	ref, err := s.ImportClip(cmd.Context(), opts.Container, clip)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "import clip", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ref)
	}
	fmt.Fprintf(formatter.Writer, "✓ Imported %s (%d curve(s)) to %s\n", ref.Name, len(clip.Curves), ref.Path)
	formatter.VerboseLog("Hash: %s", ref.Hash)
	return nil
}

// readClip loads a clip file. Frame rate and wrap mode default to the
// generated clips' values.
func readClip(path string) (*clips.Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, WrapExitError(ExitCommandError, ErrCodeNotFound, err)
		}
		return nil, WrapExitError(ExitCommandError, ErrCodeReadFailed, err)
	}

	var c clips.Clip
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse clip: %w", err)
	}
	if c.Name == "" {
		return nil, fmt.Errorf("clip has no name")
	}
	if c.FrameRate == 0 {
		c.FrameRate = clips.FrameRate
	}
	if c.WrapMode == "" {
		c.WrapMode = clips.WrapMode
	}
	return &c, nil
}
