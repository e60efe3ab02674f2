package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/worklist.go/pkg/config"
	"github.com/jpfielding/worklist.go/pkg/logging"
	"github.com/spf13/cobra"
)

// settings is shared by the subcommands once the root has loaded it
type settings struct {
	cfg config.Config
	out io.Writer
}

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	s := &settings{cfg: config.Default(), out: os.Stdout}
	cmd := &cobra.Command{
		Use:           "mwlctl",
		Short:         "a CLI to create and inspect DICOM modality worklist files",
		Long:          "mwlctl writes modality worklist (.wl) entries for a worklist SCP such as Orthanc and dumps or verifies existing ones",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s.out = cmd.OutOrStdout()
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				cfg, err := config.LoadFile(path)
				if err != nil {
					return err
				}
				s.cfg = cfg
			}
			flags := cmd.Flags()
			if flags.Changed("log-level") {
				s.cfg.Log.Level, _ = flags.GetString("log-level")
			}
			if flags.Changed("log-json") {
				s.cfg.Log.JSON, _ = flags.GetBool("log-json")
			}
			if flags.Changed("log-file") {
				s.cfg.Log.File, _ = flags.GetString("log-file")
			}

			// Parse log level
			level, err := s.cfg.Level()
			var w io.Writer = cmd.ErrOrStderr()
			if s.cfg.Log.File != "" {
				w = logging.RotatingFile(s.cfg.Rotation())
			}
			slog.SetDefault(logging.Logger(w, s.cfg.Log.JSON, level))
			if err != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", s.cfg.Log.Level, "error", err)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewCreateCmd(ctx, s),
		NewTestCmd(ctx, s),
		NewDumpCmd(ctx, s),
		NewVerifyCmd(ctx, s),
	)
	pf := cmd.PersistentFlags()
	pf.String("config", "", "YAML config file (output and logging settings)")
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.Bool("log-json", false, "log as JSON")
	pf.String("log-file", "", "write logs to a size-rotated file instead of stderr")
	return cmd
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}
