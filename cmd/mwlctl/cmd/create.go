package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jpfielding/worklist.go/pkg/dicom"
	"github.com/jpfielding/worklist.go/pkg/uid"
	"github.com/jpfielding/worklist.go/pkg/worklist"
	"github.com/spf13/cobra"
)

// NewCreateCmd writes one worklist file from a YAML or JSON entry
func NewCreateCmd(ctx context.Context, s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [entry.yaml]",
		Short: "create a worklist file from an entry",
		Long:  "Reads a YAML or JSON worklist entry (patientId, accessionNumber, modality, ...) and writes it as a DICOM modality worklist file.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryPath, _ := cmd.Flags().GetString("entry")
			if entryPath == "" && len(args) > 0 {
				entryPath = args[0]
			}
			if entryPath == "" {
				return fmt.Errorf("entry path is required. Use --entry flag or provide as argument")
			}
			var fields worklist.Fields
			var err error
			if entryPath == "-" {
				fields, err = worklist.Load(os.Stdin)
			} else {
				fields, err = worklist.LoadFile(entryPath)
			}
			if err != nil {
				return err
			}
			return writeEntry(ctx, cmd, s, fields)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("entry", "e", "", "entry file (YAML or JSON, - for stdin)")
	addOutputFlags(cmd)
	return cmd
}

// NewTestCmd writes the canned test entry
func NewTestCmd(ctx context.Context, s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "create the test worklist entry (TEST123 / ACC001 / CR)",
		Long:  "Writes a chest X-ray entry for patient TEST123 scheduled today, for checking a modality's worklist query end to end.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeEntry(ctx, cmd, s, worklist.TestFields())
		},
	}
	addOutputFlags(cmd)
	return cmd
}

func addOutputFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringP("out", "o", "", "output file (default <dir>/<accession><ext>)")
	pf.String("dir", "", "output directory (overrides config)")
	pf.StringP("transfer-syntax", "t", "", "implicit, explicit or a transfer syntax UID (overrides config)")
	pf.Bool("no-meta", false, "write a bare dataset without the Part 10 header")
}

func writeEntry(ctx context.Context, cmd *cobra.Command, s *settings, fields worklist.Fields) error {
	flags := cmd.Flags()
	cfg := s.cfg
	out := &cfg.Output
	if v, _ := flags.GetString("dir"); v != "" {
		out.Dir = v
	}
	if v, _ := flags.GetString("transfer-syntax"); v != "" {
		out.TransferSyntax = v
	}
	includeMeta := cfg.WithMeta()
	if v, _ := flags.GetBool("no-meta"); v {
		includeMeta = false
	}
	ts, err := cfg.Syntax()
	if err != nil {
		return err
	}

	var opts []worklist.Option
	if out.UIDPrefix != "" {
		opts = append(opts, worklist.WithUIDGenerator(uid.PrefixGenerator{Prefix: out.UIDPrefix}))
	}
	ds, err := worklist.Build(fields, opts...)
	if err != nil {
		return err
	}

	path, _ := flags.GetString("out")
	if path == "" {
		if err := os.MkdirAll(out.Dir, 0o755); err != nil {
			return &dicom.IOError{Op: "mkdir", Path: out.Dir, Err: err}
		}
		path = worklist.FileName(out.Dir, ds, out.Extension)
	}
	n, err := dicom.WriteFile(path, ds, ts, includeMeta)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "wrote worklist",
		slog.String("path", path),
		slog.Int64("bytes", n),
		slog.String("transferSyntax", ts.Name()),
		slog.Bool("meta", includeMeta),
		slog.String("patientId", dicom.GetPatientID(ds)),
		slog.String("accession", dicom.GetAccessionNumber(ds)),
	)
	fmt.Fprintln(s.out, path)
	return nil
}
