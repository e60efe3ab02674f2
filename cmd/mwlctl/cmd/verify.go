package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpfielding/worklist.go/pkg/dicom"
	"github.com/jpfielding/worklist.go/pkg/dicom/tag"
	"github.com/spf13/cobra"
)

// NewVerifyCmd checks worklist files for structural and attribute problems
func NewVerifyCmd(ctx context.Context, s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <file>...",
		Short: "check worklist files",
		Long:  "Decodes each file, checks the File Meta Information against the dataset encoding and reports missing or empty worklist attributes.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if ok := verifyFile(ctx, cmd, s, path); !ok {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d worklist file(s) failed verification", failed, len(args))
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("transfer-syntax", "t", "implicit", "syntax of bare dataset streams without a Part 10 header")
	pf.Bool("strict", false, "treat Type 2 warnings as failures")
	return cmd
}

func verifyFile(ctx context.Context, cmd *cobra.Command, s *settings, path string) bool {
	f, err := readWorklist(ctx, cmd, path, false)
	if err != nil {
		fmt.Fprintf(s.out, "%s: FAIL %v\n", path, err)
		return false
	}
	ok := true
	if f.HasMeta() {
		for _, m := range metaMismatches(f) {
			fmt.Fprintf(s.out, "%s: FAIL %s\n", path, m)
			ok = false
		}
	} else {
		fmt.Fprintf(s.out, "%s: note no Part 10 header, read as %s\n", path, f.TransferSyntax.Name())
	}
	if !dicom.IsWorklist(f.Dataset) {
		fmt.Fprintf(s.out, "%s: FAIL no Scheduled Procedure Step Sequence\n", path)
		ok = false
	}

	result := dicom.ValidateWorklist(f.Dataset)
	for _, e := range result.Errors {
		fmt.Fprintf(s.out, "%s: FAIL %v\n", path, e)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(s.out, "%s: WARN %v\n", path, w)
	}
	strict, _ := cmd.Flags().GetBool("strict")
	if !result.IsValid() || (strict && result.HasWarnings()) {
		ok = false
	}
	slog.DebugContext(ctx, "verified worklist",
		slog.String("path", path),
		slog.Bool("ok", ok),
		slog.Int("errors", len(result.Errors)),
		slog.Int("warnings", len(result.Warnings)),
	)
	if ok {
		fmt.Fprintf(s.out, "%s: OK %s %s %s\n", path, dicom.GetPatientID(f.Dataset), dicom.GetAccessionNumber(f.Dataset), dicom.GetModality(f.Dataset))
	}
	return ok
}

// metaMismatches compares the media storage UIDs in the header with the SOP
// Class and Instance UIDs the dataset carries, when it carries them
func metaMismatches(f *dicom.File) []string {
	var out []string
	pairs := []struct{ meta, body tag.Tag }{
		{tag.MediaStorageSOPClassUID, tag.SOPClassUID},
		{tag.MediaStorageSOPInstanceUID, tag.SOPInstanceUID},
	}
	for _, p := range pairs {
		want := f.Dataset.GetString(p.body)
		if want == "" {
			continue
		}
		if got := f.Meta.GetString(p.meta); got != want {
			out = append(out, fmt.Sprintf("meta %s %q does not match %s %q", p.meta.LookupName(), got, p.body.LookupName(), want))
		}
	}
	return out
}
