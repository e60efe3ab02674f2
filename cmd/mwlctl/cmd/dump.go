package cmd

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"

	"github.com/jpfielding/worklist.go/pkg/dicom"
	"github.com/jpfielding/worklist.go/pkg/dicom/transfer"
	"github.com/spf13/cobra"
)

// NewDumpCmd prints a worklist file as text or JSON
func NewDumpCmd(ctx context.Context, s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "print a worklist file",
		Long:  "Decodes a Part 10 worklist file or bare dataset stream from a path, stdin (-) or http(s) URL and prints it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, _ := cmd.Flags().GetString("uri")
			if uri == "" && len(args) > 0 {
				uri = args[0]
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			f, err := readWorklist(ctx, cmd, uri, verbose)
			if err != nil {
				return err
			}
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "text": // Dataset will nicely print the DICOM dataset data out of the box.
				if f.HasMeta() {
					fmt.Fprintf(s.out, "# File Meta Information (%s)\n", f.TransferSyntax.Name())
					fmt.Fprint(s.out, f.Meta)
					fmt.Fprintln(s.out, "# Dataset")
				}
				fmt.Fprint(s.out, f.Dataset)
			default: // Dataset is also JSON serializable out of the box.
				j, err := json.Marshal(struct {
					TransferSyntax string          `json:"transferSyntax"`
					Meta           *dicom.Dataset `json:"meta,omitempty"`
					Dataset        *dicom.Dataset `json:"dataset"`
				}{f.TransferSyntax.UID(), f.Meta, f.Dataset})
				if err != nil {
					return err
				}
				s.out.Write(j)
				fmt.Fprintln(s.out)
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("uri", "u", "", "worklist file path, - for stdin, or http(s) URL")
	pf.StringP("format", "f", "text", "output format (text|json)")
	pf.StringP("transfer-syntax", "t", "implicit", "syntax of bare dataset streams without a Part 10 header")
	pf.BoolP("verbose", "v", false, "dump http request and response headers to stderr")
	return cmd
}

// readWorklist loads uri and parses it, detecting the Part 10 header
func readWorklist(ctx context.Context, cmd *cobra.Command, uri string, verbose bool) (*dicom.File, error) {
	if uri == "" {
		return nil, fmt.Errorf("file path is required. Use --uri flag or provide as argument")
	}
	fallbackFlag, _ := cmd.Flags().GetString("transfer-syntax")
	fallback, err := transfer.Parse(fallbackFlag)
	if err != nil {
		return nil, err
	}

	var in io.Reader
	uri = strings.TrimPrefix(uri, "file://")
	switch {
	case uri == "-":
		in = cmd.InOrStdin()
	case strings.HasPrefix(uri, "http"):
		// worklist SCPs on a private network commonly use self-signed certificates
		cl := &http.Client{
			Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %v", err)
		}
		resp, err := cl.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to download: %v", err)
		}
		defer resp.Body.Close()
		if verbose {
			reqDump, _ := httputil.DumpRequest(req, true)
			os.Stderr.Write(reqDump)
			resDump, _ := httputil.DumpResponse(resp, false)
			os.Stderr.Write(resDump)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to download: %s", resp.Status)
		}
		in = resp.Body
	default:
		return dicom.ReadFile(uri, fallback)
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, &dicom.IOError{Op: "read", Path: uri, Err: err}
	}
	return dicom.Parse(data, fallback)
}
