package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
	"github.com/spf13/cobra"
)

func newUploadCommand(a *app) *cobra.Command {
	var name, date string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a recording for transcription",
		Long: `Upload an audio or video recording for transcription.

The file, --name and --date are all required and checked in that order before
anything is sent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &sdk.TranscribeRequest{Name: name, Date: date}

			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening recording: %w", err)
				}
				defer f.Close()

				req.File = f
				req.Filename = filepath.Base(args[0])
			}

			if err := req.Validate(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uploading %s, this can take a while...\n", req.Filename)

			res, err := a.client.Transcribe(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created transcript %s\n", res.ID)
			if res.Detail != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Detail)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the transcript")
	cmd.Flags().StringVar(&date, "date", "", "Date of the recording (YYYY-MM-DD)")

	return cmd
}
