package main

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transcripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			transcripts, err := a.client.ListTranscripts(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(transcripts) == 0 {
				fmt.Fprintln(out, "No transcripts yet")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDATE\tDURATION")
			for _, t := range transcripts {
				duration := "-"
				if t.HasDuration() {
					duration = fmt.Sprintf("%d min", t.DurationMinutes())
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.DisplayName(), t.DisplayDate(), duration)
			}
			return tw.Flush()
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.client.GetTranscript(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, t.DisplayName())
			if date := t.DisplayDate(); date != "" {
				fmt.Fprintf(out, "Date: %s\n", date)
			}
			if t.HasDuration() {
				fmt.Fprintf(out, "Duration: %d minutes\n", t.DurationMinutes())
			}
			fmt.Fprintln(out)

			if t.Text == "" {
				fmt.Fprintln(out, "No transcript content available")
				return nil
			}
			fmt.Fprintln(out, t.Text)
			return nil
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transcript",
		Long: `Delete a transcript.

You are asked to confirm unless --yes is given. Declining sends nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			out := cmd.OutOrStdout()

			if !yes {
				fmt.Fprintf(out, "Are you sure you want to delete transcript %s? [y/N]: ", id)

				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if reply := strings.ToLower(strings.TrimSpace(answer)); reply != "y" && reply != "yes" {
					fmt.Fprintln(out, "Cancelled")
					return nil
				}
			}

			if err := a.client.DeleteTranscript(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(out, "Deleted transcript %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")

	return cmd
}
