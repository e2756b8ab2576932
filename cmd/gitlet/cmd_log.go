package main

import (
	"fmt"
	"io"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

const logDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

func newLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history from HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			n := 0
			for entry, err := range r.Log() {
				if err != nil {
					return err
				}
				if limit > 0 && n >= limit {
					break
				}
				printLogEntry(out, entry)
				n++
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "max-count", "n", 0, "limit the number of commits shown (0 shows all)")

	return cmd
}

func newGlobalLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "global-log",
		Short: "Show every commit ever made",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for entry, err := range r.GlobalLog() {
				if err != nil {
					return err
				}
				printLogEntry(out, entry)
			}
			return nil
		},
	}
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <message>",
		Short: "Print the ids of commits with the given message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			ids, err := r.Find(args[0])
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func printLogEntry(w io.Writer, e repo.LogEntry) {
	fmt.Fprintln(w, "===")
	fmt.Fprintf(w, "commit %s\n", e.ID)
	fmt.Fprintf(w, "Date: %s\n", e.Time().Format(logDateLayout))
	fmt.Fprintln(w, e.Message)
	fmt.Fprintln(w)
}
