package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show branches, staged files and working tree changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			st, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if st.Head.Detached() {
				fmt.Fprintf(out, "HEAD detached at %s\n\n", st.Head.Commit.Short())
			}

			fmt.Fprintln(out, "=== Branches ===")
			for _, b := range st.Branches {
				if b.Current {
					fmt.Fprintf(out, "*%s\n", b.Name)
				} else {
					fmt.Fprintln(out, b.Name)
				}
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "=== Staged Files ===")
			for _, p := range st.Staged {
				fmt.Fprintln(out, p)
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "=== Removed Files ===")
			for _, p := range st.Removed {
				fmt.Fprintln(out, p)
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "=== Modifications Not Staged For Commit ===")
			for _, e := range st.Unstaged {
				fmt.Fprintf(out, "%s (%s)\n", e.Path, e.Status)
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, "=== Untracked Files ===")
			for _, p := range st.Untracked {
				fmt.Fprintln(out, p)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
