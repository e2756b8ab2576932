package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	var detach bool

	cmd := &cobra.Command{
		Use:   "checkout <branch> | -- <file> | <commit> -- <file> | --detach <commit>",
		Short: "Restore a file, or switch to a branch or commit",
		Long: `Restore files or switch the working tree.

  checkout -- <file>            restore <file> from the current commit
  checkout <commit> -- <file>   restore <file> from <commit>
  checkout <branch>             switch to <branch>
  checkout --detach <commit>    switch to <commit> with a detached HEAD`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch dash := cmd.ArgsLenAtDash(); {
			case dash == 0 && len(args) == 1:
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				return r.CheckoutFile(abs)

			case dash == 1 && len(args) == 2:
				abs, err := filepath.Abs(args[1])
				if err != nil {
					return err
				}
				return r.CheckoutFileFromCommit(args[0], abs)

			case dash < 0 && len(args) == 1 && detach:
				if err := r.CheckoutCommit(args[0]); err != nil {
					return err
				}
				head, err := r.Head()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "HEAD is now at %s\n", head.Commit.Short())
				return nil

			case dash < 0 && len(args) == 1:
				if err := r.CheckoutBranch(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "switched to branch '%s'\n", args[0])
				return nil
			}
			return fmt.Errorf("incorrect operands; see 'gitlet checkout --help'")
		},
	}

	cmd.Flags().BoolVar(&detach, "detach", false, "check out a commit with a detached HEAD")

	return cmd
}
