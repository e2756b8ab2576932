package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var hash string
	var branch string

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			algo, err := object.ParseAlgorithm(hash)
			if err != nil {
				return err
			}
			r, err := repo.InitWithOptions(path, repo.InitOptions{
				Hash:          algo,
				DefaultBranch: branch,
				UserName:      os.Getenv("USER"),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty gitlet repository in %s\n", r.GitletDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&hash, "hash", string(object.DefaultAlgorithm), "object id algorithm (sha256, sha1, blake2b, xxh3)")
	cmd.Flags().StringVarP(&branch, "initial-branch", "b", "", "name of the initial branch (default master)")

	return cmd
}
