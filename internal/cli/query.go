package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDepsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "deps <id>",
		Short: "List what a component or category needs, including itself",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, args[0], func(s *session, ctx context.Context, id string) ([]string, error) {
				return s.res.ResolveDependencies(ctx, id)
			})
		},
	}
}

func newDependantsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "dependants <id>",
		Short: "List what would be unselected along with a component or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, args[0], func(s *session, ctx context.Context, id string) ([]string, error) {
				return s.res.ResolveDependants(ctx, id)
			})
		},
	}
}

func runQuery(cmd *cobra.Command, opts *Options, id string,
	query func(s *session, ctx context.Context, id string) ([]string, error)) error {

	s, err := openSession(opts, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if err := s.load(ctx, nil); err != nil {
		return err
	}
	ids, err := query(s, ctx, id)
	if err != nil {
		return err
	}
	for _, dep := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), dep)
	}
	return nil
}
