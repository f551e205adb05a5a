package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"compgrip/internal/ui/views"
)

func newTreeCommand(opts *Options) *cobra.Command {
	var selections []string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the component tree with selection markers",
		Long: `Print every category and component with its state:
[x] selected, [-] partly selected, [ ] not selected, [#] required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.load(cmd.Context(), selections); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), views.RenderTree(s.coord.Snapshot()))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&selections, "select", nil, "components or categories to select first")
	return cmd
}
