package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"compgrip/internal/resolver"
)

func newPlanCommand(opts *Options) *cobra.Command {
	var (
		selections []string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Select components and print what would be installed",
		Long: `Select the given components or categories, pulling in their dependencies,
and print the install plan. Required components are always part of the plan.`,
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
			plan := s.res.Plan()
			if asJSON {
				return writePlanJSON(cmd.OutOrStdout(), plan)
			}
			fmt.Fprint(cmd.OutOrStdout(), plan.String())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&selections, "select", nil, "components or categories to select")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}

func writePlanJSON(w io.Writer, plan resolver.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}
