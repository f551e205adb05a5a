package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"compgrip/internal/coordinator"
	"compgrip/internal/ui/views"
)

// runForm is swapped in tests
var runForm = func(ctx context.Context, form *huh.Form) error { return form.RunWithContext(ctx) }

// promptConfirmer asks on the terminal. Esc and ctrl+c count as no.
type promptConfirmer struct {
	declined bool
}

func (p *promptConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	err := runForm(ctx, form)
	if errors.Is(err, huh.ErrUserAborted) {
		err, ok = nil, false
	}
	if err != nil {
		return false, err
	}
	p.declined = !ok
	return ok, nil
}

func newUnselectCommand(opts *Options) *cobra.Command {
	var (
		selections []string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "unselect <id>",
		Short: "Unselect a component or category and everything that depends on it",
		Long: `Select the --select list, then unselect <id>. When selected components
depend on <id> you are asked before they are unselected too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := &promptConfirmer{}
			var gate coordinator.Confirmer = prompt
			if yes {
				gate = coordinator.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
					log.Printf("Unselect: assumed yes: %s", message)
					return true, nil
				})
			}

			s, err := openSession(opts, gate)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if err := s.load(ctx, selections); err != nil {
				return err
			}

			id := args[0]
			if err := s.coord.Unselect(ctx, id); err != nil {
				return err
			}
			s.sync()

			out := cmd.OutOrStdout()
			if prompt.declined {
				fmt.Fprintf(out, "Kept %s selected\n", id)
			}
			fmt.Fprint(out, views.RenderTree(s.coord.Snapshot()))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&selections, "select", nil, "components or categories to select first")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "unselect dependants without asking")
	return cmd
}
