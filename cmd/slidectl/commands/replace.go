package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"slidecore/internal/editor"
)

func newReplaceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "replace DECK FIND REPLACEMENT",
		Short: "Replace text across every slide",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			var n int
			err = s.withDeck(cmd.Context(), args[0], func(ed *editor.Editor) error {
				n = ed.ReplaceText(args[1], args[2])
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Replaced %d occurrence(s).\n", n)
			return nil
		},
	}
}
