package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"slidecore/internal/editor"
	"slidecore/pkg/deck"
)

func newThemeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Change a presentation's theme",
	}
	cmd.AddCommand(
		newThemeSetCmd(opts),
		newThemePresetCmd(opts),
		newThemeRandomCmd(opts),
		newThemePresetsCmd(),
	)
	return cmd
}

func newThemeSetCmd(opts *options) *cobra.Command {
	var transition string
	cmd := &cobra.Command{
		Use:   "set DECK NAME",
		Short: "Select a named theme (default, dark, ocean, sunset, custom)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.withDeck(cmd.Context(), args[0], func(ed *editor.Editor) error {
				if !ed.SetTheme(deck.ThemeName(args[1])) {
					return fmt.Errorf("unknown theme %q", args[1])
				}
				if transition != "" && !ed.SetTransition(deck.Transition(transition)) {
					return fmt.Errorf("unknown transition %q", transition)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&transition, "transition", "", "Also set the transition (none, fade, slide, zoom)")
	return cmd
}

func newThemePresetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "preset DECK NAME",
		Short: "Apply a preset palette",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.withDeck(cmd.Context(), args[0], func(ed *editor.Editor) error {
				if !ed.ApplyPreset(args[1]) {
					return fmt.Errorf("unknown preset %q", args[1])
				}
				return nil
			})
		},
	}
}

func newThemeRandomCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "random DECK",
		Short: "Generate a random palette",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.withDeck(cmd.Context(), args[0], func(ed *editor.Editor) error {
				t := ed.RandomizeTheme()
				fmt.Fprintf(cmd.OutOrStdout(), "bg %s  text %s  primary %s  secondary %s  accent %s  font %s\n",
					t.Bg, t.Text, t.Primary, t.Secondary, t.Accent, t.Font)
				return nil
			})
		},
	}
}

func newThemePresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List preset palettes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBG\tTEXT\tPRIMARY\tACCENT\tFONT")
			for _, p := range deck.Presets() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Name, p.Bg, p.Text, p.Primary, p.Accent, p.Font)
			}
			return w.Flush()
		},
	}
}
