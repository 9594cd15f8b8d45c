package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"slidecore/internal/editor"
	"slidecore/pkg/deck"
)

func newSlideCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slide",
		Short: "Add, remove and move slides",
	}
	cmd.AddCommand(newSlideAddCmd(opts), newSlideRemoveCmd(opts), newSlideMoveCmd(opts))
	return cmd
}

func newSlideAddCmd(opts *options) *cobra.Command {
	var layout, after, title string
	cmd := &cobra.Command{
		Use:   "add DECK",
		Short: "Add a slide after the active slide (or --after SLIDE)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := deck.Layout(layout)
			if l != "" && !l.Known() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: unknown layout %q, using title-body defaults\n", layout)
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			var id string
			err = s.withDeck(cmd.Context(), args[0], func(ed *editor.Editor) error {
				if after != "" && !ed.SetActiveSlide(after) {
					return fmt.Errorf("slide %s not found", after)
				}
				id = ed.AddSlide(l)
				if title != "" {
					ed.UpdateSlideContent(id, editor.ContentPatch{Title: &title})
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&layout, "layout", "l", string(deck.LayoutTitleBody), "Slide layout")
	cmd.Flags().StringVar(&after, "after", "", "Insert after this slide id")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Slide title")
	return cmd
}

func newSlideRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm DECK SLIDE",
		Short: "Remove a slide",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.withDeck(cmd.Context(), args[0], func(ed *editor.Editor) error {
				if len(ed.Slides()) <= 1 {
					return errors.New("cannot remove the last slide")
				}
				if !ed.DeleteSlide(args[1]) {
					return fmt.Errorf("slide %s not found", args[1])
				}
				return nil
			})
		},
	}
}

func newSlideMoveCmd(opts *options) *cobra.Command {
	var (
		to       int
		up, down bool
	)
	cmd := &cobra.Command{
		Use:   "mv DECK SLIDE (--to N | --up | --down)",
		Short: "Move a slide",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			toSet := cmd.Flags().Changed("to")
			n := 0
			for _, set := range []bool{toSet, up, down} {
				if set {
					n++
				}
			}
			if n != 1 {
				return errors.New("exactly one of --to, --up or --down is required")
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.withDeck(cmd.Context(), args[0], func(ed *editor.Editor) error {
				var moved bool
				switch {
				case toSet:
					moved = ed.ReorderSlide(args[1], to)
				case up:
					moved = ed.MoveSlide(args[1], editor.Up)
				default:
					moved = ed.MoveSlide(args[1], editor.Down)
				}
				if !moved {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to move.")
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&to, "to", 0, "Target position (0-based, clamped)")
	cmd.Flags().BoolVar(&up, "up", false, "Move one position up")
	cmd.Flags().BoolVar(&down, "down", false, "Move one position down")
	return cmd
}
