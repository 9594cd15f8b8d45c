package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd(opts *options) *cobra.Command {
	var unsplash, giphy string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update asset API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			current, err := s.lib.Settings(ctx)
			if err != nil {
				return err
			}
			changed := false
			if cmd.Flags().Changed("unsplash-key") {
				current.UnsplashKey = unsplash
				changed = true
			}
			if cmd.Flags().Changed("giphy-key") {
				current.GiphyKey = giphy
				changed = true
			}
			if changed {
				if err := s.lib.SaveSettings(ctx, current); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "unsplash-key: %s\n", mask(current.UnsplashKey))
			fmt.Fprintf(out, "giphy-key:    %s\n", mask(current.GiphyKey))
			return nil
		},
	}
	cmd.Flags().StringVar(&unsplash, "unsplash-key", "", "Set the Unsplash API key")
	cmd.Flags().StringVar(&giphy, "giphy-key", "", "Set the Giphy API key")
	return cmd
}

// mask hides all but the last four characters of a key.
func mask(key string) string {
	switch {
	case key == "":
		return "(unset)"
	case len(key) <= 4:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}
