package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"slidecore/internal/library"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presentations in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			entries := s.ed.Library()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No presentations.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tTHEME\tMODIFIED")
			for _, e := range entries {
				modified := time.UnixMilli(e.LastModified).UTC().Format(time.RFC3339)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Title, e.Theme, modified)
			}
			return w.Flush()
		},
	}
}

func newCreateCmd(opts *options) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty presentation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			id, err := s.ed.CreatePresentation(ctx)
			if err != nil {
				return err
			}
			if title != "" {
				s.ed.SetTitle(title)
			}
			if err := s.ed.ClosePresentation(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Presentation title")
	return cmd
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a presentation's settings and slides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.lib.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:      %s\n", p.Meta.Title)
			fmt.Fprintf(out, "Theme:      %s\n", p.Meta.Theme)
			fmt.Fprintf(out, "Transition: %s\n", p.Meta.Transition)
			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\t#\tID\tLAYOUT\tTITLE\tELEMENTS")
			for i, sl := range p.Slides {
				marker := ""
				if sl.ID == p.ActiveSlideID {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%d\n", marker, i, sl.ID, sl.Layout, sl.Content.Title, len(sl.Content.Elements))
			}
			return w.Flush()
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Print or write a presentation's stored JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			text, err := s.ed.ExportPresentation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import an exported presentation (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.ed.ImportPresentation(cmd.Context(), string(data))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newImportMarkdownCmd(opts *options) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "import-md FILE",
		Short: "Create a presentation from a Markdown outline (use - for stdin)",
		Long: `Create a presentation from Markdown. "---" separates slides, "# " sets a
slide title, "## " a subtitle, ![alt](src) adds an image, and other lines
become the slide body.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.ed.ImportMarkdown(cmd.Context(), title, string(data))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Presentation title")
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a presentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, ok := s.lib.Entry(args[0]); !ok {
				return fmt.Errorf("delete %s: %w", args[0], library.ErrNotFound)
			}
			ok, err := s.ed.DeletePresentation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted", args[0])
			return nil
		},
	}
}
