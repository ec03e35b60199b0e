package cmd

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"circle-route/booth"
	"circle-route/storage"

	"github.com/spf13/cobra"
)

func layoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect or customise the venue layout",
	}

	cmd.AddCommand(layoutShowCmd())
	cmd.AddCommand(layoutInitCmd())
	return cmd
}

func layoutShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the zones in match order",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, custom, err := storage.LoadLayout()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, layout)
			}
			if !outputCompact {
				source := "built-in"
				if custom {
					if path, err := storage.LayoutPath(); err == nil {
						source = path
					}
				}
				fmt.Fprintf(out, "Layout: %s\n", source)
			}
			writer := newTable(out)
			if !outputCompact {
				fmt.Fprintln(writer, "ID\tNAME\tHALL\tROWS")
			}
			for _, zone := range layout.Zones {
				fmt.Fprintf(writer, "%s\t%s\t%c\t%s\n", zone.ID, zone.Name, zone.Hall(), rowSummary(zone))
			}
			return writer.Flush()
		},
	}

	return cmd
}

func rowSummary(zone booth.Zone) string {
	count := utf8.RuneCountInString(zone.Rows)
	if count <= 12 {
		return zone.Rows
	}
	first, _ := utf8.DecodeRuneInString(zone.Rows)
	last, _ := utf8.DecodeLastRuneInString(zone.Rows)
	return fmt.Sprintf("%c..%c (%d)", first, last, count)
}

func layoutInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in layout to layout.yaml for editing",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := storage.SaveLayout(booth.DefaultLayout(), force)
			if errors.Is(err, storage.ErrLayoutExists) {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing layout file")
	return cmd
}
