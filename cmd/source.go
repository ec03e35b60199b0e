package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"circle-route/storage"

	"github.com/spf13/cobra"
)

func sourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Manage the wish list backend",
	}

	cmd.AddCommand(sourceSetCmd())
	cmd.AddCommand(sourceShowCmd())
	cmd.AddCommand(sourceClearCmd())
	cmd.AddCommand(sourceSheetsCmd())
	return cmd
}

func sourceSetCmd() *cobra.Command {
	var sheets string

	cmd := &cobra.Command{
		Use:   "set <url>",
		Short: "Save the backend URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.TrimSpace(args[0])
			parsed, err := url.Parse(raw)
			if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
				return fmt.Errorf("invalid URL %q (expected http(s)://...)", raw)
			}

			source := storage.Source{
				BaseURL: raw,
				Sheets:  storage.ParseSheets(sheets),
			}
			if err := storage.SaveSource(&source); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, source)
			}
			fmt.Fprintf(out, "Saved source %s.\n", source.BaseURL)
			if len(source.Sheets) > 0 {
				fmt.Fprintf(out, "Sheets: %s\n", strings.Join(source.Sheets, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheets, "sheets", "", "Comma separated sheet names to fetch")
	return cmd
}

func sourceShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := storage.LoadSource()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, source)
			}
			if source == nil {
				fmt.Fprintln(out, "No source saved.")
				return nil
			}
			fmt.Fprintf(out, "URL: %s\n", source.BaseURL)
			if len(source.Sheets) > 0 {
				fmt.Fprintf(out, "Sheets: %s\n", strings.Join(source.Sheets, ", "))
			} else {
				fmt.Fprintln(out, "Sheets: (backend default)")
			}
			if source.SavedAt != "" {
				fmt.Fprintf(out, "Saved: %s\n", source.SavedAt)
			}
			return nil
		},
	}

	return cmd
}

func sourceClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.ClearSource(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Source cleared.")
			return nil
		},
	}

	return cmd
}

func sourceSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "List the sheets the backend offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, source, err := requireClient()
			if err != nil {
				return err
			}

			sheets, err := client.FetchSheets(commandContext(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, sheets)
			}
			if len(sheets) == 0 {
				fmt.Fprintln(out, "No sheets found.")
				return nil
			}
			selected := map[string]bool{}
			for _, sheet := range source.Sheets {
				selected[sheet] = true
			}
			writer := newTable(out)
			if !outputCompact {
				fmt.Fprintln(writer, "SHEET\tSELECTED")
			}
			for _, sheet := range sheets {
				mark := ""
				if selected[sheet] {
					mark = "yes"
				}
				fmt.Fprintf(writer, "%s\t%s\n", sheet, mark)
			}
			return writer.Flush()
		},
	}

	return cmd
}
