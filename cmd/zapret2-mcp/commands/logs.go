package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/ui/output"
	"go.trai.ch/zapret/internal/ui/style"
)

func (c *CLI) newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect saved operation logs",
	}
	cmd.AddCommand(c.newLogsListCmd())
	cmd.AddCommand(c.newLogsShowCmd())
	return cmd
}

func (c *CLI) newLogsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "list [category]",
		Short:     "List saved logs, oldest first",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: categoryNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var category domain.LogCategory
			if len(args) == 1 {
				parsed, err := domain.ParseLogCategory(args[0])
				if err != nil {
					return err
				}
				category = parsed
			}

			entries, err := c.app.ListLogs(category)
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			out := output.New(cmd.OutOrStdout())
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, "No logs saved yet")
				return nil
			}
			for _, e := range entries {
				name := out.String(fmt.Sprintf("%-32s", e.Name())).Foreground(termenv.RGBColor(string(style.Iris)))
				line := fmt.Sprintf("%s %8d B", name, e.Size)
				if meta := e.MetaString(); meta != "" {
					line += "  " + out.String(meta).Foreground(termenv.RGBColor(string(style.Slate))).String()
				}
				_, _ = fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print entries as JSON")
	return cmd
}

func (c *CLI) newLogsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <category> <timestamp> | show <uri>",
		Short: "Print one saved log",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				category domain.LogCategory
				ts       string
				err      error
			)
			if len(args) == 1 {
				category, ts, err = domain.ParseLogURI(args[0])
			} else {
				category, err = domain.ParseLogCategory(args[0])
				ts = args[1]
			}
			if err != nil {
				return err
			}

			content, err := c.app.ReadLog(category, ts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), content)
			if !strings.HasSuffix(content, "\n") {
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func categoryNames() []string {
	names := make([]string, len(domain.LogCategories))
	for i, c := range domain.LogCategories {
		names[i] = string(c)
	}
	return names
}
