package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/databroom/databroom/pkg/ops"
)

// listCommand creates the list command showing the operation catalog.
func (c *CLI) listCommand() *cobra.Command {
	var names bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available cleaning operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			descs := c.Registry.Describe()
			if names {
				for _, d := range descs {
					fmt.Fprintln(c.out, d.Name)
				}
				return nil
			}
			fmt.Fprintln(c.out, renderCatalog(descs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&names, "names", false, "print only operation names, one per line")

	return cmd
}

// renderCatalog renders one row per operation with its flag and parameters.
func renderCatalog(descs []ops.Descriptor) string {
	rows := make([][]string, len(descs))
	for i, d := range descs {
		rows[i] = []string{d.Name, "--" + d.Flag, d.Summary, formatParams(d.Params)}
	}

	return lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("OPERATION", "FLAG", "DESCRIPTION", "PARAMETERS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == lgtable.HeaderRow:
				return tableHeaderStyle
			case col == 0:
				return tableCellStyle.Foreground(colorGreen)
			case col == 1 || col == 3:
				return tableCellStyle.Foreground(colorGray)
			}
			return tableCellStyle
		}).
		Render()
}

// formatParams renders parameters as "name=default" or "name (required)".
func formatParams(params []ops.Param) string {
	if len(params) == 0 {
		return "-"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Required {
			parts[i] = fmt.Sprintf("%s:%s (required)", p.Name, p.Kind)
			continue
		}
		parts[i] = fmt.Sprintf("%s=%v", p.Name, p.Default)
	}
	return strings.Join(parts, "\n")
}
