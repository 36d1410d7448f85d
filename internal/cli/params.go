package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/tear"
)

// folderTitle turns a panel folder path such as "Tear/Noisy harmonics"
// into "Tear › Noisy Harmonics".
func folderTitle(folder string) string {
	if folder == "" {
		return "General"
	}
	caser := cases.Title(language.English)
	parts := strings.Split(folder, "/")
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, " › ")
}

func formatValue(info tear.ParamInfo, v float64) string {
	decimals := 0
	if info.Step > 0 && info.Step < 1 {
		decimals = len(strconv.FormatFloat(info.Step, 'f', -1, 64)) - 2
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// paramTable renders every parameter with its value and panel range.
// Row selected is highlighted; pass -1 for none.
func paramTable(p *tear.Params, selected int) string {
	infos := tear.ParamTable()
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{
			folderTitle(info.Folder),
			info.Label,
			formatValue(info, p.Get(info.Param)),
			fmt.Sprintf("%s – %s", formatValue(info, info.Min), formatValue(info, info.Max)),
			info.Uniform,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Folder", "Parameter", "Value", "Range", "Uniform").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case row == selected:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case col == 2:
				return styleNumber
			case col == 4:
				return styleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func printParams(w io.Writer, p *tear.Params) {
	fmt.Fprintln(w, styleTitle.Render("Effect parameters"))
	fmt.Fprintln(w, paramTable(p, -1))
	printKeyValue(w, "outline", p.OutlineColor.String())
}

type paramsOpts struct {
	preset string
	write  string
}

// paramsCommand prints the parameter table and optionally writes a preset.
func (c *CLI) paramsCommand() *cobra.Command {
	var opts paramsOpts

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Show the effect parameters and their ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tear.DefaultParams()
			if path := firstNonEmpty(opts.preset, c.Config.Preset); path != "" {
				loaded, err := tear.LoadPreset(path)
				if err != nil {
					return err
				}
				p = loaded
			}

			out := cmd.OutOrStdout()
			printParams(out, &p)

			if opts.write != "" {
				if err := tear.SavePreset(opts.write, p); err != nil {
					return err
				}
				printSuccess(out, "Saved preset")
				printFile(out, opts.write)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.preset, "preset", "", "TOML preset to show instead of the defaults")
	f.StringVar(&opts.write, "write", "", "save the shown parameters as a TOML preset")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
