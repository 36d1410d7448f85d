package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gogpu/tear"
)

// =============================================================================
// TuneModel - Interactive parameter panel
// =============================================================================

// TuneModel is the bubbletea model of the tuning panel. Each row is one
// ParamTable entry; left/right step the value within its range.
type TuneModel struct {
	Params *tear.Params
	Cursor int
	Path   string // preset written by "s"
	Saved  bool
	Err    error
	Status string
}

// NewTuneModel creates a panel editing p.
func NewTuneModel(p *tear.Params, path string) TuneModel {
	return TuneModel{Params: p, Path: path}
}

func (m TuneModel) Init() tea.Cmd {
	return nil
}

func (m TuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	info := tear.Param(m.Cursor).Info()
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < int(tear.ParamCount)-1 {
			m.Cursor++
		}
	case "left", "h":
		m.step(info, -1)
	case "right", "l":
		m.step(info, 1)
	case "shift+left", "H":
		m.step(info, -10)
	case "shift+right", "L":
		m.step(info, 10)
	case "r":
		*m.Params = tear.DefaultParams()
		m.Status = "reset to defaults"
	case "s":
		if err := tear.SavePreset(m.Path, *m.Params); err != nil {
			m.Err = err
			m.Status = err.Error()
		} else {
			m.Saved = true
			m.Status = "saved " + m.Path
		}
	}
	return m, nil
}

func (m *TuneModel) step(info tear.ParamInfo, n float64) {
	v := m.Params.Get(info.Param) + n*info.Step
	m.Params.Set(info.Param, info.Clamp(v))
	m.Status = ""
}

func (m TuneModel) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Tear parameters"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓ select  ←/→ adjust  shift ×10  r reset  s save  q quit"))
	b.WriteString("\n\n")
	b.WriteString(paramTable(m.Params, m.Cursor))
	b.WriteString("\n")
	if m.Status != "" {
		b.WriteString(styleDim.Render(m.Status))
		b.WriteString("\n")
	}
	return b.String()
}

// tuneCommand opens the tuning panel.
func (c *CLI) tuneCommand() *cobra.Command {
	var preset, output string

	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Edit the effect parameters in an interactive panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tear.DefaultParams()
			if path := firstNonEmpty(preset, c.Config.Preset); path != "" {
				loaded, err := tear.LoadPreset(path)
				if err != nil {
					return err
				}
				p = loaded
			}
			if output == "" {
				output = firstNonEmpty(preset, c.Config.Preset, appName+".toml")
			}

			prog := tea.NewProgram(NewTuneModel(&p, output), tea.WithContext(cmd.Context()))
			final, err := prog.Run()
			if err != nil {
				return fmt.Errorf("tuning panel: %w", err)
			}
			if fm, ok := final.(TuneModel); ok && fm.Saved {
				printSuccess(cmd.OutOrStdout(), "Saved preset")
				printFile(cmd.OutOrStdout(), fm.Path)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "TOML preset to start from")
	f.StringVarP(&output, "output", "o", "", "preset path written by the save key")
	return cmd
}
