package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/gogpu/tear"
)

// halfBlock paints the upper pixel as foreground, the lower as background.
const halfBlock = '▀'

// terminalPlayer shows a Player on a truecolor terminal, two pixels per
// cell.
type terminalPlayer struct {
	screen  tcell.Screen
	player  *tear.Player
	pressed bool // mouse button state, for edge-triggered clicks
}

func newTerminalPlayer(screen tcell.Screen, s *session, introDelay time.Duration) *terminalPlayer {
	cols, rows := screen.Size()
	player := tear.NewPlayer(s.params, s.set, max(cols, 1), max(rows*2, 1),
		tear.WithIntroDelay(introDelay),
		tear.WithPixelOverlay(false),
		tear.WithControllerOptions(s.ctrl...),
	)
	return &terminalPlayer{screen: screen, player: player}
}

// handleEvent applies one terminal event. It reports false when the
// player should exit.
func (tp *terminalPlayer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			tp.player.Trigger()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				tp.player.Trigger()
			case 'd':
				tp.player.ToggleOverlay()
			}
		}
	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !tp.pressed {
			tp.player.Trigger()
		}
		tp.pressed = down
	case *tcell.EventResize:
		cols, rows := ev.Size()
		if err := tp.player.Resize(cols, rows*2); err != nil {
			tear.Logger().Debug("resize ignored", "err", err)
		}
		tp.screen.Sync()
	}
	return true
}

// tick advances the player by dt and draws the frame.
func (tp *terminalPlayer) tick(dt time.Duration) {
	frame := tp.player.Tick(dt)
	w, h := frame.Width(), frame.Height()
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := cellColor(frame.GetPixel(x, y))
			bottom := cellColor(frame.GetPixel(x, y+1))
			tp.screen.SetContent(x, y/2, halfBlock, nil,
				tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
	if tp.player.OverlayVisible() {
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
		for row, line := range tp.player.OverlayLines() {
			for col, r := range line {
				tp.screen.SetContent(col, row, r, nil, style)
			}
		}
	}
	tp.screen.Show()
}

// cellColor flattens a pixel onto black.
func cellColor(c tear.RGBA) tcell.Color {
	n := tear.RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: 1}.NRGBA()
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}

// run drives the player at fps until a quit key or ctx is done.
func (tp *terminalPlayer) run(ctx context.Context, fps int) {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := tp.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || !tp.handleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			tp.tick(now.Sub(last))
			last = now
		}
	}
}

// playCommand plays the transition in the terminal.
func (c *CLI) playCommand() *cobra.Command {
	var opts sessionOpts
	fps := c.Config.FPS

	cmd := &cobra.Command{
		Use:   "play [images...]",
		Short: "Play the transition in a truecolor terminal",
		Long: `Play the transition in the terminal using half-block cells.

Click, space or enter tears to the next image, d toggles the debug
overlay, q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps <= 0 {
				return fmt.Errorf("fps %d must be positive", fps)
			}
			s, err := c.newSession(cmd.Context(), opts, args)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			return c.playOn(cmd.Context(), screen, s, fps)
		},
	}

	c.addSessionFlags(cmd, &opts)
	cmd.Flags().IntVar(&fps, "fps", fps, "frames per second")
	return cmd
}

// playOn takes over screen until the player quits. The terminal is
// restored even if rendering panics.
func (c *CLI) playOn(ctx context.Context, screen tcell.Screen, s *session, fps int) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	tp := newTerminalPlayer(screen, s, c.Config.IntroDelay)
	defer tp.player.Close()

	tp.run(ctx, fps)
	return ctx.Err()
}
