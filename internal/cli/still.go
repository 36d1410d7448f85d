package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/tear"
	"github.com/gogpu/tear/internal/gpu"
)

type stillOpts struct {
	session  sessionOpts
	progress float64
	index    int
	width    int
	height   int
	output   string
	gpu      bool
}

// stillCommand renders a single frame at a fixed progress.
func (c *CLI) stillCommand() *cobra.Command {
	opts := stillOpts{
		progress: 0.5,
		width:    c.Config.Width,
		height:   c.Config.Height,
		output:   "tear.png",
	}

	cmd := &cobra.Command{
		Use:   "still [images...]",
		Short: "Render one frame of the transition to PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newSession(cmd.Context(), opts.session, args)
			if err != nil {
				return err
			}
			if opts.progress < 0 || opts.progress > 1 {
				return fmt.Errorf("progress %g outside [0, 1]", opts.progress)
			}
			s.params.Progress = opts.progress

			vp := tear.NewViewport(opts.width, opts.height, tear.DefaultCamera())
			if err := vp.Resize(opts.width, opts.height); err != nil {
				return err
			}

			var backend tear.FrameBackend
			if opts.gpu {
				dev, err := c.openGPU()
				if err != nil {
					return fmt.Errorf("open GPU: %w", err)
				}
				defer dev.Close()
				pipe, err := gpu.NewPipeline(dev.Device, dev.Queue)
				if err != nil {
					return err
				}
				defer pipe.Destroy()
				c.Logger.Debug("rendering on GPU", "adapter", dev.Name)
				backend = pipe
			} else {
				r := tear.NewRenderer(tear.WithWorkers(c.Config.Workers))
				defer r.Close()
				backend = r
			}

			dst := tear.NewPixmap(opts.width, opts.height)
			if err := backend.RenderFrame(dst, vp, s.params, s.set.At(opts.index), s.set.At(opts.index+1)); err != nil {
				return err
			}
			if err := dst.SavePNG(opts.output); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Rendered progress %.2f", opts.progress)
			printFile(cmd.OutOrStdout(), opts.output)
			return nil
		},
	}

	c.addSessionFlags(cmd, &opts.session)
	f := cmd.Flags()
	f.Float64VarP(&opts.progress, "progress", "p", opts.progress, "transition progress in [0, 1]")
	f.IntVarP(&opts.index, "index", "i", 0, "index of the outgoing image")
	f.IntVar(&opts.width, "width", opts.width, "output width in pixels")
	f.IntVar(&opts.height, "height", opts.height, "output height in pixels")
	f.StringVarP(&opts.output, "output", "o", opts.output, "output PNG path")
	f.BoolVar(&opts.gpu, "gpu", false, "render with the GPU pipeline")
	return cmd
}
