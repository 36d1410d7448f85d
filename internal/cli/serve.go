package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/gogpu/tear"
)

// maxServeSide bounds the frame size a request may ask for.
const maxServeSide = 4096

// previewServer renders frames on request. Every request works on its
// own copy of the base parameters.
type previewServer struct {
	base     tear.Params
	set      *tear.TextureSet
	renderer *tear.Renderer
	width    int
	height   int
}

// paramJSON is one row of GET /params.
type paramJSON struct {
	Name    string  `json:"name"`
	Uniform string  `json:"uniform"`
	Folder  string  `json:"folder,omitempty"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
}

func (s *previewServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/frame.png", s.handleFrame)
	r.Get("/params", s.handleParams)
	r.Get("/shader.wgsl", s.handleShader)
	return r
}

// handleFrame renders one PNG. Query: progress, i (outgoing image), w, h
// and any parameter name from GET /params.
func (s *previewServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := s.base
	width, height, index := s.width, s.height, 0

	for key, values := range q {
		if len(values) == 0 {
			continue
		}
		raw := values[0]
		var err error
		switch key {
		case "w":
			width, err = parseSide(raw)
		case "h":
			height, err = parseSide(raw)
		case "i":
			index, err = strconv.Atoi(raw)
		default:
			param, ok := tear.LookupParam(key)
			if !ok {
				http.Error(w, fmt.Sprintf("unknown parameter %q", key), http.StatusBadRequest)
				return
			}
			var v float64
			if v, err = strconv.ParseFloat(raw, 64); err == nil {
				p.Set(param, param.Info().Clamp(v))
			}
		}
		if err != nil {
			http.Error(w, fmt.Sprintf("%s: %v", key, err), http.StatusBadRequest)
			return
		}
	}

	// Clamp passes NaN through.
	p = p.Sanitized()

	vp := tear.NewViewport(width, height, tear.DefaultCamera())
	dst := tear.NewPixmap(width, height)
	s.renderer.Render(dst, vp, &p, s.set.At(index), s.set.At(index+1))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := dst.EncodePNG(w); err != nil {
		tear.Logger().Warn("encode frame", "err", err)
	}
}

func parseSide(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > maxServeSide {
		return 0, fmt.Errorf("%d outside [1, %d]", n, maxServeSide)
	}
	return n, nil
}

func (s *previewServer) handleParams(w http.ResponseWriter, r *http.Request) {
	infos := tear.ParamTable()
	out := make([]paramJSON, len(infos))
	for i, info := range infos {
		out[i] = paramJSON{
			Name:    info.Name,
			Uniform: info.Uniform,
			Folder:  info.Folder,
			Label:   info.Label,
			Value:   s.base.Get(info.Param),
			Min:     info.Min,
			Max:     info.Max,
			Step:    info.Step,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		tear.Logger().Warn("encode params", "err", err)
	}
}

func (s *previewServer) handleShader(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/wgsl; charset=utf-8")
	_, _ = w.Write([]byte(tear.ShaderSource()))
}

// serveCommand runs the preview server until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var opts sessionOpts
	addr := c.Config.Addr

	cmd := &cobra.Command{
		Use:   "serve [images...]",
		Short: "Serve rendered frames over HTTP",
		Long: `Serve rendered frames over HTTP.

  GET /frame.png?progress=0.4&i=0&w=800&h=600
  GET /params
  GET /shader.wgsl

Any parameter name from /params may be passed to /frame.png to override it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newSession(cmd.Context(), opts, args)
			if err != nil {
				return err
			}
			r := tear.NewRenderer(tear.WithWorkers(c.Config.Workers))
			defer r.Close()

			ps := &previewServer{
				base:     *s.params,
				set:      s.set,
				renderer: r,
				width:    c.Config.Width,
				height:   c.Config.Height,
			}
			return c.listen(cmd.Context(), addr, ps.routes())
		},
	}

	c.addSessionFlags(cmd, &opts)
	cmd.Flags().StringVar(&addr, "addr", addr, "listen address")
	return cmd
}

// listen serves h on addr and shuts down when ctx is done.
func (c *CLI) listen(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	c.Logger.Info("serving", "addr", "http://"+addr)

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return ctx.Err()
}
