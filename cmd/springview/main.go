package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gekko3d/springview"
	"github.com/gekko3d/springview/assets"
	"github.com/gekko3d/springview/config"
	"github.com/gekko3d/springview/control"
	"github.com/gekko3d/springview/render"
)

func main() {
	configPath := flag.String("config", "", "YAML config file, watched for changes")
	model := flag.String("model", "", "glTF/GLB model to load (default: built-in demo room)")
	gridMode := flag.Bool("grid", false, "show the animated grid instead of a model")
	listen := flag.String("listen", "", "control websocket address, e.g. 127.0.0.1:7070")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	if err := run(*configPath, *model, *gridMode, *listen, *debug); err != nil {
		fmt.Fprintln(os.Stderr, "springview:", err)
		os.Exit(1)
	}
}

func run(configPath, model string, gridMode bool, listen string, debug bool) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if model != "" {
		cfg.Model = model
	}
	if listen != "" {
		cfg.Control.Listen = listen
	}
	cfg.Log.Debug = cfg.Log.Debug || debug
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	win, err := render.NewWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if err != nil {
		return err
	}
	defer win.Destroy()

	presenter, err := render.NewPresenter(win)
	if err != nil {
		return err
	}
	defer presenter.Release()

	opts := []springview.Option{springview.WithRenderer(presenter), springview.WithWindow(win)}
	if gridMode {
		opts = append(opts, springview.WithGridMode())
	}
	viewer := springview.NewViewer(cfg, opts...)
	defer viewer.Close()
	log := viewer.Logger()

	if !gridMode {
		loader, path := modelLoader(cfg, log)
		loaded := viewer.LoadAsync(ctx, loader, path)
		if err := waitLoad(ctx, win, loaded); err != nil {
			return err
		}
	}

	if cfg.Control.Listen != "" {
		srv := control.NewServer(viewer.Queue(), log)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Control.Listen); err != nil {
				log.Errorf("control: %v", err)
			}
		}()
	}
	if configPath != "" {
		go func() {
			if err := config.Watch(ctx, configPath, log, func(c config.Config) { _ = viewer.Reload(c) }); err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("config watch: %v", err)
			}
		}()
	}

	for !win.ShouldClose() && ctx.Err() == nil {
		win.PollEvents()
		if err := viewer.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// modelLoader treats a bare name as a built-in procedural model and anything that looks
// like a path as a glTF file.
func modelLoader(cfg config.Config, log springview.Logger) (assets.Loader, string) {
	path := cfg.Model
	if path == "" || !strings.ContainsAny(path, "./") {
		p := assets.NewProcedural()
		if len(cfg.Static.Keywords) > 0 {
			p.StaticKeywords = cfg.Static.Keywords
		}
		if path == "" {
			path = "demo"
		}
		return p, path
	}
	gl := assets.NewGLTFLoader(cfg.Static.Keywords)
	gl.Log = log
	return gl, path
}

// waitLoad keeps the window responsive until the model is decoded.
func waitLoad(ctx context.Context, win *render.Window, loaded <-chan error) error {
	for {
		select {
		case err := <-loaded:
			return err
		case <-ctx.Done():
			return ctx.Err()
		default:
			win.PollEvents()
			if win.ShouldClose() {
				return errors.New("window closed while loading")
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}
