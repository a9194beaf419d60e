package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fkcurrie/olympics-countdown-led/internal/config"
	"github.com/fkcurrie/olympics-countdown-led/internal/display"
	appLog "github.com/fkcurrie/olympics-countdown-led/internal/log"
	"github.com/fkcurrie/olympics-countdown-led/internal/olympics"
	"github.com/fkcurrie/olympics-countdown-led/internal/plugin"
	"github.com/fkcurrie/olympics-countdown-led/internal/types"
	"github.com/fkcurrie/olympics-countdown-led/internal/web"
	"github.com/fkcurrie/olympics-countdown-led/pkg/hub75"
)

// flagConfig holds CLI flag values
type flagConfig struct {
	configPath string
	listen     string
	once       bool
	dump       string
	hub75      bool
	exportICS  string
}

func main() {
	flags := parseFlags()

	if err := run(flags); err != nil {
		appLog.Error("olympics-countdown failed", err)
		os.Exit(1)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to config file (JSON or YAML)")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address for status and preview, e.g. :8080")
	flag.BoolVar(&cfg.once, "once", false, "Compute and draw the countdown once, then exit")
	flag.StringVar(&cfg.dump, "dump", "", "Write the rendered frame to this PNG file")
	flag.BoolVar(&cfg.hub75, "hub75", false, "Drive a HUB75 panel over GPIO instead of an in-memory framebuffer")
	flag.StringVar(&cfg.exportICS, "export-ics", "", "Write the games table as an iCalendar file and exit")

	flag.Parse()

	return cfg
}

func run(flags flagConfig) error {
	conf, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	appLog.SetLevel(appLog.ParseLevel(conf.Logging.Level))

	games, err := olympics.LoadGames(conf.GamesFile)
	if err != nil {
		return err
	}

	appLog.Info("effective config",
		"enabled", conf.Enabled,
		"timezone", conf.Timezone,
		"update_interval", conf.UpdateInterval,
		"display", fmt.Sprintf("%dx%d", conf.Display.Width, conf.Display.Height),
		"games", len(games),
		"hub75", flags.hub75,
		"once", flags.once,
	)

	if flags.exportICS != "" {
		if err := os.WriteFile(flags.exportICS, []byte(olympics.CalendarICS(games)), 0o644); err != nil {
			return fmt.Errorf("failed to write calendar: %w", err)
		}
		appLog.Info("wrote calendar", "path", flags.exportICS, "events", len(games))
		return nil
	}

	matrix, panel, err := openMatrix(conf, flags.hub75)
	if err != nil {
		return err
	}
	defer matrix.Close()

	p, err := plugin.New(conf, games, matrix)
	if err != nil {
		return err
	}

	if flags.once {
		return runOnce(p, flags.dump)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			appLog.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	var wg sync.WaitGroup

	if panel != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := panel.Run(ctx); err != nil {
				appLog.Error("panel scan stopped", err)
				cancel()
			}
		}()
	}

	if flags.listen != "" {
		srv := web.NewServer(flags.listen, p)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.ListenAndServe(); err != nil {
				appLog.Error("web server stopped", err)
				cancel()
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				appLog.Warn("web server shutdown failed", "err", err)
			}
		}()
	}

	err = p.Run(ctx)
	cancel()
	wg.Wait()

	if err == nil && flags.dump != "" {
		err = dumpFrame(p, flags.dump)
	}
	appLog.Info("olympics-countdown exiting")
	return err
}

// openMatrix returns the matrix to draw on and, for HUB75, the panel whose
// scan loop must run alongside the plugin
func openMatrix(conf *config.Config, useHUB75 bool) (types.Matrix, *hub75.Panel, error) {
	if useHUB75 {
		panel, err := hub75.Open(conf.HUB75, conf.Display.Width, conf.Display.Height)
		if err != nil {
			return nil, nil, err
		}
		return panel, panel, nil
	}
	fb, err := display.NewFramebuffer(conf.Display.Width, conf.Display.Height)
	if err != nil {
		return nil, nil, err
	}
	return fb, nil, nil
}

func runOnce(p *plugin.Plugin, dump string) error {
	if err := p.Update(); err != nil && !errors.Is(err, olympics.ErrNoUpcomingEvent) {
		return err
	}
	if err := p.Display(true); err != nil {
		return err
	}

	info := p.Info()
	appLog.Info("countdown", "message", info.Message, "phase", info.Phase, "days", info.Days)
	fmt.Println(info.Message)

	if dump != "" {
		return dumpFrame(p, dump)
	}
	return nil
}

func dumpFrame(p *plugin.Plugin, path string) error {
	frame := p.Frame()
	if frame == nil {
		return errors.New("no countdown state to dump")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, frame); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	appLog.Info("wrote frame", "path", path)
	return nil
}
