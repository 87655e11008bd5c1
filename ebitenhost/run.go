package ebitenhost

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/morphic"
	"github.com/phanxgames/morphic/internal/config"
)

// WorldOptions returns the world options matching cfg's scheduler section.
func WorldOptions(cfg *config.Config) []morphic.Option {
	return []morphic.Option{
		morphic.WithIdleStep(cfg.Scheduler.IdleStep),
		morphic.WithMinStep(cfg.Scheduler.MinStep),
	}
}

// Run opens a window configured by cfg and runs g's world scheduler beside
// it until the window is closed or ctx is cancelled. It must be called from
// the main goroutine.
func Run(ctx context.Context, cfg *config.Config, g *Game) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, egCtx := errgroup.WithContext(runCtx)
	eg.Go(func() error {
		return g.World.Run(egCtx)
	})
	g.ctx = egCtx

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)
	g.log.Info("window starting",
		slog.String("title", cfg.Window.Title),
		slog.Int("width", cfg.Window.Width),
		slog.Int("height", cfg.Window.Height))

	err := ebiten.RunGame(g)
	cancel()
	if werr := eg.Wait(); err == nil {
		err = werr
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	g.log.Info("window closed", slog.Int("redraws", g.redraws))
	return nil
}
