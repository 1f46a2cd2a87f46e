package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jdshortiss/uber-camera/internal/director"
	"github.com/jdshortiss/uber-camera/internal/renderer"
	"github.com/jdshortiss/uber-camera/internal/scene"
)

// Outputs names the files written after a build. Empty paths are skipped.
type Outputs struct {
	Scene   string
	Report  string
	Preview string
}

// Export writes the scene, the build report and the timeline preview. The
// files are independent, so they are written in parallel; the scene must not
// be modified until Export returns.
func Export(ctx context.Context, s *scene.Scene, b *Build, out Outputs) error {
	g, ctx := errgroup.WithContext(ctx)

	if out.Scene != "" {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := scene.Save(s, out.Scene); err != nil {
				return fmt.Errorf("save scene: %w", err)
			}
			return nil
		})
	}

	if out.Report != "" {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := director.WriteReport(b.Report(), out.Report); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			return nil
		})
	}

	if out.Preview != "" {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tl := renderer.NewTimeline(renderer.DefaultConfig())
			if err := tl.WritePNG(out.Preview, b.Assignments, b.Table.Frames()); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
