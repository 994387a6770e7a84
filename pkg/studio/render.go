//go:build !noebiten

package studio

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-gradient/internal/preview"
)

// runPreview runs the preview window until it is closed or ctx is done.
func (s *studioImpl) runPreview(ctx context.Context) {
	s.mu.RLock()
	win := s.cfg.Window
	s.mu.RUnlock()

	game := preview.NewGame(s.session, preview.Config{
		Width:  win.Width,
		Height: win.Height,
		Title:  win.Title,
	})
	game.SetContext(ctx)
	game.SetDispatcher(s.Dispatch)
	game.SetErrorHandler(s.previewError)

	if err := game.Run(); err != nil {
		s.notifyError(NewCategorizedError(fmt.Errorf("preview loop error: %w", err), ErrorCategoryRender, SeverityError))
	}
}
