//go:build noebiten

package studio

import "context"

// runPreview has no window in noebiten builds and behaves like headless mode.
func (s *studioImpl) runPreview(ctx context.Context) {
	<-ctx.Done()
}
