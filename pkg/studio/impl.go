package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-gradient/internal/config"
	"github.com/opd-ai/go-gradient/internal/render"
	"github.com/opd-ai/go-gradient/internal/ui"
)

// studioImpl is the private implementation of the Studio interface.
type studioImpl struct {
	cfg          *config.Config
	opts         Options
	configSource string
	watchPath    string
	loader       configLoader

	session *ui.Session
	metrics *Metrics

	running   atomic.Bool
	startTime time.Time
	changes   atomic.Uint64
	lastError atomic.Value // errorBox

	errorHandler ErrorHandler
	eventHandler EventHandler

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// errorBox gives atomic.Value a single concrete type to store.
type errorBox struct{ err error }

// Verify interface implementation at compile time.
var _ Studio = (*studioImpl)(nil)

func newStudio(cfg *config.Config, o Options, source, watchPath string, load configLoader) *studioImpl {
	s := &studioImpl{
		cfg:          cfg,
		opts:         o,
		configSource: source,
		watchPath:    watchPath,
		loader:       load,
		metrics:      o.Metrics,
	}
	s.session = ui.NewSession(cfg.Gradient, ui.WithClipboard(o.Clipboard))
	if !cfg.Window.Panel {
		// TogglePanel never fails.
		_ = s.session.Dispatch(ui.TogglePanel{})
	}
	s.session.OnChange(s.onChange)
	return s
}

// Start begins the preview loop.
func (s *studioImpl) Start() error {
	s.mu.Lock()

	if s.running.Load() {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())

	var watcher *presetWatcher
	if s.opts.WatchConfig && s.watchPath != "" {
		w, err := newPresetWatcher(s.watchPath, s.opts.WatchDebounce, s.ReloadConfig, s.watchError)
		if err != nil {
			cancel()
			s.mu.Unlock()
			return NewCategorizedError(fmt.Errorf("failed to start watcher: %w", err), ErrorCategoryIO, SeverityError)
		}
		watcher = w
	}

	s.ctx, s.cancel = ctx, cancel
	// Set running state BEFORE starting goroutines to avoid race
	s.running.Store(true)
	s.startTime = time.Now()
	s.metrics.IncrementStarts()
	s.metrics.SetRunning(true)

	if watcher != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			watcher.run(ctx)
		}()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if s.opts.Headless {
			<-ctx.Done()
		} else {
			s.runPreview(ctx)
			// Closing the window stops the watcher too.
			cancel()
		}

		s.running.Store(false)
		s.metrics.SetRunning(false)
		s.opts.Logger.Info("studio stopped", "source", s.configSource)
		s.emitEvent(EventStopped, "Instance stopped")
	}()

	s.mu.Unlock()

	s.opts.Logger.Info("studio started", "source", s.configSource, "headless", s.opts.Headless, "watch", watcher != nil)
	s.emitEvent(EventStarted, "Instance started")
	return nil
}

// Stop gracefully shuts down the instance.
func (s *studioImpl) Stop() error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.mu.Lock()
		stopped := s.cancel != nil
		s.cancel = nil
		s.mu.Unlock()
		if stopped {
			s.metrics.IncrementStops()
		}
		return nil
	case <-time.After(s.opts.ShutdownTimeout):
		err := fmt.Errorf("shutdown timeout after %v: some goroutines did not stop", s.opts.ShutdownTimeout)
		s.notifyError(NewCategorizedError(err, ErrorCategoryUnknown, SeverityError))
		return err
	}
}

// ReloadConfig reloads the preset and replaces the session state. The
// preview keeps running and picks up the new state on its next frame.
func (s *studioImpl) ReloadConfig() error {
	if !s.running.Load() {
		return ErrNotRunning
	}
	if s.loader == nil {
		return ErrNoConfigSource
	}

	cfg, err := loadConfig(s.opts, s.loader)
	if err != nil {
		ce := NewCategorizedError(fmt.Errorf("config reload failed: %w", err), ErrorCategoryConfig, SeverityError).
			WithContext("source", s.configSource)
		s.notifyError(ce)
		return ce
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.session.Replace(cfg.Gradient)

	s.metrics.IncrementConfigReloads()
	s.opts.Logger.Info("config reloaded", "source", s.configSource, "background", s.session.Result().Background)
	s.emitEvent(EventConfigReloaded, "Configuration reloaded from "+s.configSource)
	return nil
}

// IsRunning returns true if the instance is currently running.
func (s *studioImpl) IsRunning() bool {
	return s.running.Load()
}

// Status returns detailed status information about the instance.
func (s *studioImpl) Status() Status {
	s.mu.RLock()
	startTime := s.startTime
	s.mu.RUnlock()

	return Status{
		Running:      s.running.Load(),
		StartTime:    startTime,
		Changes:      s.changes.Load(),
		LastError:    s.getError(),
		ConfigSource: s.configSource,
	}
}

func (s *studioImpl) Session() *Session { return s.session }
func (s *studioImpl) State() State      { return s.session.State() }
func (s *studioImpl) Result() Result    { return s.session.Result() }

// Dispatch applies a through the session. Copy failures are reported to
// the error handler as clipboard errors.
func (s *studioImpl) Dispatch(a Action) error {
	start := time.Now()
	err := s.session.Dispatch(a)
	s.metrics.RecordDispatchLatency(time.Since(start))

	if _, ok := a.(ui.Copy); !ok {
		return err
	}
	if err != nil {
		ce := NewCategorizedError(err, ErrorCategoryClipboard, SeverityWarning)
		s.notifyError(ce)
		return ce
	}
	s.metrics.IncrementCopies()
	s.opts.Logger.Debug("declaration copied")
	s.emitEvent(EventCopied, "Declaration copied to clipboard")
	return nil
}

// WritePNG rasterizes the current, unpanned gradient.
func (s *studioImpl) WritePNG(w io.Writer, width, height int) error {
	img, err := render.Rasterize(s.session.State(), width, height, 0)
	if err != nil {
		return NewCategorizedError(fmt.Errorf("rasterize: %w", err), ErrorCategoryRender, SeverityError)
	}
	if err := render.EncodePNG(w, img); err != nil {
		return NewCategorizedError(err, ErrorCategoryIO, SeverityError)
	}
	return nil
}

// SetErrorHandler registers a callback for runtime errors.
func (s *studioImpl) SetErrorHandler(handler ErrorHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle events.
func (s *studioImpl) SetEventHandler(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventHandler = handler
}

// onChange runs after every session transition.
func (s *studioImpl) onChange(v ui.View) {
	s.changes.Add(1)
	s.metrics.IncrementStateChanges()
	s.opts.Logger.Debug("state changed", "background", v.Result.Background)
	s.emitEvent(EventStateChanged, v.Result.Background)
}

// watchError classifies watcher failures. Reload failures are already
// reported by ReloadConfig.
func (s *studioImpl) watchError(err error) {
	if CategoryOf(err) == ErrorCategoryConfig || errors.Is(err, ErrNotRunning) {
		return
	}
	s.notifyError(NewCategorizedError(err, ErrorCategoryIO, SeverityWarning))
}

// previewError reports errors raised inside the preview loop.
func (s *studioImpl) previewError(err error) {
	if CategoryOf(err) == ErrorCategoryClipboard {
		return
	}
	s.notifyError(NewCategorizedError(err, ErrorCategoryRender, SeverityWarning))
}

func (s *studioImpl) getError() error {
	if v, ok := s.lastError.Load().(errorBox); ok {
		return v.err
	}
	return nil
}

// notifyError stores an error and invokes the error handler if registered.
func (s *studioImpl) notifyError(err error) {
	s.lastError.Store(errorBox{err})
	s.metrics.IncrementErrors()

	s.mu.RLock()
	handler := s.errorHandler
	s.mu.RUnlock()

	s.opts.Logger.Error("studio error", "error", err, "category", CategoryOf(err).String())

	if handler != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					s.opts.Logger.Error("error handler panicked", "panic", r, "original_error", err)
				}
			}()
			handler(err)
		}()
	}

	s.emitEvent(EventError, err.Error())
}

// emitEvent sends an event to the event handler if configured.
func (s *studioImpl) emitEvent(eventType EventType, message string) {
	s.metrics.IncrementEventsEmitted()

	s.mu.RLock()
	handler := s.eventHandler
	s.mu.RUnlock()

	if handler == nil {
		return
	}
	ev := Event{Type: eventType, Timestamp: time.Now(), Message: message}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.opts.Logger.Error("event handler panicked", "panic", r, "event", eventType.String())
			}
		}()
		handler(ev)
	}()
}

// Health returns a health check result for the instance.
func (s *studioImpl) Health() HealthCheck {
	now := time.Now()
	running := s.running.Load()

	var uptime time.Duration
	s.mu.RLock()
	if running && !s.startTime.IsZero() {
		uptime = now.Sub(s.startTime)
	}
	s.mu.RUnlock()

	components := make(map[string]ComponentHealth)
	if running {
		components["instance"] = ComponentHealth{Status: HealthOK, Message: "Instance is running"}
	} else {
		components["instance"] = ComponentHealth{Status: HealthUnhealthy, Message: "Instance is not running"}
	}

	if _, err := render.Rasterize(s.session.State(), 1, 1, 0); err != nil {
		components["gradient"] = ComponentHealth{Status: HealthDegraded, Message: err.Error()}
	} else {
		components["gradient"] = ComponentHealth{
			Status:  HealthOK,
			Message: fmt.Sprintf("%d state changes", s.changes.Load()),
		}
	}

	lastErr := s.getError()
	if lastErr != nil {
		components["errors"] = ComponentHealth{Status: HealthDegraded, Message: lastErr.Error()}
	} else {
		components["errors"] = ComponentHealth{Status: HealthOK, Message: "No recent errors"}
	}

	h := HealthCheck{
		Status:     HealthOK,
		Timestamp:  now,
		Uptime:     uptime,
		Components: components,
		Message:    "All components healthy",
	}
	switch {
	case !running:
		h.Status, h.Message = HealthUnhealthy, "Instance is not running"
	case lastErr != nil || components["gradient"].Status != HealthOK:
		h.Status, h.Message = HealthDegraded, "Running with recent errors"
	}
	return h
}

// Metrics returns the metrics collector for this instance.
func (s *studioImpl) Metrics() *Metrics {
	return s.metrics
}
