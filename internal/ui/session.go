package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/opd-ai/go-gradient/internal/gradient"
)

// DefaultToastDuration is how long a toast message stays visible.
const DefaultToastDuration = 2 * time.Second

// Toast messages raised by Copy.
const (
	ToastCopied     = "Copied to clipboard!"
	toastCopyFailed = "Failed to copy text: "
)

// View is an immutable snapshot of everything the preview draws.
type View struct {
	State     gradient.State
	Result    gradient.Result
	Slider    Slider
	HandleX   float64
	Selected  int
	Minimized bool
	// Toast is empty when no message is showing.
	Toast string
}

// ChangeHandler is notified with a fresh View after every transition.
type ChangeHandler func(View)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClipboard sets the clipboard used by Copy events.
func WithClipboard(cb Clipboard) SessionOption {
	return func(s *Session) {
		s.clipboard = cb
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithSlider sets the angle slider geometry.
func WithSlider(sl Slider) SessionOption {
	return func(s *Session) {
		s.reducer.Slider = sl
	}
}

// WithToastDuration sets how long toasts remain visible.
func WithToastDuration(d time.Duration) SessionOption {
	return func(s *Session) {
		s.toastDuration = d
	}
}

// Session owns the mutable studio state. Dispatch serializes all
// transitions, so a Session may be shared between the preview loop and
// a config watcher.
type Session struct {
	mu            sync.RWMutex
	reducer       Reducer
	state         gradient.State
	result        gradient.Result
	selected      int
	minimized     bool
	toast         string
	toastUntil    time.Time
	toastDuration time.Duration
	clipboard     Clipboard
	now           func() time.Time
	handlers      []ChangeHandler
}

// NewSession creates a session starting from initial, which is also the
// state restored by Reset.
func NewSession(initial gradient.State, opts ...SessionOption) *Session {
	s := &Session{
		reducer:       NewReducer(),
		toastDuration: DefaultToastDuration,
		clipboard:     SystemClipboard{},
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reducer.Initial = initial.Clone()
	s.state = initial.Clone()
	s.result = gradient.Render(s.state)
	return s
}

// OnChange registers a handler called after every successful Dispatch.
// Handlers run on the dispatching goroutine without the session lock held.
func (s *Session) OnChange(h ChangeHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// Dispatch applies ev and re-renders the gradient.
func (s *Session) Dispatch(ev Event) error {
	s.mu.Lock()

	next, err := s.reducer.Reduce(s.state, ev)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.result = gradient.Render(next)

	var copyErr error
	switch e := ev.(type) {
	case SelectColor:
		s.selected = wrapIndex(s.selected+e.Delta, len(s.state.Colors))
	case TogglePanel:
		s.minimized = !s.minimized
	case Copy:
		copyErr = s.copyLocked()
	case Reset:
		s.selected = 0
	}
	if s.selected >= len(s.state.Colors) {
		s.selected = len(s.state.Colors) - 1
	}

	view := s.viewLocked()
	handlers := append([]ChangeHandler(nil), s.handlers...)
	s.mu.Unlock()

	for _, h := range handlers {
		h(view)
	}
	return copyErr
}

// Replace swaps in a new state, e.g. after a config reload. The new state
// also becomes the Reset target.
func (s *Session) Replace(state gradient.State) {
	s.mu.Lock()
	s.reducer.Initial = state.Clone()
	s.state = state.Clone()
	s.result = gradient.Render(s.state)
	if s.selected >= len(s.state.Colors) {
		s.selected = 0
	}
	view := s.viewLocked()
	handlers := append([]ChangeHandler(nil), s.handlers...)
	s.mu.Unlock()

	for _, h := range handlers {
		h(view)
	}
}

// State returns a copy of the current state.
func (s *Session) State() gradient.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Result returns the render result of the current state.
func (s *Session) Result() gradient.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// View returns a snapshot for drawing.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		State:     s.state.Clone(),
		Result:    s.result,
		Slider:    s.reducer.Slider,
		HandleX:   s.reducer.Slider.HandleLeft(s.state.Angle),
		Selected:  s.selected,
		Minimized: s.minimized,
	}
	if s.toast != "" && s.now().Before(s.toastUntil) {
		v.Toast = s.toast
	}
	return v
}

// copyLocked writes the declaration to the clipboard and raises a toast.
func (s *Session) copyLocked() error {
	text := s.result.Declaration
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if s.clipboard == nil {
		s.showToastLocked(toastCopyFailed + ErrClipboardUnsupported.Error())
		return ErrClipboardUnsupported
	}
	if err := s.clipboard.WriteAll(text); err != nil {
		s.showToastLocked(toastCopyFailed + err.Error())
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	s.showToastLocked(ToastCopied)
	return nil
}

func (s *Session) showToastLocked(msg string) {
	s.toast = msg
	s.toastUntil = s.now().Add(s.toastDuration)
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
