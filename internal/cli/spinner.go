package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderSpinner animates while a scene is rendered. Its label names the
// scene and, once the pipeline reports progress, the format being drawn.
type renderSpinner struct {
	w     io.Writer
	scene string
	ctx   context.Context

	mu    sync.Mutex
	label string
	width int // widest label written, for clearing

	started bool
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// newRenderSpinner returns a spinner for scene that writes to w and stops
// on its own when ctx is cancelled.
func newRenderSpinner(ctx context.Context, w io.Writer, scene string) *renderSpinner {
	return &renderSpinner{
		w:       w,
		scene:   scene,
		ctx:     ctx,
		label:   "Rendering " + scene,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (s *renderSpinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// progress matches pipeline.Options.Progress.
func (s *renderSpinner) progress(format string, n, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = fmt.Sprintf("Rendering %s: %s (%d/%d)", s.scene, format, n, total)
}

func (s *renderSpinner) currentLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

func (s *renderSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(s.label))
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.label))
}

func (s *renderSpinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+4))
}

// Stop halts the animation and clears the line. It is safe to call more
// than once, and after ctx has been cancelled.
func (s *renderSpinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		if s.started {
			<-s.stopped
		}
		s.clearLine()
	})
}

// StopWithSuccess stops and reports the rendered scene, noting whether the
// artifacts came from the cache.
func (s *renderSpinner) StopWithSuccess(cached bool) {
	s.Stop()
	if cached {
		printSuccess("Rendered %s %s", s.scene, StyleDim.Render("(cached)"))
		return
	}
	printSuccess("Rendered %s", s.scene)
}

// StopWithError stops and reports err in its user-facing form.
func (s *renderSpinner) StopWithError(err error) {
	s.Stop()
	printError("Rendering %s failed: %s", s.scene, scerrors.UserMessage(err))
}
