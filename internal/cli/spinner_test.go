package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDraws(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Assembling heart.json")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Assembling heart.json") {
		t.Errorf("output %q does not show the label", out.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerPhase(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Assembling")
	s.Phase("chains", time.Millisecond)
	if got, want := s.Label(), "Assembling: chains"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}

func TestSpinnerContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()
			s := newSpinner(ctx, &syncBuffer{}, "Assembling")
			s.Start()
			time.Sleep(100 * time.Millisecond)
			if !s.Cancelled() {
				t.Error("spinner should be cancelled with its context")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStop(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Assembling")
	s.Stop() // never started

	s = newSpinner(context.Background(), &syncBuffer{}, "Assembling")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestChainPhase(t *testing.T) {
	var calls []string
	a := func(name string, _ time.Duration) { calls = append(calls, "a:"+name) }
	b := func(name string, _ time.Duration) { calls = append(calls, "b:"+name) }

	chainPhase(nil, b)("x", 0)
	chainPhase(a, b)("y", 0)

	want := []string{"b:x", "a:y", "b:y"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}
