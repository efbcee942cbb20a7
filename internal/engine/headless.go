package engine

import (
	"context"
	"fmt"
	"time"
)

// RunHeadless drives the presentation clock without a window at the
// configured rate. Presentation time advances by exactly one tick per
// step. It stops after Config.Ticks steps, or when ctx is done if Ticks is
// zero.
func (s *Session) RunHeadless(ctx context.Context) error {
	hz := s.Config.Hz
	if hz <= 0 {
		return fmt.Errorf("invalid headless hz: %d", hz)
	}
	d := time.Second / time.Duration(hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.Tick(float64(tick) / float64(hz))
			tick++
			if s.Config.Ticks > 0 && tick >= s.Config.Ticks {
				return nil
			}
		}
	}
}
