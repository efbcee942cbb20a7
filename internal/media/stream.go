package media

import (
	"sync"
	"time"

	"github.com/ivlev/present3d/internal/scene"
)

// ClockStream tracks the playback state of a movie. Frames are decoded by
// the host; the stream only keeps position, status and looping.
type ClockStream struct {
	mu      sync.Mutex
	now     func() time.Time
	status  scene.StreamStatus
	offset  time.Duration
	started time.Time
	length  time.Duration
	looping bool
	rewinds int
}

// NewClockStream returns a paused stream. length may be zero when unknown.
func NewClockStream(length time.Duration, looping bool, now func() time.Time) *ClockStream {
	if now == nil {
		now = time.Now
	}
	return &ClockStream{now: now, status: scene.StreamPaused, length: length, looping: looping}
}

func (s *ClockStream) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == scene.StreamPlaying {
		return
	}
	s.status = scene.StreamPlaying
	s.started = s.now()
}

func (s *ClockStream) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != scene.StreamPlaying {
		return
	}
	s.offset += s.now().Sub(s.started)
	s.status = scene.StreamPaused
}

func (s *ClockStream) Rewind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = 0
	s.started = s.now()
	s.rewinds++
}

func (s *ClockStream) Status() scene.StreamStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Position is the current playback time, wrapped when looping.
func (s *ClockStream) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := s.offset
	if s.status == scene.StreamPlaying {
		pos += s.now().Sub(s.started)
	}
	if s.length > 0 {
		if s.looping {
			pos %= s.length
		} else if pos > s.length {
			pos = s.length
		}
	}
	return pos
}

// Rewinds counts calls to Rewind.
func (s *ClockStream) Rewinds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewinds
}
