package pairing

import (
	"context"
	"sync"
	"sync/atomic"

	"home-gateway-be/internal/pkg/logger"
)

// DecodeFunc extracts QR text from an encoded frame.
type DecodeFunc func(frame []byte) (string, error)

// Completer is the registry side of a scan.
type Completer interface {
	Pending() int
	Complete(ctx context.Context, decoded string) bool
}

// Scanner looks for pairing codes in camera frames on a single worker. Only
// the newest frame is kept: a frame that arrives while the worker is busy
// replaces the one waiting, so ingestion never blocks on decoding.
type Scanner struct {
	sessions Completer
	decode   DecodeFunc

	mu    sync.Mutex
	frame []byte
	wake  chan struct{}
	drops atomic.Uint64

	logger logger.ILogger
}

func NewScanner(sessions Completer, decode DecodeFunc, log logger.ILogger) *Scanner {
	return &Scanner{
		sessions: sessions,
		decode:   decode,
		wake:     make(chan struct{}, 1),
		logger:   log,
	}
}

// Offer hands a frame to the worker without blocking. Frames are ignored
// while nobody is waiting to pair. frame must not be modified afterwards.
func (s *Scanner) Offer(frame []byte) {
	if s.sessions.Pending() == 0 {
		return
	}

	s.mu.Lock()
	if s.frame != nil {
		s.drops.Add(1)
	}
	s.frame = frame
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run is the worker loop; it returns when ctx is done.
func (s *Scanner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			s.mu.Lock()
			frame := s.frame
			s.frame = nil
			s.mu.Unlock()

			if frame != nil {
				s.scan(ctx, frame)
			}
		}
	}
}

// Dropped reports frames replaced before the worker got to them.
func (s *Scanner) Dropped() uint64 {
	return s.drops.Load()
}

func (s *Scanner) scan(ctx context.Context, frame []byte) {
	if s.sessions.Pending() == 0 {
		return
	}

	code, err := s.decode(frame)
	if err != nil {
		// most frames carry no code; try the next one
		return
	}

	if s.sessions.Complete(ctx, code) {
		s.logger.Debug("Scanner", "Pairing code matched", nil)
	}
}
