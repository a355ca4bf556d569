// Package notify delivers finished reports by email or Telegram.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/atelier/internal/metrics"
)

// ErrNoSender is returned when no configured sender accepts a recipient.
var ErrNoSender = errors.New("no sender accepts this recipient")

// Attachment is a file sent with a delivery.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Delivery is one message to one recipient.
type Delivery struct {
	To         string
	Subject    string
	Body       string
	Attachment Attachment
}

// Sender delivers messages over one channel.
type Sender interface {
	Name() string
	// Accepts reports whether to is an address this sender understands.
	Accepts(to string) bool
	Send(ctx context.Context, d Delivery) error
}

// SendError records which senders failed.
type SendError struct {
	Failures map[string]error
}

func (e *SendError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for name, err := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", name, err))
	}
	return "delivery failed: " + strings.Join(parts, "; ")
}

func (e *SendError) Unwrap() []error {
	out := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		out = append(out, err)
	}
	return out
}

// Multi fans a delivery out to every sender that accepts the recipient.
type Multi struct {
	senders []Sender
	log     *zap.Logger
}

// NewMulti combines senders. Nil senders are skipped.
func NewMulti(log *zap.Logger, senders ...Sender) *Multi {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Multi{log: log}
	for _, s := range senders {
		if s != nil {
			m.senders = append(m.senders, s)
		}
	}
	return m
}

// Len returns the number of senders.
func (m *Multi) Len() int {
	return len(m.senders)
}

// Accepts reports whether any sender accepts to.
func (m *Multi) Accepts(to string) bool {
	for _, s := range m.senders {
		if s.Accepts(to) {
			return true
		}
	}
	return false
}

// Send delivers d concurrently through every accepting sender and returns
// the names of the senders that succeeded. A failing sender does not stop
// the others; failures are reported together as a *SendError.
func (m *Multi) Send(ctx context.Context, d Delivery) ([]string, error) {
	var targets []Sender
	for _, s := range m.senders {
		if s.Accepts(d.To) {
			targets = append(targets, s)
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%q: %w", d.To, ErrNoSender)
	}

	var (
		mu        sync.Mutex
		delivered []string
		failures  = make(map[string]error)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := s.Send(gctx, d)
			metrics.DeliveriesTotal.WithLabelValues(s.Name(), metrics.Bool(err == nil)).Inc()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				m.log.Warn("delivery failed", zap.String("sender", s.Name()), zap.Error(err))
				failures[s.Name()] = err
				return nil
			}
			m.log.Info("report delivered", zap.String("sender", s.Name()))
			delivered = append(delivered, s.Name())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return delivered, err
	}

	if len(failures) > 0 {
		return delivered, &SendError{Failures: failures}
	}
	return delivered, nil
}
