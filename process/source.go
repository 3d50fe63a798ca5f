package process

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/viant/multiproc/logger"
)

// Play sends actions to the returned channel in order, pausing on each wait
// action. The channel is closed after the last action or when ctx is done.
func Play(ctx context.Context, actions []Action) <-chan Action {
	ch := make(chan Action)
	go func() {
		defer close(ch)
		for _, action := range actions {
			if !emit(ctx, ch, action) {
				return
			}
		}
	}()
	return ch
}

// Listen parses every line read from r as a script and sends the actions to
// the returned channel. Invalid lines are logged and skipped. The channel is
// closed at EOF.
func Listen(ctx context.Context, r io.Reader, log logger.Logger) <-chan Action {
	ch := make(chan Action)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			actions, err := ParseScript(scanner.Text())
			if err != nil {
				log.Warnf("ignoring input %q: %v", scanner.Text(), err)
				continue
			}
			for _, action := range actions {
				if !emit(ctx, ch, action) {
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			log.Errorf("reading input: %v", err)
		}
	}()
	return ch
}

func emit(ctx context.Context, ch chan<- Action, action Action) bool {
	if action.Kind == Wait {
		timer := time.NewTimer(action.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			return true
		case <-ctx.Done():
			return false
		}
	}
	select {
	case ch <- action:
		return true
	case <-ctx.Done():
		return false
	}
}
