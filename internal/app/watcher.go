package app

import (
	"context"
	"log"
	"time"
)

const (
	defaultWatchInterval = 2 * time.Second
	maxBackoff           = 30 * time.Second
)

// TokenSource reports whether a session token is stored right now.
// *session.Session implements it.
type TokenSource interface {
	TokenPresent(ctx context.Context) (bool, error)
}

// StartWatcher launches a goroutine that polls src and calls notify each time
// token presence changes, starting with the first successful read. It returns
// immediately and stops when ctx is done.
func StartWatcher(ctx context.Context, src TokenSource, interval time.Duration, notify func(present bool)) {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	go watch(ctx, src, interval, notify)
}

func watch(ctx context.Context, src TokenSource, interval time.Duration, notify func(bool)) {
	var (
		last     bool
		seen     bool
		failures int
	)
	for {
		present, err := src.TokenPresent(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			log.Printf("session watch failed (attempt %d): %v", failures, err)
		} else {
			failures = 0
			if !seen || present != last {
				seen, last = true, present
				notify(present)
			}
		}

		timer := time.NewTimer(calculateBackoff(failures, interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for range failures {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
