// Package clock provides the repeating timer behind continuous scrolling.
package clock

import (
	"sync"
	"time"
)

// Scheduler runs fn every interval until the returned cancel is called.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// Real is a Scheduler backed by time.Ticker.
type Real struct{}

// Every starts a ticker goroutine. cancel is safe to call more than once
// and does not return until the goroutine has stopped, so no tick fires
// after it.
func (Real) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
			<-stopped
		})
	}
}
