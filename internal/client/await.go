// internal/client/await.go
package client

import (
	"context"
	"errors"
	"time"
)

// errDeadline is returned by await when its own deadline fired, as opposed to
// the caller's context ending.
var errDeadline = errors.New("deadline exceeded")

type outcome[T any] struct {
	val T
	err error
}

// await runs fn on its own goroutine and waits at most d for it.
//
// If the wait is abandoned, fn keeps running; when it eventually returns a
// value without error, late is called with it so resources can be released.
func await[T any](ctx context.Context, d time.Duration, fn func() (T, error), late func(T)) (T, error) {
	waitCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		v, err := fn()
		done <- outcome[T]{val: v, err: err}
	}()

	select {
	case o := <-done:
		return o.val, o.err
	case <-waitCtx.Done():
		if late != nil {
			go func() {
				if o := <-done; o.err == nil {
					late(o.val)
				}
			}()
		}
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, errDeadline
	}
}
