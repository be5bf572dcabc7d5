// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hyprsocket

import "context"

// Task is a listener running in its own goroutine.
type Task struct {
	listener *Listener
	cancel   context.CancelFunc
	done     chan struct{}
	err      error
}

// Start runs the listener in a new goroutine. Cancelling ctx or calling
// Task.Stop ends it.
func (listener *Listener) Start(ctx context.Context) *Task {
	ctx, cancel := context.WithCancel(ctx)
	task := &Task{
		listener: listener,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go func() {
		defer close(task.done)
		defer cancel()
		task.err = listener.Run(ctx)
	}()
	return task
}

// Done is closed when the listener has stopped.
func (task *Task) Done() <-chan struct{} {
	return task.done
}

// Wait blocks until the listener stops and returns Run's result.
func (task *Task) Wait() error {
	<-task.done
	return task.err
}

// Stop cancels the listener and waits for it. It returns
// context.Canceled if the listener was still streaming, or whatever it
// had already returned.
func (task *Task) Stop() error {
	task.cancel()
	return task.Wait()
}

// Listener returns the task's listener, for State and Stats.
func (task *Task) Listener() *Listener {
	return task.listener
}
