/**
 * Copyright (c) 2026, The Selene Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package concurrent

import (
	"errors"
	"time"
)

// Task represents an instance that can be executed by an Executor.
type Task interface {
	// Run performs actions to complete a Task. The return values are delivered to the
	// corresponding TaskHandle and can be accessed via AwaitResult.
	Run() (interface{}, error)
}

// The TaskFunc type is an adapter to allow the use of ordinary functions as a Task.
type TaskFunc func() (interface{}, error)

// TaskFunc implements Task.
var _ Task = (TaskFunc)(nil)

// Run implements Task. It calls f().
func (f TaskFunc) Run() (interface{}, error) {
	return f()
}

// Error values returned from TaskHandle and Executor methods.
var (
	// ErrTaskCancelled indicates the task was cancelled before it started running.
	ErrTaskCancelled = errors.New("task was cancelled")

	// ErrAwaitTaskResultTimeout indicates AwaitResult ran out of time waiting for the result.
	ErrAwaitTaskResultTimeout = errors.New("timeout while waiting task result")

	// ErrExecutorShutdown indicates a Submit after Shutdown.
	ErrExecutorShutdown = errors.New("executor has been shut down")
)

// TaskHandle tracks the progress of a submitted Task. It can cancel a task that has not
// started and wait for the result of one that has.
type TaskHandle interface {
	// Cancel prevents the associated task from running. It returns nil when the task was still
	// queued and is now cancelled, and an error when the task already started or finished.
	Cancel() error

	// AwaitResult blocks the caller until the underlying task completes, then returns what its
	// Run returned. A cancelled task yields (nil, ErrTaskCancelled). A timeout greater than
	// zero bounds the wait, yielding (nil, ErrAwaitTaskResultTimeout) when it expires; zero or
	// a negative timeout waits without bound.
	AwaitResult(timeout time.Duration) (interface{}, error)
}

// Executor manages the asynchronous execution of tasks.
type Executor interface {
	// Submit arranges task for execution sometime later and returns a handle to it.
	Submit(task Task) (TaskHandle, error)

	// Shutdown stops the executor from accepting tasks. Previously submitted tasks still
	// execute. The returned channel receives a value when every remaining task has completed;
	// repeated calls are no-ops returning the same channel.
	Shutdown() (terminated <-chan bool, err error)
}
