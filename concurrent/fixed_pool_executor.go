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
	"sync"
	"sync/atomic"
	"time"
)

// Task states tracked on a poolTask.
const (
	taskPending int32 = iota
	taskRunning
	taskDone
	taskCancelled
)

// submitQueueDepth is how many tasks may sit queued before Submit blocks.
const submitQueueDepth = 64

// poolTask pairs a submitted Task with its completion state. It is the TaskHandle returned by
// FixedPoolExecutor.Submit.
type poolTask struct {
	task Task

	// state transitions pending -> running -> done, or pending -> cancelled.
	state int32

	// result and err are written once before done is closed.
	result interface{}
	err    error
	done   chan struct{}
}

var _ TaskHandle = (*poolTask)(nil)

// Cancel implements TaskHandle.
func (t *poolTask) Cancel() error {
	if atomic.CompareAndSwapInt32(&t.state, taskPending, taskCancelled) {
		t.err = ErrTaskCancelled
		close(t.done)
		return nil
	}
	return errors.New("task has already started")
}

// AwaitResult implements TaskHandle.
func (t *poolTask) AwaitResult(timeout time.Duration) (interface{}, error) {
	if timeout <= 0 {
		<-t.done
		return t.result, t.err
	}
	select {
	case <-t.done:
		return t.result, t.err
	case <-time.After(timeout):
		return nil, ErrAwaitTaskResultTimeout
	}
}

// FixedPoolExecutor runs tasks on a fixed-size set of worker goroutines which are started
// upfront and live until Shutdown. It suits batches of uniform CPU-bound work where the level
// of parallelism is policy rather than load-driven.
type FixedPoolExecutor struct {
	tasks chan *poolTask

	// mu guards closed so Submit never sends on a closed channel.
	mu     sync.RWMutex
	closed bool

	workers    sync.WaitGroup
	notify     sync.Once
	terminated chan bool
}

var _ Executor = (*FixedPoolExecutor)(nil)

// NewFixedPoolExecutor returns an executor running at most workers tasks concurrently. A
// workers value below one is raised to one.
func NewFixedPoolExecutor(workers int) *FixedPoolExecutor {
	if workers < 1 {
		workers = 1
	}
	executor := &FixedPoolExecutor{
		tasks:      make(chan *poolTask, submitQueueDepth),
		terminated: make(chan bool, 1),
	}
	executor.workers.Add(workers)
	for i := 0; i < workers; i++ {
		go executor.worker()
	}
	return executor
}

func (executor *FixedPoolExecutor) worker() {
	defer executor.workers.Done()
	for task := range executor.tasks {
		if !atomic.CompareAndSwapInt32(&task.state, taskPending, taskRunning) {
			// Cancelled while queued.
			continue
		}
		task.result, task.err = task.task.Run()
		atomic.StoreInt32(&task.state, taskDone)
		close(task.done)
	}
}

// Submit implements Executor.
func (executor *FixedPoolExecutor) Submit(task Task) (TaskHandle, error) {
	if task == nil {
		return nil, errors.New("concurrent: Submit requires a task")
	}
	handle := &poolTask{
		task: task,
		done: make(chan struct{}),
	}

	executor.mu.RLock()
	defer executor.mu.RUnlock()
	if executor.closed {
		return nil, ErrExecutorShutdown
	}
	executor.tasks <- handle
	return handle, nil
}

// Shutdown implements Executor.
func (executor *FixedPoolExecutor) Shutdown() (<-chan bool, error) {
	executor.mu.Lock()
	if !executor.closed {
		executor.closed = true
		close(executor.tasks)
	}
	executor.mu.Unlock()

	executor.notify.Do(func() {
		go func() {
			executor.workers.Wait()
			executor.terminated <- true
			close(executor.terminated)
		}()
	})
	return executor.terminated, nil
}
