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

package compiler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSettleDelay is how long Watch waits after the last relevant filesystem event before
// rebuilding, so an editor save burst triggers one pass.
const watchSettleDelay = 200 * time.Millisecond

// Watch compiles the project, then watches its directories and recompiles whenever a relevant
// file changes. Passes share the compiler's database, so a pass after a change only redoes the
// work that change affects. Watch returns when ctx is cancelled. A failing pass is logged and
// the watch keeps going; the next save gets another chance.
func (c *Compiler) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range c.watchRoots() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	c.compileAndLog(ctx)

	settle := time.NewTimer(watchSettleDelay)
	if !settle.Stop() {
		<-settle.C
	}
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !c.watchRelevant(event.Name) {
				continue
			}
			c.log.Debug("source changed", "path", event.Name, "op", event.Op.String())
			if !settle.Stop() {
				select {
				case <-settle.C:
				default:
				}
			}
			settle.Reset(watchSettleDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("watch error", "err", err)

		case <-settle.C:
			c.compileAndLog(ctx)
		}
	}
}

func (c *Compiler) compileAndLog(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := c.Compile(ctx); err != nil {
		c.log.Error("build failed", "err", err)
	}
}

// watchRoots lists the directories to watch: the schema's directory plus every directory the
// document patterns can currently match files in. Directories are watched rather than files so
// rename-then-write editor saves stay visible. A directory created after the watch starts is
// picked up on the next restart.
func (c *Compiler) watchRoots() []string {
	seen := make(map[string]bool)
	var roots []string
	add := func(dir string) {
		if dir != "" && !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}

	add(filepath.Dir(c.config.Schema))
	for _, pattern := range c.config.Documents {
		dir := filepath.Dir(pattern)
		if strings.ContainsAny(dir, "*?[") {
			matches, _ := filepath.Glob(dir)
			for _, match := range matches {
				add(match)
			}
			continue
		}
		add(dir)
	}
	return roots
}

// watchRelevant reports whether a change to name can affect the build.
func (c *Compiler) watchRelevant(name string) bool {
	if name == c.config.Schema {
		return true
	}
	for _, pattern := range c.config.Documents {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
