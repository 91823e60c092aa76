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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/botobag/selene/concurrent"
	"github.com/botobag/selene/incr"

	"github.com/google/uuid"
)

// Stats summarizes one Compile pass.
type Stats struct {
	// BuildID correlates the pass with its log lines.
	BuildID string

	// Documents is the number of executable documents the pass covered.
	Documents int

	// Operations is the number of operations defined across those documents.
	Operations int

	// Recalculated and Reused count the pipeline stages the pass resolved, split by whether
	// resolving produced a new result or kept the cached one. A pass over unchanged inputs
	// reports Recalculated == 0.
	Recalculated int
	Reused       int

	// Artifacts is the number of artifact files whose content changed on disk.
	Artifacts int

	// Elapsed is the wall time of the pass.
	Elapsed time.Duration
}

func (stats *Stats) tally(did incr.DidRecalculate) {
	if did == incr.Recalculated {
		stats.Recalculated++
	} else {
		stats.Reused++
	}
}

// Compiler drives the pipeline for one project: it mirrors the files named by the config into
// an incremental database, resolves the project's artifacts and writes them out. The database
// persists across Compile calls, so repeated passes only redo work whose inputs changed.
//
// Drive a Compiler from one goroutine. Artifact rendering inside a pass fans out over the
// compiler's worker pool.
type Compiler struct {
	config   *Config
	db       *incr.Database
	pipeline *Pipeline
	executor *concurrent.FixedPoolExecutor
	log      *slog.Logger
}

// New initializes a Compiler for the given config. logger may be nil, which discards logs;
// library errors are reported through return values either way.
func New(config *Config, logger *slog.Logger) (*Compiler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workers := config.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return &Compiler{
		config:   config,
		db:       incr.NewDatabase(),
		pipeline: NewPipeline(),
		executor: concurrent.NewFixedPoolExecutor(workers),
		log:      logger,
	}, nil
}

// Close shuts the compiler's worker pool down and waits for in-flight tasks to drain.
func (c *Compiler) Close() error {
	terminated, err := c.executor.Shutdown()
	if err != nil {
		return err
	}
	<-terminated
	return nil
}

// Compile runs one pass: load sources from disk, validate every document, render the
// artifacts and write the ones whose content changed. Validation covers all documents before
// any artifact is rendered, so a pass either reports every diagnostic or writes a complete
// artifact set.
func (c *Compiler) Compile(ctx context.Context) (*Stats, error) {
	start := time.Now()
	buildID := uuid.Must(uuid.NewV7()).String()
	logger := c.log.With("build", buildID)

	layout, err := c.syncSources(ctx, logger)
	if err != nil {
		return nil, err
	}

	stats := &Stats{BuildID: buildID, Documents: len(layout.DocumentPaths)}

	var errs []error
	for _, path := range layout.DocumentPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		checked, did, err := c.pipeline.CheckedDocument(c.db, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		stats.tally(did)
		stats.Operations += len(checked.Operations)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	artifacts, err := c.renderArtifacts(ctx, layout, stats)
	if err != nil {
		return nil, err
	}

	written, err := c.writeArtifacts(artifacts)
	if err != nil {
		return nil, err
	}
	stats.Artifacts = written
	stats.Elapsed = time.Since(start)

	logger.Info("build finished",
		"documents", stats.Documents,
		"operations", stats.Operations,
		"recalculated", stats.Recalculated,
		"reused", stats.Reused,
		"artifacts", stats.Artifacts,
		"elapsed", stats.Elapsed,
	)
	return stats, nil
}

// syncSources mirrors the files named by the config into the database. Slots whose content is
// unchanged are not rewritten, keeping the epoch still so untouched work verifies on the fast
// path.
func (c *Compiler) syncSources(ctx context.Context, logger *slog.Logger) (ProjectLayout, error) {
	schemaText, err := os.ReadFile(c.config.Schema)
	if err != nil {
		return ProjectLayout{}, err
	}
	c.writeSourceIfChanged(SchemaText{Path: c.config.Schema, Text: string(schemaText)})

	paths, err := expandDocumentGlobs(c.config.Documents)
	if err != nil {
		return ProjectLayout{}, err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return ProjectLayout{}, err
		}
		text, err := os.ReadFile(path)
		if err != nil {
			return ProjectLayout{}, err
		}
		c.writeSourceIfChanged(DocumentText{Path: path, Text: string(text)})
	}

	layout := ProjectLayout{SchemaPath: c.config.Schema, DocumentPaths: paths}
	c.writeSourceIfChanged(layout)

	logger.Debug("sources synced", "epoch", uint64(c.db.Epoch()), "documents", len(paths))
	return layout, nil
}

func (c *Compiler) writeSourceIfChanged(value incr.SourceValue) {
	if current, err := c.db.ReadSource(value.SourceKey()); err == nil && current.Equal(value) {
		return
	}
	c.db.WriteSource(value)
}

// expandDocumentGlobs resolves the configured patterns into a sorted, deduplicated path list.
func expandDocumentGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("documents pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				paths = append(paths, match)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

type artifactOutcome struct {
	artifact *Artifact
	did      incr.DidRecalculate
}

// renderArtifacts resolves the artifact stages. The combined schema and the per-operation
// artifacts are independent identities, so they run in parallel over the worker pool. The
// manifest resolves last: by then everything it covers is up to date and it reuses the lot.
func (c *Compiler) renderArtifacts(ctx context.Context, layout ProjectLayout, stats *Stats) ([]*Artifact, error) {
	type thunk func() (*Artifact, incr.DidRecalculate, error)

	thunks := []thunk{
		func() (*Artifact, incr.DidRecalculate, error) { return c.pipeline.CombinedSchema(c.db) },
	}
	for _, docPath := range layout.DocumentPaths {
		checked, _, err := c.pipeline.CheckedDocument(c.db, docPath)
		if err != nil {
			return nil, err
		}
		for _, op := range checked.Operations {
			docPath, name := docPath, op.Name
			thunks = append(thunks, func() (*Artifact, incr.DidRecalculate, error) {
				return c.pipeline.OperationArtifact(c.db, docPath, name)
			})
		}
	}

	handles := make([]concurrent.TaskHandle, len(thunks))
	for i, run := range thunks {
		run := run
		handle, err := c.executor.Submit(concurrent.TaskFunc(func() (interface{}, error) {
			artifact, did, err := run()
			if err != nil {
				return nil, err
			}
			return artifactOutcome{artifact: artifact, did: did}, nil
		}))
		if err != nil {
			return nil, err
		}
		handles[i] = handle
	}

	var (
		artifacts []*Artifact
		errs      []error
	)
	for _, handle := range handles {
		result, err := handle.AwaitResult(0)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		outcome := result.(artifactOutcome)
		stats.tally(outcome.did)
		artifacts = append(artifacts, outcome.artifact)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest, did, err := c.pipeline.Manifest(c.db)
	if err != nil {
		return nil, err
	}
	stats.tally(did)
	artifacts = append(artifacts, manifest)
	return artifacts, nil
}

// writeArtifacts persists artifacts under the artifact directory. Files whose content is
// already current are left untouched, so downstream file watchers only see real changes. It
// reports how many files changed.
func (c *Compiler) writeArtifacts(artifacts []*Artifact) (int, error) {
	written := 0
	for _, artifact := range artifacts {
		target := filepath.Join(c.config.ArtifactDirectory, filepath.FromSlash(artifact.Path))
		if current, err := os.ReadFile(target); err == nil && string(current) == artifact.Content {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return written, err
		}
		if err := os.WriteFile(target, []byte(artifact.Content), 0644); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
