package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/elizaos/docsite/internal/content"
	"github.com/elizaos/docsite/internal/logfields"
	"github.com/elizaos/docsite/internal/manifest"
	"github.com/elizaos/docsite/internal/metrics"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// BuildState carries mutable state across stages.
type BuildState struct {
	Generator *Generator
	Corpus    *content.Corpus
	Nav       *content.Node
	Record    *manifest.BuildRecord
	Timings   map[string]time.Duration
	start     time.Time
}

func newBuildState(g *Generator, record *manifest.BuildRecord) *BuildState {
	return &BuildState{
		Generator: g,
		Record:    record,
		Timings:   make(map[string]time.Duration),
		start:     time.Now(),
	}
}

type namedStage struct {
	name string
	fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal error. Warnings accumulate on the record.
func runStages(ctx context.Context, bs *BuildState, stages []namedStage) error {
	rec := bs.Generator.recorder
	for _, st := range stages {
		select {
		case <-ctx.Done():
			rec.IncStageResult(st.name, metrics.ResultCanceled)
			return newCanceledStageError(st.name, ctx.Err())
		default:
		}

		stageStart := time.Now()
		err := st.fn(ctx, bs)
		elapsed := time.Since(stageStart)
		bs.Timings[st.name] = elapsed
		rec.ObserveStageDuration(st.name, elapsed)

		if err == nil {
			rec.IncStageResult(st.name, metrics.ResultSuccess)
			slog.Debug("Stage complete", logfields.Stage(st.name), logfields.DurationMS(float64(elapsed.Milliseconds())))
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			se = newFatalStageError(st.name, err)
		}
		switch se.Kind {
		case StageErrorWarning:
			rec.IncStageResult(st.name, metrics.ResultWarning)
			bs.Record.Problems = append(bs.Record.Problems, se.Error())
			slog.Warn("Stage finished with warning", logfields.Stage(st.name), logfields.Error(se.Err))
		case StageErrorCanceled:
			rec.IncStageResult(st.name, metrics.ResultCanceled)
			return se
		default:
			rec.IncStageResult(st.name, metrics.ResultFatal)
			return se
		}
	}
	return nil
}
