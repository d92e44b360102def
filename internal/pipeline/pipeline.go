// Package pipeline provides the stage-pipeline orchestrator. A Runner
// threads one document through a fixed sequence of stages with a
// uniform continue/stop/error contract and per-stage timing.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/curator-cli/internal/logger"
)

// Result is a stage's control-flow outcome.
type Result int

const (
	// Continue passes the stage's output to the next stage.
	Continue Result = iota

	// Stop halts the run as a normal, non-exceptional outcome (e.g. a
	// quality-gated document). Distinguished from Error in all
	// downstream reporting.
	Stop

	// Error halts the run as a failure.
	Error
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Stage processes one step of a document's pipeline run. Stages are
// stateless with respect to other documents; all per-document state
// lives in the passed Context.
type Stage interface {
	// Name identifies the stage in timings, logs and failure statuses.
	Name() string

	// Process consumes the previous stage's output and produces the
	// next stage's input. A non-nil error implies Result Error.
	Process(ctx context.Context, input any, pc *Context) (Result, any, error)
}

// Skipper is optionally implemented by stages that can be skipped for
// some documents. Checked before each Process call.
type Skipper interface {
	ShouldSkip(pc *Context) bool
}

// RunResult is the final outcome of a pipeline run.
type RunResult struct {
	// Output is the halting stage's output (the last stage's output on
	// a full run).
	Output any

	// Result is the final control-flow outcome.
	Result Result

	// StageName is the stage that halted the run; empty on Continue.
	StageName string

	// Err is the triggering error when Result is Error.
	Err error
}

// Status renders the caller-visible status string: "completed",
// "gated:<reason>" or "failed:<stage>:<message>".
func (r *RunResult) Status(pc *Context) string {
	switch r.Result {
	case Stop:
		return "gated:" + pc.GateReason
	case Error:
		msg := "unknown"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		return fmt.Sprintf("failed:%s:%s", r.StageName, msg)
	default:
		return "completed"
	}
}

// Runner executes stages in a fixed, configured order.
type Runner struct {
	stages []Stage
}

// NewRunner creates a runner over the given stages. Order is
// significant and preserved.
func NewRunner(stages ...Stage) *Runner {
	return &Runner{stages: stages}
}

// Run threads input through every stage. Before each stage it checks
// cancellation and ShouldSkip; it times each invocation and records
// the duration in pc.StageTimings. On Stop or Error it halts
// immediately and returns that stage's output as the final output.
// A panic inside a stage is recovered and converted to Error, never
// propagated.
func (r *Runner) Run(ctx context.Context, input any, pc *Context) *RunResult {
	current := input

	for _, stage := range r.stages {
		// Cancellation is observed between stages, not inside them.
		select {
		case <-ctx.Done():
			return &RunResult{Output: current, Result: Error, StageName: stage.Name(), Err: ctx.Err()}
		default:
		}

		if s, ok := stage.(Skipper); ok && s.ShouldSkip(pc) {
			logger.Debug("Stage %s skipped for %s", stage.Name(), pc.DocID)
			continue
		}

		res, output, err := r.runStage(ctx, stage, current, pc)

		switch {
		case err != nil || res == Error:
			if err == nil {
				err = fmt.Errorf("stage %s reported error", stage.Name())
			}
			logger.Warn("Stage %s failed for %s: %v", stage.Name(), pc.DocID, err)
			return &RunResult{Output: output, Result: Error, StageName: stage.Name(), Err: err}

		case res == Stop:
			logger.Info("Stage %s gated %s: %s", stage.Name(), pc.DocID, pc.GateReason)
			return &RunResult{Output: output, Result: Stop, StageName: stage.Name()}
		}

		current = output
	}

	return &RunResult{Output: current, Result: Continue}
}

// runStage times a single stage invocation and converts panics to
// errors.
func (r *Runner) runStage(ctx context.Context, stage Stage, input any, pc *Context) (res Result, output any, err error) {
	start := time.Now()
	defer func() {
		pc.StageTimings[stage.Name()] = time.Since(start)
		if rec := recover(); rec != nil {
			res = Error
			output = nil
			err = fmt.Errorf("stage %s panicked: %v", stage.Name(), rec)
		}
	}()

	return stage.Process(ctx, input, pc)
}
