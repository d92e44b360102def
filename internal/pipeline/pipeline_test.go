package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubStage is a configurable test stage.
type stubStage struct {
	name   string
	result Result
	err    error
	panics bool
	skip   bool
	calls  int
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) ShouldSkip(_ *Context) bool { return s.skip }

func (s *stubStage) Process(_ context.Context, input any, pc *Context) (Result, any, error) {
	s.calls++
	if s.panics {
		panic("boom")
	}
	n, _ := input.(int)
	return s.result, n + 1, s.err
}

func TestRunFullPipeline(t *testing.T) {
	a := &stubStage{name: "a", result: Continue}
	b := &stubStage{name: "b", result: Continue}
	pc := NewContext("doc-1", "f.md")

	run := NewRunner(a, b).Run(context.Background(), 0, pc)

	if run.Result != Continue {
		t.Fatalf("result = %v, want Continue", run.Result)
	}
	if run.Output != 2 {
		t.Errorf("output = %v, want 2", run.Output)
	}
	if got := run.Status(pc); got != "completed" {
		t.Errorf("status = %q, want completed", got)
	}
	for _, name := range []string{"a", "b"} {
		if _, ok := pc.StageTimings[name]; !ok {
			t.Errorf("missing timing for stage %s", name)
		}
	}
}

func TestRunStopHalts(t *testing.T) {
	a := &stubStage{name: "a", result: Stop}
	b := &stubStage{name: "b", result: Continue}
	pc := NewContext("doc-1", "f.md")
	pc.GateReason = "duplicate"

	run := NewRunner(a, b).Run(context.Background(), 0, pc)

	if run.Result != Stop {
		t.Fatalf("result = %v, want Stop", run.Result)
	}
	if run.StageName != "a" {
		t.Errorf("stage = %q, want a", run.StageName)
	}
	if b.calls != 0 {
		t.Errorf("stage b ran %d times after Stop", b.calls)
	}
	if got := run.Status(pc); got != "gated:duplicate" {
		t.Errorf("status = %q, want gated:duplicate", got)
	}
}

func TestRunErrorHalts(t *testing.T) {
	wantErr := errors.New("store down")
	a := &stubStage{name: "a", result: Error, err: wantErr}
	b := &stubStage{name: "b", result: Continue}
	pc := NewContext("doc-1", "f.md")

	run := NewRunner(a, b).Run(context.Background(), 0, pc)

	if run.Result != Error {
		t.Fatalf("result = %v, want Error", run.Result)
	}
	if !errors.Is(run.Err, wantErr) {
		t.Errorf("err = %v, want %v", run.Err, wantErr)
	}
	if b.calls != 0 {
		t.Errorf("stage b ran after Error")
	}
	if got := run.Status(pc); got != "failed:a:store down" {
		t.Errorf("status = %q", got)
	}
}

func TestRunPanicBecomesError(t *testing.T) {
	a := &stubStage{name: "a", panics: true}
	pc := NewContext("doc-1", "f.md")

	run := NewRunner(a).Run(context.Background(), 0, pc)

	if run.Result != Error {
		t.Fatalf("result = %v, want Error", run.Result)
	}
	if run.Err == nil || !strings.Contains(run.Err.Error(), "panicked") {
		t.Errorf("err = %v, want panic error", run.Err)
	}
	if _, ok := pc.StageTimings["a"]; !ok {
		t.Error("panicking stage left no timing")
	}
}

func TestRunSkipsStage(t *testing.T) {
	a := &stubStage{name: "a", result: Continue, skip: true}
	b := &stubStage{name: "b", result: Continue}
	pc := NewContext("doc-1", "f.md")

	run := NewRunner(a, b).Run(context.Background(), 0, pc)

	if a.calls != 0 {
		t.Error("skipped stage was invoked")
	}
	if _, ok := pc.StageTimings["a"]; ok {
		t.Error("skipped stage recorded a timing")
	}
	// Skipped stages pass the input through untouched.
	if run.Output != 1 {
		t.Errorf("output = %v, want 1", run.Output)
	}
}

func TestRunObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &stubStage{name: "a", result: Continue}
	pc := NewContext("doc-1", "f.md")

	run := NewRunner(a).Run(ctx, 0, pc)

	if run.Result != Error {
		t.Fatalf("result = %v, want Error", run.Result)
	}
	if !errors.Is(run.Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", run.Err)
	}
	if a.calls != 0 {
		t.Error("stage ran despite cancelled context")
	}
}

func TestResultString(t *testing.T) {
	cases := map[Result]string{
		Continue:  "continue",
		Stop:      "stop",
		Error:     "error",
		Result(9): "result(9)",
	}
	for r, want := range cases {
		if got := r.String(); got != want {
			t.Errorf("Result(%d).String() = %q, want %q", int(r), got, want)
		}
	}
}
