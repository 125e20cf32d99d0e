package opstate

import (
	"errors"
	"testing"
)

func TestOp_Lifecycle(t *testing.T) {
	var op Op[string]

	if op.Status() != Idle {
		t.Fatalf("expected zero value to be Idle, got %s", op.Status())
	}

	if !op.Start() {
		t.Fatal("expected first Start to succeed")
	}
	if !op.InFlight() {
		t.Error("expected InFlight after Start")
	}
	if op.Start() {
		t.Error("expected second Start to be refused while in flight")
	}

	op.Succeed("done")
	if op.Status() != Succeeded || op.Value() != "done" {
		t.Errorf("expected Succeeded(done), got %s(%q)", op.Status(), op.Value())
	}

	// A new call clears the previous result
	op.Start()
	if op.Value() != "" {
		t.Errorf("expected value cleared on restart, got %q", op.Value())
	}

	boom := errors.New("boom")
	op.Fail(boom)
	if op.Status() != Failed || !errors.Is(op.Err(), boom) {
		t.Errorf("expected Failed(boom), got %s(%v)", op.Status(), op.Err())
	}

	op.Reset()
	if op.Status() != Idle || op.Err() != nil {
		t.Errorf("expected Idle after reset, got %s", op.Status())
	}
}

func TestOp_Finish(t *testing.T) {
	var op Op[int]

	op.Start()
	op.Finish(7, nil)
	if op.Status() != Succeeded || op.Value() != 7 {
		t.Errorf("expected Succeeded(7), got %s(%d)", op.Status(), op.Value())
	}

	op.Start()
	op.Finish(7, errors.New("nope"))
	if op.Status() != Failed || op.Value() != 0 {
		t.Errorf("expected Failed with zero value, got %s(%d)", op.Status(), op.Value())
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Idle, "idle"},
		{InFlight, "in-flight"},
		{Succeeded, "succeeded"},
		{Failed, "failed"},
		{Status(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
