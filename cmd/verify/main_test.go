package main

import (
	"context"
	"testing"
	"time"
)

func TestRunContext(t *testing.T) {
	parent := context.Background()

	ctx, cancel := runContext(parent, 0)
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("zero timeout should leave the run unbounded")
	}
	cancel()
	if ctx.Err() != nil {
		t.Fatal("cancelling an unbounded run should not affect the parent")
	}

	ctx, cancel = runContext(parent, time.Minute)
	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > time.Minute {
		t.Fatalf("deadline = %v, %v", deadline, ok)
	}
	cancel()
	if ctx.Err() != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", ctx.Err())
	}
}
