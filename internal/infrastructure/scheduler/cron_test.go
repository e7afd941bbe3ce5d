package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestCronSchedulerRunsJob(t *testing.T) {
	t.Parallel()

	sched := NewCronScheduler("@every 1s", nil)
	var runs atomic.Int32

	if err := sched.Start(context.Background(), func(time.Time) { runs.Add(1) }); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if sched.Next().IsZero() {
		t.Fatal("expected next activation after start")
	}

	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if runs.Load() == 0 {
		t.Fatal("job never ran")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sched.Stop(ctx); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if !sched.Next().IsZero() {
		t.Fatal("expected no next activation after stop")
	}
}

func TestCronSchedulerRejectsBadSpec(t *testing.T) {
	t.Parallel()

	sched := NewCronScheduler("not a schedule", nil)
	if err := sched.Start(context.Background(), func(time.Time) {}); err == nil {
		t.Fatal("expected parse error")
	}
	if err := sched.Stop(context.Background()); err != nil {
		t.Fatalf("Stop on idle scheduler: %v", err)
	}
}
