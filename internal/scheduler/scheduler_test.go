package scheduler

import (
	"errors"
	"testing"
	"time"
)

func TestServiceAddJobValidatesInput(t *testing.T) {
	svc, err := New(time.UTC)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	svc.Start()
	t.Cleanup(func() { _ = svc.Stop() })

	if _, err := svc.AddJob(" ", "* * * * *", func() {}); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("expected ErrEmptyJobName, got %v", err)
	}
	if _, err := svc.AddJob("job", "", func() {}); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("expected ErrEmptyCronExpr, got %v", err)
	}
	if _, err := svc.AddJob("job", "not a cron", func() {}); err == nil {
		t.Fatalf("expected invalid cron error")
	}
	job, err := svc.AddJob("job", "*/5 * * * *", func() {})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	if job.Name() != "job" {
		t.Fatalf("job name = %q", job.Name())
	}
}

func TestNilServiceIsNotInitialized(t *testing.T) {
	var svc *Service
	if err := svc.Stop(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := svc.AddJob("job", "* * * * *", func() {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}
