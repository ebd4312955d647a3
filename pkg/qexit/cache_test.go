package qexit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quatton/qstage/pkg/kv"
)

func seeded(t *testing.T) (*Cache, context.Context) {
	t.Helper()
	ctx := context.Background()
	c := NewCache(kv.NewMemoryStore(), 0)
	err := c.Put(ctx, Result{
		Fingerprint: "abc",
		RunID:       "run-1",
		Listing:     complete(),
		FinishedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	return c, ctx
}

func TestCacheGet(t *testing.T) {
	c, ctx := seeded(t)

	r, err := c.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if r == nil || r.RunID != "run-1" {
		t.Fatalf("Expected run-1, got %+v", r)
	}

	r, err = c.Get(ctx, "other")
	if err != nil || r != nil {
		t.Errorf("Expected no result, got %+v (err=%v)", r, err)
	}
}

func TestCacheReport(t *testing.T) {
	tests := []struct {
		name    string
		failure error
		dropped bool
	}{
		{"log missing", LogFileMissing, true},
		{"no folder", &Failure{Code: NoRetrievedFolder, Err: errors.New("gone")}, true},
		{"stdout missing", StdoutFileMissing, false},
		{"not finished", CalculationDidNotFinish, false},
		{"parse failure", ParseFailure(ParsingFinalVariables, errors.New("bad")), false},
		{"plain error", errors.New("scheduler down"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ctx := seeded(t)
			dropped, err := c.Report(ctx, "abc", tt.failure)
			if err != nil {
				t.Fatalf("Report failed: %v", err)
			}
			if dropped != tt.dropped {
				t.Errorf("Expected dropped=%v, got %v", tt.dropped, dropped)
			}
			r, _ := c.Get(ctx, "abc")
			if (r == nil) != tt.dropped {
				t.Errorf("Expected cached result present=%v", !tt.dropped)
			}
		})
	}
}

func TestCacheClaim(t *testing.T) {
	ctx := context.Background()
	c := NewCache(kv.NewMemoryStore(), 0)

	ok, err := c.Claim(ctx, "abc", "run-1", time.Hour)
	if err != nil || !ok {
		t.Fatalf("Expected claim, got ok=%v err=%v", ok, err)
	}
	if ok, _ := c.Claim(ctx, "abc", "run-2", time.Hour); ok {
		t.Error("Expected second claim to fail")
	}

	if _, err := c.Report(ctx, "abc", StderrFileMissing); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if ok, _ := c.Claim(ctx, "abc", "run-3", time.Hour); !ok {
		t.Error("Expected claim to be released after report")
	}
}
