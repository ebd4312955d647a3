package services

import (
	"context"
	"fmt"
	"time"

	"github.com/quatton/qstage/pkg/qart"
	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qexit"
	"github.com/quatton/qstage/pkg/qjob"
	"github.com/quatton/qstage/pkg/qstage"
)

// Prepared is a manifest together with what the cache knows about it.
type Prepared struct {
	JobID       string
	Fingerprint string
	Manifest    *qstage.Manifest
	// Cached is a previous successful run of the same manifest.
	Cached *qexit.Result
	// Claimed is set when this job may run the manifest. It is false when
	// another run holds the claim or a cached result exists.
	Claimed bool
}

// Prepare resolves job into a manifest and looks it up in the result cache.
func (s *Services) Prepare(ctx context.Context, job qjob.Job) (*Prepared, error) {
	req, err := s.Resolver.Request(ctx, job)
	if err != nil {
		return nil, err
	}
	manifest, err := s.Preparer.Prepare(req)
	if err != nil {
		return nil, err
	}
	fingerprint, err := manifest.Fingerprint()
	if err != nil {
		return nil, err
	}

	p := &Prepared{JobID: req.ID, Fingerprint: fingerprint, Manifest: manifest}
	if p.Cached, err = s.Cache.Get(ctx, fingerprint); err != nil {
		return nil, err
	}
	if p.Cached == nil {
		if p.Claimed, err = s.Cache.Claim(ctx, fingerprint, req.ID, s.ClaimTTL); err != nil {
			return nil, err
		}
	}
	s.Logger.Info("prepared manifest", "job", req.ID, "fingerprint", fingerprint, "cached", p.Cached != nil)
	return p, nil
}

// Report is what a finished run left behind.
type Report struct {
	Fingerprint string
	// Listing is read from object storage when nil.
	Listing   []string
	Temporary []string
	Finished  bool
	Expect    qexit.Expectations
}

// Verdict is the result of checking a run against the output contract.
type Verdict struct {
	// Code is nil when every expected file was retrieved.
	Code             *qexit.ExitCode
	Detail           string
	CacheInvalidated bool
}

// Check evaluates a finished run and updates the result cache.
func (s *Services) Check(ctx context.Context, runID string, r Report) (Verdict, error) {
	outcome := qexit.Outcome{
		Listing:   r.Listing,
		Temporary: r.Temporary,
		Finished:  r.Finished,
	}
	if r.Listing == nil {
		if s.Store == nil {
			return Verdict{}, qerr.Errorf(qerr.CodeValidation, "listing is required when no object store is configured")
		}
		folder, err := qart.OpenFolder(ctx, s.Store, s.Resolver.Backend, runID)
		if err != nil {
			outcome.ListErr = err
		} else {
			outcome.Listing = folder.Listdir()
		}
	}

	failure := qexit.Check(s.Names, r.Expect, outcome)
	if failure == nil {
		if r.Fingerprint != "" {
			err := s.Cache.Put(ctx, qexit.Result{
				Fingerprint: r.Fingerprint,
				RunID:       runID,
				Listing:     outcome.Listing,
				FinishedAt:  time.Now().UTC(),
			})
			if err != nil {
				return Verdict{}, err
			}
		}
		return Verdict{}, nil
	}

	code, ok := qexit.FromError(failure)
	if !ok {
		return Verdict{}, fmt.Errorf("check run %s: %w", runID, failure)
	}
	v := Verdict{Code: &code, Detail: failure.Error()}
	if r.Fingerprint != "" {
		dropped, err := s.Cache.Report(ctx, r.Fingerprint, failure)
		if err != nil {
			return Verdict{}, err
		}
		v.CacheInvalidated = dropped
	}
	s.Logger.Warn("run failed output check", "run", runID, "status", code.Status, "label", code.Label)
	return v, nil
}
