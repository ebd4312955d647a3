package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quatton/qstage/pkg/kv"
	"github.com/quatton/qstage/pkg/qart"
	"github.com/quatton/qstage/pkg/qconfig"
	"github.com/quatton/qstage/pkg/qexit"
	"github.com/quatton/qstage/pkg/qjob"
	"github.com/quatton/qstage/pkg/qlog"
	"github.com/quatton/qstage/pkg/qstage"
	"github.com/quatton/qstage/pkg/qtmpl"
)

// Services holds what the routes need. Store may be nil.
type Services struct {
	Preparer *qstage.Preparer
	Resolver qjob.Resolver
	Cache    *qexit.Cache
	Store    qart.Store
	Names    qstage.FileNames
	Logger   *qlog.Logger
	// ClaimTTL bounds how long a prepared manifest is reserved for one run.
	ClaimTTL time.Duration

	closers []func() error
}

// NewServices connects to the configured object store and cache. Without a
// cache address results are cached in memory.
func NewServices(ctx context.Context, cfg *qconfig.EnvConfig, logger *qlog.Logger) (*Services, error) {
	if logger == nil {
		logger = qlog.NewDefault()
	}

	names := cfg.FileNames()
	if err := names.Validate(); err != nil {
		return nil, err
	}

	generator := qtmpl.Default()
	if cfg.Template != "" {
		g, err := qtmpl.Load(cfg.Template)
		if err != nil {
			return nil, err
		}
		generator = g
	}

	var store qart.Store
	if s3 := cfg.S3(); s3 != nil {
		s3Store, err := qart.NewS3Store(qart.S3Config(*s3))
		if err != nil {
			return nil, err
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensuring bucket %s: %w", s3.Bucket, err)
		}
		store = s3Store
	}

	var kvStore kv.Store = kv.NewMemoryStore()
	if cfg.ValkeyAddr != "" {
		valkey, err := kv.NewValkeyStore(ctx, kv.ValkeyConfig{
			Addr:     cfg.ValkeyAddr,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
			Prefix:   "qstage:",
		})
		if err != nil {
			return nil, err
		}
		kvStore = valkey
	}

	codeID := cfg.CodeID
	if codeID == "" {
		codeID = "lammps"
	}
	backend := cfg.Backend
	if backend == "" {
		backend = "s3"
	}
	svcs := &Services{
		Preparer: qstage.NewPreparer(qtmpl.Passthrough{}, generator,
			qstage.WithLogger(logger),
			qstage.WithStrictRestart(cfg.StrictRestart),
		),
		Resolver: qjob.Resolver{
			Store:   store,
			Backend: backend,
			CodeID:  codeID,
			Names:   names,
		},
		Cache:    qexit.NewCache(kvStore, cfg.CacheTTL),
		Store:    store,
		Names:    names,
		Logger:   logger,
		ClaimTTL: cfg.ClaimTTL,
		closers:  []func() error{kvStore.Close},
	}
	return svcs, nil
}

// Close releases the connections opened by NewServices.
func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
