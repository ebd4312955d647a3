package cmd

import (
	"context"

	"github.com/quatton/qstage/pkg/kv"
	"github.com/quatton/qstage/pkg/qart"
	"github.com/quatton/qstage/pkg/qconfig"
	"github.com/quatton/qstage/pkg/qexit"
	"github.com/quatton/qstage/pkg/qstage"
	"github.com/quatton/qstage/pkg/qtmpl"
)

// openStore returns nil when no object store is configured.
func openStore(cfg *qconfig.Config) (qart.Store, error) {
	if !cfg.S3Enabled() {
		return nil, nil
	}
	store, err := qart.NewS3Store(qart.S3Config(cfg.S3))
	if err != nil {
		return nil, err
	}
	return store, nil
}

// openCache returns nil when no cache is configured.
func openCache(ctx context.Context, cfg *qconfig.Config) (*qexit.Cache, func() error, error) {
	if !cfg.ValkeyEnabled() {
		return nil, func() error { return nil }, nil
	}
	store, err := kv.NewValkeyStore(ctx, kv.ValkeyConfig{
		Addr:     cfg.Valkey.Addr,
		Password: cfg.Valkey.Password,
		DB:       cfg.Valkey.DB,
		Prefix:   cfg.Valkey.Prefix,
	})
	if err != nil {
		return nil, nil, err
	}
	return qexit.NewCache(store, cfg.Valkey.TTL), store.Close, nil
}

func (e *env) generator() (qstage.Generator, error) {
	if e.cfg.Template == "" {
		return qtmpl.Default(), nil
	}
	return qtmpl.Load(e.resolvePath(e.cfg.Template))
}
