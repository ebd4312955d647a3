package services

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/quatton/qstage/pkg/qconfig"
	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qexit"
	"github.com/quatton/qstage/pkg/qjob"
	"github.com/quatton/qstage/pkg/qlog"
	"github.com/quatton/qstage/pkg/qstage"
	"github.com/quatton/qstage/pkg/qtmpl"
)

func TestNewServicesInMemory(t *testing.T) {
	svcs, err := NewServices(context.Background(), &qconfig.EnvConfig{
		CacheTTL: time.Hour,
		ClaimTTL: time.Minute,
	}, qlog.NewQuiet())
	if err != nil {
		t.Fatalf("NewServices failed: %v", err)
	}
	defer svcs.Close()

	if svcs.Store != nil {
		t.Error("Expected no object store")
	}
	if svcs.ClaimTTL != time.Minute {
		t.Errorf("Expected claim ttl 1m, got %s", svcs.ClaimTTL)
	}

	script := "run 0\n"
	p, err := svcs.Prepare(context.Background(), qjob.Job{ID: "a", Script: &script})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if !p.Claimed || p.Cached != nil {
		t.Errorf("Expected a fresh claim, got %+v", p)
	}
}

func TestNewServicesTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "md.in.tmpl")
	os.WriteFile(path, []byte("read_data {{ .StructureFilename }}\n"), 0o644)

	svcs, err := NewServices(context.Background(), &qconfig.EnvConfig{Template: path}, qlog.NewQuiet())
	if err != nil {
		t.Fatalf("NewServices failed: %v", err)
	}
	defer svcs.Close()

	p, err := svcs.Prepare(context.Background(), qjob.Job{
		Structure:  "3 atoms",
		Potential:  &qtmpl.TextPotential{Style: "atomic", Text: "pair_style eam"},
		Parameters: map[string]any{},
	})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if p.Manifest.InputText != "read_data structure.dat\n" {
		t.Errorf("Expected custom template output, got %q", p.Manifest.InputText)
	}

	_, err = NewServices(context.Background(), &qconfig.EnvConfig{Template: filepath.Join(dir, "missing")}, nil)
	if !qerr.IsCode(err, qerr.CodeConfiguration) {
		t.Errorf("Expected configuration error for missing template, got %v", err)
	}
}

func TestNewServicesConfiguredNames(t *testing.T) {
	ctx := context.Background()
	custom, err := NewServices(ctx, &qconfig.EnvConfig{
		CodeID:   "lmp_serial",
		NamesLog: "md.log",
		ClaimTTL: time.Minute,
	}, qlog.NewQuiet())
	if err != nil {
		t.Fatalf("NewServices failed: %v", err)
	}
	defer custom.Close()

	if custom.Names.Log != "md.log" || custom.Resolver.Names.Log != "md.log" {
		t.Fatalf("Expected log name md.log, got %q and %q", custom.Names.Log, custom.Resolver.Names.Log)
	}
	if custom.Names.Output != qstage.DefaultOutputFilename {
		t.Errorf("Expected default output name, got %q", custom.Names.Output)
	}

	script := "run 0\n"
	job := qjob.Job{ID: "a", Script: &script}
	p, err := custom.Prepare(ctx, job)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if p.Manifest.Invocation.CodeID != "lmp_serial" {
		t.Errorf("Expected code lmp_serial, got %q", p.Manifest.Invocation.CodeID)
	}
	if !slices.Contains(p.Manifest.Invocation.Args, "md.log") {
		t.Errorf("Expected md.log in args, got %v", p.Manifest.Invocation.Args)
	}

	defaults, err := NewServices(ctx, &qconfig.EnvConfig{}, qlog.NewQuiet())
	if err != nil {
		t.Fatalf("NewServices failed: %v", err)
	}
	defer defaults.Close()
	d, err := defaults.Prepare(ctx, job)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if d.Fingerprint == p.Fingerprint {
		t.Error("Expected configured names to change the fingerprint")
	}

	listing := func(names qstage.FileNames) []string {
		return []string{names.Log, names.Variables, names.Trajectory, names.Output, names.Stderr}
	}
	v, err := custom.Check(ctx, "run-1", Report{Listing: listing(custom.Names), Finished: true})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if v.Code != nil {
		t.Errorf("Expected run to pass, got %s", v.Detail)
	}

	v, err = custom.Check(ctx, "run-2", Report{Listing: listing(qstage.DefaultFileNames()), Finished: true})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if v.Code == nil || v.Code.Status != qexit.LogFileMissing.Status {
		t.Errorf("Expected %d for a missing md.log, got %+v", qexit.LogFileMissing.Status, v.Code)
	}
}

func TestNewServicesReservedReadRestartName(t *testing.T) {
	_, err := NewServices(context.Background(), &qconfig.EnvConfig{
		NamesReadRestart: qstage.ParentRestartFilename,
	}, qlog.NewQuiet())
	if !qerr.IsCode(err, qerr.CodeConfiguration) {
		t.Errorf("Expected configuration error, got %v", err)
	}
}
