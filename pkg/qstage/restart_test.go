package qstage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/quatton/qstage/pkg/qerr"
)

var parent = fakeFolder{
	backend: "cluster-a",
	path:    "/scratch/runs/0193",
	files:   []string{"input.in", "lammps.restart", "log.lammps"},
}

func TestResolveRestart_None(t *testing.T) {
	plan, err := ResolveRestart(DefaultOptions(), DefaultFileNames(), nil, nil)
	if err != nil {
		t.Fatalf("ResolveRestart failed: %v", err)
	}
	if plan.Continues() {
		t.Errorf("Expected no restart, got %q", plan.Filename)
	}
	if _, ok := plan.Source.(NoRestart); !ok {
		t.Errorf("Expected NoRestart source, got %T", plan.Source)
	}
	if len(plan.Transfers) != 0 {
		t.Errorf("Expected no transfers, got %v", plan.Transfers)
	}
}

func TestResolveRestart_Blob(t *testing.T) {
	blob := &Blob{ID: "blob-1", Filename: "my.restart"}

	plan, err := ResolveRestart(DefaultOptions(), DefaultFileNames(), blob, nil)
	if err != nil {
		t.Fatalf("ResolveRestart failed: %v", err)
	}

	if plan.Filename != DefaultReadRestartFilename {
		t.Errorf("Expected %s, got %s", DefaultReadRestartFilename, plan.Filename)
	}
	want := []Transfer{LocalCopy{SourceID: "blob-1", SourceName: "my.restart", Dest: DefaultReadRestartFilename}}
	if diff := cmp.Diff(want, plan.Transfers); diff != "" {
		t.Errorf("Transfers mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveRestart_ParentFolderSymlink(t *testing.T) {
	plan, err := ResolveRestart(DefaultOptions(), DefaultFileNames(), nil, parent)
	if err != nil {
		t.Fatalf("ResolveRestart failed: %v", err)
	}

	want := []Transfer{RemoteSymlink{
		BackendID:  "cluster-a",
		RemotePath: "/scratch/runs/0193/lammps.restart",
		Dest:       ParentRestartFilename,
	}}
	if diff := cmp.Diff(want, plan.Transfers); diff != "" {
		t.Errorf("Transfers mismatch (-want +got):\n%s", diff)
	}
	if plan.Filename != ParentRestartFilename {
		t.Errorf("Expected %s, got %s", ParentRestartFilename, plan.Filename)
	}
	src, ok := plan.Source.(ParentFolderSource)
	if !ok || !src.UseSymlink || src.SourceFilename != DefaultRestartFilename {
		t.Errorf("Unexpected source %+v", plan.Source)
	}
}

func TestResolveRestart_ParentFolderCopy(t *testing.T) {
	opts, err := NewSettings(map[string]any{
		SettingParentFolderSymlink: false,
		SettingPreviousRestartFile: "log.lammps",
	}).Options()
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}

	plan, err := ResolveRestart(opts, DefaultFileNames(), nil, parent)
	if err != nil {
		t.Fatalf("ResolveRestart failed: %v", err)
	}

	want := []Transfer{RemoteCopy{
		BackendID:  "cluster-a",
		RemotePath: "/scratch/runs/0193/log.lammps",
		Dest:       ParentRestartFilename,
	}}
	if diff := cmp.Diff(want, plan.Transfers); diff != "" {
		t.Errorf("Transfers mismatch (-want +got):\n%s", diff)
	}
	for _, tr := range plan.Transfers {
		if tr.Kind() == KindRemoteSymlink {
			t.Errorf("Did not expect a symlink, got %+v", tr)
		}
	}
}

func TestResolveRestart_ParentFolderWins(t *testing.T) {
	blob := &Blob{ID: "blob-1", Filename: "my.restart"}

	plan, err := ResolveRestart(DefaultOptions(), DefaultFileNames(), blob, parent)
	if err != nil {
		t.Fatalf("ResolveRestart failed: %v", err)
	}

	if plan.Filename != ParentRestartFilename {
		t.Errorf("Expected parent folder name %s, got %s", ParentRestartFilename, plan.Filename)
	}
	want := []Transfer{
		LocalCopy{SourceID: "blob-1", SourceName: "my.restart", Dest: DefaultReadRestartFilename},
		RemoteSymlink{BackendID: "cluster-a", RemotePath: "/scratch/runs/0193/lammps.restart", Dest: ParentRestartFilename},
	}
	if diff := cmp.Diff(want, plan.Transfers); diff != "" {
		t.Errorf("Transfers mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveRestart_MissingSourceFile(t *testing.T) {
	opts, err := NewSettings(map[string]any{SettingPreviousRestartFile: "absent.restart"}).Options()
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	blob := &Blob{ID: "blob-1", Filename: "my.restart"}

	plan, err := ResolveRestart(opts, DefaultFileNames(), blob, parent)
	if !qerr.IsCode(err, qerr.CodeConfiguration) {
		t.Fatalf("Expected configuration error, got %v", err)
	}
	if len(plan.Transfers) != 0 || plan.Filename != "" {
		t.Errorf("Expected an empty plan, got %+v", plan)
	}
}

func TestResolveRestart_CustomReadRestartName(t *testing.T) {
	names := FileNames{ReadRestart: "continue.restart"}
	plan, err := ResolveRestart(DefaultOptions(), names, &Blob{ID: "b", Filename: "x"}, nil)
	if err != nil {
		t.Fatalf("ResolveRestart failed: %v", err)
	}
	if plan.Filename != "continue.restart" || plan.Transfers[0].Destination() != "continue.restart" {
		t.Errorf("Expected the configured name to be used, got %+v", plan)
	}
}

func TestResolveRestart_ReadRestartNameReserved(t *testing.T) {
	names := FileNames{ReadRestart: ParentRestartFilename}
	plan, err := ResolveRestart(DefaultOptions(), names, &Blob{ID: "b", Filename: "x"}, parent)
	if !qerr.IsCode(err, qerr.CodeConfiguration) {
		t.Fatalf("Expected configuration error, got %v", err)
	}
	if len(plan.Transfers) != 0 {
		t.Errorf("Expected no transfers, got %+v", plan.Transfers)
	}
}

func TestFileNames_Validate(t *testing.T) {
	if err := (FileNames{}).Validate(); err != nil {
		t.Errorf("Expected default names to be valid, got %v", err)
	}
	if err := (FileNames{ReadRestart: "continue.restart"}).Validate(); err != nil {
		t.Errorf("Expected custom read restart name to be valid, got %v", err)
	}
	err := (FileNames{ReadRestart: ParentRestartFilename}).Validate()
	if !qerr.IsCode(err, qerr.CodeConfiguration) {
		t.Errorf("Expected configuration error, got %v", err)
	}
}

func TestRejectAmbiguousRestart(t *testing.T) {
	blob := &Blob{ID: "blob-1", Filename: "my.restart"}
	if err := RejectAmbiguousRestart(blob, parent); !isValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if err := RejectAmbiguousRestart(blob, nil); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := RejectAmbiguousRestart(nil, parent); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
