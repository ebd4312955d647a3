package qconfig

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qstage"
)

func TestLoadEnv_Defaults(t *testing.T) {
	chdir(t)
	t.Setenv("QSTAGE_ENVIRONMENT", "production")

	cfg, err := LoadEnv(nil)
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Expected port 3000, got %s", cfg.Port)
	}
	if cfg.CacheTTL != 168*time.Hour {
		t.Errorf("Expected cache ttl 168h, got %s", cfg.CacheTTL)
	}
	if cfg.S3() != nil {
		t.Error("Expected no object store")
	}
}

func TestLoadEnv_DotEnvInDevelopment(t *testing.T) {
	chdir(t)
	t.Setenv("QSTAGE_ENVIRONMENT", "development")
	os.WriteFile(".env", []byte("QSTAGE_PORT=8080\nQSTAGE_RESTART_STRICT=true\n"), 0644)
	t.Cleanup(func() {
		os.Unsetenv("QSTAGE_PORT")
		os.Unsetenv("QSTAGE_RESTART_STRICT")
	})

	cfg, err := LoadEnv(nil)
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080 from .env, got %s", cfg.Port)
	}
	if !cfg.StrictRestart {
		t.Error("Expected strict restart from .env")
	}
}

func TestLoadEnv_Validation(t *testing.T) {
	chdir(t)
	t.Setenv("QSTAGE_ENVIRONMENT", "production")
	t.Setenv("QSTAGE_PORT", "http")
	t.Setenv("QSTAGE_S3_ENDPOINT", "localhost:9000")

	_, err := LoadEnv(nil)
	if !qerr.IsCode(err, qerr.CodeConfiguration) {
		t.Fatalf("Expected configuration error, got %v", err)
	}
	for _, want := range []string{"PORT", "S3_ACCESS_KEY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got %v", want, err)
		}
	}
}

func TestLoadEnv_S3(t *testing.T) {
	chdir(t)
	t.Setenv("QSTAGE_ENVIRONMENT", "production")
	t.Setenv("QSTAGE_S3_ENDPOINT", "minio:9000")
	t.Setenv("QSTAGE_S3_ACCESS_KEY", "minioadmin")
	t.Setenv("QSTAGE_S3_SECRET_KEY", "minioadmin-secret")

	cfg, err := LoadEnv(nil)
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	s3 := cfg.S3()
	if s3 == nil || s3.Endpoint != "minio:9000" || s3.Bucket != "qstage" {
		t.Errorf("Expected s3 config, got %+v", s3)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"":                  "<not set>",
		"short":             "***",
		"minioadmin-secret": "mini...cret",
	}
	for in, want := range tests {
		if got := MaskSecret(in); got != want {
			t.Errorf("MaskSecret(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestPrintMasksSecrets(t *testing.T) {
	cfg := &EnvConfig{
		Port:        "3000",
		S3Endpoint:  "minio:9000",
		S3AccessKey: "minioadmin",
		S3SecretKey: "supersecretvalue",
	}
	var b strings.Builder
	cfg.Print(func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
	})
	if strings.Contains(b.String(), "supersecretvalue") {
		t.Errorf("Expected secret to be masked, got:\n%s", b.String())
	}
	if !strings.Contains(b.String(), "supe...alue") {
		t.Errorf("Expected masked secret, got:\n%s", b.String())
	}
}

func TestLoadEnv_FileNames(t *testing.T) {
	chdir(t)
	t.Setenv("QSTAGE_ENVIRONMENT", "production")
	t.Setenv("QSTAGE_NAMES_LOG", "md.log")
	t.Setenv("QSTAGE_CODE", "lmp_serial")

	cfg, err := LoadEnv(nil)
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	names := cfg.FileNames()
	if names.Log != "md.log" {
		t.Errorf("Expected log name md.log, got %q", names.Log)
	}
	if names.Input != qstage.DefaultInputFilename {
		t.Errorf("Expected default input name, got %q", names.Input)
	}
	if cfg.CodeID != "lmp_serial" || cfg.Backend != "s3" {
		t.Errorf("Expected code lmp_serial on s3, got %q on %q", cfg.CodeID, cfg.Backend)
	}

	t.Setenv("QSTAGE_NAMES_READ_RESTART", qstage.ParentRestartFilename)
	_, err = LoadEnv(nil)
	if !qerr.IsCode(err, qerr.CodeConfiguration) {
		t.Fatalf("Expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "NAMES_READ_RESTART") {
		t.Errorf("Expected error to mention NAMES_READ_RESTART, got %v", err)
	}
}
