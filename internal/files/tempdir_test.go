package files

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestTempDir_UsesTMPDIR(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("TMPDIR is not consulted on windows")
	}
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	got, err := TempDir()
	if err != nil {
		t.Fatalf("TempDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("TempDir() = %q, want %q", got, dir)
	}
}

func TestTempDir_MissingTMPDIR(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("TMPDIR is not consulted on windows")
	}
	t.Setenv("TMPDIR", filepath.Join(t.TempDir(), "gone"))

	got, err := TempDir()
	if err == nil {
		t.Fatalf("TempDir() = %q, want error", got)
	}
	if got != "" {
		t.Errorf("TempDir() returned %q alongside an error", got)
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		dir     string
		wantErr bool
	}{
		{name: "writable directory", dir: dir},
		{name: "empty path", dir: "", wantErr: true},
		{name: "missing", dir: filepath.Join(dir, "missing"), wantErr: true},
		{name: "regular file", dir: file, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDir(tt.dir)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDir(%q) error = %v, wantErr %v", tt.dir, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDir_NotDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDir(file); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("ValidateDir() error = %v, want ErrNotDirectory", err)
	}
}

func TestValidateDir_LeavesNoProbeFile(t *testing.T) {
	dir := t.TempDir()
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("ValidateDir() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("ValidateDir() left %d entries behind", len(entries))
	}
}

func TestValidateDir_ReadOnly(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if err := ValidateDir(dir); err == nil {
		t.Error("ValidateDir() on read-only directory: want error")
	}
}
