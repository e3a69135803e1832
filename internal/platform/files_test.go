package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "whisper-tiny", "onnx")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if info, err := os.Stat(testDir); err != nil || !info.IsDir() {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestCreateDirectoryIfNotExists_FileInTheWay(t *testing.T) {
	file := filepath.Join(t.TempDir(), "model")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := CreateDirectoryIfNotExists(file); err == nil {
		t.Error("expected error when a file exists at the directory path")
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}
	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestSplitTarget(t *testing.T) {
	folder := filepath.Join("dl", "whisper-tiny")
	tests := []struct {
		path string
		dir  string
		name string
	}{
		{"config.json", folder, "config.json"},
		{"onnx/model.onnx", filepath.Join(folder, "onnx"), "model.onnx"},
		{"a/b/c.bin", filepath.Join(folder, "a", "b"), "c.bin"},
	}

	for _, test := range tests {
		dir, name, err := SplitTarget(folder, test.path)
		if err != nil {
			t.Errorf("SplitTarget(%q) error = %v", test.path, err)
			continue
		}
		if dir != test.dir || name != test.name {
			t.Errorf("SplitTarget(%q) = %q, %q, expected %q, %q", test.path, dir, name, test.dir, test.name)
		}
	}

	for _, bad := range []string{"../escape.bin", "/etc/passwd", "", "a/../../b"} {
		if _, _, err := SplitTarget(folder, bad); !errors.Is(err, ErrUnsafePath) {
			t.Errorf("SplitTarget(%q) error = %v, expected ErrUnsafePath", bad, err)
		}
	}
}

func TestOpenFolder_Missing(t *testing.T) {
	if err := OpenFolder(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing folder")
	}
}
