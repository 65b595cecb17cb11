package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	tempDir := t.TempDir()
	manifestYAML := `
class_tag: "test.adapter.v1"
create_before_destroy: true
entrypoint: test.wasm
capabilities:
  - net:outbound
  - fs:temp
author: Test Author
version: "1.0.0"
`
	manifestPath := filepath.Join(tempDir, "manifest.yaml")
	if err := os.WriteFile(manifestPath, []byte(manifestYAML), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	wasmPath := filepath.Join(tempDir, "test.wasm")
	if err := os.WriteFile(wasmPath, []byte("fake wasm module"), 0644); err != nil {
		t.Fatalf("write wasm stub: %v", err)
	}

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	if manifest.ClassTag != "test.adapter.v1" {
		t.Errorf("ClassTag = %q, want test.adapter.v1", manifest.ClassTag)
	}
	if !manifest.CreateBeforeDestroy {
		t.Error("expected CreateBeforeDestroy = true")
	}
	if manifest.WasmPath() != wasmPath {
		t.Errorf("WasmPath() = %q, want %q", manifest.WasmPath(), wasmPath)
	}
	if len(manifest.Capabilities) != 2 {
		t.Errorf("expected 2 capabilities, got %v", manifest.Capabilities)
	}
}

func TestLoadManifestRequiresClassTagAndEntrypoint(t *testing.T) {
	tempDir := t.TempDir()

	cases := []struct {
		name string
		yaml string
	}{
		{"missing class_tag", "entrypoint: test.wasm\n"},
		{"missing entrypoint", "class_tag: test.adapter\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(tempDir, tc.name+".yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatalf("write manifest: %v", err)
			}
			if _, err := LoadManifest(path); err == nil {
				t.Error("expected validation error, got none")
			}
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	module := []byte("a compiled wasm module")

	noChecksum := &Manifest{ClassTag: "t"}
	if err := noChecksum.VerifyChecksum(module); err != nil {
		t.Errorf("manifest with no checksum should be unverifiable, not an error: %v", err)
	}

	mismatched := &Manifest{ClassTag: "t", Checksum: "deadbeef"}
	if err := mismatched.VerifyChecksum(module); err == nil {
		t.Error("expected checksum mismatch error")
	}
}

func TestCapabilityEnforcer(t *testing.T) {
	tempDir := t.TempDir()
	enforcer := newCapabilityEnforcer([]string{CapFSTemp}, tempDir)

	t.Run("grants only declared capabilities", func(t *testing.T) {
		if !enforcer.has(CapFSTemp) {
			t.Error("expected fs:temp to be granted")
		}
		if enforcer.has(CapNetOutbound) {
			t.Error("expected net:outbound to NOT be granted")
		}
	})

	t.Run("temp file round trip", func(t *testing.T) {
		if err := enforcer.writeTempFile("a.txt", []byte("hello")); err != nil {
			t.Fatalf("writeTempFile: %v", err)
		}
		data, err := enforcer.readTempFile("a.txt")
		if err != nil {
			t.Fatalf("readTempFile: %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("got %q, want hello", data)
		}
		if err := enforcer.cleanup(); err != nil {
			t.Fatalf("cleanup: %v", err)
		}
		if _, err := enforcer.readTempFile("a.txt"); err == nil {
			t.Error("expected file to be gone after cleanup")
		}
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		if err := enforcer.writeTempFile("../escape.txt", []byte("x")); err == nil {
			t.Error("expected path traversal to be rejected")
		}
	})

	t.Run("denies ungranted capability", func(t *testing.T) {
		if _, err := enforcer.httpRequest(context.Background(), "GET", "http://localhost:1", nil); err == nil {
			t.Error("expected net:outbound denial")
		}
	})
}

func TestRegistryOpenMissingManifest(t *testing.T) {
	r := New(nil)
	if _, err := r.Open(context.Background(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error opening a missing manifest")
	}
}
