package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ptpls.ini")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaultProfile(t *testing.T) {
	p := Default()
	if p.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", p.Timeout)
	}
	if p.PreferredTransport != "usb" {
		t.Errorf("PreferredTransport = %q, want usb", p.PreferredTransport)
	}
	if p.LogLevel != 0 {
		t.Errorf("LogLevel = %d, want 0", p.LogLevel)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
vendor = sony
host = 192.168.1.1
usb_vendor_id = 1356
usb_product_id = 2452
timeout_seconds = 10
log_level = 2
preferred_transport = ip
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Vendor != "sony" {
		t.Errorf("Vendor = %q, want sony", p.Vendor)
	}
	if p.Host != "192.168.1.1" {
		t.Errorf("Host = %q, want 192.168.1.1", p.Host)
	}
	if p.USBVendorID != 1356 {
		t.Errorf("USBVendorID = %d, want 1356", p.USBVendorID)
	}
	if p.USBProductID != 2452 {
		t.Errorf("USBProductID = %d, want 2452", p.USBProductID)
	}
	if p.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", p.Timeout)
	}
	if p.LogLevel != 2 {
		t.Errorf("LogLevel = %d, want 2", p.LogLevel)
	}
	if p.PreferredTransport != "ip" {
		t.Errorf("PreferredTransport = %q, want ip", p.PreferredTransport)
	}
}

func TestLoadMissingKeysKeepDefaults(t *testing.T) {
	path := writeTempConfig(t, `vendor = nikon`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Vendor != "nikon" {
		t.Errorf("Vendor = %q, want nikon", p.Vendor)
	}
	if p.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want default 5s", p.Timeout)
	}
	if p.PreferredTransport != "usb" {
		t.Errorf("PreferredTransport = %q, want default usb", p.PreferredTransport)
	}
}

func TestLoadNonexistentFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/ptpls.ini"); err == nil {
		t.Error("Load of nonexistent file returned nil error")
	}
}
