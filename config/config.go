// Package config loads a connection/device profile from an INI file,
// mirroring the teacher's loadConfig()/conf global but as a reusable
// package instead of CLI-global state.
package config

import (
	"time"

	"gopkg.in/ini.v1"
)

// Profile holds connection defaults and vendor overrides for one camera
// connection.
type Profile struct {
	Vendor             string
	Host               string
	USBVendorID        uint16
	USBProductID       uint16
	Timeout            time.Duration
	LogLevel           int
	PreferredTransport string
}

// Default returns the zero-config fallback: auto-discovery (no vendor/
// USB ID pinned), a 5s timeout, and quiet logging.
func Default() *Profile {
	return &Profile{
		Timeout:            5 * time.Second,
		LogLevel:           0,
		PreferredTransport: "usb",
	}
}

// Load reads a Profile from an INI file at path. Missing keys keep
// Default's values.
func Load(path string) (*Profile, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	p := Default()
	sec := f.Section("")

	if k := sec.Key("vendor"); k.String() != "" {
		p.Vendor = k.String()
	}
	if k := sec.Key("host"); k.String() != "" {
		p.Host = k.String()
	}
	if v, err := sec.Key("usb_vendor_id").Uint(); err == nil && v != 0 {
		p.USBVendorID = uint16(v)
	}
	if v, err := sec.Key("usb_product_id").Uint(); err == nil && v != 0 {
		p.USBProductID = uint16(v)
	}
	if v, err := sec.Key("timeout_seconds").Int(); err == nil && v != 0 {
		p.Timeout = time.Duration(v) * time.Second
	}
	if v, err := sec.Key("log_level").Int(); err == nil {
		p.LogLevel = v
	}
	if k := sec.Key("preferred_transport"); k.String() != "" {
		p.PreferredTransport = k.String()
	}

	return p, nil
}
