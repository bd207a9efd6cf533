package datauri

import "github.com/spf13/afero"

// DefaultFs is the filesystem used by Encoders created without WithFilesystem
// and by LoadConfig. It defaults to the OS filesystem but can be overridden for testing.
//
// Example usage for testing:
//
//	func TestMyView(t *testing.T) {
//	    memFs := afero.NewMemMapFs()
//	    afero.WriteFile(memFs, "/app/logo.png", png, 0o644)
//	    datauri.SetDefaultFs(memFs)
//	    defer datauri.ResetDefaultFs()
//	    // ... test code ...
//	}
var DefaultFs afero.Fs = afero.NewOsFs()

// SetDefaultFs sets the global default filesystem.
// Encoders capture the filesystem when they are created, so call this
// before New.
//
// WARNING: This modifies global state and is NOT thread-safe.
// Do not use with t.Parallel() tests. For concurrent tests,
// use WithFilesystem() on individual encoders instead.
func SetDefaultFs(fs afero.Fs) {
	DefaultFs = fs
}

// ResetDefaultFs resets the global filesystem to the OS filesystem.
// Call this in test cleanup to restore default behavior.
func ResetDefaultFs() {
	DefaultFs = afero.NewOsFs()
}
