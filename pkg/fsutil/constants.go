package fsutil

// File and directory permission constants used for created archives and
// configuration files.
const (
	// Default file modes.
	FileModeDefault = 0o644 // -rw-r--r--: Finished archives and config files
	FileModeSecure  = 0o600 // -rw-------: Temporary files while being written

	// Directory modes.
	DirModeDefault = 0o755 // drwxr-xr-x: Default for directories
)
