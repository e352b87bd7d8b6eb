// Package config holds the emulator's persisted settings and the rules for
// loading, saving, cloning and applying them.
//
// A Config is created with New (constructor defaults) or Load (read from a
// TOML file, falling back to New on any error). Collaborators mutate it
// through AddRecentFile, Update, Set and InitializeDefaults, all of which
// mark it dirty. Save and SaveIfDirty write it back; a failed write leaves
// the dirty flag set so the next save retries.
//
// The on-disk layout is a TOML document with stable snake_case keys:
//
//	version = "0.5.2"
//	disable_all_cheats = false
//	region = "auto"
//
//	[audio]
//	master_volume = 100
//	...
//
//	[[recent_files]]
//	path = "/roms/smb.nes"
//	rom_name = "Super Mario Bros."
//	archive_index = -1
//
// Before decoding, the document is checked against Schema. A document that
// fails the check is treated like a corrupt file.
package config
