// Package config loads the tideline configuration file.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided (--config), use it
//  2. Otherwise, use ~/.config/tideline/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are empty, use defaults for those fields
//
// # TOML Format
//
//	source = "sqlite"                          # or "http"
//	db_path = "~/.local/share/tideline/archive.db"
//	api_bind = "127.0.0.1:7650"                # remote archive for source = "http"
//	listen_addr = "127.0.0.1:7650"             # tideline serve
//	log_dir = "~/.local/share/tideline/logs"
//	timezone = "Asia/Seoul"                    # IANA name, default Local
//
// Every field is optional. Values are trimmed and paths are tilde-expanded.
//
// # Errors
//
// Load returns errors for unreadable files, TOML parse failures, an unknown
// source kind, and an unknown timezone. A missing file is not an error.
//
// The timezone decides which calendar day a timestamp belongs to, which in
// turn decides day, week, and month buckets on the timeline.
package config
