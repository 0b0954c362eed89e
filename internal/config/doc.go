// Package config provides the configuration system for tilestorm.
//
// Configuration is assembled from three layers, higher layers overriding
// lower ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← TILESTORM_HISTORY_CAPACITY=50
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/tilestorm/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// The config file is TOML and may pull in other files with @include:
//
//	"@include" = "shared.toml"
//
//	[history]
//	capacity = 200
//
//	[logging]
//	level = "debug"
//
//	[map]
//	rows = 16
//	columns = 16
//
// # Sub-packages
//
//   - loader: TOML and environment variable loading
//   - watcher: File watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	doc, err := document.New(cfg.Map.Rows, cfg.Map.Columns,
//	    document.WithCapacity(cfg.History.Capacity))
package config
