// Package config turns configuration files into slider configurations.
//
// Configuration is layered, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← RANGEBAR_*, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML, YAML or JSON
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The merged map is decoded into a Document: the slider.Config for the bar,
// the terminal theme and the log settings.
//
// # File Format
//
//	min = 0
//	max = 100
//	step = 5
//	keydown_step = 5
//
//	[handles.low]
//	value = 20
//
//	[handles.high]
//	value = 80
//	transform = "math.min(v, 95)"
//
//	[ranges.band]
//	start = "low"        # handle key
//	stop = "high"
//	pull = true
//
//	[ranges.tail]
//	start = { handle = 1 } # handle index
//	stop = 100             # fixed value
//
// Handles and ranges may also be arrays of tables with an optional key
// field. Keyed tables are ordered by key.
//
// # Sub-packages
//
//   - loader: file and environment loading into maps
//   - watcher: live reload on file changes
package config
