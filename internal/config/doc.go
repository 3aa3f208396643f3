// Package config loads and validates marquee's TOML configuration.
//
// Configuration lives at ~/.config/marquee/config.toml by default; a missing
// file yields the repository defaults. Paths are normalized (~ expansion,
// absolute resolution) before validation so the rest of the engine never
// handles relative or home-prefixed paths.
package config
