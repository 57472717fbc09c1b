// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Frame server (HTTP + WebSocket), recording store
// 0.2.0 - Particles theme, pointer trail, seeded baselines
// 0.1.0 - Initial release: space backdrop in the terminal, headless ASCII frames
