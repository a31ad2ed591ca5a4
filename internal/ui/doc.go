// Package ui is the secondbrain terminal interface, built on Bubble Tea.
//
// # Layout
//
//	┌ header ───────────────────────────────────────────┐
//	│ secondbrain  READY  API http://localhost:8000/query│
//	│ enter:Ask  ctrl+l:Activity  f1:Help  ctrl+t:Nightfox
//	├ input ────────────────────────────────────────────┤
//	│ › what is RAG?                           [ Ask ]  │
//	├ body ─────────────────────────────────────────────┤
//	│ Idle     "Ready to help" placeholder              │
//	│ Loading  spinner, input read-only                 │
//	│ Success  question line + scrollable answer        │
//	│ Error    message, kind hint, retry hint           │
//	└───────────────────────────────────────────────────┘
//
// Answers are rendered as markdown with glamour unless the user turns it off
// (ctrl+o). Help (f1) and the activity panel (ctrl+l) are centered overlays;
// the activity panel tails the client's own log file through logtail.
//
// # State Flow
//
// The model never decides request outcomes. Enter, alt+enter and ctrl+s all
// run Lifecycle.Submit inside a tea.Cmd; the lifecycle applies the blank and
// in-flight guards. Transitions arrive two ways: Run subscribes to the
// lifecycle and forwards every state with Program.Send, and the command that
// ran Submit returns the settled state. The model keeps whichever has the
// higher State.Version, so duplicates and late deliveries are dropped.
//
// Lifecycle calls that notify subscribers are always made from commands.
// Calling them from Update would block on Program.Send from the event loop.
//
// # Preferences
//
// Theme (ctrl+t) and markdown mode (ctrl+o) are saved to prefs.toml as soon
// as they change.
package ui
