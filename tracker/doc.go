// Package tracker owns the per-chat phrase counters and the tracked-chat
// set, and keeps them in sync with the JSON snapshot that survives
// process restarts.
package tracker
