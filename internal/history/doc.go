// Package history reconstructs workout history for presentation.
//
// GroupSets turns a workout's flat, time-ordered sets into per-exercise groups.
// ResolvePreviousSets picks, for every exercise+profile a user has trained, the
// sets of the most recent workout containing it. Both are pure functions over
// records already loaded by the storage layer and are safe for concurrent use.
package history
