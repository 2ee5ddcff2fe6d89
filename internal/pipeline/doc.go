// Package pipeline runs the two-phase counting workflow over a directory of
// videos.
//
// Phase 1 ([Pipeline.ConfigureAll]) walks the catalog one video at a time,
// reads each first frame and asks the operator for counting lines. Phase 2
// runs the analyzer once per configured video. Failures are isolated per
// video: a video that cannot be opened or read is excluded, and an analyzer
// failure becomes an error outcome for that video only.
// [Pipeline.RunAutomation] drives both phases.
package pipeline
