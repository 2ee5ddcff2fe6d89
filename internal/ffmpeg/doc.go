// Package ffmpeg builds and executes the ffmpeg commands that pull a single
// frame out of a video, with one-fix-per-attempt retry driven by stderr
// classification.
package ffmpeg
