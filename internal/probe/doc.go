// Package probe provides ffprobe-based media inspection. A single JSON call
// per file tells the frame capture whether a video has a decodable primary
// video stream and what its dimensions are.
package probe
