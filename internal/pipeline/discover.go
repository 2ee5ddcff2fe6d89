package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultInputName is the input directory used when none is given. It is
// resolved next to the executable by [DefaultInputDir].
const DefaultInputName = "input"

// Recognized video file extensions (lowercase, with leading dot).
var videoExtensions = []string{".mp4", ".avi", ".mov"}

// DefaultInputDir returns the "input" directory next to the running
// executable, or "input" relative to the working directory when the
// executable path is unknown.
func DefaultInputDir() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultInputName
	}
	return filepath.Join(filepath.Dir(exe), DefaultInputName)
}

// ResolveInputDir returns dir, or [DefaultInputDir] when dir is empty.
func ResolveInputDir(dir string) string {
	if dir == "" {
		return DefaultInputDir()
	}
	return dir
}

// ListVideos returns the names of the video files directly inside dir, in
// directory-listing order. A missing or unreadable directory yields an empty
// list, not an error.
func ListVideos(dir string) []string {
	dir = ResolveInputDir(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var videos []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if IsVideoName(e.Name()) {
			videos = append(videos, e.Name())
		}
	}
	return videos
}

// IsVideoName reports whether name ends with a recognized video extension,
// ignoring case.
func IsVideoName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
