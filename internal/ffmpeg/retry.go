package ffmpeg

// RetryAction identifies which fix was applied (or none).
type RetryAction int

const (
	RetryNone          RetryAction = iota
	RetryFixTimestamps             // Enable +genpts+discardcorrupt.
	RetryIgnoreErrors              // Keep decoding past corrupt packets.
)

const maxAttempts = 3

// RetryState tracks which fallback fixes have been applied across ffmpeg
// attempts for a single frame extraction.
type RetryState struct {
	Attempt     int
	MaxAttempts int

	TimestampFix bool
	IgnoreErrors bool
}

// NewRetryState returns a state with no fixes applied.
func NewRetryState() *RetryState {
	return &RetryState{MaxAttempts: maxAttempts}
}

// Advance inspects stderr from a failed ffmpeg run, finds the first matching
// error pattern whose fix has not yet been applied, applies that fix, and
// returns the action taken. Returns RetryNone when no fixable pattern matches
// or the attempt limit is reached.
//
// Pattern evaluation order: timestamp → corrupt input.
func (s *RetryState) Advance(stderr string) RetryAction {
	s.Attempt++
	if s.Attempt >= s.MaxAttempts {
		return RetryNone
	}

	if !s.TimestampFix && MatchTimestampIssue(stderr) {
		s.TimestampFix = true
		return RetryFixTimestamps
	}
	if !s.IgnoreErrors && MatchCorruptInput(stderr) {
		s.IgnoreErrors = true
		return RetryIgnoreErrors
	}
	return RetryNone
}

// String names the fix for log messages.
func (a RetryAction) String() string {
	switch a {
	case RetryFixTimestamps:
		return "fix timestamps"
	case RetryIgnoreErrors:
		return "ignore decode errors"
	default:
		return "none"
	}
}
