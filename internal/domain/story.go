package domain

// AudioOutcomeKind is the terminal state of the speech stage.
type AudioOutcomeKind int

const (
	AudioUnavailable AudioOutcomeKind = iota
	AudioURLFound
	AudioFileSaved
)

func (k AudioOutcomeKind) String() string {
	switch k {
	case AudioURLFound:
		return "url_found"
	case AudioFileSaved:
		return "file_saved"
	default:
		return "unavailable"
	}
}

// AudioOutcome describes what the speech stage produced. URL is set for
// AudioURLFound and AudioFileSaved, Reason for AudioUnavailable.
type AudioOutcome struct {
	Kind   AudioOutcomeKind
	URL    string
	File   string
	Reason string
}

func URLFound(url string) AudioOutcome {
	return AudioOutcome{Kind: AudioURLFound, URL: url}
}

func FileSaved(file, url string) AudioOutcome {
	return AudioOutcome{Kind: AudioFileSaved, File: file, URL: url}
}

func Unavailable(reason string) AudioOutcome {
	return AudioOutcome{Kind: AudioUnavailable, Reason: reason}
}

// StoryResult is a generated bedtime story plus whatever audio could be
// attached to it.
type StoryResult struct {
	Story string
	Audio AudioOutcome
}
