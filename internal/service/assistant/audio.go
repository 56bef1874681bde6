package assistant

import (
	"encoding/json"
	"strings"
)

// audioURLKeys lists where speech providers put the audio link, in the order
// they are tried.
var audioURLKeys = []string{"audio_url", "audioUrl", "url", "audio", "file_url"}

// extractAudioURL returns the first key of audioURLKeys holding a non-empty
// string in a JSON object body.
func extractAudioURL(body []byte) (string, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", false
	}

	for _, key := range audioURLKeys {
		value, ok := fields[key]
		if !ok || value == nil {
			continue
		}
		if url, ok := value.(string); ok && strings.TrimSpace(url) != "" {
			return url, true
		}
	}
	return "", false
}

func isAudio(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "audio")
}
