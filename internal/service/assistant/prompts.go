package assistant

import "fmt"

const (
	sleepTipPrompt = "Give me one practical, science-backed sleep tip in under 20 words. " +
		"Respond with plain text only, no formatting, lists or preamble."

	// NoDreamMessage is returned when /dream_analysis gets no text.
	NoDreamMessage = "No dream provided"

	audioUnavailableMessage = "Story generated, but audio narration is unavailable right now."
)

func dreamPrompt(dream string) string {
	return fmt.Sprintf("Analyze the following dream: %s. Provide insights into its possible meanings and symbolism. Keep it under 30 words.", dream)
}

func storyPrompt(theme string) string {
	return fmt.Sprintf("Write a calming bedtime story about %s. "+
		"Keep it under 250 words, gentle and soothing, suitable for helping someone drift off to sleep. "+
		"Respond with plain text only, no title, headings or formatting.", theme)
}
