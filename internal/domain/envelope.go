package domain

// Intent identifies one of the supported request kinds.
type Intent string

const (
	IntentAsk   Intent = "ask"
	IntentDream Intent = "dream_analysis"
	IntentTip   Intent = "sleep_tip"
	IntentStory Intent = "bedtime_story"
)

// Payload field names, fixed per intent.
const (
	FieldSuccess  = "success"
	FieldError    = "error"
	FieldResponse = "response"
	FieldAnalysis = "analysis"
	FieldTips     = "tips"
	FieldStory    = "story"
	FieldAudioURL = "audio_url"
	FieldMessage  = "message"
)

// Envelope is the JSON body returned by every assistant endpoint. It always
// carries FieldSuccess.
type Envelope map[string]interface{}

// Succeeded builds a success envelope with one payload field.
func Succeeded(field string, value interface{}) Envelope {
	return Envelope{
		FieldSuccess: true,
		field:        value,
	}
}

// Failed builds a failure envelope.
func Failed(msg string) Envelope {
	return Envelope{
		FieldSuccess: false,
		FieldError:   msg,
	}
}

// Reply pairs an envelope with the HTTP status it must be sent with.
type Reply struct {
	Status   int
	Envelope Envelope
}
