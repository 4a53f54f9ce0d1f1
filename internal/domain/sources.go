package domain

import "context"

// CaptionSource fetches the ordered caption stream for a content identifier.
// A transcript with no entries is not an error; it triggers the audio
// fallback path.
type CaptionSource interface {
	Fetch(ctx context.Context, sourceURL string) (*Transcript, error)
}

// AudioSource decodes the audio track of a content identifier into raw
// samples for the fallback path.
type AudioSource interface {
	Decode(ctx context.Context, sourceURL string) (*AudioClip, error)
}

// SpeechToText transcribes one decoded audio clip.
type SpeechToText interface {
	Transcribe(ctx context.Context, clip *AudioClip) (string, error)
}

// ContentIndex receives the concatenated transcript for later semantic
// search. Calls are fire-and-forget from the pipeline's perspective; a
// failure here never affects question generation.
type ContentIndex interface {
	IndexTranscript(ctx context.Context, sourceURL, title, text string) error
}
