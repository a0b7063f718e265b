// Package common contains shared constants and sentinel errors used across
// MoodKeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Collection and bucket names shared by the client and the remote store.
const (
	MoodEntriesCollection = "mood_entries"
	ImagesBucket          = "images"
	VoiceNotesBucket      = "voice_notes"
)
