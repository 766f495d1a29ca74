package models

import (
	"time"
)

// CategoryScore is one ranked label from a classification call.
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// TranscriptionMessage is the inbound queue payload. Transcription is the
// only required field; everything else passes through to the outbound side.
type TranscriptionMessage struct {
	Transcription string   `json:"transcription"`
	Tags          []string `json:"tags,omitempty"`
	Category      string   `json:"category,omitempty"`
	ChannelID     string   `json:"channelId,omitempty"`
	VideoID       string   `json:"videoId,omitempty"`
	AudioPart     string   `json:"audioPart,omitempty"`
}

// EnrichedMessage is the outbound queue payload: the ranked categories plus
// the pass-through identifiers and original text.
//
// The audio part field is serialized as "audio_part" while the inbound field
// is "audioPart". Downstream consumers already depend on the snake_case name,
// so it stays.
type EnrichedMessage struct {
	CategorizationResult []CategoryScore `json:"categorization_result"`
	ChannelID            string          `json:"channelId"`
	VideoID              string          `json:"videoId"`
	AudioPart            string          `json:"audio_part"`
	Transcription        string          `json:"transcription"`
}

// Categorization mirrors the categorization table: one row per processed
// transcription event.
type Categorization struct {
	ID        int64     `db:"id"`
	ChannelID string    `db:"channel_id"`
	VideoID   string    `db:"video_id"`
	AudioPart string    `db:"audio_part"`
	CreatedAt time.Time `db:"created_at"`
}

// Category mirrors the category table. Name is unique store-wide; rows are
// created by upsert and never deleted by this service.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}
