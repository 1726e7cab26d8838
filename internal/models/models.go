package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Enums
type Tone string

const (
	ToneNeutral     Tone = "Neutral"
	ToneSuspenseful Tone = "Suspenseful"
	ToneInspiring   Tone = "Inspiring"
)

type Voice string

const (
	VoiceLisa    Voice = "en-US_LisaV3Voice"
	VoiceMichael Voice = "en-US_MichaelV3Voice"
	VoiceAllison Voice = "en-US_AllisonV3Voice"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

var (
	ErrUnknownTone  = errors.New("unknown tone")
	ErrUnknownVoice = errors.New("unknown voice")
)

// Tones returns the selectable tones in display order.
func Tones() []Tone {
	return []Tone{ToneNeutral, ToneSuspenseful, ToneInspiring}
}

// Voices returns the selectable voices in display order.
func Voices() []Voice {
	return []Voice{VoiceLisa, VoiceMichael, VoiceAllison}
}

// ParseTone matches s against the known tones, ignoring case.
// An empty string selects ToneNeutral.
func ParseTone(s string) (Tone, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ToneNeutral, nil
	}
	for _, t := range Tones() {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTone, s)
}

// ParseVoice matches s against the known voice identifiers exactly.
// An empty string selects VoiceLisa.
func ParseVoice(s string) (Voice, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return VoiceLisa, nil
	}
	for _, v := range Voices() {
		if s == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVoice, s)
}

// Instruction is the lower-case form embedded in rewrite prompts.
func (t Tone) Instruction() string {
	return strings.ToLower(string(t))
}

// Notice is a message meant for the person driving the session.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Models

// Narration is one produced narration. It is immutable once created.
type Narration struct {
	id            uuid.UUID
	originalText  string
	rewrittenText string
	audio         []byte
	tone          Tone
	voice         Voice
	createdAt     time.Time
}

// NewNarration builds a record with a fresh id. The audio slice is copied.
func NewNarration(original, rewritten string, audio []byte, tone Tone, voice Voice, createdAt time.Time) *Narration {
	return &Narration{
		id:            uuid.New(),
		originalText:  original,
		rewrittenText: rewritten,
		audio:         append([]byte(nil), audio...),
		tone:          tone,
		voice:         voice,
		createdAt:     createdAt,
	}
}

func (n *Narration) ID() uuid.UUID { return n.id }
func (n *Narration) OriginalText() string { return n.originalText }
func (n *Narration) RewrittenText() string { return n.rewrittenText }
func (n *Narration) Tone() Tone { return n.tone }
func (n *Narration) Voice() Voice { return n.voice }
func (n *Narration) CreatedAt() time.Time { return n.createdAt }
func (n *Narration) AudioSize() int { return len(n.audio) }

// Audio returns a copy of the MP3 payload.
func (n *Narration) Audio() []byte {
	return append([]byte(nil), n.audio...)
}

// DownloadName is the attachment file name offered for the audio.
func (n *Narration) DownloadName() string {
	return fmt.Sprintf("narration_%s.mp3", n.createdAt.Format("2006-01-02_15-04-05"))
}

// narrationJSON is the wire form used by session stores that serialize records.
type narrationJSON struct {
	ID            uuid.UUID `json:"id"`
	OriginalText  string    `json:"original_text"`
	RewrittenText string    `json:"rewritten_text"`
	Audio         []byte    `json:"audio"`
	Tone          Tone      `json:"tone"`
	Voice         Voice     `json:"voice"`
	CreatedAt     time.Time `json:"created_at"`
}

func (n *Narration) MarshalJSON() ([]byte, error) {
	return json.Marshal(narrationJSON{
		ID:            n.id,
		OriginalText:  n.originalText,
		RewrittenText: n.rewrittenText,
		Audio:         n.audio,
		Tone:          n.tone,
		Voice:         n.voice,
		CreatedAt:     n.createdAt,
	})
}

func (n *Narration) UnmarshalJSON(data []byte) error {
	var raw narrationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == uuid.Nil {
		return errors.New("narration is missing an id")
	}
	*n = Narration{
		id:            raw.ID,
		originalText:  raw.OriginalText,
		rewrittenText: raw.RewrittenText,
		audio:         raw.Audio,
		tone:          raw.Tone,
		voice:         raw.Voice,
		createdAt:     raw.CreatedAt,
	}
	return nil
}

// History is the append-only list of narrations produced in one session,
// kept in creation order. The zero value is an empty history.
type History struct {
	records []*Narration
}

// NewHistory wraps records that are already in creation order.
func NewHistory(records ...*Narration) History {
	return History{records: append([]*Narration(nil), records...)}
}

// Append returns a history with n added at the end. The receiver is unchanged.
func (h History) Append(n *Narration) History {
	next := make([]*Narration, len(h.records), len(h.records)+1)
	copy(next, h.records)
	return History{records: append(next, n)}
}

// Len reports the number of narrations.
func (h History) Len() int {
	return len(h.records)
}

// Since yields, oldest first, the narrations h holds beyond base. It is used
// when h was produced from base by Append.
func (h History) Since(base History) iter.Seq[*Narration] {
	return func(yield func(*Narration) bool) {
		for i := base.Len(); i < len(h.records); i++ {
			if !yield(h.records[i]) {
				return
			}
		}
	}
}

// Newest yields narrations most recent first.
func (h History) Newest() iter.Seq[*Narration] {
	return func(yield func(*Narration) bool) {
		for i := len(h.records) - 1; i >= 0; i-- {
			if !yield(h.records[i]) {
				return
			}
		}
	}
}

// DTOs for API responses

type NarrationResponse struct {
	ID            uuid.UUID `json:"id"`
	OriginalText  string    `json:"original_text"`
	RewrittenText string    `json:"rewritten_text"`
	Tone          Tone      `json:"tone"`
	Voice         Voice     `json:"voice"`
	CreatedAt     time.Time `json:"created_at"`
	AudioBytes    int       `json:"audio_bytes"`
	AudioURL      string    `json:"audio_url"`
	DownloadURL   string    `json:"download_url"`
	DownloadName  string    `json:"download_name"`
}

type CreateNarrationRequest struct {
	Text  string `json:"text"`
	Tone  string `json:"tone,omitempty"`  // Default: Neutral
	Voice string `json:"voice,omitempty"` // Default: en-US_LisaV3Voice
}

type CreateNarrationResponse struct {
	Narration   *NarrationResponse `json:"narration,omitempty"`
	ToneApplied bool               `json:"tone_applied"`
	Notices     []Notice           `json:"notices"`
}

type ListNarrationsResponse struct {
	Narrations []NarrationResponse `json:"narrations"`
	Total      int                 `json:"total"`
}

type OptionsResponse struct {
	Tones  []Tone  `json:"tones"`
	Voices []Voice `json:"voices"`
}
