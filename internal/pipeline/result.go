package pipeline

import (
	"errors"

	"github.com/bobarin/echoverse/internal/models"
)

var (
	// ErrEmptyText is reported when there is no text to narrate. No remote call is made.
	ErrEmptyText = errors.New("text is empty")

	// ErrNoAudio is reported when synthesis produced nothing; no narration exists.
	ErrNoAudio = errors.New("no narration produced")
)

// Notifier receives user-visible notices raised while a narration is produced.
type Notifier interface {
	Notify(models.Notice)
}

// Notices collects notices in the order they were raised.
type Notices []models.Notice

func (n *Notices) Notify(notice models.Notice) {
	*n = append(*n, notice)
}

// Rewrite is the outcome of a rewrite call. Text is always usable: it holds the
// rewritten text on success and the original text when the call failed.
type Rewrite struct {
	text string
	err  error
}

// Text returns the text to narrate.
func (r Rewrite) Text() string { return r.text }

// Err returns why the rewrite fell back to the original text, or nil.
func (r Rewrite) Err() error { return r.err }

// Applied reports whether the tone was actually applied.
func (r Rewrite) Applied() bool { return r.err == nil }

// Synthesis is the outcome of a speech call. Audio is absent when the call failed.
type Synthesis struct {
	audio []byte
	err   error
}

// Audio returns the payload and whether one was produced.
func (s Synthesis) Audio() ([]byte, bool) {
	if s.err != nil || len(s.audio) == 0 {
		return nil, false
	}
	return s.audio, true
}

// Err returns why no audio was produced, or nil.
func (s Synthesis) Err() error { return s.err }
