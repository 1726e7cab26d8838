package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bobarin/echoverse/internal/models"
	"github.com/bobarin/echoverse/internal/services"
)

// Pipeline runs one narration: rewrite, then synthesize, then record.
// Calls are sequential and never retried; a failed call ends that action.
type Pipeline struct {
	rewriter services.RewriteService
	tts      services.TTSService
	now      func() time.Time
}

func New(rewriter services.RewriteService, tts services.TTSService) *Pipeline {
	return &Pipeline{
		rewriter: rewriter,
		tts:      tts,
		now:      time.Now,
	}
}

// Request is one user action.
type Request struct {
	Text  string
	Tone  models.Tone
	Voice models.Voice
}

// Outcome describes what a Run produced. Narration is nil unless audio was synthesized.
type Outcome struct {
	Narration   *models.Narration
	ToneApplied bool
	Notices     []models.Notice
	Err         error // ErrEmptyText or ErrNoAudio when Narration is nil
}

// Rewrite asks the rewrite provider for text in the requested tone. On any
// failure it raises one error notice and falls back to the original text.
func (p *Pipeline) Rewrite(ctx context.Context, text string, tone models.Tone, notify Notifier) Rewrite {
	if strings.TrimSpace(text) == "" {
		return Rewrite{text: text, err: ErrEmptyText}
	}

	rewritten, err := p.rewriter.Rewrite(ctx, text, tone)
	if err != nil {
		slog.Error("rewrite failed, using original text", "tone", tone, "error", err)
		notify.Notify(models.Notice{
			Level:   models.NoticeError,
			Message: fmt.Sprintf("Error rewriting text: %v", err),
		})
		return Rewrite{text: text, err: err}
	}

	return Rewrite{text: rewritten}
}

// Synthesize asks the speech provider for audio. On any failure it raises one
// error notice and reports absence.
func (p *Pipeline) Synthesize(ctx context.Context, text string, voice models.Voice, notify Notifier) Synthesis {
	resp, err := p.tts.GenerateSpeech(ctx, text, voice)
	if err == nil && (resp == nil || len(resp.AudioData) == 0) {
		err = ErrNoAudio
	}
	if err != nil {
		slog.Error("speech synthesis failed", "voice", voice, "error", err)
		notify.Notify(models.Notice{
			Level:   models.NoticeError,
			Message: fmt.Sprintf("Error generating audio: %v", err),
		})
		return Synthesis{err: err}
	}

	return Synthesis{audio: resp.AudioData}
}

// Run performs one narration against the session history and returns the
// history to keep. The returned history gains exactly one record on success
// and is the input history otherwise.
func (p *Pipeline) Run(ctx context.Context, history models.History, req Request) (Outcome, models.History) {
	var notices Notices

	if strings.TrimSpace(req.Text) == "" {
		notices.Notify(models.Notice{Level: models.NoticeWarning, Message: "Please provide text input."})
		return Outcome{Notices: notices, Err: ErrEmptyText}, history
	}

	rewrite := p.Rewrite(ctx, req.Text, req.Tone, &notices)
	if !rewrite.Applied() {
		notices.Notify(models.Notice{
			Level:   models.NoticeInfo,
			Message: fmt.Sprintf("Narrating the original text; the %s tone was not applied.", req.Tone.Instruction()),
		})
	}

	synthesis := p.Synthesize(ctx, rewrite.Text(), req.Voice, &notices)
	audio, ok := synthesis.Audio()
	if !ok {
		return Outcome{ToneApplied: rewrite.Applied(), Notices: notices, Err: ErrNoAudio}, history
	}

	narration := models.NewNarration(req.Text, rewrite.Text(), audio, req.Tone, req.Voice, p.now())

	slog.Info("narration created",
		"id", narration.ID(),
		"tone", req.Tone,
		"voice", req.Voice,
		"toneApplied", rewrite.Applied(),
		"audioBytes", narration.AudioSize(),
	)

	return Outcome{
		Narration:   narration,
		ToneApplied: rewrite.Applied(),
		Notices:     notices,
	}, history.Append(narration)
}
