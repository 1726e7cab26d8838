package services

import (
	"context"
	"fmt"

	"github.com/bobarin/echoverse/internal/models"
)

// Generation parameters shared by every rewrite provider.
const (
	rewriteMaxTokens   = 1000
	rewriteTemperature = 0.7
)

// RewriteService rewrites text in a tone using a remote generation model.
type RewriteService interface {
	// Rewrite returns the first generated candidate. An empty candidate is an error.
	Rewrite(ctx context.Context, text string, tone models.Tone) (string, error)
}

// BuildRewritePrompt embeds the tone and the text into the instruction sent to the model.
func BuildRewritePrompt(text string, tone models.Tone) string {
	return fmt.Sprintf("Rewrite the following text in a %s tone while preserving the original meaning:\n\n%s", tone.Instruction(), text)
}
