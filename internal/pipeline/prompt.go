package pipeline

import (
	"fmt"
	"strings"

	"github.com/haasonsaas/verbatim/pkg/models"
)

// Mode selects how retrieved context is presented to the model.
type Mode string

const (
	// ModeBaseline answers from summaries alone, with no citation
	// instructions. Its answers are the control in benchmarks.
	ModeBaseline Mode = "baseline"

	// ModeEnhanced supplies the source record text and instructs the
	// model to support claims with inline verbatim quotes in the
	// `> "..." — record_id` convention the evaluator parses.
	ModeEnhanced Mode = "enhanced"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeBaseline:
		return ModeBaseline, nil
	case ModeEnhanced, "":
		return ModeEnhanced, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want baseline or enhanced)", s)
	}
}

const systemPrompt = "You are a helpful assistant that analyzes user feedback."

func buildPrompt(query string, results []*models.SearchResult, mode Mode) string {
	var sb strings.Builder

	sb.WriteString("You are a helpful assistant that answers questions based on user feedback summaries.\n\n")
	sb.WriteString("Context from user feedback:\n")
	for i, result := range results {
		if mode == ModeEnhanced {
			fmt.Fprintf(&sb, "Feedback %d (record_id: %s)\nSummary: %s\nVerbatim feedback: %s\n\n",
				i+1, result.RecordID, result.Content, result.RecordContent)
		} else {
			fmt.Fprintf(&sb, "Feedback %d: %s\n\n", i+1, result.Content)
		}
	}

	fmt.Fprintf(&sb, "Question: %s\n\n", query)
	sb.WriteString("Based on the feedback above, provide a comprehensive answer to the question. " +
		"If the feedback doesn't contain relevant information, say so clearly.\n")

	if mode == ModeEnhanced {
		sb.WriteString("\nSupport each claim with a short verbatim quote from the feedback, on its own line, in exactly this format:\n\n" +
			"> \"exact text copied from the verbatim feedback\" — record_id\n\n" +
			"Copy quotes character-for-character from the verbatim feedback text and cite the record_id shown next to it. " +
			"Do not invent quotes or record ids.\n")
	}

	sb.WriteString("\nAnswer:")
	return sb.String()
}
