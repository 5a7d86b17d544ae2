package llm

import (
	"context"
	"strings"

	"github.com/agenthands/rellink/internal/core/model"
)

// Every generation request carries this system prompt; callers ask for JSON replies.
const systemPrompt = "You map natural-language questions to DBpedia relations. Answer with JSON only."

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ClassifierClient ranks knowledge-graph relations holding between two marked spans of a sentence.
type ClassifierClient interface {
	Classify(ctx context.Context, req ClassifyRequest) ([]model.RelationScore, error)
}

// ClassifyRequest is a lower-cased sentence with head and tail spans given as [start, end) byte
// offsets.
type ClassifyRequest struct {
	Text    string
	HeadPos [2]int
	TailPos [2]int
}

func (r ClassifyRequest) Head() string { return span(r.Text, r.HeadPos) }
func (r ClassifyRequest) Tail() string { return span(r.Text, r.TailPos) }

func span(text string, pos [2]int) string {
	start, end := pos[0], pos[1]
	if start < 0 || start > len(text) {
		return ""
	}
	if end > len(text) {
		end = len(text)
	}
	if end < start {
		return ""
	}
	return strings.TrimSpace(text[start:end])
}
