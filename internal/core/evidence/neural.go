package evidence

import (
	"context"
	"strings"

	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/llm"
	"github.com/agenthands/rellink/internal/logger"
)

const neuralTopN = 10

// Words that stand in for the answer when the unknown node has no text of its own.
var questionTerms = []string{"what", "when", "which", "who", "how", "list", "give", "show", "do", "does"}

// NeuralSource scores relations with a classifier over the question, with the triple's subject
// and object marked as head and tail spans.
type NeuralSource struct {
	Classifier llm.ClassifierClient
	log        *logger.Logger
}

func NewNeuralSource(classifier llm.ClassifierClient, log *logger.Logger) *NeuralSource {
	return &NeuralSource{Classifier: classifier, log: logger.OrNop(log).With("source", Neural)}
}

func (s *NeuralSource) Name() string { return Neural }

func (s *NeuralSource) ScoreRelations(ctx context.Context, t model.Triple, p Params) model.ScoreMap {
	scores := model.ScoreMap{}
	if s.Classifier == nil {
		return scores
	}

	head := t.SubjText
	if head == "" {
		head = t.SubjType
	}
	tail := t.ObjText
	if tail == "" {
		tail = t.ObjType
	}

	var unknown string
	switch {
	case t.SubjectIsUnknown() || head == "amr-unknown" || head == "unknown":
		unknown = head
	case t.ObjectIsUnknown() || tail == "amr-unknown" || tail == "unknown":
		unknown = tail
	}

	req, ok := ClassifierInput(t.Text, head, tail, p.NormalizedToSurface, unknown)
	if !ok {
		s.log.Debug("no head or tail span in question", "text", t.Text, "head", head, "tail", tail)
		return scores
	}

	ranked, err := s.Classifier.Classify(ctx, req)
	if err != nil {
		s.log.Warn("relation classifier failed", "error", err)
		return scores
	}
	if len(ranked) > neuralTopN {
		ranked = ranked[:neuralTopN]
	}
	for _, r := range ranked {
		scores[r.Relation] += r.Score
	}
	return scores
}

// ClassifierInput locates head and tail in the lower-cased sentence. A side not found literally
// is looked up through its surface form; the answer side falls back to the first question word
// present.
func ClassifierInput(sentence, head, tail string, normalizedToSurface map[string]string, unknown string) (llm.ClassifyRequest, bool) {
	sentence = strings.ToLower(sentence)
	headStart, headLen := locate(sentence, head, normalizedToSurface, unknown)
	tailStart, tailLen := locate(sentence, tail, normalizedToSurface, unknown)
	if headStart < 0 || tailStart < 0 {
		return llm.ClassifyRequest{}, false
	}
	return llm.ClassifyRequest{
		Text:    sentence,
		HeadPos: [2]int{headStart, headStart + headLen},
		TailPos: [2]int{tailStart, tailStart + tailLen},
	}, true
}

func locate(sentence, term string, normalizedToSurface map[string]string, unknown string) (int, int) {
	if term == "" {
		return -1, 0
	}
	if i := strings.Index(sentence, strings.ToLower(term)); i >= 0 {
		return i, len(term)
	}
	if surface, ok := normalizedToSurface[term]; ok {
		if i := strings.Index(sentence, strings.ToLower(surface)); i >= 0 {
			return i, len(surface)
		}
	}
	if unknown == term {
		for _, q := range questionTerms {
			if i := strings.Index(sentence, q); i >= 0 {
				return i, len(q)
			}
		}
	}
	return -1, 0
}
