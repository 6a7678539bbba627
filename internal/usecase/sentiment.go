package usecase

import (
	"strings"

	"github.com/swanbotanicals/skinmatch/internal/domain"
)

var (
	positiveWords = []string{"love", "amazing", "great", "excellent", "perfect", "wonderful", "best"}
	negativeWords = []string{"hate", "terrible", "bad", "worst", "awful", "disappointing"}
)

const (
	minConfidence = 0.3
	maxConfidence = 1.0
)

// EstimateSentiment scores free review text by keyword presence.
//
// Each listed word counts once if it appears anywhere in the lowercased text,
// including inside other words ("bad" in "badge"). The word count splits on
// single spaces, so "" counts as one word. skinType is accepted for interface
// compatibility and does not affect the result.
func EstimateSentiment(text, skinType string) domain.SentimentResult {
	lower := strings.ToLower(text)
	positive := countPresent(lower, positiveWords)
	negative := countPresent(lower, negativeWords)

	raw := float64(positive-negative) / float64(positive+negative+1)
	sentiment := (raw + 1) / 2

	wordCount := len(strings.Split(text, " "))
	confidence := min(1, float64(positive+negative)/5+float64(wordCount)/100)

	return domain.SentimentResult{
		Sentiment:  sentiment,
		Confidence: clamp(confidence, minConfidence, maxConfidence),
	}
}

func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
