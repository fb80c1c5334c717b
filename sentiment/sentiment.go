// Package sentiment scores comment text with two independent sub-scorers:
// a lexicon-based polarity/subjectivity pair and the VADER
// compound/pos/neg/neu tuple. Scoring is pure per comment; there is no
// cross-comment state and no learning step.
package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/rs/zerolog/log"

	"github.com/commentwatch/youtube-comment-scraper/model"
)

// Thresholds for the derived label and strength, on the blended
// polarity/compound signal.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
	strongThreshold   = 0.6
	moderateThreshold = 0.3
)

// Scorer scores comment text. Safe to reuse across comments.
type Scorer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewScorer builds a Scorer with the embedded lexicons.
func NewScorer() *Scorer {
	return &Scorer{
		vader: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Score maps text to a SentimentScore. Empty or whitespace-only text
// yields a neutral score: zero magnitudes everywhere and the neutral
// component at 1.
func (s *Scorer) Score(text string) model.SentimentScore {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.SentimentScore{
			Neutral:  1,
			Label:    model.SentimentNeutral,
			Strength: model.StrengthWeak,
		}
	}

	polarity, subjectivity := scorePolarity(trimmed)
	vs := s.vader.PolarityScores(trimmed)

	score := model.SentimentScore{
		Polarity:     polarity,
		Subjectivity: subjectivity,
		Compound:     vs.Compound,
		Positive:     vs.Positive,
		Negative:     vs.Negative,
		Neutral:      vs.Neutral,
	}
	score.Label, score.Strength = classify(polarity, vs.Compound)
	return score
}

// ScoreAll attaches a score to every comment in place.
func (s *Scorer) ScoreAll(comments []*model.Comment) {
	for _, c := range comments {
		text := c.TextOriginal
		if text == "" {
			text = c.Text
		}
		score := s.Score(text)
		c.Sentiment = &score
	}
	log.Info().Int("comments", len(comments)).Msg("Sentiment scoring completed")
}

// classify derives the label and strength from the average of the two
// sub-scorers' headline signals.
func classify(polarity, compound float64) (label, strength string) {
	blended := (polarity + compound) / 2

	switch {
	case blended > positiveThreshold:
		label = model.SentimentPositive
	case blended < negativeThreshold:
		label = model.SentimentNegative
	default:
		label = model.SentimentNeutral
	}

	magnitude := math.Abs(blended)
	switch {
	case magnitude >= strongThreshold:
		strength = model.StrengthStrong
	case magnitude >= moderateThreshold:
		strength = model.StrengthModerate
	default:
		strength = model.StrengthWeak
	}
	return label, strength
}

// scorePolarity is the lexicon sub-scorer: polarity in [-1, 1] and
// subjectivity in [0, 1], averaged over lexicon hits with negation and
// intensifier handling on the preceding token.
func scorePolarity(text string) (polarity, subjectivity float64) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0, 0
	}

	var polaritySum, subjectivitySum float64
	hits := 0

	for i, token := range tokens {
		entry, ok := polarityLexicon[token]
		if !ok {
			continue
		}

		p := entry.polarity
		if i > 0 {
			prev := tokens[i-1]
			if negations[prev] {
				p = -0.5 * p
			} else if boost, ok := intensifiers[prev]; ok {
				p = clamp(p*boost, -1, 1)
			}
		}

		polaritySum += p
		subjectivitySum += entry.subjectivity
		hits++
	}

	if hits == 0 {
		return 0, 0
	}
	return clamp(polaritySum/float64(hits), -1, 1), clamp(subjectivitySum/float64(hits), 0, 1)
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()[]{}")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
