// Package validator applies the quality rules to raw comments: length
// bounds, spam heuristics, and an optional language filter. Rules run in
// order and the first failure wins.
package validator

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"github.com/rs/zerolog/log"

	"github.com/commentwatch/youtube-comment-scraper/common"
	"github.com/commentwatch/youtube-comment-scraper/model"
)

var (
	urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)

	// Phrase patterns that show up in comment spam regardless of thresholds.
	spamPhrasePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)click\s+here`),
		regexp.MustCompile(`(?i)visit\s+my\s+channel`),
		regexp.MustCompile(`(?i)subscribe\s+to\s+me`),
		regexp.MustCompile(`(?i)(free\s+money|make\s+money|earn\s+\$\d+)`),
		regexp.MustCompile(`(?i)(buy\s+now|limited\s+time|act\s+fast)`),
	}
)

// Validator holds the compiled configuration for one extraction run.
type Validator struct {
	minLength        int
	maxLength        int
	excludeSpam      bool
	punctuationRun   int
	charRun          int
	allowedLanguages map[string]bool
}

// New builds a Validator from the scraper configuration.
func New(cfg common.Config) *Validator {
	v := &Validator{
		minLength:      cfg.MinCommentLength,
		maxLength:      cfg.MaxCommentLength,
		excludeSpam:    cfg.ExcludeSpam,
		punctuationRun: cfg.SpamPunctuationRun,
		charRun:        cfg.SpamCharRun,
	}
	if len(cfg.Languages) > 0 {
		v.allowedLanguages = make(map[string]bool, len(cfg.Languages))
		for _, lang := range cfg.Languages {
			v.allowedLanguages[strings.ToLower(lang)] = true
		}
	}
	return v
}

// Validate applies the rules in order to one raw comment. Deterministic,
// no external calls, no state retained between invocations.
func (v *Validator) Validate(comment *model.Comment) model.ValidationOutcome {
	text := comment.Text
	if text == "" {
		text = comment.TextOriginal
	}
	text = common.NormalizeText(text)

	length := len([]rune(text))
	if length < v.minLength {
		return reject(model.ReasonTooShort)
	}
	if length > v.maxLength {
		return reject(model.ReasonTooLong)
	}

	if v.excludeSpam && v.isSpam(text) {
		return reject(model.ReasonSpam)
	}

	if v.allowedLanguages != nil && !v.isAllowedLanguage(text) {
		return reject(model.ReasonLanguage)
	}

	return model.ValidationOutcome{Accepted: true}
}

func reject(reason string) model.ValidationOutcome {
	return model.ValidationOutcome{Accepted: false, Reason: reason}
}

func (v *Validator) isSpam(text string) bool {
	if urlPattern.MatchString(text) {
		return true
	}
	for _, p := range spamPhrasePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	if longestRun(text, isSpamPunctuation) >= v.punctuationRun {
		return true
	}
	if longestSameCharRun(text) >= v.charRun {
		return true
	}
	// All-caps shouting over a sentence length is treated as spam too.
	if len([]rune(text)) >= 20 && isAllUpper(text) {
		return true
	}
	return false
}

// isAllowedLanguage detects the language and checks it against the allow
// set. Text whose language cannot be determined with reasonable confidence
// passes the filter; emoji-only comments should not be rejected.
func (v *Validator) isAllowedLanguage(text string) bool {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return true
	}
	iso1 := strings.ToLower(whatlanggo.LangToStringShort(info.Lang))
	iso3 := strings.ToLower(whatlanggo.LangToString(info.Lang))
	if v.allowedLanguages[iso1] || v.allowedLanguages[iso3] {
		return true
	}
	log.Debug().Str("detected", iso1).Msg("Comment language not in allow list")
	return false
}

func isSpamPunctuation(r rune) bool {
	return r == '!' || r == '?'
}

// longestRun returns the longest run of consecutive runes satisfying pred.
func longestRun(text string, pred func(rune) bool) int {
	longest, current := 0, 0
	for _, r := range text {
		if pred(r) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

// longestSameCharRun returns the longest run of one repeated rune.
func longestSameCharRun(text string) int {
	longest, current := 0, 0
	var prev rune
	for i, r := range text {
		if i > 0 && r == prev {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
		prev = r
	}
	return longest
}

func isAllUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
