package service

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// introStopwords are filler terms skipped during keyword extraction.
var introStopwords = map[string]struct{}{
	"i": {}, "love": {}, "like": {}, "enjoy": {}, "want": {},
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"is": {}, "are": {}, "am": {},
}

// introTemplates are the intro phrasings. Selection is keyed off the
// keyword so the same input always produces the same intro.
var introTemplates = []string{
	"Based on your interest in %s, here are some recommendations:",
	"I found some great %s recommendations for you:",
	"Here are some %s picks based on your preferences:",
	"Based on your love of %s, I think you'll enjoy these:",
}

const defaultIntro = "Here are some recommendations based on your preferences:"

// GenerateIntro builds a short intro line for a recommendation response
// from the user's free-text input. It picks up to three meaningful keywords
// (stopwords and short words skipped) and fills a template with the first.
// Empty or all-stopword input falls back to a generic intro.
func GenerateIntro(userInput string) string {
	keywords := extractKeywords(userInput, 3)
	if len(keywords) == 0 {
		return defaultIntro
	}
	keyword := keywords[0]
	return fmt.Sprintf(introTemplates[templateIndex(keyword)], keyword)
}

// extractKeywords returns up to limit meaningful words from the input, in
// order of appearance, lowercased.
func extractKeywords(input string, limit int) []string {
	words := strings.Fields(strings.ToLower(input))
	keywords := make([]string, 0, limit)
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		if _, skip := introStopwords[w]; skip {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == limit {
			break
		}
	}
	return keywords
}

func templateIndex(keyword string) int {
	h := fnv.New32a()
	h.Write([]byte(keyword))
	return int(h.Sum32() % uint32(len(introTemplates)))
}
