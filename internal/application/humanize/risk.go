package humanize

import (
	"math"
	"strings"

	"humanizer-api/internal/application/rules"
	"humanizer-api/internal/application/textstat"
	"humanizer-api/internal/domain/entity"
)

const baseRisk = 30.0

var personalPronouns = map[string]struct{}{
	"i": {}, "me": {}, "my": {}, "mine": {}, "we": {}, "us": {}, "our": {},
	"you": {}, "your": {}, "i'm": {}, "i've": {}, "i'd": {}, "we're": {}, "you're": {},
}

// assessRisk 改写结果的内部检测风险
func assessRisk(original, final string, t *rules.Tables) entity.RiskLevel {
	score := riskScore(original, final, t)
	switch {
	case score > 80:
		return entity.RiskHigh
	case score > 50:
		return entity.RiskMedium
	default:
		return entity.RiskLow
	}
}

func riskScore(original, final string, t *rules.Tables) float64 {
	score := baseRisk
	words := textstat.LowerWords(final)
	if len(words) == 0 {
		return score
	}
	total := float64(len(words))

	// 与原文的相似度
	switch sim := textstat.Jaccard(textstat.LowerWords(original), words); {
	case sim > 0.85:
		score += 20
	case sim > 0.65:
		score += 10
	case sim < 0.4:
		score -= 10
	}

	// 残留的 AI 措辞
	lower := strings.ToLower(final)
	patterns := 0
	for _, c := range t.AIPatterns {
		patterns += len(c.Pattern.FindAllStringIndex(lower, -1))
	}
	score += math.Min(float64(patterns)*4, 24)

	// 句长变异系数
	switch cv := textstat.CoefficientOfVariation(textstat.SentenceLengths(textstat.SplitSentences(final))); {
	case cv < 0.2:
		score += 12
	case cv > 0.5:
		score -= 10
	}

	pronouns, contractions := 0, 0
	for _, w := range words {
		if _, ok := personalPronouns[w]; ok {
			pronouns++
		}
		if strings.ContainsAny(w, "'’") {
			contractions++
		}
	}
	switch density := float64(pronouns) / total; {
	case density > 0.04:
		score -= 10
	case density == 0:
		score += 5
	}
	if float64(contractions)/total > 0.02 {
		score -= 8
	}

	switch diversity := textstat.LexicalDiversity(words); {
	case diversity < 0.4:
		score += 10
	case diversity > 0.75:
		score -= 5
	}

	fillers := 0
	for _, f := range t.Fillers {
		fillers += len(wordRegexp(f).FindAllStringIndex(lower, -1))
	}
	if float64(fillers)/total > 0.01 {
		score -= 5
	}

	switch variety := punctuationVariety(final); {
	case variety >= 4:
		score -= 5
	case variety <= 1:
		score += 5
	}

	return textstat.Clamp(score, 0, 100)
}

func punctuationVariety(text string) int {
	seen := make(map[rune]struct{})
	for _, r := range text {
		if strings.ContainsRune(",;:!?()-\"", r) {
			seen[r] = struct{}{}
		}
	}
	return len(seen)
}

// scaleConfidence 短输入按比例降低置信度
func scaleConfidence(sum float64, length int) float64 {
	factor := 1.0
	switch {
	case length < 50:
		factor = 0.5
	case length < 100:
		factor = 0.7
	case length < 200:
		factor = 0.85
	}
	return textstat.Round1(textstat.Clamp(sum*factor, 0, 100))
}
