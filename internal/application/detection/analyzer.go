// Package detection 实现基于表层统计与词汇特征的 AI 文本评分
package detection

import (
	"fmt"
	"regexp"
	"strings"

	"humanizer-api/internal/application/rules"
	"humanizer-api/internal/application/textstat"
	"humanizer-api/internal/domain/entity"
)

var (
	asidePattern          = regexp.MustCompile(`\([^)]+\)|\s[-–—]\s|—`)
	whitespacePattern     = regexp.MustCompile(`[ \t]{2,}|\t`)
	punctuationRunPattern = regexp.MustCompile(`[!?]{2,}|,{2,}|;{2,}|\.{4,}`)
)

// Analyzer 检测评分器，无状态，可并发使用
type Analyzer struct {
	rules          *rules.Tables
	th             Thresholds
	formal         map[string]struct{}
	transitions    map[string]struct{}
	creative       map[string]struct{}
	conversational *regexp.Regexp
}

// NewAnalyzer 创建评分器
func NewAnalyzer(t *rules.Tables, th Thresholds) *Analyzer {
	if t == nil {
		t = rules.Default()
	}
	quoted := make([]string, 0, len(t.ConversationalMarkers))
	for _, m := range t.ConversationalMarkers {
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(m)))
	}
	return &Analyzer{
		rules:          t,
		th:             th.normalize(),
		formal:         toSet(t.FormalWords),
		transitions:    toSet(t.TransitionWords),
		creative:       toSet(t.CreativeMarkers),
		conversational: regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Thresholds 返回生效的阈值
func (a *Analyzer) Thresholds() Thresholds {
	return a.th
}

// Analyze 评估文本，永不失败；空输入返回零结果
func (a *Analyzer) Analyze(text string) *entity.DetectionResult {
	if strings.TrimSpace(text) == "" {
		return entity.EmptyDetectionResult()
	}

	lower := strings.ToLower(text)
	words := textstat.LowerWords(text)
	sentences := textstat.SplitSentences(text)
	lengths := textstat.SentenceLengths(sentences)
	diversity := textstat.LexicalDiversity(words)

	aiScore, aiIndicators := a.aiScore(lower, words, lengths, diversity)

	sig := a.humanSignature(text, lower, words, lengths)
	overridden := sig.count() >= a.th.HumanSignatureMin && len(sentences) >= a.th.HumanSignatureMinSentences
	if overridden {
		aiScore = 0
		aiIndicators = append(aiIndicators, fmt.Sprintf("Strong human signature (%d/%d signals): score set to 0", sig.count(), signalCount))
	}

	plagiarism, plagiarismIndicators := a.plagiarism(text, lower, words)
	readability := readabilityScore(words, len(sentences))
	uniqueness := a.uniqueness(words, sentences, diversity)
	quality := a.qualityMetrics(words, lengths, diversity, len(sentences))

	return &entity.DetectionResult{
		AIDetectionScore: aiScore,
		PlagiarismRisk:   plagiarism,
		ReadabilityScore: readability,
		UniquenessScore:  uniqueness,
		RiskLevel:        a.riskLevel(aiScore, overridden),
		DetectionDetails: entity.DetectionDetails{
			AIIndicators:         nonNil(aiIndicators),
			PlagiarismIndicators: nonNil(plagiarismIndicators),
			QualityMetrics:       quality,
		},
		Recommendations: a.recommendations(aiScore, plagiarism, readability, quality, len(sentences)),
		Stats:           textstat.Count(text),
	}
}

func (a *Analyzer) aiScore(lower string, words []string, lengths []float64, diversity float64) (float64, []string) {
	th := a.th
	score := 0.0
	var indicators []string

	for _, c := range a.rules.AIPatterns {
		n := len(c.Pattern.FindAllStringIndex(lower, -1))
		if n == 0 {
			continue
		}
		points := float64(n) * th.PatternMatchPoints
		score += points
		indicators = append(indicators, fmt.Sprintf("%s: %d matches (+%.0f)", c.Name, n, points))
	}

	mean, sd := textstat.MeanStd(lengths)
	if len(lengths) >= 2 && sd*sd < th.LowVariance {
		score += th.LowVariancePoints
		indicators = append(indicators, fmt.Sprintf("Uniform sentence length (variance %.1f, +%.0f)", sd*sd, th.LowVariancePoints))
	}
	if len(lengths) > 0 && mean >= th.TypicalLengthMin && mean <= th.TypicalLengthMax {
		score += th.TypicalLengthPoints
		indicators = append(indicators, fmt.Sprintf("Average sentence length %.1f words is in the typical AI band (+%.0f)", mean, th.TypicalLengthPoints))
	}
	if len(words) > 0 && diversity < th.LowDiversity {
		score += th.LowDiversityPoints
		indicators = append(indicators, fmt.Sprintf("Low lexical diversity %.2f (+%.0f)", diversity, th.LowDiversityPoints))
	}

	for _, phrase := range a.rules.CommonAIPhrases {
		if strings.Contains(lower, phrase) {
			score += th.CommonPhrasePoints
			indicators = append(indicators, fmt.Sprintf("Common AI phrase %q (+%.0f)", phrase, th.CommonPhrasePoints))
		}
	}

	if len(words) > 0 {
		formal := 0
		for _, w := range words {
			if _, ok := a.formal[w]; ok {
				formal++
			}
		}
		if density := float64(formal) / float64(len(words)); density > th.FormalDensity {
			score += th.FormalDensityPoints
			indicators = append(indicators, fmt.Sprintf("Formal vocabulary density %.1f%% (+%.0f)", density*100, th.FormalDensityPoints))
		}
	}

	return textstat.Round1(textstat.Clamp(score, 0, 100)), indicators
}

func (a *Analyzer) plagiarism(text, lower string, words []string) (float64, []string) {
	th := a.th
	score := 0.0
	var indicators []string

	if n := th.NGramSize; len(words) >= n {
		counts := make(map[string]int)
		total := len(words) - n + 1
		for i := 0; i < total; i++ {
			counts[strings.Join(words[i:i+n], " ")]++
		}
		repeated := 0
		for _, c := range counts {
			if c > 1 {
				repeated += c - 1
			}
		}
		if repeated > 0 {
			rate := float64(repeated) / float64(total)
			points := min(th.NGramMaxPoints, rate*100)
			score += points
			indicators = append(indicators, fmt.Sprintf("Repeated %d-word phrases in %.0f%% of the text (+%.0f)", n, rate*100, points))
		}
	}

	for _, cliche := range a.rules.AcademicCliches {
		if strings.Contains(lower, cliche) {
			score += th.ClichePoints
			indicators = append(indicators, fmt.Sprintf("Stock phrase %q (+%.0f)", cliche, th.ClichePoints))
		}
	}

	if whitespacePattern.MatchString(text) {
		score += th.WhitespacePoints
		indicators = append(indicators, fmt.Sprintf("Irregular whitespace (+%.0f)", th.WhitespacePoints))
	}
	if punctuationRunPattern.MatchString(text) {
		score += th.PunctuationRunPoints
		indicators = append(indicators, fmt.Sprintf("Repeated punctuation runs (+%.0f)", th.PunctuationRunPoints))
	}

	return textstat.Round1(textstat.Clamp(score, 0, 100)), indicators
}

// readabilityScore Flesch Reading Ease
func readabilityScore(words []string, sentences int) float64 {
	if len(words) == 0 {
		return 0
	}
	if sentences == 0 {
		sentences = 1
	}
	syllables := 0
	for _, w := range words {
		syllables += textstat.Syllables(w)
	}
	w := float64(len(words))
	score := 206.835 - 1.015*(w/float64(sentences)) - 84.6*(float64(syllables)/w)
	return textstat.Round1(textstat.Clamp(score, 0, 100))
}

func (a *Analyzer) uniqueness(words, sentences []string, diversity float64) float64 {
	th := a.th
	creative := 0
	seen := make(map[string]struct{})
	for _, w := range words {
		if _, ok := a.creative[w]; !ok {
			continue
		}
		if _, dup := seen[w]; !dup {
			seen[w] = struct{}{}
			creative++
		}
	}

	starterDiversity := 0.0
	if len(sentences) > 0 {
		starters := make(map[string]struct{}, len(sentences))
		for _, s := range sentences {
			if ws := textstat.LowerWords(s); len(ws) > 0 {
				starters[ws[0]] = struct{}{}
			}
		}
		starterDiversity = float64(len(starters)) / float64(len(sentences))
	}

	score := th.DiversityWeight*diversity*100 + float64(creative)*th.CreativeMarkerPoints + th.StarterWeight*starterDiversity*100
	return textstat.Round1(textstat.Clamp(score, 0, 100))
}

func (a *Analyzer) qualityMetrics(words []string, lengths []float64, diversity float64, sentences int) entity.QualityMetrics {
	syllables := 0
	transitions := 0
	for _, w := range words {
		syllables += textstat.Syllables(w)
		if _, ok := a.transitions[w]; ok {
			transitions++
		}
	}

	avgSyllables := 0.0
	if len(words) > 0 {
		avgSyllables = float64(syllables) / float64(len(words))
	}
	coherence := 0.0
	if sentences > 0 {
		coherence = 30 + float64(transitions)/float64(sentences)*70
	}

	return entity.QualityMetrics{
		LexicalDiversity:     textstat.Round1(textstat.Clamp(diversity*100, 0, 100)),
		SentenceVariation:    textstat.Round1(textstat.Clamp(textstat.CoefficientOfVariation(lengths)*100, 0, 100)),
		VocabularyComplexity: textstat.Round1(textstat.Clamp((avgSyllables-1)/1.5*100, 0, 100)),
		CoherenceScore:       textstat.Round1(textstat.Clamp(coherence, 0, 100)),
	}
}

func (a *Analyzer) riskLevel(score float64, overridden bool) entity.RiskLevel {
	switch {
	case overridden:
		return entity.RiskLow
	case score >= a.th.HighRisk:
		return entity.RiskHigh
	case score >= a.th.MediumRisk:
		return entity.RiskMedium
	default:
		return entity.RiskLow
	}
}

func (a *Analyzer) recommendations(ai, plagiarism, readability float64, q entity.QualityMetrics, sentences int) []string {
	recs := make([]string, 0, 4)
	switch {
	case ai >= a.th.HighRisk:
		recs = append(recs, "Rewrite with varied sentence lengths and a personal voice; the passage reads as machine generated.")
	case ai >= a.th.MediumRisk:
		recs = append(recs, "Add personal perspective, contractions and fewer stock transitions to lower the AI score.")
	}
	if plagiarism >= 30 {
		recs = append(recs, "Rephrase repeated passages and replace stock expressions with original wording.")
	}
	if q.LexicalDiversity < 50 {
		recs = append(recs, "Use a wider range of vocabulary; several words repeat often.")
	}
	if sentences >= 2 && q.SentenceVariation < 25 {
		recs = append(recs, "Mix short sentences with longer ones to vary the rhythm.")
	}
	if readability < 30 {
		recs = append(recs, "Shorten long sentences and prefer simpler words to improve readability.")
	}
	if sentences >= 3 && q.CoherenceScore < 40 {
		recs = append(recs, "Add transition words to connect ideas between sentences.")
	}
	if len(recs) == 0 {
		recs = append(recs, "The text reads naturally; no changes recommended.")
	}
	return recs
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[strings.ToLower(it)] = struct{}{}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
