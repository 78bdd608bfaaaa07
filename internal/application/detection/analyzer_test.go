package detection

import (
	"strings"
	"testing"

	"humanizer-api/internal/application/rules"
	"humanizer-api/internal/domain/entity"
)

const (
	machineText  = "Furthermore, the implementation demonstrates significant improvements. Additionally, the analysis reveals optimal performance. Moreover, the results indicate enhanced efficiency."
	informalText = "Honestly, I wasn't sure this would work (my cat kept sitting on the keyboard). So I tried it again... and wow, it actually worked! Don't ask me why; I've got no clue. My friend says it's pure luck, lol. Anyway, I'm glad?"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(rules.Default(), DefaultThresholds())
}

func TestAnalyzeMachineText(t *testing.T) {
	res := newTestAnalyzer().Analyze(machineText)
	if res.AIDetectionScore <= 60 {
		t.Fatalf("expected AI score above 60, got %v (%v)", res.AIDetectionScore, res.DetectionDetails.AIIndicators)
	}
	if res.RiskLevel != entity.RiskHigh {
		t.Fatalf("expected high risk, got %q", res.RiskLevel)
	}
	if len(res.DetectionDetails.AIIndicators) == 0 {
		t.Fatalf("expected indicators to explain the score")
	}
	if res.Stats.Sentences != 3 || res.Stats.Words != 18 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
}

func TestAnalyzeHumanSignatureOverride(t *testing.T) {
	a := newTestAnalyzer()
	res := a.Analyze(informalText)
	if res.AIDetectionScore != 0 || res.RiskLevel != entity.RiskLow {
		t.Fatalf("expected override to score 0/low, got %v/%q", res.AIDetectionScore, res.RiskLevel)
	}

	words := []string{}
	lower := strings.ToLower(informalText)
	for _, w := range strings.Fields(lower) {
		words = append(words, strings.Trim(w, ".,!?;()"))
	}
	if n := a.humanSignature(informalText, lower, words, []float64{14, 5, 5, 8, 7, 3}).count(); n != signalCount {
		t.Fatalf("expected all %d signals, got %d", signalCount, n)
	}
}

func TestAnalyzeOverrideNeedsEnoughSentences(t *testing.T) {
	res := newTestAnalyzer().Analyze("Honestly, I don't know (really) why I'm here!")
	last := res.DetectionDetails.AIIndicators
	for _, ind := range last {
		if strings.HasPrefix(ind, "Strong human signature") {
			t.Fatalf("override must not fire on a single sentence: %v", last)
		}
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	for _, in := range []string{"", "  \n "} {
		res := newTestAnalyzer().Analyze(in)
		if res.AIDetectionScore != 0 || res.PlagiarismRisk != 0 || res.ReadabilityScore != 0 || res.UniquenessScore != 0 {
			t.Fatalf("expected zero scores, got %+v", res)
		}
		if res.RiskLevel != entity.RiskLow || len(res.Recommendations) != 0 {
			t.Fatalf("unexpected empty result: %+v", res)
		}
	}
}

func TestAnalyzeBounds(t *testing.T) {
	texts := []string{
		machineText,
		informalText,
		"a",
		"Why?!! Why,, why;; ....",
		strings.Repeat("In today's society the quick brown fox jumps over the lazy dog.  ", 8),
		strings.Repeat("word ", 200),
	}
	a := newTestAnalyzer()
	for _, text := range texts {
		res := a.Analyze(text)
		for name, v := range map[string]float64{
			"ai":          res.AIDetectionScore,
			"plagiarism":  res.PlagiarismRisk,
			"readability": res.ReadabilityScore,
			"uniqueness":  res.UniquenessScore,
			"diversity":   res.DetectionDetails.QualityMetrics.LexicalDiversity,
			"variation":   res.DetectionDetails.QualityMetrics.SentenceVariation,
			"vocabulary":  res.DetectionDetails.QualityMetrics.VocabularyComplexity,
			"coherence":   res.DetectionDetails.QualityMetrics.CoherenceScore,
		} {
			if v < 0 || v > 100 {
				t.Fatalf("%s out of range for %q: %v", name, text, v)
			}
		}
		if len(res.Recommendations) == 0 {
			t.Fatalf("expected at least one recommendation for %q", text)
		}
	}
}

func TestAnalyzePlagiarismSignals(t *testing.T) {
	text := strings.Repeat("In today's society the quick brown fox jumps over the lazy dog.  ", 6)
	res := newTestAnalyzer().Analyze(text)
	if res.PlagiarismRisk < 50 {
		t.Fatalf("expected high plagiarism risk for repeated text, got %v (%v)", res.PlagiarismRisk, res.DetectionDetails.PlagiarismIndicators)
	}
	if len(res.DetectionDetails.PlagiarismIndicators) < 3 {
		t.Fatalf("expected n-gram, cliche and whitespace indicators, got %v", res.DetectionDetails.PlagiarismIndicators)
	}
}

func TestAnalyzeNaturalTextGetsAffirmation(t *testing.T) {
	text := "My grandmother kept bees behind the orchard, and every spring she would lift the lids while humming. " +
		"We stood back. " +
		"However, the hives were calm because she moved slowly, spoke softly, and never wore perfume near them. " +
		"Then the honey came."
	res := newTestAnalyzer().Analyze(text)
	if res.AIDetectionScore >= 30 {
		t.Fatalf("expected low AI score, got %v (%v)", res.AIDetectionScore, res.DetectionDetails.AIIndicators)
	}
	if res.ReadabilityScore <= 0 {
		t.Fatalf("expected a positive readability score, got %v", res.ReadabilityScore)
	}
}

func TestRiskLevelBands(t *testing.T) {
	a := newTestAnalyzer()
	cases := []struct {
		score float64
		want  entity.RiskLevel
	}{
		{0, entity.RiskLow},
		{29.9, entity.RiskLow},
		{30, entity.RiskMedium},
		{59.9, entity.RiskMedium},
		{60, entity.RiskHigh},
		{100, entity.RiskHigh},
	}
	for _, c := range cases {
		if got := a.riskLevel(c.score, false); got != c.want {
			t.Fatalf("riskLevel(%v) = %q, want %q", c.score, got, c.want)
		}
	}
	if got := a.riskLevel(95, true); got != entity.RiskLow {
		t.Fatalf("override must force low risk, got %q", got)
	}
}

func TestThresholdsNormalizeFillsZeros(t *testing.T) {
	th := Thresholds{HighRisk: 70}.normalize()
	def := DefaultThresholds()
	if th.HighRisk != 70 || th.MediumRisk != def.MediumRisk || th.NGramSize != def.NGramSize {
		t.Fatalf("unexpected normalized thresholds: %+v", th)
	}
	if got := (Thresholds{HumanSignatureMin: 9}).normalize().HumanSignatureMin; got != def.HumanSignatureMin {
		t.Fatalf("expected out of range signature minimum to reset, got %d", got)
	}
}
