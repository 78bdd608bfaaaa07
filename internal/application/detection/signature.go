package detection

import (
	"strings"

	"humanizer-api/internal/application/textstat"
)

const signalCount = 6

var firstPersonWords = map[string]struct{}{
	"i": {}, "me": {}, "my": {}, "mine": {}, "myself": {},
	"i'm": {}, "i've": {}, "i'd": {}, "i'll": {},
}

// signature 人类写作特征，每项为一个独立信号
type signature struct {
	contractions   bool
	firstPerson    bool
	conversational bool
	punctuation    bool
	asides         bool
	rhythm         bool
}

func (s signature) count() int {
	n := 0
	for _, v := range []bool{s.contractions, s.firstPerson, s.conversational, s.punctuation, s.asides, s.rhythm} {
		if v {
			n++
		}
	}
	return n
}

func (a *Analyzer) humanSignature(text, lower string, words []string, lengths []float64) signature {
	contractions, firstPerson := 0, 0
	for _, w := range words {
		w = strings.ReplaceAll(w, "’", "'")
		if strings.Contains(w, "'") {
			contractions++
		}
		if _, ok := firstPersonWords[w]; ok {
			firstPerson++
		}
	}

	return signature{
		contractions:   contractions >= a.th.MinContractions,
		firstPerson:    firstPerson >= a.th.MinFirstPerson,
		conversational: a.conversational.MatchString(lower),
		punctuation:    punctuationKinds(text) >= a.th.MinPunctuationKinds,
		asides:         asidePattern.MatchString(text),
		rhythm:         len(lengths) >= 3 && textstat.CoefficientOfVariation(lengths) > a.th.IrregularRhythmCV,
	}
}

// punctuationKinds 统计非常规标点的种类，省略号算一种
func punctuationKinds(text string) int {
	kinds := 0
	for _, mark := range []string{"!", "?", ";", ":", "(", "\"", " - "} {
		if strings.Contains(text, mark) {
			kinds++
		}
	}
	if strings.Contains(text, "...") || strings.Contains(text, "…") {
		kinds++
	}
	return kinds
}
