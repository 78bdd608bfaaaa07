package humanize

import (
	"math"
	"regexp"
	"strings"

	"humanizer-api/internal/application/rules"
	"humanizer-api/internal/application/textstat"
	"humanizer-api/internal/domain/entity"
)

// 技术名称
const (
	TechniqueSentenceVariation   = "Sentence Structure Variation"
	TechniqueSynonyms            = "Contextual Synonym Replacement"
	TechniqueTransitions         = "Advanced Transition Integration"
	TechniqueFormality           = "Formality Calibration"
	TechniqueAIPatternDisruption = "AI Pattern Disruption"
	TechniqueStatistical         = "Statistical Pattern Randomization"
	TechniqueFingerprinting      = "Linguistic Fingerprinting"
	TechniqueNaturalFlow         = "Natural Flow Enhancement"
	TechniqueSubject             = "Subject-Specific Language"
	TechniqueCreativity          = "Creativity Enhancement"
	TechniqueAudience            = "Audience Adaptation"
	TechniqueStyle               = "Writing Style Application"
	TechniquePersonality         = "Personality Injection"
	TechniqueStructure           = "Structure Preservation"
)

// Env 单次改写的运行环境
type Env struct {
	Settings entity.Settings
	Rules    *rules.Tables
	Rand     Rand
}

// Pass 一个改写步骤
type Pass struct {
	Name       string
	Enabled    func(s entity.Settings) bool
	Apply      func(text string, env *Env) (string, error)
	Confidence float64
}

func always(entity.Settings) bool { return true }

// DefaultPasses 按固定顺序返回内置改写步骤
func DefaultPasses() []Pass {
	return []Pass{
		{Name: TechniqueSentenceVariation, Enabled: func(s entity.Settings) bool { return s.VaryingSentenceLength }, Apply: varySentenceStructure, Confidence: 15},
		{Name: TechniqueSynonyms, Enabled: always, Apply: replaceSynonyms, Confidence: 20},
		{Name: TechniqueTransitions, Enabled: func(s entity.Settings) bool { return s.AddTransitions }, Apply: integrateTransitions, Confidence: 15},
		{Name: TechniqueFormality, Enabled: always, Apply: calibrateFormality, Confidence: 10},
		{Name: TechniqueAIPatternDisruption, Enabled: always, Apply: disruptAIPatterns, Confidence: 20},
		{Name: TechniqueStatistical, Enabled: func(s entity.Settings) bool { return s.AIDetectionAvoidance > 5 }, Apply: randomizeStatistics, Confidence: 15},
		{Name: TechniqueFingerprinting, Enabled: func(s entity.Settings) bool { return s.AIDetectionAvoidance > 7 }, Apply: applyFingerprint, Confidence: 20},
		{Name: TechniqueNaturalFlow, Enabled: always, Apply: enhanceFlow, Confidence: 10},
		{Name: TechniqueSubject, Enabled: func(s entity.Settings) bool { return !s.IsGeneralSubject() }, Apply: applySubject, Confidence: 10},
		{Name: TechniqueCreativity, Enabled: func(s entity.Settings) bool { return s.CreativityLevel > 6 }, Apply: enhanceCreativity, Confidence: 10},
		{Name: TechniqueAudience, Enabled: always, Apply: adaptAudience, Confidence: 5},
		{Name: TechniqueStyle, Enabled: always, Apply: applyStyle, Confidence: 5},
		{Name: TechniquePersonality, Enabled: func(s entity.Settings) bool { return s.PersonalityStrength >= 3 }, Apply: injectPersonality, Confidence: 5},
	}
}

var (
	doubledThat  = regexp.MustCompile(`(?i)\b(that) that\b`)
	veryPattern  = regexp.MustCompile(`(?i)\b(very) ([a-z]+)\b`)
	firstPerson  = regexp.MustCompile(`(?i)\b(i|i'm|i've|i'd|me|my|mine|we|our|us)\b`)
	stiffOpeners = regexp.MustCompile(`\b(But|So), `)
	contrastCues = []string{" but ", "however", "although", "unlike", "despite", "instead", " yet ", "on the contrary"}
)

// varySentenceStructure 插入从句、简化长句、变换句首并偶尔调换并列分句
func varySentenceStructure(text string, env *Env) (string, error) {
	s, r, t := env.Settings, env.Rand, env.Rules
	doc := parseDocument(text)
	clauseProb := 0.05 + 0.035*float64(s.SentenceComplexity)

	doc.each(func(i int, sent string) string {
		words := wordCount(sent)
		switch {
		case s.SentenceComplexity >= 6 && words >= 6 && chance(r, clauseProb):
			sent = insertClause(sent, pick(r, t.SubordinateClauses))
		case s.SentenceComplexity <= 3 && words > 20:
			sent = simplifySentence(sent)
		}

		if i > 0 && !hasLeadIn(sent) && chance(r, 0.2) {
			switch {
			case s.FormalityLevel >= 6:
				sent = prependPhrase(sent, pick(r, t.FormalStarters))
			case s.FormalityLevel <= 4:
				sent = prependPhrase(sent, pick(r, t.CasualStarters))
			}
		}

		if chance(r, 0.15) {
			sent = reorderClauses(sent)
		}
		return sent
	})

	return doc.String(), nil
}

func insertClause(sentence, clause string) string {
	if clause == "" {
		return sentence
	}
	body, punct := splitTerminal(sentence)
	if idx := strings.Index(body, ", "); idx > 0 {
		return body[:idx] + ", " + clause + "," + body[idx+1:] + punct
	}
	return body + ", " + clause + punct
}

func simplifySentence(sentence string) string {
	body, punct := splitTerminal(sentence)
	for _, sep := range []string{"; ", ", and ", ", but ", ", so ", ", which "} {
		idx := strings.Index(body, sep)
		if idx <= 0 || wordCount(body[:idx]) < 4 {
			continue
		}
		left := strings.TrimSpace(body[:idx])
		right := strings.TrimSpace(body[idx+len(sep):])
		switch sep {
		case ", but ":
			right = "but " + right
		case ", so ":
			right = "so " + right
		case ", which ":
			right = "this " + right
		}
		if wordCount(right) < 3 {
			continue
		}
		return left + ". " + textstat.Capitalize(right) + punct
	}
	return sentence
}

func reorderClauses(sentence string) string {
	body, punct := splitTerminal(sentence)
	if strings.ContainsAny(body, ",;:") {
		return sentence
	}
	parts := strings.Split(body, " and ")
	if len(parts) != 2 || wordCount(parts[0]) < 3 || wordCount(parts[1]) < 3 {
		return sentence
	}
	return textstat.Capitalize(strings.TrimSpace(parts[1])) + " and " + textstat.LowerFirst(strings.TrimSpace(parts[0])) + punct
}

// replaceSynonyms 按词汇复杂度概率替换同义词
func replaceSynonyms(text string, env *Env) (string, error) {
	p := 0.1 + 0.05*float64(env.Settings.VocabularyComplexity)
	for _, word := range rules.SortedKeys(env.Rules.Synonyms) {
		syns := env.Rules.Synonyms[word]
		text = replaceWord(text, word, p, env.Rand, func() string { return pick(env.Rand, syns) })
	}
	return text, nil
}

// integrateTransitions 为非首段按语义线索添加过渡语
func integrateTransitions(text string, env *Env) (string, error) {
	paras := textstat.SplitParagraphs(text)
	if len(paras) < 2 {
		return text, nil
	}
	for i := 1; i < len(paras); i++ {
		if hasLeadIn(paras[i]) || !chance(env.Rand, 0.5) {
			continue
		}
		category := transitionCategory(paras[i], i, len(paras))
		paras[i] = prependPhrase(paras[i], pick(env.Rand, env.Rules.Transitions[category]))
	}
	return strings.Join(paras, "\n\n"), nil
}

func transitionCategory(paragraph string, index, total int) rules.TransitionCategory {
	if total >= 3 && index == total-1 {
		return rules.TransitionConclusion
	}
	lower := " " + strings.ToLower(paragraph) + " "
	for _, cue := range contrastCues {
		if strings.Contains(lower, cue) {
			return rules.TransitionContrast
		}
	}
	return rules.TransitionAddition
}

// calibrateFormality 高正式度展开缩写并加入保留语气，低正式度使用缩写
func calibrateFormality(text string, env *Env) (string, error) {
	s, r, t := env.Settings, env.Rand, env.Rules

	switch {
	case s.FormalityLevel >= 7:
		for _, expanded := range rules.SortedKeys(t.Contractions) {
			text = replaceAll(text, t.Contractions[expanded], expanded)
		}
		if chance(r, 0.3+0.05*float64(s.FormalityLevel-7)) {
			doc := parseDocument(text)
			if n := doc.count(); n > 0 {
				doc.update(intn(r, n), func(sent string) string {
					if hasLeadIn(sent) {
						return sent
					}
					return prependPhrase(sent, pick(r, t.Hedging))
				})
				text = doc.String()
			}
		}
	case s.FormalityLevel <= 4:
		p := 0.5 + 0.05*float64(4-s.FormalityLevel)
		text = replaceTable(text, t.Contractions, p, r)
	}

	switch s.Tone {
	case entity.ToneAcademic:
		text = replaceTable(text, t.AcademicVocabulary, 0.5, r)
	case entity.ToneTechnical:
		text = replaceTable(text, t.TechnicalVocabulary, 0.5, r)
	}
	return text, nil
}

// disruptAIPatterns 打破重复句首、插入感叹语、去除重复 that 并打乱段落长度
func disruptAIPatterns(text string, env *Env) (string, error) {
	r, t := env.Rand, env.Rules
	doc := parseDocument(text)

	prev := ""
	doc.each(func(i int, sent string) string {
		first := firstWord(sent)
		if i > 0 && first != "" && first == prev && !hasLeadIn(sent) {
			sent = prependPhrase(sent, pick(r, t.AlternateStarters))
		}
		prev = first
		return sent
	})

	if n := doc.count(); n >= 3 && chance(r, 0.15) {
		doc.update(1+intn(r, n-2), func(sent string) string {
			if hasLeadIn(sent) {
				return sent
			}
			return prependPhrase(sent, pick(r, t.Interjections))
		})
	}

	text = doubledThat.ReplaceAllString(doc.String(), "$1")

	paras := textstat.SplitParagraphs(text)
	if len(paras) < 2 {
		return text, nil
	}
	out := make([]string, 0, len(paras))
	for i := 0; i < len(paras); i++ {
		p := paras[i]
		if i+1 < len(paras) && wordCount(p) < 12 && chance(r, 0.3) {
			p = p + " " + paras[i+1]
			i++
		}
		if sentences := textstat.SplitSentences(p); len(sentences) >= 6 {
			half := len(sentences) / 2
			p = strings.Join(sentences[:half], " ") + "\n\n" + strings.Join(sentences[half:], " ")
		}
		out = append(out, p)
	}
	return strings.Join(out, "\n\n"), nil
}

// randomizeStatistics 打散均匀的句长与高频词分布
func randomizeStatistics(text string, env *Env) (string, error) {
	r, t := env.Rand, env.Rules
	intensity := float64(env.Settings.AIDetectionAvoidance-5) / 5

	doc := parseDocument(text)
	lengths := textstat.SentenceLengths(doc.sentences())
	if len(lengths) >= 2 && textstat.CoefficientOfVariation(lengths) < 0.35 {
		splitProb := 0.3 + 0.4*intensity
		doc.each(func(_ int, sent string) string {
			if wordCount(sent) >= 14 && chance(r, splitProb) {
				return splitSentence(sent)
			}
			return sent
		})
	}
	text = doc.String()

	words := textstat.LowerWords(text)
	freq := make(map[string]int)
	for _, w := range words {
		if len(w) > 4 {
			freq[w]++
		}
	}
	budget := int(math.Ceil(float64(len(words)) * 0.05 * intensity))
	for _, w := range rules.SortedKeys(freq) {
		syns, ok := t.Synonyms[w]
		if !ok || freq[w] < 3 || budget <= 0 {
			continue
		}
		seen := 0
		text = wordRegexp(w).ReplaceAllStringFunc(text, func(match string) string {
			seen++
			if seen == 1 || budget <= 0 || !chance(r, 0.5) {
				return match
			}
			budget--
			return textstat.MatchCase(match, pick(r, syns))
		})
	}

	paras := textstat.SplitParagraphs(text)
	if len(paras) < 3 {
		return text, nil
	}
	out := []string{paras[0]}
	for _, p := range paras[1:] {
		if wordCount(p) < 8 && chance(r, 0.5*intensity) {
			out[len(out)-1] += " " + p
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "\n\n"), nil
}

// splitSentence 在靠近中间的逗号处拆分长句
func splitSentence(sentence string) string {
	body, punct := splitTerminal(sentence)
	fields := strings.Fields(body)
	best := -1
	mid := len(fields) / 2
	for j := 3; j < len(fields)-3; j++ {
		if !strings.HasSuffix(fields[j], ",") {
			continue
		}
		if best < 0 || absInt(j-mid) < absInt(best-mid) {
			best = j
		}
	}
	if best < 0 {
		return sentence
	}
	left := strings.TrimSuffix(strings.Join(fields[:best+1], " "), ",")
	rest := fields[best+1:]
	if len(rest) > 0 && strings.EqualFold(rest[0], "and") {
		rest = rest[1:]
	}
	return left + ". " + textstat.Capitalize(strings.Join(rest, " ")) + punct
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// applyFingerprint 口语化连接词、加入第一人称、地区拼写与口头禅
func applyFingerprint(text string, env *Env) (string, error) {
	s, r, t := env.Settings, env.Rand, env.Rules

	p := float64(s.AIDetectionAvoidance) / 10 * 0.6
	text = replaceTable(text, t.CasualConnectives, p, r)
	text = stiffOpeners.ReplaceAllString(text, "$1 ")

	if !firstPerson.MatchString(text) {
		doc := parseDocument(text)
		if n := doc.count(); n > 0 {
			targets := []int{0}
			if chance(r, 0.5) {
				targets[0] = n - 1
			}
			if n > 2 && chance(r, 0.5) {
				targets = append(targets, n-1-targets[0])
			}
			for _, idx := range targets {
				marker := pick(r, t.FirstPersonMarkers)
				doc.update(idx, func(sent string) string {
					if hasLeadIn(sent) {
						return sent
					}
					return prependPhrase(sent, marker)
				})
			}
			text = doc.String()
		}
	}

	if s.LinguisticFingerprinting >= 6 && chance(r, 0.5) {
		text = replaceTable(text, t.Dialect, 1, r)
	}

	if chance(r, 0.05*float64(s.LinguisticFingerprinting)) {
		doc := parseDocument(text)
		if n := doc.count(); n > 0 {
			phrase := pick(r, t.PetPhrases)
			doc.update(intn(r, n), func(sent string) string {
				if hasLeadIn(sent) {
					return sent
				}
				return prependPhrase(sent, phrase)
			})
			text = doc.String()
		}
	}
	return text, nil
}

// enhanceFlow 插入按创造力分档的连接短语并替换 "very X"
func enhanceFlow(text string, env *Env) (string, error) {
	r, t := env.Rand, env.Rules

	doc := parseDocument(text)
	if n := doc.count(); n >= 3 {
		phrase := pick(r, t.FlowPhrasesFor(env.Settings.CreativityLevel))
		sentences := doc.sentences()
		start := intn(r, n-2)
		// 从随机位置起找第一个没有引导语的中间句
		for k := 0; k < n-2; k++ {
			idx := 1 + (start+k)%(n-2)
			if hasLeadIn(sentences[idx]) {
				continue
			}
			doc.update(idx, func(sent string) string { return prependPhrase(sent, phrase) })
			break
		}
		text = doc.String()
	}

	text = veryPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := veryPattern.FindStringSubmatch(match)
		if rep, ok := t.VeryReplacements[strings.ToLower(sub[2])]; ok && chance(r, 0.6) {
			return textstat.MatchCase(sub[1], rep)
		}
		if chance(r, 0.3) {
			return textstat.MatchCase(sub[1], pick(r, t.Intensifiers)) + " " + sub[2]
		}
		return match
	})
	return text, nil
}

// applySubject 使用学科术语
func applySubject(text string, env *Env) (string, error) {
	terms, ok := env.Rules.Subjects[strings.ToLower(env.Settings.SubjectArea)]
	if !ok {
		return text, nil
	}
	return replaceTable(text, terms, 0.6, env.Rand), nil
}

// enhanceCreativity 以隐喻替换部分动词，概率随创造力增长
func enhanceCreativity(text string, env *Env) (string, error) {
	p := float64(env.Settings.CreativityLevel-6) / 4 * 0.8
	for _, verb := range rules.SortedKeys(env.Rules.Metaphors) {
		phrases := env.Rules.Metaphors[verb]
		text = replaceWord(text, verb, p, env.Rand, func() string { return pick(env.Rand, phrases) })
	}
	return text, nil
}

// adaptAudience 按读者调整词汇层级
func adaptAudience(text string, env *Env) (string, error) {
	return replaceTable(text, env.Rules.Audience[env.Settings.TargetAudience], 1, env.Rand), nil
}

// applyStyle 按写作风格替换措辞
func applyStyle(text string, env *Env) (string, error) {
	return replaceTable(text, env.Rules.Style[env.Settings.WritingStyle], 1, env.Rand), nil
}

// injectPersonality 为随机一句加入符合语气的标记
func injectPersonality(text string, env *Env) (string, error) {
	markers := env.Rules.PersonalityMarkers[env.Settings.Tone]
	if len(markers) == 0 {
		markers = env.Rules.PersonalityMarkers[entity.ToneNeutral]
	}
	doc := parseDocument(text)
	n := doc.count()
	if n == 0 {
		return text, nil
	}
	marker := pick(env.Rand, markers)
	doc.update(intn(env.Rand, n), func(sent string) string {
		if hasLeadIn(sent) {
			return sent
		}
		return prependPhrase(sent, marker)
	})
	return doc.String(), nil
}
