// Package rules 提供改写与检测使用的静态规则表
package rules

import (
	"maps"
	"regexp"
	"slices"

	"humanizer-api/internal/domain/entity"
)

// TransitionCategory 过渡语类别
type TransitionCategory string

const (
	TransitionContrast   TransitionCategory = "contrast"
	TransitionAddition   TransitionCategory = "addition"
	TransitionConclusion TransitionCategory = "conclusion"
)

// CreativityBand 创造力分档
type CreativityBand string

const (
	BandPlain    CreativityBand = "plain"
	BandBalanced CreativityBand = "balanced"
	BandVivid    CreativityBand = "vivid"
)

// PatternCategory 一类 AI 常见措辞的正则
type PatternCategory struct {
	Name    string
	Pattern *regexp.Regexp
}

// Tables 规则表集合，构建后只读
type Tables struct {
	Synonyms    map[string][]string
	Transitions map[TransitionCategory][]string

	FormalStarters     []string
	CasualStarters     []string
	AlternateStarters  []string
	SubordinateClauses []string
	Hedging            []string
	Interjections      []string
	ConnectingPhrases  []string
	FlowPhrases        map[CreativityBand][]string
	FirstPersonMarkers []string
	PetPhrases         []string
	Intensifiers       []string
	VeryReplacements   map[string]string

	// Contractions 展开形式 -> 缩写形式
	Contractions      map[string]string
	CasualConnectives map[string]string
	Dialect           map[string]string

	AcademicVocabulary  map[string]string
	TechnicalVocabulary map[string]string
	Subjects            map[string]map[string]string
	Metaphors           map[string][]string
	Audience            map[entity.TargetAudience]map[string]string
	Style               map[entity.WritingStyle]map[string]string
	PersonalityMarkers  map[entity.Tone][]string

	Fillers               []string
	ConversationalMarkers []string
	FormalWords           []string
	TransitionWords       []string
	CreativeMarkers       []string
	AcademicCliches       []string
	CommonAIPhrases       []string
	AIPatterns            []PatternCategory
}

// BandFor 1-3 为 plain，4-6 为 balanced，7-10 为 vivid
func BandFor(creativity int) CreativityBand {
	switch {
	case creativity <= 3:
		return BandPlain
	case creativity <= 6:
		return BandBalanced
	default:
		return BandVivid
	}
}

// FlowPhrasesFor 返回创造力对应档位的连接短语，档位为空时使用 ConnectingPhrases
func (t *Tables) FlowPhrasesFor(creativity int) []string {
	if phrases := t.FlowPhrases[BandFor(creativity)]; len(phrases) > 0 {
		return phrases
	}
	return t.ConnectingPhrases
}

// SortedKeys 按字典序返回键，保证遍历顺序稳定
func SortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// Clone 浅层复制各个表，便于合并覆盖
func (t *Tables) Clone() *Tables {
	out := *t
	out.Synonyms = maps.Clone(t.Synonyms)
	out.Transitions = maps.Clone(t.Transitions)
	out.Subjects = maps.Clone(t.Subjects)
	out.Metaphors = maps.Clone(t.Metaphors)
	out.FlowPhrases = maps.Clone(t.FlowPhrases)
	out.CommonAIPhrases = slices.Clone(t.CommonAIPhrases)
	out.AcademicCliches = slices.Clone(t.AcademicCliches)
	return &out
}

var defaults = build()

// Default 返回内置规则表
func Default() *Tables {
	return defaults
}

func build() *Tables {
	return &Tables{
		Synonyms: map[string][]string{
			"important":     {"crucial", "key", "vital", "significant"},
			"help":          {"assist", "support", "aid"},
			"big":           {"large", "sizable", "substantial"},
			"small":         {"little", "modest", "compact"},
			"good":          {"solid", "decent", "fine", "strong"},
			"bad":           {"poor", "weak", "rough"},
			"use":           {"employ", "apply", "rely on"},
			"make":          {"create", "produce", "build"},
			"get":           {"obtain", "receive", "gain"},
			"many":          {"numerous", "plenty of", "lots of"},
			"often":         {"frequently", "regularly", "commonly"},
			"quickly":       {"rapidly", "swiftly", "fast"},
			"difficult":     {"hard", "tough", "challenging"},
			"easy":          {"simple", "straightforward", "painless"},
			"start":         {"begin", "kick off", "launch"},
			"end":           {"finish", "wrap up", "close"},
			"think":         {"believe", "reckon", "suppose"},
			"need":          {"require", "call for"},
			"try":           {"attempt", "aim"},
			"problem":       {"issue", "challenge", "snag"},
			"idea":          {"notion", "concept", "thought"},
			"clear":         {"obvious", "plain", "evident"},
			"different":     {"distinct", "varied", "diverse"},
			"result":        {"outcome", "upshot", "effect"},
			"utilize":       {"use", "employ"},
			"demonstrate":   {"show", "prove"},
			"significant":   {"notable", "meaningful", "considerable"},
			"additionally":  {"also", "plus", "besides"},
			"comprehensive": {"thorough", "complete", "full"},
			"numerous":      {"many", "countless", "a lot of"},
		},
		Transitions: map[TransitionCategory][]string{
			TransitionContrast:   {"That said,", "On the other hand,", "Even so,", "Still,", "Then again,"},
			TransitionAddition:   {"On top of that,", "What's more,", "Beyond that,", "Also worth noting,", "Along the same lines,"},
			TransitionConclusion: {"All in all,", "In the end,", "When all is said and done,", "Putting it together,", "So, in short,"},
		},

		FormalStarters:     []string{"In particular,", "Notably,", "Importantly,", "In practice,", "Accordingly,"},
		CasualStarters:     []string{"Well,", "Actually,", "Honestly,", "Look,", "So,"},
		AlternateStarters:  []string{"Beyond that,", "Even then,", "Meanwhile,", "At the same time,", "In turn,"},
		SubordinateClauses: []string{"as it turns out", "in many cases", "at least in practice", "for what it's worth", "more often than not"},
		Hedging:            []string{"It could be argued that", "It seems reasonable to suggest that", "Arguably,", "To some extent,", "It appears that"},
		Interjections:      []string{"Admittedly,", "Oddly enough,", "Funnily enough,", "Sure enough,"},
		ConnectingPhrases:  []string{"On top of that,", "That said,", "With that in mind,", "As a result,", "In a way,"},
		FlowPhrases: map[CreativityBand][]string{
			BandPlain:    {"Also,", "Then,", "Because of this,", "In short,", "Next,"},
			BandBalanced: {"On top of that,", "That said,", "With that in mind,", "As a result,", "In a way,"},
			BandVivid:    {"Better still,", "Against that backdrop,", "Curiously,", "As if on cue,", "In a neat twist,"},
		},
		FirstPersonMarkers: []string{"In my experience,", "I'd say", "From what I've seen,", "I think", "Personally,"},
		PetPhrases:         []string{"To be fair,", "Truth be told,", "If you ask me,", "Mind you,"},
		Intensifiers:       []string{"really", "quite", "remarkably", "genuinely"},
		VeryReplacements: map[string]string{
			"good":        "excellent",
			"bad":         "terrible",
			"big":         "huge",
			"small":       "tiny",
			"important":   "essential",
			"happy":       "thrilled",
			"tired":       "exhausted",
			"difficult":   "grueling",
			"easy":        "effortless",
			"fast":        "rapid",
			"interesting": "fascinating",
			"old":         "ancient",
			"cold":        "freezing",
		},

		Contractions: map[string]string{
			"do not":     "don't",
			"does not":   "doesn't",
			"did not":    "didn't",
			"is not":     "isn't",
			"are not":    "aren't",
			"was not":    "wasn't",
			"were not":   "weren't",
			"cannot":     "can't",
			"will not":   "won't",
			"would not":  "wouldn't",
			"could not":  "couldn't",
			"should not": "shouldn't",
			"have not":   "haven't",
			"has not":    "hasn't",
			"it is":      "it's",
			"that is":    "that's",
			"there is":   "there's",
			"I am":       "I'm",
			"I have":     "I've",
			"we are":     "we're",
			"we have":    "we've",
			"they are":   "they're",
			"you are":    "you're",
			"let us":     "let's",
		},
		CasualConnectives: map[string]string{
			"however":      "but",
			"therefore":    "so",
			"furthermore":  "plus",
			"moreover":     "also",
			"consequently": "so",
			"nevertheless": "still",
			"additionally": "also",
			"thus":         "so",
			"hence":        "so",
			"subsequently": "later",
		},
		Dialect: map[string]string{
			"color":    "colour",
			"colors":   "colours",
			"favorite": "favourite",
			"behavior": "behaviour",
			"center":   "centre",
			"analyze":  "analyse",
			"realize":  "realise",
			"organize": "organise",
			"optimize": "optimise",
			"honor":    "honour",
			"labor":    "labour",
			"program":  "programme",
		},

		AcademicVocabulary: map[string]string{
			"show":      "demonstrate",
			"shows":     "demonstrates",
			"find":      "ascertain",
			"look at":   "examine",
			"think":     "posit",
			"important": "salient",
			"about":     "approximately",
			"get":       "obtain",
		},
		TechnicalVocabulary: map[string]string{
			"fast":   "low-latency",
			"setup":  "configuration",
			"run":    "execute",
			"broken": "non-functional",
			"check":  "validate",
			"speed":  "throughput",
			"part":   "component",
		},
		Subjects: map[string]map[string]string{
			"technology": {"make": "build", "tool": "platform", "change": "update", "problem": "bug", "fast": "performant", "plan": "roadmap"},
			"science":    {"idea": "hypothesis", "test": "experiment", "result": "finding", "show": "indicate", "guess": "estimate"},
			"business":   {"plan": "strategy", "money": "capital", "customer": "client", "goal": "objective", "growth": "expansion"},
			"health":     {"problem": "condition", "sick": "unwell", "help": "treat", "check": "screen", "doctor": "clinician"},
			"education":  {"teach": "instruct", "student": "learner", "test": "assessment", "lesson": "module", "class": "course"},
			"law":        {"rule": "statute", "agreement": "contract", "show": "establish", "break": "breach", "person": "party"},
			"finance":    {"money": "funds", "risk": "exposure", "grow": "appreciate", "cost": "expense", "profit": "margin"},
		},
		Metaphors: map[string][]string{
			"increases": {"snowballs", "climbs steadily", "shoots up"},
			"increase":  {"snowball", "climb steadily", "shoot up"},
			"changes":   {"reshapes", "turns on its head", "remolds"},
			"change":    {"reshape", "turn on its head", "remold"},
			"grows":     {"blossoms", "takes root", "mushrooms"},
			"grow":      {"blossom", "take root", "mushroom"},
			"explains":  {"sheds light on", "unpacks", "untangles"},
			"explain":   {"shed light on", "unpack", "untangle"},
			"affects":   {"ripples through", "leaves its mark on", "colors"},
			"affect":    {"ripple through", "leave its mark on", "color"},
			"reveals":   {"lifts the curtain on", "brings to light", "uncovers"},
			"reveal":    {"lift the curtain on", "bring to light", "uncover"},
			"connects":  {"weaves together", "bridges", "stitches together"},
			"connect":   {"weave together", "bridge", "stitch together"},
			"makes":     {"crafts", "forges", "shapes"},
			"uses":      {"harnesses", "leans on", "wields"},
			"shows":     {"paints a picture of", "lays bare", "puts on display"},
			"improves":  {"sharpens", "breathes new life into", "polishes"},
			"provides":  {"serves up", "hands over", "lays out"},
			"creates":   {"sparks", "gives rise to", "brings to life"},
			"drives":    {"fuels", "powers", "propels"},
		},
		Audience: map[entity.TargetAudience]map[string]string{
			entity.AudienceGeneral:   {"utilize": "use", "facilitate": "help", "commence": "start", "endeavor": "try"},
			entity.AudienceAcademic:  {"use": "utilize", "help": "facilitate", "start": "commence", "try": "endeavor"},
			entity.AudienceBusiness:  {"use": "leverage", "plan": "strategy", "talk": "discuss", "goal": "target"},
			entity.AudienceTechnical: {"use": "invoke", "setup": "configuration", "start": "initialize", "stop": "terminate"},
			entity.AudienceStudents:  {"utilize": "use", "approximately": "about", "commence": "begin", "numerous": "many"},
			entity.AudienceChildren:  {"utilize": "use", "approximately": "about", "large": "big", "difficult": "hard", "purchase": "buy"},
			entity.AudienceExperts:   {"use": "employ", "show": "establish", "about": "approximately", "guess": "estimate"},
		},
		Style: map[entity.WritingStyle]map[string]string{
			entity.StyleNarrative:    {"then": "after that", "suddenly": "all at once", "finally": "at last"},
			entity.StyleDescriptive:  {"big": "vast", "nice": "delightful", "pretty": "striking", "dark": "shadowy"},
			entity.StyleExpository:   {"shows": "illustrates", "means": "signifies", "because": "since"},
			entity.StylePersuasive:   {"good": "compelling", "important": "essential", "should": "must", "helps": "empowers"},
			entity.StyleAnalytical:   {"shows": "indicates", "think": "assess", "look at": "evaluate", "because": "given that"},
			entity.StyleJournalistic: {"said": "stated", "told": "informed", "about": "roughly", "people": "residents"},
			entity.StyleBlog:         {"therefore": "so", "however": "but", "individuals": "folks", "purchase": "buy"},
		},
		PersonalityMarkers: map[entity.Tone][]string{
			entity.ToneFormal:         {"Notably,", "It is worth observing that", "Of particular interest,"},
			entity.ToneAcademic:       {"Significantly,", "As the evidence suggests,", "Of note,"},
			entity.ToneCasual:         {"Honestly,", "Look,", "Here's the thing:", "No kidding,"},
			entity.ToneTechnical:      {"In practice,", "Under the hood,", "Worth flagging:"},
			entity.ToneCreative:       {"Picture this:", "Strangely enough,", "Like a spark in the dark,"},
			entity.ToneProfessional:   {"From a practical standpoint,", "Frankly,", "To put it plainly,"},
			entity.ToneNeutral:        {"Interestingly,", "As it happens,", "In fact,"},
			entity.ToneConversational: {"You know what?", "Here's the deal:", "Believe it or not,", "I mean,"},
		},

		Fillers:               []string{"just", "really", "actually", "basically", "kind of", "sort of", "pretty", "you know", "i mean", "well"},
		ConversationalMarkers: []string{"honestly", "anyway", "basically", "lol", "kinda", "gonna", "you know", "i mean", "actually", "wow", "yeah", "okay", "ok", "pretty much", "i guess", "to be fair"},
		FormalWords: []string{
			"furthermore", "moreover", "additionally", "consequently", "nevertheless", "therefore", "thus", "hence",
			"demonstrates", "demonstrate", "significant", "significantly", "optimal", "enhanced", "enhance",
			"utilize", "utilizes", "facilitate", "facilitates", "comprehensive", "subsequently", "implementation",
			"methodology", "paradigm", "leverage", "robust", "indicate", "indicates", "efficiency",
		},
		TransitionWords: []string{
			"however", "therefore", "furthermore", "moreover", "additionally", "consequently", "meanwhile",
			"also", "but", "so", "because", "although", "then", "finally", "first", "second", "instead", "still",
		},
		CreativeMarkers: []string{
			"vivid", "whisper", "shimmer", "tangle", "spark", "echo", "wander", "kaleidoscope", "velvet", "thunder",
			"quirky", "bizarre", "oddly", "strangely", "wild", "gritty", "crisp", "glow", "ache", "restless",
		},
		AcademicCliches: []string{
			"in today's society",
			"since the dawn of time",
			"throughout history",
			"it goes without saying",
			"in this day and age",
			"last but not least",
			"at the end of the day",
			"a double-edged sword",
		},
		CommonAIPhrases: []string{
			"it is important to note",
			"in today's fast-paced world",
			"plays a crucial role",
			"it is worth noting",
			"delve into",
			"a testament to",
			"in the realm of",
			"navigate the complexities",
			"a wide range of",
			"unlock the potential",
		},
		AIPatterns: []PatternCategory{
			{Name: "Transition overuse", Pattern: regexp.MustCompile(`\b(furthermore|moreover|additionally|in addition|consequently|nevertheless|nonetheless|subsequently)\b`)},
			{Name: "Hedging language", Pattern: regexp.MustCompile(`\b(it is possible that|may potentially|arguably|to some extent|it could be argued|generally speaking|it seems that)\b`)},
			{Name: "Conclusion markers", Pattern: regexp.MustCompile(`\b(in conclusion|to sum up|in summary|overall|ultimately|to conclude|all things considered)\b`)},
			{Name: "Quantifier overuse", Pattern: regexp.MustCompile(`\b(significant|significantly|substantial|numerous|various|a variety of|a plethora of|countless)\b`)},
			{Name: "Business jargon", Pattern: regexp.MustCompile(`\b(leverage|synergy|synergies|paradigm|stakeholders?|actionable|scalable|best practices|value proposition)\b`)},
			{Name: "Academic vocabulary", Pattern: regexp.MustCompile(`\b(demonstrates?|reveals?|indicates?|suggests?|elucidates?|underscores?|highlights?)\b`)},
			{Name: "Technical terms", Pattern: regexp.MustCompile(`\b(implementation|performance|framework|methodology|infrastructure|algorithm|functionality)\b`)},
			{Name: "Optimization language", Pattern: regexp.MustCompile(`\b(optimal|optimi[sz]ed?|enhanced?|efficiency|efficient|improvements?|streamlined?|maximi[sz]e)\b`)},
		},
	}
}
