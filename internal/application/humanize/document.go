package humanize

import (
	"regexp"
	"strings"
	"sync"

	"humanizer-api/internal/application/rules"
	"humanizer-api/internal/application/textstat"
)

// document 段落 -> 句子的二级结构
type document struct {
	paragraphs [][]string
}

func parseDocument(text string) *document {
	d := &document{}
	for _, p := range textstat.SplitParagraphs(text) {
		var sentences []string
		for _, s := range textstat.SplitSentences(p) {
			sentences = append(sentences, strings.Join(strings.Fields(s), " "))
		}
		if len(sentences) > 0 {
			d.paragraphs = append(d.paragraphs, sentences)
		}
	}
	return d
}

func (d *document) String() string {
	parts := make([]string, 0, len(d.paragraphs))
	for _, p := range d.paragraphs {
		parts = append(parts, strings.Join(p, " "))
	}
	return strings.Join(parts, "\n\n")
}

func (d *document) count() int {
	n := 0
	for _, p := range d.paragraphs {
		n += len(p)
	}
	return n
}

// sentences 按全局序号返回句子副本
func (d *document) sentences() []string {
	out := make([]string, 0, d.count())
	for _, p := range d.paragraphs {
		out = append(out, p...)
	}
	return out
}

// each 按全局序号遍历句子并原地替换
func (d *document) each(fn func(idx int, sentence string) string) {
	idx := 0
	for pi := range d.paragraphs {
		for si := range d.paragraphs[pi] {
			d.paragraphs[pi][si] = fn(idx, d.paragraphs[pi][si])
			idx++
		}
	}
}

func (d *document) update(target int, fn func(sentence string) string) {
	d.each(func(idx int, s string) string {
		if idx == target {
			return fn(s)
		}
		return s
	})
}

var wordRegexps sync.Map

// wordRegexp 返回按词边界、忽略大小写匹配的正则
func wordRegexp(word string) *regexp.Regexp {
	if re, ok := wordRegexps.Load(word); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	wordRegexps.Store(word, re)
	return re
}

// replaceWord 以概率 p 替换每一处出现，保留原词大小写形态
func replaceWord(text, word string, p float64, r Rand, choose func() string) string {
	return wordRegexp(word).ReplaceAllStringFunc(text, func(match string) string {
		if !chance(r, p) {
			return match
		}
		return textstat.MatchCase(match, choose())
	})
}

// replaceAll 替换全部出现
func replaceAll(text, word, replacement string) string {
	return wordRegexp(word).ReplaceAllStringFunc(text, func(match string) string {
		return textstat.MatchCase(match, replacement)
	})
}

// replaceTable 按键的字典序应用替换表
func replaceTable(text string, table map[string]string, p float64, r Rand) string {
	for _, k := range rules.SortedKeys(table) {
		replacement := table[k]
		if p >= 1 {
			text = replaceAll(text, k, replacement)
			continue
		}
		text = replaceWord(text, k, p, r, func() string { return replacement })
	}
	return text
}

// splitTerminal 拆出句末标点，缺省为句号
func splitTerminal(sentence string) (body, punct string) {
	trimmed := strings.TrimRight(sentence, ".!?…\"'”’)")
	if trimmed == sentence {
		return sentence, "."
	}
	return trimmed, sentence[len(trimmed):]
}

// hasLeadIn 句首是否已有逗号或冒号引导的短语
func hasLeadIn(sentence string) bool {
	idx := strings.IndexAny(sentence, ",:")
	if idx <= 0 || idx > 40 {
		return false
	}
	return len(strings.Fields(sentence[:idx])) <= 3
}

func prependPhrase(sentence, phrase string) string {
	if phrase == "" {
		return sentence
	}
	return phrase + " " + textstat.LowerFirst(sentence)
}

func firstWord(sentence string) string {
	words := textstat.Words(sentence)
	if len(words) == 0 {
		return ""
	}
	return strings.ToLower(words[0])
}

func wordCount(s string) int {
	return len(textstat.Words(s))
}
