// Package textstat 提供改写与检测共用的文本统计工具
package textstat

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"humanizer-api/internal/domain/entity"
)

var (
	wordPattern      = regexp.MustCompile(`[A-Za-z]+(?:['’][A-Za-z]+)*`)
	paragraphPattern = regexp.MustCompile(`\n[ \t]*\n+`)
	vowelRuns        = regexp.MustCompile(`[aeiouy]+`)
)

// SplitSentences 按句末标点切分句子，标点保留在句尾
func SplitSentences(text string) []string {
	var (
		out   []string
		start int
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && (isTerminator(runes[j]) || isCloser(runes[j])) {
			j++
		}
		if j < len(runes) && !unicode.IsSpace(runes[j]) {
			i = j - 1
			continue
		}
		if s := strings.TrimSpace(string(runes[start:j])); s != "" {
			out = append(out, s)
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isCloser(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == '’' || r == '”'
}

// SplitParagraphs 按空行切分段落
func SplitParagraphs(text string) []string {
	parts := paragraphPattern.Split(strings.TrimSpace(text), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Words 提取单词，保留大小写
func Words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// LowerWords 提取小写单词
func LowerWords(text string) []string {
	return Words(strings.ToLower(text))
}

// Syllables 合并元音串估算音节数
func Syllables(word string) int {
	w := strings.ToLower(word)
	if w == "" {
		return 0
	}
	n := len(vowelRuns.FindAllStringIndex(w, -1))
	if n > 1 && strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") {
		n--
	}
	if n < 1 {
		n = 1
	}
	return n
}

// MeanStd 均值与总体标准差
func MeanStd(values []float64) (mean, sd float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if len(values) == 1 {
		return mean, 0
	}
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// CoefficientOfVariation 变异系数
func CoefficientOfVariation(values []float64) float64 {
	mean, sd := MeanStd(values)
	if mean == 0 {
		return 0
	}
	return sd / mean
}

// SentenceLengths 每个句子的词数
func SentenceLengths(sentences []string) []float64 {
	out := make([]float64, 0, len(sentences))
	for _, s := range sentences {
		if n := len(Words(s)); n > 0 {
			out = append(out, float64(n))
		}
	}
	return out
}

// LexicalDiversity 不重复词占比
func LexicalDiversity(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[strings.ToLower(w)] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}

// Jaccard 两个词集合的相似度
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	setA := make(map[string]struct{}, len(a))
	for _, w := range a {
		setA[strings.ToLower(w)] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, w := range b {
		setB[strings.ToLower(w)] = struct{}{}
	}
	inter := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// MatchCase 按原词的大小写形态调整替换词
func MatchCase(original, replacement string) string {
	if original == "" || replacement == "" {
		return replacement
	}
	if utf8.RuneCountInString(original) > 1 && strings.ToUpper(original) == original && strings.ToLower(original) != original {
		return strings.ToUpper(replacement)
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		return Capitalize(replacement)
	}
	return replacement
}

// Capitalize 首字母大写
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// LowerFirst 首字母小写，"I" 与全大写缩写保持不变
func LowerFirst(s string) string {
	first := strings.SplitN(s, " ", 2)[0]
	trimmed := strings.TrimRight(first, ",.;:!?")
	if trimmed == "I" || strings.HasPrefix(trimmed, "I'") || strings.HasPrefix(trimmed, "I’") {
		return s
	}
	if utf8.RuneCountInString(trimmed) > 1 && strings.ToUpper(trimmed) == trimmed {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// Count 计算基础文本统计
func Count(text string) entity.TextStats {
	return entity.TextStats{
		Words:      len(Words(text)),
		Sentences:  len(SplitSentences(text)),
		Paragraphs: len(SplitParagraphs(text)),
		Characters: utf8.RuneCountInString(text),
	}
}

// Clamp 钳制到 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round1 保留一位小数
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
