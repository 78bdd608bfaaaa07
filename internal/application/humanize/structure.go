package humanize

import (
	"regexp"
	"strings"

	"humanizer-api/internal/application/textstat"
)

// listMarker 行首缩进与列表符号，如 "  - "、"* "、"2) "
var listMarker = regexp.MustCompile(`^[ \t]*(?:(?:[-*+•]|\d+[.)])[ \t]+)?`)

// layout 记录原文的行结构
type layout struct {
	lines    []string
	prefixes []string
	counts   []int
	// bare 行末原本没有终止标点，处理时补了句号
	bare []bool
}

// snapshotLayout 记录每一行的前缀与句子数，空行记为 0。
// 返回的文本去掉了行前缀，并为缺少终止标点的行补上句号，使每行至少构成一个独立句子
func snapshotLayout(text string) (layout, string) {
	lines := strings.Split(text, "\n")
	l := layout{
		lines:    lines,
		prefixes: make([]string, len(lines)),
		counts:   make([]int, len(lines)),
		bare:     make([]bool, len(lines)),
	}

	protected := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		prefix := listMarker.FindString(line)
		body := strings.TrimSpace(line[len(prefix):])
		if body == "" {
			// 只有列表符号的行按普通文本处理
			prefix = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			body = strings.TrimSpace(line)
		}
		if !endsSentence(body) {
			body += "."
			l.bare[i] = true
		}
		l.prefixes[i] = prefix
		l.counts[i] = max(len(textstat.SplitSentences(body)), 1)
		protected[i] = body
	}
	return l, strings.Join(protected, "\n")
}

func endsSentence(s string) bool {
	s = strings.TrimRight(s, "\"'”’)")
	for _, t := range []string{".", "!", "?", "…"} {
		if strings.HasSuffix(s, t) {
			return true
		}
	}
	return false
}

// restore 将最终文本的句子按原行结构重新分配，空行原样保留，句子不足时回退到原行
func (l layout) restore(text string) string {
	sentences := textstat.SplitSentences(text)
	for i, s := range sentences {
		sentences[i] = strings.Join(strings.Fields(s), " ")
	}

	out := make([]string, len(l.lines))
	next := 0
	lastNonEmpty := -1
	for i, line := range l.lines {
		if l.counts[i] == 0 {
			out[i] = line
			continue
		}
		lastNonEmpty = i
		if next >= len(sentences) {
			out[i] = line
			continue
		}
		end := min(next+l.counts[i], len(sentences))
		body := strings.Join(sentences[next:end], " ")
		if l.bare[i] {
			body = strings.TrimSuffix(body, ".")
		}
		out[i] = l.prefixes[i] + body
		next = end
	}
	if next < len(sentences) && lastNonEmpty >= 0 {
		out[lastNonEmpty] += " " + strings.Join(sentences[next:], " ")
	}
	return strings.Join(out, "\n")
}
