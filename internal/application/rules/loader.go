package rules

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Overrides 规则覆盖文件结构
type Overrides struct {
	Synonyms        map[string][]string          `yaml:"synonyms"`
	Transitions     map[string][]string          `yaml:"transitions"`
	Subjects        map[string]map[string]string `yaml:"subjects"`
	Metaphors       map[string][]string          `yaml:"metaphors"`
	FlowPhrases     map[string][]string          `yaml:"flow_phrases"`
	CommonAIPhrases []string                     `yaml:"common_ai_phrases"`
	AcademicCliches []string                     `yaml:"academic_cliches"`
}

// LoadFile 读取 YAML 覆盖文件并合并到内置规则表；path 为空时返回内置表
func LoadFile(path string) (*Tables, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var ov Overrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	return Default().Merge(ov)
}

// Merge 返回合并覆盖后的新规则表，原表不变
func (t *Tables) Merge(ov Overrides) (*Tables, error) {
	out := t.Clone()

	for word, syns := range ov.Synonyms {
		if len(syns) == 0 {
			delete(out.Synonyms, strings.ToLower(word))
			continue
		}
		out.Synonyms[strings.ToLower(word)] = syns
	}

	for category, phrases := range ov.Transitions {
		c := TransitionCategory(strings.ToLower(category))
		switch c {
		case TransitionContrast, TransitionAddition, TransitionConclusion:
		default:
			return nil, fmt.Errorf("unknown transition category %q", category)
		}
		out.Transitions[c] = phrases
	}

	for subject, terms := range ov.Subjects {
		key := strings.ToLower(subject)
		merged := maps.Clone(out.Subjects[key])
		if merged == nil {
			merged = make(map[string]string, len(terms))
		}
		maps.Copy(merged, terms)
		out.Subjects[key] = merged
	}

	for verb, phrases := range ov.Metaphors {
		out.Metaphors[strings.ToLower(verb)] = phrases
	}

	for band, phrases := range ov.FlowPhrases {
		b := CreativityBand(strings.ToLower(band))
		switch b {
		case BandPlain, BandBalanced, BandVivid:
		default:
			return nil, fmt.Errorf("unknown creativity band %q", band)
		}
		out.FlowPhrases[b] = phrases
	}

	out.CommonAIPhrases = appendUnique(out.CommonAIPhrases, ov.CommonAIPhrases)
	out.AcademicCliches = appendUnique(out.AcademicCliches, ov.AcademicCliches)

	return out, nil
}

func appendUnique(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, s := range base {
		seen[s] = struct{}{}
	}
	for _, s := range extra {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		base = append(base, s)
	}
	return base
}
