package detection

// Thresholds 评分使用的全部经验常量，可整体覆盖
type Thresholds struct {
	// AI 评分
	PatternMatchPoints  float64
	LowVariance         float64
	LowVariancePoints   float64
	TypicalLengthMin    float64
	TypicalLengthMax    float64
	TypicalLengthPoints float64
	LowDiversity        float64
	LowDiversityPoints  float64
	CommonPhrasePoints  float64
	FormalDensity       float64
	FormalDensityPoints float64
	HighRisk            float64
	MediumRisk          float64

	// 人类特征覆盖
	HumanSignatureMin          int
	HumanSignatureMinSentences int
	MinContractions            int
	MinFirstPerson             int
	MinPunctuationKinds        int
	IrregularRhythmCV          float64

	// 抄袭风险
	NGramSize            int
	NGramMaxPoints       float64
	ClichePoints         float64
	WhitespacePoints     float64
	PunctuationRunPoints float64

	// 独特性
	DiversityWeight      float64
	CreativeMarkerPoints float64
	StarterWeight        float64
}

// DefaultThresholds 返回默认阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		PatternMatchPoints:  5,
		LowVariance:         10,
		LowVariancePoints:   15,
		TypicalLengthMin:    15,
		TypicalLengthMax:    25,
		TypicalLengthPoints: 10,
		LowDiversity:        0.4,
		LowDiversityPoints:  20,
		CommonPhrasePoints:  8,
		FormalDensity:       0.02,
		FormalDensityPoints: 15,
		HighRisk:            60,
		MediumRisk:          30,

		HumanSignatureMin:          4,
		HumanSignatureMinSentences: 3,
		MinContractions:            2,
		MinFirstPerson:             2,
		MinPunctuationKinds:        2,
		IrregularRhythmCV:          0.35,

		NGramSize:            5,
		NGramMaxPoints:       50,
		ClichePoints:         10,
		WhitespacePoints:     15,
		PunctuationRunPoints: 10,

		DiversityWeight:      0.7,
		CreativeMarkerPoints: 5,
		StarterWeight:        0.2,
	}
}

// normalize 零值字段回退到默认值
func (t Thresholds) normalize() Thresholds {
	def := DefaultThresholds()
	if t.PatternMatchPoints <= 0 {
		t.PatternMatchPoints = def.PatternMatchPoints
	}
	if t.LowVariance <= 0 {
		t.LowVariance = def.LowVariance
	}
	if t.LowVariancePoints <= 0 {
		t.LowVariancePoints = def.LowVariancePoints
	}
	if t.TypicalLengthMin <= 0 {
		t.TypicalLengthMin = def.TypicalLengthMin
	}
	if t.TypicalLengthMax <= t.TypicalLengthMin {
		t.TypicalLengthMax = def.TypicalLengthMax
	}
	if t.TypicalLengthPoints <= 0 {
		t.TypicalLengthPoints = def.TypicalLengthPoints
	}
	if t.LowDiversity <= 0 || t.LowDiversity >= 1 {
		t.LowDiversity = def.LowDiversity
	}
	if t.LowDiversityPoints <= 0 {
		t.LowDiversityPoints = def.LowDiversityPoints
	}
	if t.CommonPhrasePoints <= 0 {
		t.CommonPhrasePoints = def.CommonPhrasePoints
	}
	if t.FormalDensity <= 0 {
		t.FormalDensity = def.FormalDensity
	}
	if t.FormalDensityPoints <= 0 {
		t.FormalDensityPoints = def.FormalDensityPoints
	}
	if t.HighRisk <= 0 {
		t.HighRisk = def.HighRisk
	}
	if t.MediumRisk <= 0 || t.MediumRisk >= t.HighRisk {
		t.MediumRisk = def.MediumRisk
	}
	if t.HumanSignatureMin <= 0 || t.HumanSignatureMin > signalCount {
		t.HumanSignatureMin = def.HumanSignatureMin
	}
	if t.HumanSignatureMinSentences <= 0 {
		t.HumanSignatureMinSentences = def.HumanSignatureMinSentences
	}
	if t.MinContractions <= 0 {
		t.MinContractions = def.MinContractions
	}
	if t.MinFirstPerson <= 0 {
		t.MinFirstPerson = def.MinFirstPerson
	}
	if t.MinPunctuationKinds <= 0 {
		t.MinPunctuationKinds = def.MinPunctuationKinds
	}
	if t.IrregularRhythmCV <= 0 {
		t.IrregularRhythmCV = def.IrregularRhythmCV
	}
	if t.NGramSize < 2 {
		t.NGramSize = def.NGramSize
	}
	if t.NGramMaxPoints <= 0 {
		t.NGramMaxPoints = def.NGramMaxPoints
	}
	if t.ClichePoints <= 0 {
		t.ClichePoints = def.ClichePoints
	}
	if t.WhitespacePoints <= 0 {
		t.WhitespacePoints = def.WhitespacePoints
	}
	if t.PunctuationRunPoints <= 0 {
		t.PunctuationRunPoints = def.PunctuationRunPoints
	}
	if t.DiversityWeight <= 0 {
		t.DiversityWeight = def.DiversityWeight
	}
	if t.CreativeMarkerPoints <= 0 {
		t.CreativeMarkerPoints = def.CreativeMarkerPoints
	}
	if t.StarterWeight <= 0 {
		t.StarterWeight = def.StarterWeight
	}
	return t
}
