package entity

// AnalysisKind tahlil turi
type AnalysisKind string

const (
	AnalysisSentiment AnalysisKind = "sentiment"
	AnalysisToxicity  AnalysisKind = "toxicity"
)

type SentimentResult struct {
	Sentiment   string  `json:"sentiment"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

type ToxicityResult struct {
	IsToxic    bool     `json:"is_toxic"`
	Severity   string   `json:"severity"`
	Confidence float64  `json:"confidence"`
	Categories []string `json:"categories"`
}

// Analysis exactly one of Sentiment or Toxicity is set, matching Kind
type Analysis struct {
	Kind      AnalysisKind
	Sentiment *SentimentResult
	Toxicity  *ToxicityResult
}
