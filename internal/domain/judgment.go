package domain

// Judgment is the classifier's verdict on one item within a batch. The whole
// struct is untrusted model output: every field may be missing or garbage.
// OriginalIndex is a pointer so an absent index is distinguishable from 0 and
// can be dropped instead of dereferencing item zero.
type Judgment struct {
	OriginalIndex *int   `json:"original_index"`
	CompanyName   string `json:"company_name"`
	SignalType    string `json:"signal_type"`
	SqFt          int    `json:"sq_ft"`
	FundingAmount string `json:"funding_amount"`
	RoundType     string `json:"round_type"`
	Confidence    int    `json:"confidence"`
	Industry      string `json:"industry"`
	Location      string `json:"location"`
	Timeline      string `json:"timeline"`
	Website       string `json:"company_website"`
	Reason        string `json:"reason"`
}

// Index returns the validated batch index, or -1 when the judgment is missing
// one or references a slot outside [0, batchLen).
func (j Judgment) Index(batchLen int) int {
	if j.OriginalIndex == nil {
		return -1
	}
	idx := *j.OriginalIndex
	if idx < 0 || idx >= batchLen {
		return -1
	}
	return idx
}
