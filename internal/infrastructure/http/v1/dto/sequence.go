package dto

// GenerateResponse is the result of issuing a number.
type GenerateResponse struct {
	RuleCode string `json:"ruleCode"`
	Number   string `json:"number"`
}

// PreviewResponse is the result of previewing the next number.
// The number is not reserved and may differ from what a later
// generate call returns.
type PreviewResponse struct {
	RuleCode string `json:"ruleCode"`
	Number   string `json:"number"`
}
