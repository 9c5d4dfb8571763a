package domain

// PageStatus classifies what happened to one page of a bundle.
type PageStatus string

const (
	PageMatched          PageStatus = "matched"
	PageUnmatched        PageStatus = "unmatched"
	PageExtractionFailed PageStatus = "extraction_failed"
)

// PageOutcome reports the result for a single bundle page. BoletoID is
// set only when Status is PageMatched.
type PageOutcome struct {
	PageIndex int        `json:"page_index"`
	Label     string     `json:"label,omitempty"`
	BoletoID  int64      `json:"boleto_id,omitempty"`
	Status    PageStatus `json:"status"`
}
