package domain

// ProcessedItem pairs a source URI with its enhanced URI.
type ProcessedItem struct {
	Source   string `json:"source"`
	Enhanced string `json:"enhanced"`
}

// BatchResult lists the successfully enhanced items of one batch, in input
// order.
type BatchResult struct {
	Processed []ProcessedItem `json:"processed"`
}

// NewBatchResult returns an empty result whose Processed list encodes as [].
func NewBatchResult() *BatchResult {
	return &BatchResult{Processed: []ProcessedItem{}}
}

// Add records one enhanced item.
func (r *BatchResult) Add(source, enhanced Location) {
	r.Processed = append(r.Processed, ProcessedItem{
		Source:   source.URI(),
		Enhanced: enhanced.URI(),
	})
}
