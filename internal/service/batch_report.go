// Package service implements the prediction and settlement pipeline stages.
package service

import "fmt"

// ItemStatus classifies the outcome of one fixture within a batch run
type ItemStatus string

const (
	ItemCreated ItemStatus = "created"
	ItemSettled ItemStatus = "settled"
	ItemSkipped ItemStatus = "skipped"
	ItemFailed  ItemStatus = "failed"
)

// ItemResult records the outcome of processing a single fixture. Failures
// are fixture-scoped: one bad fixture never aborts the batch.
type ItemResult struct {
	MatchID string
	Status  ItemStatus
	Reason  string
	Err     error
}

// BatchReport aggregates per-fixture results for one pipeline run
type BatchReport struct {
	Items   []ItemResult
	Created int
	Settled int
	Skipped int
	Failed  int
}

// Add records one fixture result and bumps the matching counter
func (r *BatchReport) Add(item ItemResult) {
	r.Items = append(r.Items, item)
	switch item.Status {
	case ItemCreated:
		r.Created++
	case ItemSettled:
		r.Settled++
	case ItemSkipped:
		r.Skipped++
	case ItemFailed:
		r.Failed++
	}
}

// Total returns the number of fixtures processed
func (r *BatchReport) Total() int {
	return len(r.Items)
}

func (r *BatchReport) String() string {
	return fmt.Sprintf("BatchReport{total=%d, created=%d, settled=%d, skipped=%d, failed=%d}",
		r.Total(), r.Created, r.Settled, r.Skipped, r.Failed)
}
