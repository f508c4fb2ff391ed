package market

import "time"

// Envelope is the wire-level wrapper around one PriceRecord: the identity of
// the source that produced it plus the capture timestamp. Envelopes are
// created once, immediately before publish, and never mutated afterwards.
type Envelope struct {
	SourceID   int64       `json:"source_id"`
	SourceName string      `json:"source_name"`
	Data       PriceRecord `json:"data"`
	ScrapedAt  time.Time   `json:"scraped_at"`
}

// NewEnvelope wraps a record, stamping the capture time in UTC.
func NewEnvelope(sourceID int64, sourceName string, record PriceRecord, at time.Time) Envelope {
	return Envelope{
		SourceID:   sourceID,
		SourceName: sourceName,
		Data:       record,
		ScrapedAt:  at.UTC(),
	}
}
