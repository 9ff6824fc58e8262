package model

import "time"

// Source tags which system of truth a record came from.
type Source string

const (
	SourceDashboard Source = "dashboard"
	SourceDatabase  Source = "database"
)

// Logical amount field names used in NormalizedRecord.Amounts. Both
// ingestion paths project their source columns onto these keys.
const (
	FieldBaseAmount       = "base_amount"
	FieldCommissionAmount = "commission_amount"
	FieldRatePercent      = "rate_percent"
	FieldRateBPS          = "rate_bps"
	FieldSpreadFee        = "spread_fee"
)

// RawRecord is one row from either source, untyped. Created fresh each run
// by the ingestion collaborators and never persisted.
type RawRecord struct {
	Source Source         `json:"source"`
	Scope  string         `json:"scope"`
	Fields map[string]any `json:"fields"`
}

// NameKeys holds the three key-generation variants for one entity name.
// Canonical is token-order-independent, Compact is order-sensitive, Loose
// keeps only the first and last token for partial-name fallback matching.
type NameKeys struct {
	Canonical string `json:"canonical"`
	Compact   string `json:"compact"`
	Loose     string `json:"loose"`
}

// NormalizedRecord is the typed projection of a RawRecord. Amounts default
// to 0.0 and are never null, so numeric comparison is always total. Date is
// nil when unparsable; Currency is empty when unknown.
type NormalizedRecord struct {
	Source   Source             `json:"source"`
	Scope    string             `json:"scope"`
	Name     string             `json:"name"`
	Keys     NameKeys           `json:"keys"`
	Amounts  map[string]float64 `json:"amounts"`
	Date     *time.Time         `json:"date,omitempty"`
	Currency string             `json:"currency,omitempty"`
	// TierLabel is the normalized commission-tier label, shared across
	// sources so formula checks compare like with like.
	TierLabel string `json:"tier_label,omitempty"`
}

// Amount returns the named amount, or 0.0 when absent.
func (r *NormalizedRecord) Amount(field string) float64 {
	return r.Amounts[field]
}
