// Package audit runs one scope's reconciliation: ingest, normalize, match,
// verify commission formulas, apply governance, and write the run artifacts.
package audit

import (
	"fmt"
	"strings"

	"github.com/sells-group/commission-audit/internal/config"
	"github.com/sells-group/commission-audit/internal/formula"
	"github.com/sells-group/commission-audit/internal/model"
	"github.com/sells-group/commission-audit/internal/normalize"
)

// Short aliases for the shared logical amount field names.
const (
	fieldBase       = model.FieldBaseAmount
	fieldCommission = model.FieldCommissionAmount
	fieldPercent    = model.FieldRatePercent
	fieldBPS        = model.FieldRateBPS
	fieldSpreadFee  = model.FieldSpreadFee
)

// System-of-record column names, fixed by the commissions schema.
const (
	dbColName       = "client_name"
	dbColBase       = "base_amount"
	dbColCommission = "commission_amount"
	dbColPercent    = "rate_percent"
	dbColBPS        = "rate_bps"
	dbColBasis      = "basis_code"
	dbColTier       = "tier"
	dbColDate       = "trade_date"
	dbColCurrency   = "currency"
)

func fieldString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func keysFor(name string) model.NameKeys {
	return model.NameKeys{
		Canonical: normalize.CanonicalKey(name),
		Compact:   normalize.CompactKey(name),
		Loose:     normalize.LooseKey(name),
	}
}

// projectDashboard types one raw dashboard row using the scope's column map.
// Bad cells degrade to safe defaults; they never abort the run.
func projectDashboard(raw model.RawRecord, cols config.ColumnMap) model.NormalizedRecord {
	name := strings.TrimSpace(fieldString(raw.Fields[cols.Name]))
	rec := model.NormalizedRecord{
		Source:  raw.Source,
		Scope:   raw.Scope,
		Name:    name,
		Keys:    keysFor(name),
		Amounts: map[string]float64{},
	}

	amountCols := map[string]string{
		fieldBase:       cols.BaseAmount,
		fieldCommission: cols.CommissionAmount,
		fieldPercent:    cols.RatePercent,
		fieldBPS:        cols.RateBPS,
		fieldSpreadFee:  cols.SpreadFee,
	}
	for field, col := range amountCols {
		if col == "" {
			continue
		}
		rec.Amounts[field] = normalize.AmountValue(raw.Fields[col])
	}

	if cols.Date != "" {
		rec.Date = normalize.ParseDate(fieldString(raw.Fields[cols.Date]))
	}
	if cols.Currency != "" {
		rec.Currency = normalize.Currency(fieldString(raw.Fields[cols.Currency]))
	}
	if cols.TierLabel != "" {
		rec.TierLabel = strings.ToLower(strings.TrimSpace(fieldString(raw.Fields[cols.TierLabel])))
	}

	return rec
}

// projectDatabase types one raw system-of-record row. The basis-type code
// and its separate tier number collapse into the shared tier label space.
func projectDatabase(raw model.RawRecord) model.NormalizedRecord {
	name := strings.TrimSpace(fieldString(raw.Fields[dbColName]))
	rec := model.NormalizedRecord{
		Source:  raw.Source,
		Scope:   raw.Scope,
		Name:    name,
		Keys:    keysFor(name),
		Amounts: map[string]float64{},
	}

	for field, col := range map[string]string{
		fieldBase:       dbColBase,
		fieldCommission: dbColCommission,
		fieldPercent:    dbColPercent,
		fieldBPS:        dbColBPS,
	} {
		if v, ok := raw.Fields[col]; ok {
			rec.Amounts[field] = normalize.AmountValue(v)
		}
	}

	if v, ok := raw.Fields[dbColDate]; ok {
		rec.Date = normalize.ParseDate(fieldString(v))
	}
	if v, ok := raw.Fields[dbColCurrency]; ok {
		rec.Currency = normalize.Currency(fieldString(v))
	}

	basis := fieldString(raw.Fields[dbColBasis])
	tier := int(normalize.AmountValue(raw.Fields[dbColTier]))
	if basis != "" || tier > 0 {
		rec.TierLabel = formula.TierLabel(basis, tier)
	}

	return rec
}
