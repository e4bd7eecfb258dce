package analysis

import (
	"sort"

	"github.com/gridlytics/gridlytics-go/internal/models"
)

// gwhConversionFactor returns the multiplier that normalizes a generation
// value in the given reporting units to gigawatt-hours. "thousand
// megawatthours" and "gigawatthours" are numerically identical and pass
// through; plain megawatthours divide by 1000. Unrecognized units fall back
// to the megawatthour conversion, the conservative choice.
func gwhConversionFactor(units *string) float64 {
	if units == nil {
		return 0.001
	}
	switch *units {
	case "thousand megawatthours", "gigawatthours":
		return 1
	case "megawatthours":
		return 0.001
	default:
		return 0.001
	}
}

// UnknownFuelCode is assigned to generation records missing a fuel type.
const UnknownFuelCode = "UNKNOWN"

// SummarizeGenerationMix aggregates generation observations for the latest
// reporting period into per-fuel totals normalized to GWh. The latest period
// is computed as the maximum period over the input, so the result does not
// depend on input ordering. Records whose converted value is exactly zero
// are skipped: in this dataset a zero usually means non-reporting rather
// than a true zero. Totals are rounded to 3 decimals; an entry is dropped
// only when both its rounded and unrounded totals are zero, so genuinely
// tiny contributions survive.
//
// An empty input returns an empty map.
func SummarizeGenerationMix(records []models.GenerationRecord) map[string]*models.FuelGeneration {
	mix := make(map[string]*models.FuelGeneration)
	if len(records) == 0 {
		return mix
	}

	latest := LatestGenerationPeriod(records)

	raw := make(map[string]float64)
	for _, rec := range records {
		if rec.Period != latest {
			continue
		}

		fuel := rec.FuelCode
		if fuel == "" {
			fuel = UnknownFuelCode
		}

		gwh := valueOrZero(rec.GenerationValue) * gwhConversionFactor(rec.GenerationUnits)
		if gwh == 0 {
			continue
		}

		entry, ok := mix[fuel]
		if !ok {
			entry = &models.FuelGeneration{FuelCode: fuel}
			mix[fuel] = entry
		}
		entry.ReportingUnits++
		raw[fuel] += gwh
		if entry.Description == "" && rec.FuelDescription != "" {
			entry.Description = rec.FuelDescription
		}
	}

	for fuel, entry := range mix {
		rounded := roundTo(raw[fuel], 3)
		if rounded == 0 && raw[fuel] == 0 {
			delete(mix, fuel)
			continue
		}
		entry.NetGenerationGWh = rounded
	}

	return mix
}

// BuildGenerationMixSummary computes share percentages over a mix mapping
// and selects the dominant fuel. Ties on share break lexicographically by
// fuel code, a deliberate deterministic policy.
func BuildGenerationMixSummary(region, period string, mix map[string]*models.FuelGeneration) models.GenerationMixSummary {
	summary := models.GenerationMixSummary{Region: region, Period: period}

	var total float64
	for _, entry := range mix {
		total += entry.NetGenerationGWh
	}
	summary.TotalGWh = roundTo(total, 3)

	entries := make([]*models.FuelGeneration, 0, len(mix))
	for _, entry := range mix {
		if total != 0 {
			entry.SharePercent = roundTo(entry.NetGenerationGWh/total*100, 1)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SharePercent != entries[j].SharePercent {
			return entries[i].SharePercent > entries[j].SharePercent
		}
		return entries[i].FuelCode < entries[j].FuelCode
	})
	summary.Mix = entries

	if len(entries) > 0 {
		summary.DominantFuel = entries[0].FuelCode
	}
	return summary
}

// LatestGenerationPeriod returns the maximum period string over the input.
// Period strings (YYYY-MM or YYYY) compare correctly as plain strings.
func LatestGenerationPeriod(records []models.GenerationRecord) string {
	latest := ""
	for _, rec := range records {
		if rec.Period > latest {
			latest = rec.Period
		}
	}
	return latest
}

// GenerationTrend classifies the change in total generation between the two
// most recent reporting periods. With fewer than two distinct periods the
// result is flat.
func GenerationTrend(records []models.GenerationRecord) Trend {
	totals := make(map[string]float64)
	for _, rec := range records {
		gwh := valueOrZero(rec.GenerationValue) * gwhConversionFactor(rec.GenerationUnits)
		if gwh == 0 {
			continue
		}
		totals[rec.Period] += gwh
	}

	periods := make([]string, 0, len(totals))
	for period := range totals {
		periods = append(periods, period)
	}
	if len(periods) < 2 {
		return TrendFlat
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))

	latest := totals[periods[0]]
	previous := totals[periods[1]]
	return ClassifyTrend(&latest, &previous)
}
