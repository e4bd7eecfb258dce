package analysis

import (
	"github.com/gridlytics/gridlytics-go/internal/models"
)

// AggregateRegionalCapacity sums plant-level seasonal capacity for a
// region's latest reporting period. The latest period is computed as the
// maximum period over the input rather than trusting positional order.
// Missing capacity values count as 0. With no records the result is
// zero-valued with LatestPeriod "N/A"; that is a normal outcome, not an
// error.
func AggregateRegionalCapacity(region string, records []models.CapacityRecord) models.RegionalCapacityMetrics {
	metrics := models.RegionalCapacityMetrics{Region: region, LatestPeriod: "N/A"}
	if len(records) == 0 {
		return metrics
	}

	latest := ""
	for _, rec := range records {
		if rec.Period > latest {
			latest = rec.Period
		}
	}
	metrics.LatestPeriod = latest

	for _, rec := range records {
		if rec.Period != latest {
			continue
		}
		metrics.TotalSummerCapacityMW += valueOrZero(rec.SummerCapacityMW)
		metrics.TotalWinterCapacityMW += valueOrZero(rec.WinterCapacityMW)
		metrics.PlantCount++
	}

	return metrics
}

// AggregateCapacityByFuel groups plant records from the whole fetched window
// by fuel code, summing seasonal capacity per code. The Period on each
// bucket is the truncated year of whichever record populated it first, an
// approximation that is fine for the renewable-penetration consumer, which
// only needs relative totals.
func AggregateCapacityByFuel(records []models.CapacityRecord) map[string]*models.FuelCapacity {
	byFuel := make(map[string]*models.FuelCapacity)

	for _, rec := range records {
		fuel := rec.FuelCode
		if fuel == "" {
			fuel = UnknownFuelCode
		}

		entry, ok := byFuel[fuel]
		if !ok {
			period := rec.Period
			if len(period) > 4 {
				period = period[:4]
			}
			entry = &models.FuelCapacity{FuelCode: fuel, Period: period}
			byFuel[fuel] = entry
		}
		entry.SummerCapacityMW += valueOrZero(rec.SummerCapacityMW)
		entry.WinterCapacityMW += valueOrZero(rec.WinterCapacityMW)
	}

	return byFuel
}
