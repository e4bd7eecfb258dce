package models

// CapacityRecord represents one plant-level operating capacity observation
// from the EIA operating-generator-capacity dataset. Capacity values are
// nil when the plant did not report for the period.
type CapacityRecord struct {
	Period           string   `json:"period"`
	RegionCode       string   `json:"region_code"`
	FuelCode         string   `json:"fuel_code"`
	PlantName        string   `json:"plant_name,omitempty"`
	SummerCapacityMW *float64 `json:"summer_capacity_mw"`
	WinterCapacityMW *float64 `json:"winter_capacity_mw"`
}

// GenerationRecord represents one generation observation from the
// electric-power-operational-data dataset. GenerationUnits determines the
// conversion applied when normalizing to GWh.
type GenerationRecord struct {
	Period           string   `json:"period"`
	FuelCode         string   `json:"fuel_code"`
	FuelDescription  string   `json:"fuel_description,omitempty"`
	GenerationValue  *float64 `json:"generation_value"`
	GenerationUnits  *string  `json:"generation_units"`
	TotalConsumption *float64 `json:"total_consumption"`
}

// RetailPriceRecord represents one monthly retail price observation from
// the retail-sales dataset.
type RetailPriceRecord struct {
	Period           string   `json:"period"`
	RegionCode       string   `json:"region_code"`
	SectorCode       string   `json:"sector_code"`
	PriceCentsPerKWh *float64 `json:"price_cents_per_kwh"`
	SalesMWh         *float64 `json:"sales_mwh"`
}

// HourlySeriesRecord represents one hourly demand or generation observation
// from the RTO region-data dataset. The fetch layer returns these sorted
// descending by period; index 0 is the most recent hour.
type HourlySeriesRecord struct {
	Period         string   `json:"period"`
	RespondentCode string   `json:"respondent_code"`
	SeriesType     string   `json:"series_type"`
	Value          *float64 `json:"value"`
}
