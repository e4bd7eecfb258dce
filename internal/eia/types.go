package eia

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Number decodes the numeric fields of EIA v2 responses, which arrive
// inconsistently as JSON numbers, numeric strings, or null depending on the
// dataset. Decoding goes through decimal to accept both forms without float
// parsing quirks.
type Number struct {
	Valid bool
	Value float64
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	n.Valid = false
	n.Value = 0

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			// Non-numeric strings ("W" withheld markers and the like) are
			// treated as not reported.
			return nil
		}
		n.Valid = true
		n.Value = d.InexactFloat64()
		return nil
	}

	var d decimal.Decimal
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return err
	}
	n.Valid = true
	n.Value = d.InexactFloat64()
	return nil
}

// Ptr returns the value as a nullable float, nil when not reported.
func (n Number) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// envelope is the outer shape of every EIA v2 API response.
type envelope struct {
	Response *responseBody `json:"response"`
	Error    string        `json:"error,omitempty"`
}

type responseBody struct {
	Total       Number          `json:"total"`
	Data        json.RawMessage `json:"data"`
	Description string          `json:"description,omitempty"`
}

// Raw row shapes per dataset route. Field names follow the EIA column ids.

type capacityRow struct {
	Period             string `json:"period"`
	StateID            string `json:"stateid"`
	BalancingAuthority string `json:"balancing_authority_code"`
	EnergySourceCode   string `json:"energy_source_code"`
	PlantName          string `json:"plantName"`
	NetSummerCapacity  Number `json:"net-summer-capacity-mw"`
	NetWinterCapacity  Number `json:"net-winter-capacity-mw"`
}

type generationRow struct {
	Period              string `json:"period"`
	FuelTypeID          string `json:"fueltypeid"`
	FuelTypeDescription string `json:"fuelTypeDescription"`
	Generation          Number `json:"generation"`
	GenerationUnits     string `json:"generation-units"`
	TotalConsumption    Number `json:"total-consumption"`
}

type retailPriceRow struct {
	Period   string `json:"period"`
	StateID  string `json:"stateid"`
	SectorID string `json:"sectorid"`
	Price    Number `json:"price"`
	Sales    Number `json:"sales"`
}

type hourlyRow struct {
	Period     string `json:"period"`
	Respondent string `json:"respondent"`
	Type       string `json:"type"`
	Value      Number `json:"value"`
}
