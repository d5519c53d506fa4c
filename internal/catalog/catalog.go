// Package catalog holds the immutable reference data: aircraft types, the
// airport registry, market event templates and the default rival roster.
// Every accessor returns a fresh copy so callers may mutate the result.
package catalog

import (
	"slices"

	"airline_tycoon/internal/models"
)

var aircraftTypes = []models.AircraftType{
	{Name: "Dash 8-100", Category: models.CategoryRegional, Passengers: 37, CargoTonnes: 2, RangeKm: 1700, Price: 12_000_000, OperatingCost: 6_000, LeaseCost: 600_000},
	{Name: "Fokker 100", Category: models.CategoryRegional, Passengers: 100, CargoTonnes: 3, RangeKm: 3100, Price: 24_000_000, OperatingCost: 11_000, LeaseCost: 1_100_000},
	{Name: "Boeing 737-300", Category: models.CategoryNarrowBody, Passengers: 140, CargoTonnes: 5, RangeKm: 4200, Price: 35_000_000, OperatingCost: 15_000, LeaseCost: 1_600_000},
	{Name: "Airbus A320", Category: models.CategoryNarrowBody, Passengers: 150, CargoTonnes: 6, RangeKm: 5700, Price: 42_000_000, OperatingCost: 16_000, LeaseCost: 1_900_000},
	{Name: "Boeing 757-200", Category: models.CategoryNarrowBody, Passengers: 200, CargoTonnes: 8, RangeKm: 7200, Price: 55_000_000, OperatingCost: 21_000, LeaseCost: 2_400_000},
	{Name: "Boeing 767-300ER", Category: models.CategoryWideBody, Passengers: 260, CargoTonnes: 15, RangeKm: 11_000, Price: 90_000_000, OperatingCost: 30_000, LeaseCost: 3_800_000},
	{Name: "Airbus A340-300", Category: models.CategoryWideBody, Passengers: 295, CargoTonnes: 18, RangeKm: 13_500, Price: 110_000_000, OperatingCost: 36_000, LeaseCost: 4_600_000},
	{Name: "Boeing 747-400", Category: models.CategoryJumbo, Passengers: 416, CargoTonnes: 20, RangeKm: 13_400, Price: 160_000_000, OperatingCost: 52_000, LeaseCost: 6_500_000},
	{Name: "Concorde", Category: models.CategorySupersonic, Passengers: 100, CargoTonnes: 1, RangeKm: 7200, Price: 200_000_000, OperatingCost: 80_000, LeaseCost: 9_000_000},
	{Name: "MD-11F", Category: models.CategoryCargo, Passengers: 0, CargoTonnes: 90, RangeKm: 7300, Price: 100_000_000, OperatingCost: 35_000, LeaseCost: 4_000_000},
}

// Positions are on a 1000x600 equirectangular world map.
var airports = []models.Airport{
	{Code: "JFK", Name: "New York JFK", Position: models.Point{X: 295.1, Y: 164.5}, Region: "North America", MarketSize: 4_000_000, Slots: 120},
	{Code: "LAX", Name: "Los Angeles", Position: models.Point{X: 171.1, Y: 186.9}, Region: "North America", MarketSize: 3_800_000, Slots: 110},
	{Code: "ORD", Name: "Chicago O'Hare", Position: models.Point{X: 255.8, Y: 160.1}, Region: "North America", MarketSize: 3_500_000, Slots: 130},
	{Code: "ATL", Name: "Atlanta", Position: models.Point{X: 265.5, Y: 187.9}, Region: "North America", MarketSize: 3_000_000, Slots: 140},
	{Code: "DFW", Name: "Dallas/Fort Worth", Position: models.Point{X: 230.4, Y: 190.3}, Region: "North America", MarketSize: 2_600_000, Slots: 110},
	{Code: "MIA", Name: "Miami", Position: models.Point{X: 277.0, Y: 214.0}, Region: "North America", MarketSize: 2_200_000, Slots: 90},
	{Code: "SFO", Name: "San Francisco", Position: models.Point{X: 160.1, Y: 174.6}, Region: "North America", MarketSize: 2_800_000, Slots: 90},
	{Code: "SEA", Name: "Seattle", Position: models.Point{X: 160.2, Y: 141.8}, Region: "North America", MarketSize: 1_800_000, Slots: 70},
	{Code: "YYZ", Name: "Toronto", Position: models.Point{X: 278.8, Y: 154.4}, Region: "North America", MarketSize: 2_000_000, Slots: 80},
	{Code: "MEX", Name: "Mexico City", Position: models.Point{X: 224.8, Y: 235.2}, Region: "Latin America", MarketSize: 2_100_000, Slots: 80},
	{Code: "GRU", Name: "Sao Paulo", Position: models.Point{X: 370.9, Y: 378.1}, Region: "Latin America", MarketSize: 2_400_000, Slots: 80},
	{Code: "EZE", Name: "Buenos Aires", Position: models.Point{X: 337.4, Y: 416.1}, Region: "Latin America", MarketSize: 1_500_000, Slots: 60},
	{Code: "LHR", Name: "London Heathrow", Position: models.Point{X: 498.8, Y: 128.4}, Region: "Europe", MarketSize: 4_200_000, Slots: 100},
	{Code: "CDG", Name: "Paris Charles de Gaulle", Position: models.Point{X: 507.1, Y: 136.6}, Region: "Europe", MarketSize: 3_900_000, Slots: 110},
	{Code: "FRA", Name: "Frankfurt", Position: models.Point{X: 523.8, Y: 133.2}, Region: "Europe", MarketSize: 3_200_000, Slots: 100},
	{Code: "AMS", Name: "Amsterdam", Position: models.Point{X: 513.2, Y: 125.6}, Region: "Europe", MarketSize: 2_700_000, Slots: 100},
	{Code: "MAD", Name: "Madrid", Position: models.Point{X: 490.1, Y: 165.1}, Region: "Europe", MarketSize: 2_300_000, Slots: 90},
	{Code: "FCO", Name: "Rome", Position: models.Point{X: 534.0, Y: 160.7}, Region: "Europe", MarketSize: 2_000_000, Slots: 80},
	{Code: "DXB", Name: "Dubai", Position: models.Point{X: 653.8, Y: 215.8}, Region: "Middle East", MarketSize: 3_000_000, Slots: 100},
	{Code: "CAI", Name: "Cairo", Position: models.Point{X: 587.2, Y: 199.6}, Region: "Africa", MarketSize: 1_400_000, Slots: 60},
	{Code: "JNB", Name: "Johannesburg", Position: models.Point{X: 578.5, Y: 387.1}, Region: "Africa", MarketSize: 1_300_000, Slots: 60},
	{Code: "NRT", Name: "Tokyo Narita", Position: models.Point{X: 890.0, Y: 180.8}, Region: "Asia", MarketSize: 4_000_000, Slots: 100},
	{Code: "HKG", Name: "Hong Kong", Position: models.Point{X: 816.4, Y: 225.6}, Region: "Asia", MarketSize: 3_600_000, Slots: 100},
	{Code: "SIN", Name: "Singapore", Position: models.Point{X: 788.9, Y: 295.5}, Region: "Asia", MarketSize: 3_300_000, Slots: 100},
	{Code: "PEK", Name: "Beijing", Position: models.Point{X: 823.8, Y: 166.4}, Region: "Asia", MarketSize: 3_700_000, Slots: 110},
	{Code: "BOM", Name: "Mumbai", Position: models.Point{X: 702.4, Y: 236.4}, Region: "Asia", MarketSize: 2_500_000, Slots: 80},
	{Code: "SYD", Name: "Sydney", Position: models.Point{X: 919.9, Y: 413.2}, Region: "Oceania", MarketSize: 2_600_000, Slots: 80},
}

var eventTemplates = []models.EventTemplate{
	{ID: "oil-crisis", Description: "Oil crisis sends jet fuel prices soaring", Duration: 4,
		Effects: []models.Effect{models.FuelPriceEffect{Multiplier: 1.5}}},
	{ID: "fuel-glut", Description: "Crude oversupply brings cheap jet fuel", Duration: 3,
		Effects: []models.Effect{models.FuelPriceEffect{Multiplier: 0.8}}},
	{ID: "recession", Description: "Economic recession dampens travel demand", Duration: 4,
		Effects: []models.Effect{models.DemandEffect{Multiplier: 0.8}}},
	{ID: "tourism-boom", Description: "Tourism boom fills cabins worldwide", Duration: 3,
		Effects: []models.Effect{models.DemandEffect{Multiplier: 1.2}}},
	{ID: "safety-award", Description: "Industry safety award boosts your image", Duration: 1,
		Effects: []models.Effect{models.ReputationEffect{Delta: 5}}},
	{ID: "maintenance-scandal", Description: "Maintenance scandal hits the headlines", Duration: 1,
		Effects: []models.Effect{models.ReputationEffect{Delta: -8}}},
	{ID: "tax-rebate", Description: "Government aviation tax rebate", Duration: 1,
		Effects: []models.Effect{models.CashEffect{Delta: 5_000_000}}},
	{ID: "labor-strike", Description: "Labor strike grounds flights and spooks travellers", Duration: 2,
		Effects: []models.Effect{models.CashEffect{Delta: -3_000_000}, models.DemandEffect{Multiplier: 0.9}}},
	{ID: "engineering-breakthrough", Description: "Engineering team delivers an efficiency breakthrough", Duration: 1,
		Effects: []models.Effect{models.ResearchEffect{Levels: 1}}},
}

// RivalSpec seeds one scripted competitor at game start.
type RivalSpec struct {
	Name       string   `yaml:"name" json:"name"`
	Color      string   `yaml:"color" json:"color"`
	Cash       float64  `yaml:"cash" json:"cash"`
	Reputation int      `yaml:"reputation" json:"reputation"`
	Airports   []string `yaml:"airports" json:"airports"`
	Aggressive bool     `yaml:"aggressive" json:"aggressive"`
}

var defaultRivals = []RivalSpec{
	{Name: "Trans Global", Color: "#e74c3c", Cash: 80_000_000, Reputation: 60, Airports: []string{"LHR", "CDG"}, Aggressive: true},
	{Name: "Pacific Star", Color: "#3498db", Cash: 80_000_000, Reputation: 60, Airports: []string{"NRT", "HKG"}, Aggressive: true},
	{Name: "Atlas Airways", Color: "#2ecc71", Cash: 60_000_000, Reputation: 55, Airports: []string{"FRA"}, Aggressive: false},
}

func AircraftTypes() []models.AircraftType {
	return slices.Clone(aircraftTypes)
}

func Airports() []models.Airport {
	return slices.Clone(airports)
}

func EventTemplates() []models.EventTemplate {
	out := make([]models.EventTemplate, len(eventTemplates))
	for i, t := range eventTemplates {
		t.Effects = slices.Clone(t.Effects)
		out[i] = t
	}
	return out
}

func DefaultRivals() []RivalSpec {
	out := make([]RivalSpec, len(defaultRivals))
	for i, r := range defaultRivals {
		r.Airports = slices.Clone(r.Airports)
		out[i] = r
	}
	return out
}
