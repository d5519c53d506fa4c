package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"airline_tycoon/internal/models"
)

// Catalog bundles the reference data one game is played with.
type Catalog struct {
	Aircraft []models.AircraftType  `json:"aircraft"`
	Airports []models.Airport       `json:"airports"`
	Events   []models.EventTemplate `json:"events"`
	Rivals   []RivalSpec            `json:"rivals"`
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		Aircraft: AircraftTypes(),
		Airports: Airports(),
		Events:   EventTemplates(),
		Rivals:   DefaultRivals(),
	}
}

// FindAircraft looks up a type by name, case-insensitively.
func (c Catalog) FindAircraft(name string) (models.AircraftType, bool) {
	name = strings.TrimSpace(name)
	for _, t := range c.Aircraft {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return models.AircraftType{}, false
}

// LoadAircraftJSON reads a list of aircraft types from a JSON file.
func LoadAircraftJSON(path string) ([]models.AircraftType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []models.AircraftType
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, t := range list {
		if t.Name == "" || t.RangeKm <= 0 {
			return nil, fmt.Errorf("parse %s: aircraft %q missing name or range", path, t.Name)
		}
	}
	return list, nil
}

// LoadAirportsCSV parses an airport registry with the header
// code,name,x,y,region,market_size,slots. Columns may appear in any order.
func LoadAirportsCSV(path string) ([]models.Airport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAirportsCSV(f)
}

func ReadAirportsCSV(r io.Reader) ([]models.Airport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}
	idx := func(name string) int {
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	codeIdx := idx("code")
	nameIdx := idx("name")
	xIdx := idx("x")
	yIdx := idx("y")
	regionIdx := idx("region")
	marketIdx := idx("market_size")
	slotsIdx := idx("slots")
	if codeIdx < 0 || xIdx < 0 || yIdx < 0 || marketIdx < 0 {
		return nil, errors.New("airports csv: missing code, x, y or market_size column")
	}
	field := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var list []models.Airport
	seen := make(map[string]bool)
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		code := strings.ToUpper(field(rec, codeIdx))
		if code == "" {
			continue
		}
		if seen[code] {
			return nil, fmt.Errorf("airports csv line %d: duplicate code %s", line, code)
		}
		seen[code] = true

		x, errX := strconv.ParseFloat(field(rec, xIdx), 64)
		y, errY := strconv.ParseFloat(field(rec, yIdx), 64)
		market, errM := strconv.Atoi(field(rec, marketIdx))
		if err := errors.Join(errX, errY, errM); err != nil {
			return nil, fmt.Errorf("airports csv line %d: %w", line, err)
		}
		slots, _ := strconv.Atoi(field(rec, slotsIdx))

		list = append(list, models.Airport{
			Code:       code,
			Name:       field(rec, nameIdx),
			Position:   models.Point{X: x, Y: y},
			Region:     field(rec, regionIdx),
			MarketSize: market,
			Slots:      slots,
		})
	}
	return list, nil
}
