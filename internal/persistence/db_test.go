package persistence

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"airline_tycoon/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	return openTestDBWithLogger(t, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func openTestDBWithLogger(t *testing.T, logger *slog.Logger) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "saves.db"), logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleState() models.GameState {
	st := models.GameState{
		SchemaVersion: models.SchemaVersion,
		GameID:        "game-1",
		Year:          1993,
		Quarter:       2,
		Cash:          12_345_678.5,
		Reputation:    64,
		FuelPrice:     1.5,
		Economy:       1.0,
		Airports: []models.Airport{
			{Code: "JFK", Name: "New York JFK", Position: models.Point{X: 295.1, Y: 164.5}, Owner: models.OwnerPlayer},
			{Code: "LHR", Name: "London Heathrow", Owner: models.OwnerCompetitor, CompetitorID: 1},
		},
		Fleet: []models.Aircraft{
			{ID: 1, Name: "Boeing 737-300 #1", Type: models.AircraftType{Name: "Boeing 737-300", RangeKm: 4200}, Acquisition: models.AcquisitionOwned, AgeQuarters: 9, RouteID: 1},
		},
		Routes: []models.Route{{ID: 1, From: "JFK", To: "ORD", AircraftID: 1, FlightsPerWeek: 7, DistanceKm: 1190}},
		Loans:  []models.Loan{{ID: 1, Principal: 1_000_000, Balance: 500_000, Payment: 265_000, PrincipalPerQuarter: 250_000, Term: 4, QuartersRemaining: 2, Rate: 0.02}},
		Events: []models.ActiveEvent{{
			Template: models.EventTemplate{
				ID: "labor-strike", Description: "Strike", Duration: 2,
				Effects: []models.Effect{models.CashEffect{Delta: -3_000_000}, models.DemandEffect{Multiplier: 0.9}},
			},
			QuartersRemaining: 1,
		}},
		NextAircraftID: 2,
		NextRouteID:    2,
		NextLoanID:     2,
	}
	st.AddNews("Welcome aboard!")
	st.AddNews("Q1 1993 profit: $1,000")
	return st
}

func TestSnapshotRoundTrip(t *testing.T) {
	want := sampleState()
	blob, err := EncodeSnapshot(want)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	got, err := DecodeSnapshot(blob)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}

	if got.GameID != want.GameID || got.Cash != want.Cash || got.Year != want.Year || got.Quarter != want.Quarter {
		t.Fatalf("expected scalars to survive, got %+v", got)
	}
	if len(got.Fleet) != 1 || got.Fleet[0] != want.Fleet[0] {
		t.Fatalf("expected fleet to survive, got %+v", got.Fleet)
	}
	if got.Airports[1].CompetitorID != 1 || got.Airports[1].Owner != models.OwnerCompetitor {
		t.Fatalf("expected rival ownership to survive, got %+v", got.Airports[1])
	}
	if len(got.Loans) != 1 || got.Loans[0] != want.Loans[0] {
		t.Fatalf("expected loan to survive, got %+v", got.Loans)
	}
	effects := got.Events[0].Template.Effects
	if len(effects) != 2 {
		t.Fatalf("expected 2 effects, got %d", len(effects))
	}
	if eff, ok := effects[1].(models.DemandEffect); !ok || eff.Multiplier != 0.9 {
		t.Fatalf("expected demand effect, got %#v", effects[1])
	}
	if len(got.News) != 2 || got.News[1].Message != want.News[1].Message {
		t.Fatalf("expected news to survive, got %+v", got.News)
	}
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	if _, err := DecodeSnapshot([]byte("definitely not zstd")); err == nil {
		t.Fatalf("expected error decoding garbage")
	}
}

func TestSaveListLoadSlots(t *testing.T) {
	db := openTestDB(t)
	st := sampleState()

	first, err := db.SaveSlot("", st)
	if err != nil {
		t.Fatalf("SaveSlot: %v", err)
	}
	if first.Name != "Q2 1993" {
		t.Fatalf("expected default slot name, got %q", first.Name)
	}
	st.Quarter = 3
	second, err := db.SaveSlot("before expansion", st)
	if err != nil {
		t.Fatalf("SaveSlot: %v", err)
	}

	slots, err := db.ListSlots()
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(slots) != 2 || slots[0].ID != second.ID {
		t.Fatalf("expected newest slot first, got %+v", slots)
	}

	loaded, err := db.LoadSlot(first.ID)
	if err != nil {
		t.Fatalf("LoadSlot: %v", err)
	}
	if loaded.Quarter != 2 || loaded.GameID != "game-1" {
		t.Fatalf("expected first slot contents, got Q%d %s", loaded.Quarter, loaded.GameID)
	}

	if _, err := db.LoadSlot("missing"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
	if err := db.DeleteSlot(first.ID); err != nil {
		t.Fatalf("DeleteSlot: %v", err)
	}
	if err := db.DeleteSlot(first.ID); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound on second delete, got %v", err)
	}
}

func TestLoadSlotRejectsCorruptSnapshot(t *testing.T) {
	db := openTestDB(t)
	_, err := db.conn.Exec(`INSERT INTO saves
		(id, name, game_id, year, quarter, cash, schema_version, created_at, snapshot)
		VALUES ('bad', 'broken', 'game-1', 1990, 1, 0, 1, 0, X'00010203')`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.LoadSlot("bad"); !errors.Is(err, ErrBadSnapshot) {
		t.Fatalf("expected ErrBadSnapshot, got %v", err)
	}
}

func TestSaveSlotLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	db := openTestDBWithLogger(t, slog.New(slog.NewTextHandler(&buf, nil)))
	info, err := db.SaveSlot("logged", sampleState())
	if err != nil {
		t.Fatalf("SaveSlot: %v", err)
	}
	if !strings.Contains(buf.String(), "game saved") || !strings.Contains(buf.String(), info.ID) {
		t.Fatalf("expected save record in the injected logger, got %q", buf.String())
	}
}

func TestNewsArchiveDeduplicates(t *testing.T) {
	db := openTestDB(t)
	st := sampleState()
	if _, err := db.SaveSlot("a", st); err != nil {
		t.Fatalf("SaveSlot: %v", err)
	}
	st.AddNews("Route JFK-ORD opened")
	if _, err := db.SaveSlot("b", st); err != nil {
		t.Fatalf("SaveSlot: %v", err)
	}

	news, err := db.NewsArchive("game-1", 10)
	if err != nil {
		t.Fatalf("NewsArchive: %v", err)
	}
	if len(news) != 3 {
		t.Fatalf("expected 3 archived entries, got %d", len(news))
	}
	if news[2].Message != "Route JFK-ORD opened" {
		t.Fatalf("expected oldest-first order, got %+v", news)
	}

	news, err = db.NewsArchive("game-1", 1)
	if err != nil {
		t.Fatalf("NewsArchive: %v", err)
	}
	if len(news) != 1 || news[0].Message != "Route JFK-ORD opened" {
		t.Fatalf("expected only the newest entry, got %+v", news)
	}
}

func TestSchemaVersionMeta(t *testing.T) {
	db := openTestDB(t)
	v, err := db.GetMeta("schema_version")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if v != strconv.Itoa(models.SchemaVersion) {
		t.Fatalf("expected schema version %d, got %q", models.SchemaVersion, v)
	}
}
