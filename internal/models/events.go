package models

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

type EffectKind string

const (
	EffectFuelPrice  EffectKind = "fuel_price"
	EffectDemand     EffectKind = "demand"
	EffectReputation EffectKind = "reputation"
	EffectCash       EffectKind = "cash"
	EffectResearch   EffectKind = "research"
)

// Effect is one consequence of a market event. Apply runs once when the
// event activates and Revert runs once when it expires. The set of
// implementations is closed to this package.
type Effect interface {
	Kind() EffectKind
	Apply(st *GameState)
	Revert(st *GameState)
	Describe() string
	sealed()
}

// FuelPriceEffect overwrites the global fuel multiplier while active.
type FuelPriceEffect struct {
	Multiplier float64
}

func (FuelPriceEffect) Kind() EffectKind { return EffectFuelPrice }
func (e FuelPriceEffect) Apply(st *GameState) { st.FuelPrice = e.Multiplier }

// Revert resets to neutral even if another active event also set the fuel
// multiplier.
func (FuelPriceEffect) Revert(st *GameState) { st.FuelPrice = 1.0 }
func (e FuelPriceEffect) Describe() string { return fmt.Sprintf("fuel x%.2f", e.Multiplier) }
func (FuelPriceEffect) sealed() {}

// DemandEffect overwrites the economic condition multiplier while active.
type DemandEffect struct {
	Multiplier float64
}

func (DemandEffect) Kind() EffectKind { return EffectDemand }
func (e DemandEffect) Apply(st *GameState) { st.Economy = e.Multiplier }
func (DemandEffect) Revert(st *GameState) { st.Economy = 1.0 }
func (e DemandEffect) Describe() string { return fmt.Sprintf("demand x%.2f", e.Multiplier) }
func (DemandEffect) sealed() {}

type ReputationEffect struct {
	Delta int
}

func (ReputationEffect) Kind() EffectKind { return EffectReputation }
func (e ReputationEffect) Apply(st *GameState) { st.AdjustReputation(e.Delta) }
func (ReputationEffect) Revert(*GameState) {}
func (e ReputationEffect) Describe() string { return fmt.Sprintf("reputation %+d", e.Delta) }
func (ReputationEffect) sealed() {}

type CashEffect struct {
	Delta float64
}

func (CashEffect) Kind() EffectKind { return EffectCash }
func (e CashEffect) Apply(st *GameState) { st.Cash += e.Delta }
func (CashEffect) Revert(*GameState) {}
func (e CashEffect) Describe() string { return fmt.Sprintf("cash %+.0f", e.Delta) }
func (CashEffect) sealed() {}

type ResearchEffect struct {
	Levels int
}

func (ResearchEffect) Kind() EffectKind { return EffectResearch }
func (e ResearchEffect) Apply(st *GameState) { st.AdjustResearch(e.Levels) }
func (ResearchEffect) Revert(*GameState) {}
func (e ResearchEffect) Describe() string { return fmt.Sprintf("research %+d", e.Levels) }
func (ResearchEffect) sealed() {}

// EventTemplate is a catalog entry for a random market event.
type EventTemplate struct {
	ID          string
	Description string
	Duration    int
	Effects     []Effect
}

// Activate applies every effect and returns the running event.
func (t EventTemplate) Activate(st *GameState) ActiveEvent {
	for _, eff := range t.Effects {
		eff.Apply(st)
	}
	return ActiveEvent{Template: t, QuartersRemaining: t.Duration}
}

// ActiveEvent is a triggered event counting down to expiry.
type ActiveEvent struct {
	Template          EventTemplate `json:"template"`
	QuartersRemaining int           `json:"quarters_remaining"`
}

// Expire reverts the template's effects.
func (ev ActiveEvent) Expire(st *GameState) {
	for _, eff := range ev.Template.Effects {
		eff.Revert(st)
	}
}

// Wire form. Effects are flattened to a kind tag plus a single value so the
// saved layout stays flat.

type effectRecord struct {
	Kind  EffectKind `json:"kind"`
	Value float64    `json:"value"`
}

type eventTemplateRecord struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Duration    int            `json:"duration"`
	Effects     []effectRecord `json:"effects"`
}

func (t EventTemplate) record() eventTemplateRecord {
	r := eventTemplateRecord{
		ID:          t.ID,
		Description: t.Description,
		Duration:    t.Duration,
		Effects:     make([]effectRecord, 0, len(t.Effects)),
	}
	for _, eff := range t.Effects {
		rec := effectRecord{Kind: eff.Kind()}
		switch e := eff.(type) {
		case FuelPriceEffect:
			rec.Value = e.Multiplier
		case DemandEffect:
			rec.Value = e.Multiplier
		case ReputationEffect:
			rec.Value = float64(e.Delta)
		case CashEffect:
			rec.Value = e.Delta
		case ResearchEffect:
			rec.Value = float64(e.Levels)
		}
		r.Effects = append(r.Effects, rec)
	}
	return r
}

func (t *EventTemplate) fromRecord(r eventTemplateRecord) error {
	effects := make([]Effect, 0, len(r.Effects))
	for _, rec := range r.Effects {
		eff, err := effectFromRecord(rec)
		if err != nil {
			return fmt.Errorf("event %q: %w", r.ID, err)
		}
		effects = append(effects, eff)
	}
	*t = EventTemplate{
		ID:          r.ID,
		Description: r.Description,
		Duration:    r.Duration,
		Effects:     effects,
	}
	return nil
}

func effectFromRecord(rec effectRecord) (Effect, error) {
	switch rec.Kind {
	case EffectFuelPrice:
		return FuelPriceEffect{Multiplier: rec.Value}, nil
	case EffectDemand:
		return DemandEffect{Multiplier: rec.Value}, nil
	case EffectReputation:
		return ReputationEffect{Delta: int(rec.Value)}, nil
	case EffectCash:
		return CashEffect{Delta: rec.Value}, nil
	case EffectResearch:
		return ResearchEffect{Levels: int(rec.Value)}, nil
	default:
		return nil, fmt.Errorf("unknown effect kind %q", rec.Kind)
	}
}

func (t EventTemplate) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.record())
}

func (t *EventTemplate) UnmarshalJSON(data []byte) error {
	var r eventTemplateRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	return t.fromRecord(r)
}

func (t EventTemplate) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(t.record())
}

func (t *EventTemplate) DecodeMsgpack(dec *msgpack.Decoder) error {
	var r eventTemplateRecord
	if err := dec.Decode(&r); err != nil {
		return err
	}
	return t.fromRecord(r)
}
