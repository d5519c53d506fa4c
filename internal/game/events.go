package game

import (
	"fmt"

	"airline_tycoon/internal/models"
	"airline_tycoon/internal/rand"
)

// tickEventsLocked counts every active event down by one quarter and
// expires those that run out.
func (e *Engine) tickEventsLocked() {
	st := &e.state
	kept := st.Events[:0]
	for _, ev := range st.Events {
		ev.QuartersRemaining--
		if ev.QuartersRemaining > 0 {
			kept = append(kept, ev)
			continue
		}
		ev.Expire(st)
		if hasMultiplier(ev.Template) {
			st.AddNews(fmt.Sprintf("Market conditions normalise: %s is over", ev.Template.Description))
		}
		e.log.Debug("event expired", "event", ev.Template.ID)
	}
	st.Events = kept
}

func (e *Engine) rollEventLocked() (models.EventTemplate, bool) {
	templates := e.catalog.Events
	if len(templates) == 0 || !rand.Chance(e.rng, EventChance) {
		return models.EventTemplate{}, false
	}
	tpl := templates[e.rng.Intn(len(templates))]
	e.activateEventLocked(tpl)
	return tpl, true
}

func (e *Engine) activateEventLocked(tpl models.EventTemplate) {
	st := &e.state
	st.Events = append(st.Events, tpl.Activate(st))
	st.AddNews(tpl.Description)
	e.log.Info("event triggered", "event", tpl.ID, "quarters", tpl.Duration)
}

func hasMultiplier(t models.EventTemplate) bool {
	for _, eff := range t.Effects {
		switch eff.Kind() {
		case models.EffectFuelPrice, models.EffectDemand:
			return true
		}
	}
	return false
}
