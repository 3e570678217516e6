package generator

import (
	"strings"

	"sharpPicks/domain"
)

// EligibilityChecker decides whether a raw pick refers to one of the run's
// eligible events, and returns that event when it does.
type EligibilityChecker interface {
	Match(raw domain.RawPick) (domain.Event, bool)
}

// NoopEligibilityChecker is used when the run was given no events.
type NoopEligibilityChecker struct{}

func (NoopEligibilityChecker) Match(raw domain.RawPick) (domain.Event, bool) {
	return domain.Event{}, true
}

type eventEligibility struct {
	byID   map[string]domain.Event
	events []domain.Event
}

func NewEventEligibility(events []domain.Event) EligibilityChecker {
	if len(events) == 0 {
		return NoopEligibilityChecker{}
	}

	idx := &eventEligibility{
		byID:   make(map[string]domain.Event, len(events)),
		events: events,
	}
	for _, ev := range events {
		if ev.ID != "" {
			idx.byID[ev.ID] = ev
		}
	}
	return idx
}

// Match accepts an explicit event id, or a subject naming either team or one
// of the event's participants.
func (e *eventEligibility) Match(raw domain.RawPick) (domain.Event, bool) {
	if ev, ok := e.byID[raw.EventID]; ok && raw.EventID != "" {
		return ev, true
	}

	subject := strings.ToLower(raw.Subject + " " + raw.Selection)
	for _, ev := range e.events {
		for _, name := range eventNames(ev) {
			if name != "" && strings.Contains(subject, strings.ToLower(name)) {
				return ev, true
			}
		}
	}

	return domain.Event{}, false
}

func eventNames(ev domain.Event) []string {
	names := make([]string, 0, 2+len(ev.Participants))
	names = append(names, ev.HomeTeam, ev.AwayTeam)
	return append(names, ev.Participants...)
}
