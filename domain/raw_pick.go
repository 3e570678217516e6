package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// LooseValue keeps a JSON scalar as text, whatever type the model used
// ("-110", -110, "+150", 72, "72%").
type LooseValue string

func (v *LooseValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = LooseValue(strings.TrimSpace(s))
		return nil
	}
	*v = LooseValue(string(b))
	return nil
}

func (v LooseValue) String() string {
	return string(v)
}

// RawPick is one recommendation exactly as the tool layer returned it, before
// validation. Team and prop payloads use different field names; both are
// folded into Subject/Selection.
type RawPick struct {
	Sport      string     `json:"sport"`
	EventID    string     `json:"event_id,omitempty"`
	Subject    string     `json:"subject" validate:"required"`
	Selection  string     `json:"selection" validate:"required"`
	Odds       LooseValue `json:"odds"`
	Confidence LooseValue `json:"confidence"`
	RiskLevel  string     `json:"risk_level"`
	Reasoning  string     `json:"reasoning"`

	// DecodeErr is set when this element of the reply could not be decoded.
	// The pick is dropped; its siblings are unaffected.
	DecodeErr error `json:"-"`
}

func (r *RawPick) UnmarshalJSON(b []byte) error {
	var aux struct {
		Sport      string     `json:"sport"`
		League     string     `json:"league"`
		EventID    string     `json:"event_id"`
		GameID     string     `json:"game_id"`
		Subject    string     `json:"subject"`
		Matchup    string     `json:"matchup"`
		Game       string     `json:"game"`
		Player     string     `json:"player"`
		PlayerName string     `json:"player_name"`
		PropType   string     `json:"prop_type"`
		Selection  string     `json:"selection"`
		Pick       string     `json:"pick"`
		Odds       LooseValue `json:"odds"`
		Confidence LooseValue `json:"confidence"`
		RiskLevel  string     `json:"risk_level"`
		Risk       string     `json:"risk"`
		Reasoning  string     `json:"reasoning"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	*r = RawPick{
		Sport:      firstNonEmpty(aux.Sport, aux.League),
		EventID:    firstNonEmpty(aux.EventID, aux.GameID),
		Subject:    firstNonEmpty(aux.Subject, aux.Matchup, aux.Game),
		Selection:  firstNonEmpty(aux.Selection, aux.Pick),
		Odds:       aux.Odds,
		Confidence: aux.Confidence,
		RiskLevel:  firstNonEmpty(aux.RiskLevel, aux.Risk),
		Reasoning:  aux.Reasoning,
	}

	if r.Subject == "" {
		player := firstNonEmpty(aux.Player, aux.PlayerName)
		if player != "" && aux.PropType != "" {
			r.Subject = player + " " + aux.PropType
		} else {
			r.Subject = player
		}
	}

	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
