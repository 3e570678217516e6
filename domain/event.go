package domain

import "time"

// Event is an eligible game supplied by the data-acquisition collaborator for
// one generation run.
type Event struct {
	ID           string    `json:"id"`
	Sport        string    `json:"sport"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	StartsAt     time.Time `json:"starts_at"`
	Participants []string  `json:"participants,omitempty"`
}

// Matchup is the "Away @ Home" label used in prompts.
func (e Event) Matchup() string {
	if e.AwayTeam == "" || e.HomeTeam == "" {
		return e.HomeTeam + e.AwayTeam
	}
	return e.AwayTeam + " @ " + e.HomeTeam
}
