package generator

import (
	"fmt"
	"strings"
	"time"

	"sharpPicks/domain"
)

type Prompt struct {
	System string
	User   string
}

const systemPromptHeader = `You are a professional sports betting analyst producing a daily pick pool.
Research each game with whatever tools you have (odds, stats, injury news) before recommending it.

You must output ONLY a JSON object of the form {"picks": [ ... ]}. Each pick has these fields:
- sport: short league code (MLB, NFL, NBA, NHL, WNBA, CFB, UFC, ...)
- event_id: id of the event from the provided list, or "" if none was provided
- subject: %s
- selection: %s
- odds: American odds as a signed integer (e.g. -110, +145)
- confidence: integer 0 to 100, your honest win probability estimate
- risk_level: one of "Low", "Medium", "High"
- reasoning: 2-3 sentences with the specific edge you found

Risk level guide:
- Low: strong favorite with clear edge, confidence 70+ and odds -110 or shorter
- Medium: confidence 60+ with odds between -150 and +150
- High: underdogs, long odds, or thin edges

CRITICAL RULES:
1. Return AT MOST %d picks. Fewer is better than padding with low-value picks.
2. Aim for roughly %d%% Low, %d%% Medium, %d%% High risk picks.
3. Only use events from the provided list when one is given. Never invent games.
4. Never repeat the same subject and selection twice.
5. Output ONLY the JSON object, no markdown, no explanation`

var categoryFields = map[domain.Category][2]string{
	domain.CategoryTeam: {
		`the matchup as "Away Team @ Home Team"`,
		`the bet, e.g. "Yankees ML", "Chiefs -3.5", "Over 8.5 Runs"`,
	},
	domain.CategoryPlayerProp: {
		`player name and stat type, e.g. "Aaron Judge Hits"`,
		`the prop, e.g. "Aaron Judge Over 1.5 Hits"`,
	},
}

// BuildPrompt renders the tool-layer prompt for one category run.
func BuildPrompt(category domain.Category, runDate string, n int, dist domain.RiskDistribution, events []domain.Event) Prompt {
	fields := categoryFields[category]
	system := fmt.Sprintf(systemPromptHeader, fields[0], fields[1], n, dist.Low, dist.Medium, dist.High)

	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", runDate)
	fmt.Fprintf(&b, "Category: %s\n", categoryLabel(category))

	counts := dist.Counts(n)
	fmt.Fprintf(&b, "Target pool: up to %d picks (about %d Low, %d Medium, %d High).\n",
		n, counts[domain.RiskLow], counts[domain.RiskMedium], counts[domain.RiskHigh])

	if len(events) == 0 {
		b.WriteString("No event list was supplied; use today's scheduled games only.\n")
	} else {
		b.WriteString("\nEligible events:\n")
		for _, ev := range events {
			fmt.Fprintf(&b, "- [%s] %s: %s", ev.ID, ev.Sport, ev.Matchup())
			if !ev.StartsAt.IsZero() {
				fmt.Fprintf(&b, " (%s)", ev.StartsAt.UTC().Format(time.RFC3339))
			}
			if category == domain.CategoryPlayerProp && len(ev.Participants) > 0 {
				fmt.Fprintf(&b, " players: %s", strings.Join(ev.Participants, ", "))
			}
			b.WriteString("\n")
		}
	}

	return Prompt{System: system, User: b.String()}
}

func categoryLabel(c domain.Category) string {
	if c == domain.CategoryPlayerProp {
		return "player props"
	}
	return "team bets (moneyline, spread, totals)"
}
