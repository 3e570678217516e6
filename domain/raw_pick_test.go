package domain

import (
	"encoding/json"
	"testing"
)

func TestRawPickUnmarshalAliases(t *testing.T) {
	payload := `[
		{"sport":"MLB","matchup":"Yankees @ Red Sox","pick":"Yankees ML","odds":-130,"confidence":"75%","risk":"low"},
		{"league":"NBA","player_name":"Jayson Tatum","prop_type":"Points","selection":"Over 26.5 Points","odds":"+105","confidence":61},
		{"sport":"NFL","subject":"Chiefs @ Bills","selection":"Chiefs +3.5","odds":null}
	]`

	var picks []RawPick
	if err := json.Unmarshal([]byte(payload), &picks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(picks) != 3 {
		t.Fatalf("got %d picks", len(picks))
	}

	if picks[0].Subject != "Yankees @ Red Sox" || picks[0].Selection != "Yankees ML" {
		t.Errorf("team aliases not folded: %+v", picks[0])
	}
	if picks[0].Odds != "-130" || picks[0].Confidence != "75%" || picks[0].RiskLevel != "low" {
		t.Errorf("scalars not kept as text: %+v", picks[0])
	}

	if picks[1].Sport != "NBA" || picks[1].Subject != "Jayson Tatum Points" {
		t.Errorf("prop aliases not folded: %+v", picks[1])
	}
	if picks[1].Odds != "+105" || picks[1].Confidence != "61" {
		t.Errorf("prop scalars: %+v", picks[1])
	}

	if picks[2].Odds != "" {
		t.Errorf("null odds should be empty, got %q", picks[2].Odds)
	}
}
