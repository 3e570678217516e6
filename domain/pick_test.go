package domain

import (
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{
		"team":        CategoryTeam,
		" TEAM ":      CategoryTeam,
		"player_prop": CategoryPlayerProp,
		"Player_Prop": CategoryPlayerProp,
	} {
		got, err := ParseCategory(in)
		if err != nil {
			t.Fatalf("ParseCategory(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseCategory(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseCategory("parlay"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ParseCategory(parlay) error = %v, want ErrInvalidCategory", err)
	}
}

func TestParseRiskLevel(t *testing.T) {
	for in, want := range map[string]RiskLevel{"low": RiskLow, "MEDIUM": RiskMedium, " High ": RiskHigh} {
		got, ok := ParseRiskLevel(in)
		if !ok || got != want {
			t.Errorf("ParseRiskLevel(%q) = %s, %v", in, got, ok)
		}
	}
	for _, in := range []string{"", "moderate", "very high"} {
		if _, ok := ParseRiskLevel(in); ok {
			t.Errorf("ParseRiskLevel(%q) should fail", in)
		}
	}
}

func TestPickIDIsStable(t *testing.T) {
	a := PickID("2025-09-23", CategoryTeam, "Yankees @ Red Sox", "Yankees Moneyline")
	b := PickID("2025-09-23", CategoryTeam, "Yankees @ Red Sox", "Yankees Moneyline")
	if a != b {
		t.Fatalf("PickID not stable: %s != %s", a, b)
	}

	c := PickID("2025-09-24", CategoryTeam, "Yankees @ Red Sox", "Yankees Moneyline")
	if a == c {
		t.Error("different run dates should give different ids")
	}
	d := PickID("2025-09-23", CategoryPlayerProp, "Yankees @ Red Sox", "Yankees Moneyline")
	if a == d {
		t.Error("different categories should give different ids")
	}
}

func TestParseRunDate(t *testing.T) {
	got, err := ParseRunDate("2025-09-23")
	if err != nil {
		t.Fatalf("ParseRunDate error: %v", err)
	}
	if FormatRunDate(got) != "2025-09-23" {
		t.Errorf("round trip = %s", FormatRunDate(got))
	}
	if _, err := ParseRunDate("23/09/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseRunDate bad input error = %v, want ErrInvalidDate", err)
	}
}
