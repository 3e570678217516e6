package generator

import (
	"errors"
	"testing"
	"time"

	"sharpPicks/domain"
)

func TestParseOdds(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"-110", -110, false},
		{"+145", 145, false},
		{"150", 150, false},
		{" -130 ", -130, false},
		{"+50", 50, false},
		{"", 0, true},
		{"even", 0, true},
		{"-110.5", 0, true},
		{"0", 0, true},
		{"+-110", 0, true},
		{"++150", 0, true},
		{"--110", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseOdds(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseOdds(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseOdds(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseConfidence(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"72", 72, false},
		{"72%", 72, false},
		{"72.0", 72, false},
		{"0", 0, false},
		{"100", 100, false},
		{"72.5", 0, true},
		{"101", 0, true},
		{"-1", 0, true},
		{"high", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseConfidence(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseConfidence(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseConfidence(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	n := newNormalizer()
	now := time.Date(2025, 9, 23, 10, 0, 0, 0, time.UTC)

	t.Run("missing selection", func(t *testing.T) {
		_, err := n.normalize(domain.RawPick{Sport: "MLB", Subject: "A @ B", Odds: "-110", Confidence: "70"}, "2025-09-23", domain.CategoryTeam, domain.Event{}, now)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || ve.Field != "selection" {
			t.Fatalf("err = %v, want selection ValidationError", err)
		}
	})

	t.Run("missing sport without event", func(t *testing.T) {
		_, err := n.normalize(domain.RawPick{Subject: "A @ B", Selection: "A ML", Odds: "-110", Confidence: "70"}, "2025-09-23", domain.CategoryTeam, domain.Event{}, now)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || ve.Field != "sport" {
			t.Fatalf("err = %v, want sport ValidationError", err)
		}
	})

	t.Run("explicit risk kept", func(t *testing.T) {
		p, err := n.normalize(domain.RawPick{Sport: "nhl", Subject: " A @ B ", Selection: "B ML", Odds: "+250", Confidence: "80", RiskLevel: "low"}, "2025-09-23", domain.CategoryTeam, domain.Event{ID: "evt-9"}, now)
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		if p.RiskLevel != domain.RiskLow || p.Metadata["risk_derived"] != false {
			t.Fatalf("risk = %s meta = %v", p.RiskLevel, p.Metadata)
		}
		if p.Subject != "A @ B" || p.Sport != "NHL" || p.Metadata["event_id"] != "evt-9" {
			t.Fatalf("pick = %+v", p)
		}
		if p.ID != domain.PickID("2025-09-23", domain.CategoryTeam, "A @ B", "B ML") {
			t.Fatalf("id not derived from natural key")
		}
	})
}
