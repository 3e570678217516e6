package generator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"

	"sharpPicks/domain"
)

// ParseOdds accepts a signed American-odds integer ("-110", "+145", "150").
func ParseOdds(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("is missing")
	}
	digits := s
	if strings.HasPrefix(s, "+") {
		digits = s[1:]
		if strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
			return 0, fmt.Errorf("is not a signed integer: %q", s)
		}
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("is not a signed integer: %q", s)
	}
	if v == 0 {
		return 0, errors.New("cannot be zero")
	}
	return v, nil
}

// ParseConfidence accepts 72, "72", "72%" and integral floats like 72.0.
func ParseConfidence(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, errors.New("is missing")
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("is not an integer: %q", s)
		}
		v = int(f)
	}

	if v < 0 || v > 100 {
		return 0, fmt.Errorf("out of range [0,100]: %d", v)
	}
	return v, nil
}

type normalizer struct {
	validate *validator.Validate
}

func newNormalizer() *normalizer {
	return &normalizer{validate: validator.New()}
}

// normalize turns a raw tool-layer pick into a storable Pick or a
// *domain.ValidationError.
func (n *normalizer) normalize(raw domain.RawPick, runDate string, category domain.Category, ev domain.Event, now time.Time) (domain.Pick, error) {
	raw.Subject = strings.TrimSpace(raw.Subject)
	raw.Selection = strings.TrimSpace(raw.Selection)

	if err := n.validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.Pick{}, &domain.ValidationError{
				Field:   strings.ToLower(verrs[0].Field()),
				Reason:  "is required",
				Subject: raw.Subject,
			}
		}
		return domain.Pick{}, &domain.ValidationError{Field: "pick", Reason: err.Error(), Subject: raw.Subject}
	}

	odds, err := ParseOdds(raw.Odds.String())
	if err != nil {
		return domain.Pick{}, &domain.ValidationError{Field: "odds", Reason: err.Error(), Subject: raw.Subject}
	}

	confidence, err := ParseConfidence(raw.Confidence.String())
	if err != nil {
		return domain.Pick{}, &domain.ValidationError{Field: "confidence", Reason: err.Error(), Subject: raw.Subject}
	}

	risk, ok := domain.ParseRiskLevel(raw.RiskLevel)
	derived := !ok
	if derived {
		risk = domain.FallbackRiskLevel(confidence, odds)
	}

	sport := strings.ToUpper(strings.TrimSpace(raw.Sport))
	if sport == "" {
		sport = strings.ToUpper(ev.Sport)
	}
	if sport == "" {
		return domain.Pick{}, &domain.ValidationError{Field: "sport", Reason: "is required", Subject: raw.Subject}
	}

	meta := datatypes.JSONMap{"risk_derived": derived}
	if eventID := firstEventID(raw.EventID, ev.ID); eventID != "" {
		meta["event_id"] = eventID
	}

	return domain.Pick{
		ID:         domain.PickID(runDate, category, raw.Subject, raw.Selection),
		RunDate:    runDate,
		Category:   category,
		Sport:      sport,
		Subject:    raw.Subject,
		Selection:  raw.Selection,
		Odds:       odds,
		Confidence: confidence,
		RiskLevel:  risk,
		Reasoning:  strings.TrimSpace(raw.Reasoning),
		Metadata:   meta,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func firstEventID(ids ...string) string {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}
