package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CREATE TABLE public.picks (
//     id          VARCHAR(36) PRIMARY KEY,
//     run_date    CHAR(10) NOT NULL,
//     category    TEXT NOT NULL CHECK (category IN ('team', 'player_prop')),
//     sport       TEXT NOT NULL,
//     subject     TEXT NOT NULL,
//     selection   TEXT NOT NULL,
//     odds        INTEGER NOT NULL,
//     confidence  INTEGER NOT NULL CHECK (confidence BETWEEN 0 AND 100),
//     risk_level  TEXT NOT NULL CHECK (risk_level IN ('Low', 'Medium', 'High')),
//     reasoning   TEXT,
//     metadata    JSONB,
//     created_at  TIMESTAMPTZ DEFAULT NOW(),
//     updated_at  TIMESTAMPTZ DEFAULT NOW(),
//     UNIQUE (run_date, category, subject, selection)
// );

const RunDateLayout = "2006-01-02"

type Category string

const (
	CategoryTeam       Category = "team"
	CategoryPlayerProp Category = "player_prop"
)

var Categories = []Category{CategoryTeam, CategoryPlayerProp}

func (c Category) Valid() bool {
	return c == CategoryTeam || c == CategoryPlayerProp
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

func (r RiskLevel) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// ParseRiskLevel accepts any casing ("low", "LOW", " Low ").
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, true
	case "medium":
		return RiskMedium, true
	case "high":
		return RiskHigh, true
	}
	return "", false
}

type Pick struct {
	ID         string            `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	RunDate    string            `gorm:"column:run_date;type:char(10);not null;uniqueIndex:idx_picks_natural_key,priority:1" json:"run_date"`
	Category   Category          `gorm:"column:category;type:text;not null;uniqueIndex:idx_picks_natural_key,priority:2" json:"category"`
	Sport      string            `gorm:"column:sport;type:text;not null" json:"sport"`
	Subject    string            `gorm:"column:subject;type:text;not null;uniqueIndex:idx_picks_natural_key,priority:3" json:"subject"`
	Selection  string            `gorm:"column:selection;type:text;not null;uniqueIndex:idx_picks_natural_key,priority:4" json:"selection"`
	Odds       int               `gorm:"column:odds;not null" json:"odds"`
	Confidence int               `gorm:"column:confidence;not null" json:"confidence"`
	RiskLevel  RiskLevel         `gorm:"column:risk_level;type:text;not null" json:"risk_level"`
	Reasoning  string            `gorm:"column:reasoning;type:text" json:"reasoning"`
	Metadata   datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (Pick) TableName() string {
	return "picks"
}

// NaturalKey is the store's uniqueness key: (run date, category, subject, selection).
func (p Pick) NaturalKey() string {
	return NaturalKey(p.RunDate, p.Category, p.Subject, p.Selection)
}

func NaturalKey(runDate string, category Category, subject, selection string) string {
	return strings.Join([]string{runDate, string(category), subject, selection}, "|")
}

var pickNamespace = uuid.MustParse("6f1c2b8e-3d4a-5e6f-8a9b-0c1d2e3f4a5b")

// PickID derives a stable id from the natural key so that re-running a
// generation with the same output keeps the same ids.
func PickID(runDate string, category Category, subject, selection string) string {
	return uuid.NewSHA1(pickNamespace, []byte(NaturalKey(runDate, category, subject, selection))).String()
}

func FormatRunDate(t time.Time) string {
	return t.Format(RunDateLayout)
}

func ParseRunDate(s string) (time.Time, error) {
	t, err := time.Parse(RunDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}
