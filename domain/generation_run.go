package domain

import (
	"time"

	"gorm.io/datatypes"
)

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

type GenerationRun struct {
	ID             string            `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	RunDate        string            `gorm:"column:run_date;type:char(10);not null;index" json:"run_date"`
	Category       Category          `gorm:"column:category;type:text;not null" json:"category"`
	Status         RunStatus         `gorm:"column:status;type:text;not null" json:"status"`
	TargetPoolSize int               `gorm:"column:target_pool_size" json:"target_pool_size"`
	Received       int               `gorm:"column:received" json:"received"`
	Accepted       int               `gorm:"column:accepted" json:"accepted"`
	Dropped        int               `gorm:"column:dropped" json:"dropped"`
	Attempts       int               `gorm:"column:attempts" json:"attempts"`
	RiskCounts     datatypes.JSONMap `gorm:"column:risk_counts" json:"risk_counts"`
	Error          string            `gorm:"column:error;type:text" json:"error,omitempty"`
	StartedAt      time.Time         `gorm:"column:started_at" json:"started_at"`
	FinishedAt     *time.Time        `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (GenerationRun) TableName() string {
	return "generation_runs"
}
