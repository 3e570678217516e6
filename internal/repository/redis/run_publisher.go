package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"sharpPicks/business/generator"
	"sharpPicks/domain"
)

const GeneratedStream = "picks:generated"

// streamMaxLen keeps the stream bounded; consumers only care about recent runs.
const streamMaxLen = 1000

type RunPublisher struct {
	client *redis.Client
	stream string
}

var _ generator.RunPublisher = (*RunPublisher)(nil)

func NewRunPublisher(client *redis.Client) *RunPublisher {
	return &RunPublisher{client: client, stream: GeneratedStream}
}

type runEvent struct {
	RunID    string          `json:"run_id"`
	Date     string          `json:"date"`
	Category domain.Category `json:"category"`
	Accepted int             `json:"accepted"`
	Low      int             `json:"low"`
	Medium   int             `json:"medium"`
	High     int             `json:"high"`
}

func newRunEvent(run *domain.GenerationRun) runEvent {
	return runEvent{
		RunID:    run.ID,
		Date:     run.RunDate,
		Category: run.Category,
		Accepted: run.Accepted,
		Low:      riskCount(run, domain.RiskLow),
		Medium:   riskCount(run, domain.RiskMedium),
		High:     riskCount(run, domain.RiskHigh),
	}
}

// PublishRun adds one entry per successful run to the picks:generated stream.
func (p *RunPublisher) PublishRun(ctx context.Context, run *domain.GenerationRun) error {
	data, err := json.Marshal(newRunEvent(run))
	if err != nil {
		return fmt.Errorf("error marshaling run event: %w", err)
	}

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"date":     run.RunDate,
			"category": string(run.Category),
			"data":     string(data),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("error publishing to stream %s: %w", p.stream, err)
	}

	return nil
}

func riskCount(run *domain.GenerationRun, level domain.RiskLevel) int {
	switch v := run.RiskCounts[string(level)].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}
