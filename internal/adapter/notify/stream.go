package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/channor/open-manage/internal/domain/absence"

	"github.com/redis/go-redis/v9"
)

// StreamSink appends events to a Redis stream for downstream consumers.
type StreamSink struct {
	rdb    redis.UniversalClient
	stream string
	maxLen int64
}

// NewStreamSink trims the stream to roughly maxLen entries when maxLen > 0.
func NewStreamSink(rdb redis.UniversalClient, stream string, maxLen int64) *StreamSink {
	return &StreamSink{rdb: rdb, stream: stream, maxLen: maxLen}
}

func (s *StreamSink) Name() string { return "stream" }

func (s *StreamSink) Deliver(ctx context.Context, e absence.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", e.ID, err)
	}
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"event_id":   e.ID,
			"type":       string(e.Type),
			"absence_id": e.Absence.AbsenceID,
			"payload":    string(payload),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
