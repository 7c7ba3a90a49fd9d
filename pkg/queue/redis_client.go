package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go-gray/pkg/common"
)

const REPORT_TTL = 24 * time.Hour

// RedisClient appends finished run reports to a Redis stream and keeps the
// latest copy of each run under its own key.
type RedisClient struct {
	client *redis.Client
	stream string
}

func NewRedisClient(ctx context.Context, addr, stream string) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newWithClient(client, stream), nil
}

func newWithClient(client *redis.Client, stream string) *RedisClient {
	return &RedisClient{client: client, stream: stream}
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) Stream() string {
	return r.stream
}

// runKey is scoped by stream; with the default stream "gray:runs" a run is
// stored under "gray:runs:run:<id>".
func (r *RedisClient) runKey(runID string) string {
	return fmt.Sprintf("%s:run:%s", r.stream, runID)
}

// Publish stores report in the stream and under its run key.
func (r *RedisClient) Publish(ctx context.Context, report *common.RunReport) error {
	b, err := json.Marshal(report)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: []interface{}{"run_id", report.RunID, "data", b},
	})
	pipe.Set(ctx, r.runKey(report.RunID), b, REPORT_TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish run %s: %w", report.RunID, err)
	}
	return nil
}

// RecentReports returns up to count reports, newest first.
func (r *RedisClient) RecentReports(ctx context.Context, count int64) ([]*common.RunReport, error) {
	msgs, err := r.client.XRevRangeN(ctx, r.stream, "+", "-", count).Result()
	if err != nil {
		return nil, err
	}

	reports := make([]*common.RunReport, 0, len(msgs))
	for _, msg := range msgs {
		report, err := decodeReport(msg.Values["data"])
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", msg.ID, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Report loads one run by id.
func (r *RedisClient) Report(ctx context.Context, runID string) (*common.RunReport, error) {
	data, err := r.client.Get(ctx, r.runKey(runID)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, err
	}
	return decodeReport(data)
}

func decodeReport(v interface{}) (*common.RunReport, error) {
	var report common.RunReport
	if err := json.Unmarshal(bytesFromInterface(v), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func bytesFromInterface(v interface{}) []byte {
	switch t := v.(type) {
	case string:
		return []byte(t)
	case []byte:
		return t
	default:
		b, _ := json.Marshal(t)
		return b
	}
}
