package sink

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"jdeprez/immoharvester/internal/harvester"
	"jdeprez/immoharvester/pkg/errors"
)

// RedisSink publishes records to a capped Redis stream for downstream
// consumers. Records are JSON-encoded, then base64-encoded for the stream
// field value. Absent cells serialize as the JSON literal false.
type RedisSink struct {
	client    *redis.Client
	ctx       context.Context
	stream    string
	maxLength int
}

var _ RecordSink = (*RedisSink)(nil)

// NewRedisSink creates a Redis stream sink
func NewRedisSink(ctx context.Context, addr string, db int, stream string, maxLength int) *RedisSink {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisSink{
		client:    client,
		ctx:       ctx,
		stream:    stream,
		maxLength: maxLength,
	}
}

// Append publishes one record to the stream, trimming it approximately to
// the configured maximum length.
func (r *RedisSink) Append(record harvester.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return errors.NewSink("failed to encode record", err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)

	err = r.client.XAdd(r.ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: int64(r.maxLength),
		Approx: true,
		Values: map[string]interface{}{
			"b64_listing": encoded,
		},
	}).Err()
	if err != nil {
		return errors.NewSink("failed to publish record to stream "+r.stream, err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisSink) Close() error {
	if err := r.client.Close(); err != nil {
		return errors.NewSink("failed to close redis connection", err)
	}
	return nil
}
