package sink

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"jdeprez/immoharvester/internal/harvester"
)

// This test requires a running Redis instance and is skipped otherwise
func TestRedisSink(t *testing.T) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	defer client.Close()

	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	const stream = "test_listings_stream"
	client.Del(ctx, stream)

	sink := NewRedisSink(ctx, "localhost:6379", 0, stream, 100)
	defer sink.Close()

	assert.NoError(t, sink.Append(sampleRecord("2800")))

	messages, err := client.XRange(ctx, stream, "-", "+").Result()
	assert.NoError(t, err)
	assert.Len(t, messages, 1)

	encoded, ok := messages[0].Values["b64_listing"].(string)
	assert.True(t, ok)

	data, err := base64.StdEncoding.DecodeString(encoded)
	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2800", decoded["locality"])
	assert.Equal(t, "sale", decoded["sale_type"])
	// Absent cells serialize as false, keeping the field set fixed
	assert.Equal(t, false, decoded["swimming_pool"])
	assert.Len(t, decoded, len(harvester.Columns))
}
