package sink

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"math/rand/v2"

	"github.com/redis/go-redis/v9"

	"alkoteka/feedworker/internal/product"
)

// messageKey is the field name records are published under
const messageKey = "b64_product"

// RedisSink publishes product records to Redis streams. Records are
// JSON-marshaled and base64 encoded, spread across streamCount streams
// under the configured prefix.
type RedisSink struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// Ensure RedisSink implements Sink
var _ Sink = (*RedisSink)(nil)

// NewRedisSink creates a new Redis sink
func NewRedisSink(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisSink {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisSink{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// Emit publishes one record to a stream.
// Records rotate randomly across stream:0 .. stream:{count-1}.
func (s *RedisSink) Emit(record product.ProductRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal product record: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	stream := s.streamPrefix + ":" + strconv.Itoa(rand.IntN(s.streamCount))

	return s.client.XAdd(s.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			messageKey: encoded,
		},
	}).Err()
}

// TrimStreams trims all streams to the configured maximum length
func (s *RedisSink) TrimStreams() error {
	pattern := s.streamPrefix + ":*"
	streams, err := s.client.Keys(s.ctx, pattern).Result()
	if err != nil {
		return err
	}

	for _, stream := range streams {
		if err := s.client.XTrimMaxLen(s.ctx, stream, int64(s.streamMaxLength)).Err(); err != nil {
			return err
		}
	}

	return nil
}

// Close trims the streams and closes the Redis connection
func (s *RedisSink) Close() error {
	if err := s.TrimStreams(); err != nil {
		s.client.Close()
		return err
	}
	return s.client.Close()
}
