package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/frost-number-service/internal/config"
	"github.com/couchcryptid/frost-number-service/internal/forcing"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces step results to the sink topic.
// It implements runner.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes multiple step results to the sink topic
// in a single WriteMessages call for efficiency.
func (w *Writer) LoadBatch(ctx context.Context, results []forcing.StepResult) error {
	if len(results) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(results))
	for i := range results {
		msg, err := serializeToMessage(results[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a StepResult into a Kafka message keyed by step
// number so one run's steps stay ordered within a partition.
func serializeToMessage(result forcing.StepResult) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize step result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(result.Step, 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "model_time", Value: []byte(strconv.FormatFloat(result.ModelTime, 'g', -1, 64))},
			{Key: "computed_at", Value: []byte(result.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
