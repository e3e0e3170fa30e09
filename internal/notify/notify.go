package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"feedviewer/internal/domain"
	"feedviewer/internal/metrics"

	kfk "github.com/Fau1con/kafkawrapper"
)

// FeedRefreshed is published every time a feed has been (re)fetched.
type FeedRefreshed struct {
	FeedID    string    `json:"feed_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Entries   int       `json:"entries"`
	FetchedAt time.Time `json:"fetched_at"`
}

type messageSender interface {
	SendMessage(ctx context.Context, topic string, data []byte) error
}

type KafkaNotifier struct {
	producer messageSender
	topic    string
	log      *slog.Logger
}

func NewKafkaNotifier(brokers []string, topic string, log *slog.Logger) (*KafkaNotifier, error) {
	producer, err := kfk.NewProducer(brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	log.Info("Kafka producer created", slog.Any("brokers", brokers), slog.String("topic", topic))
	return newKafkaNotifier(producer, topic, log), nil
}

func newKafkaNotifier(producer messageSender, topic string, log *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		topic:    topic,
		log:      log,
	}
}

// FeedRefreshed failures are logged and counted; they never fail the fetch.
func (n *KafkaNotifier) FeedRefreshed(ctx context.Context, feed *domain.Feed) {
	data, err := json.Marshal(FeedRefreshed{
		FeedID:    feed.ID,
		URL:       feed.URL,
		Title:     feed.Title,
		Entries:   len(feed.Entries),
		FetchedAt: feed.LastFetched,
	})
	if err != nil {
		metrics.NotifyErrorsTotal.Inc()
		n.log.Error("Failed to encode feed refreshed event", slog.Any("error", err))
		return
	}
	if err := n.producer.SendMessage(ctx, n.topic, data); err != nil {
		metrics.NotifyErrorsTotal.Inc()
		n.log.Error("Failed to write message to Kafka",
			slog.String("topic", n.topic),
			slog.String("feed_id", feed.ID),
			slog.Any("error", err),
		)
	}
}

// Nop is used when no brokers are configured.
type Nop struct{}

func (Nop) FeedRefreshed(context.Context, *domain.Feed) {}
