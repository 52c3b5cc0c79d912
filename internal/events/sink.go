package events

import (
	"blogapi/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewPublisher picks the sink named by EVENTS_SINK. Redis without a client degrades to Noop.
func NewPublisher(cfg *config.Config, rdb *redis.Client) Publisher {
	switch cfg.EventsSink {
	case "kafka":
		return NewKafkaPublisher(cfg.KafkaBrokerList(), cfg.KafkaTopic)
	case "redis":
		if rdb != nil {
			return NewRedisPublisher(rdb)
		}
	}
	return Noop{}
}
