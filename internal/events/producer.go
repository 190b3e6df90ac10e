// Package events publishes executed trades to a Kafka topic so downstream
// consumers (reporting, reconciliation) see every settlement.
package events

import (
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"

	"github.com/quangvu-go/pricehub/internal/model"
)

// TradeProducer publishes trade events fire-and-forget: a failed delivery is
// logged, never surfaced to the settlement path, because the trade row in the
// database is the source of truth.
type TradeProducer struct {
	producer *kafka.Producer
	topic    string
	logger   *logrus.Logger
}

// NewTradeProducer connects to the broker and starts draining delivery
// reports in the background.
func NewTradeProducer(broker, topic string, logger *logrus.Logger) (*TradeProducer, error) {
	config := kafka.ConfigMap{
		"bootstrap.servers": broker,
	}
	producer, err := kafka.NewProducer(&config)
	if err != nil {
		return nil, err
	}

	tp := &TradeProducer{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
	go tp.handleDeliveryReports()

	logger.Infof("Trade event producer connected to %s, topic=%s", broker, topic)
	return tp, nil
}

func (tp *TradeProducer) handleDeliveryReports() {
	for e := range tp.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				tp.logger.Errorf("Trade event delivery failed: %v", ev.TopicPartition.Error)
			}
		case kafka.Error:
			tp.logger.Errorf("Kafka producer error: %v", ev)
		}
	}
}

// PublishTrade emits one executed trade as a JSON message keyed by symbol.
func (tp *TradeProducer) PublishTrade(trade *model.Trade) {
	payload, err := json.Marshal(trade)
	if err != nil {
		tp.logger.Errorf("Failed to marshal trade %d: %v", trade.ID, err)
		return
	}

	err = tp.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &tp.topic, Partition: kafka.PartitionAny},
		Key:            []byte(trade.Symbol),
		Value:          payload,
	}, nil)
	if err != nil {
		tp.logger.Errorf("Failed to enqueue trade event for trade %d: %v", trade.ID, err)
	}
}

// Close flushes pending messages and shuts the producer down.
func (tp *TradeProducer) Close() {
	tp.producer.Flush(5000)
	tp.producer.Close()
}
