package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher публикует события записей в Kafka.
//
// Публикация best-effort: сама запись уже зафиксирована в БД, поэтому
// ошибка брокера логируется, но не откатывает бизнес-операцию.
type Publisher struct {
	writer *kafka.Writer
	log    Logger
}

// NewPublisher создает нового издателя событий
func NewPublisher(brokers []string, topic string, log Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
		log: log,
	}
}

// Publish публикует событие записи
// Ключ сообщения - shop_id: события одного барбершопа попадают в одну
// партицию и сохраняют порядок
func (p *Publisher) Publish(ctx context.Context, event AppointmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: failed to marshal event %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ShopID, 10)),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: failed to publish event %s for appointment id=%d: %w",
			event.Type, event.AppointmentID, err)
	}

	p.log.Info("Published event %s for appointment id=%d", event.Type, event.AppointmentID)
	return nil
}

// Close закрывает соединение с брокером
func (p *Publisher) Close() error {
	return p.writer.Close()
}
