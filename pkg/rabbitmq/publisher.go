package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"autopost/config"
	"autopost/dto"
)

const uploadedRoutingKey = "publishing.uploaded"

// Publisher fans upload events out to the publishing exchange so other
// services can react to newly published assets.
type Publisher struct {
	conn *amqp.Connection
	cfg  *config.RabbitMQ
}

func NewPublisher(conn *amqp.Connection, cfg *config.RabbitMQ) *Publisher {
	return &Publisher{
		conn: conn,
		cfg:  cfg,
	}
}

func (p *Publisher) Publish(ctx context.Context, event dto.UploadEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	exchangeName := p.cfg.ExchangeName
	if exchangeName == "" {
		exchangeName = "publishing_exchange"
	}
	kind := p.cfg.Kind
	if kind == "" {
		kind = "topic"
	}

	if err := ch.ExchangeDeclare(exchangeName, kind, true, false, false, false, nil); err != nil {
		zerolog.Ctx(ctx).Error().Str("exchange", exchangeName).Msg("failed to declare exchange")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, exchangeName, uploadedRoutingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
