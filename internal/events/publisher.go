package events

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/observability"
)

// Publisher propaga eventos de domínio para consumidores externos via
// RabbitMQ. Quando o AMQP está desabilitado ou indisponível, um publisher
// noop assume e a aplicação segue funcionando.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{})
	Close() error
}

// NewPublisher conecta no RabbitMQ ou devolve o noop com o motivo logado.
func NewPublisher(amqpURL, exchange string, log *logrus.Logger) Publisher {
	if amqpURL == "" {
		log.Info("events: amqp desabilitado, usando noop")
		return noopPublisher{log: log}
	}
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.WithError(err).Warn("events: amqp indisponível, usando noop")
		return noopPublisher{log: log}
	}
	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Warn("events: amqp indisponível, usando noop")
		_ = conn.Close()
		return noopPublisher{log: log}
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		log.WithError(err).Warn("events: amqp indisponível, usando noop")
		_ = ch.Close()
		_ = conn.Close()
		return noopPublisher{log: log}
	}
	log.WithField("exchange", exchange).Info("events: amqp conectado")
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange, log: log}
}

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	log      *logrus.Logger
}

// Publish serializa e publica; falhas são registradas, nunca propagadas
// para o fluxo da requisição.
func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.log.WithError(err).WithField("routing_key", routingKey).Error("events: falha ao serializar")
		return
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		observability.AMQPPublishError()
		p.log.WithError(err).WithField("routing_key", routingKey).Error("events: falha ao publicar")
	}
}

func (p *amqpPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct {
	log *logrus.Logger
}

func (n noopPublisher) Publish(_ context.Context, routingKey string, _ interface{}) {
	n.log.WithField("routing_key", routingKey).Debug("events: noop publish")
}

func (n noopPublisher) Close() error {
	return nil
}
