package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
	"github.com/oksasatya/club-subdomain-portal/pkg/mailer"
)

// workerConfig is the subset of settings the worker needs; it does not
// require provider credentials.
type workerConfig struct {
	AppName     string `env:"APP_NAME" envDefault:"club-subdomain-portal"`
	Env         string `env:"APP_ENV" envDefault:"development"`
	RabbitMQURL string `env:"RABBITMQ_URL,required"`
	Queue       string `env:"RABBITMQ_NOTIFY_QUEUE" envDefault:"subdomain-requests"`
	MailDomain  string `env:"MAILGUN_DOMAIN,required"`
	MailAPIKey  string `env:"MAILGUN_API_KEY,required"`
	MailSender  string `env:"MAILGUN_SENDER,required"`
	Prefetch    int    `env:"NOTIFY_PREFETCH" envDefault:"16"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[workerConfig]()
	if err != nil {
		log.Fatalf("notify worker config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-notify", cfg.Env)

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.Queue, cfg.Prefetch)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	sender := mailer.NewMailgun(cfg.MailDomain, cfg.MailAPIKey, cfg.MailSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			handle(ctx, logger, sender, msg)
		}
		close(done)
	}()

	logger.WithField("queue", cfg.Queue).Info("notify worker listening")
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handle acks a delivered job, drops malformed ones and requeues on send failure.
func handle(ctx context.Context, logger logrus.FieldLogger, sender mailer.Sender, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		logger.WithError(err).Warn("bad message")
		_ = msg.Nack(false, false)
		return
	}
	subject, text, html, err := job.Compose()
	if err != nil {
		logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		_ = msg.Nack(false, false)
		return
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := sender.Send(c, job.To, subject, text, html); err != nil {
		requeue := !errors.Is(err, context.Canceled)
		logger.WithError(err).WithField("requeue", requeue).Error("send failed")
		_ = msg.Nack(false, requeue)
		return
	}
	_ = msg.Ack(false)
}
