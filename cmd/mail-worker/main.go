package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"yamdb/internal/config"
	"yamdb/internal/microservices/mailer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	var sender mailer.Sender = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	if cfg.MailBackend == "log" {
		// local runs without a relay
		sender = mailer.NewLogSender(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("mail_worker_starting", slog.String("queue", cfg.MailQueue), slog.String("smtp", cfg.SMTPAddr()))
	consumer := mailer.NewConsumer(cfg.AMQPURL, cfg.MailQueue, sender, logger)
	if err := consumer.Run(ctx); err != nil {
		logger.Error("mail_worker_failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("mail_worker_stopped")
}
