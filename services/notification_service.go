package services

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"

	"github.com/business-partner/leads-backend/config"
	"github.com/business-partner/leads-backend/logger"
	"github.com/business-partner/leads-backend/types"
)

type NotificationMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// NotificationService e-mails the operators about every new lead so nothing
// sits unseen in the review dashboard. Sending is best effort: a failed
// notification never fails the submission that triggered it.
type NotificationService struct {
	config  *config.EmailConfig
	client  *resend.Client
	metrics *NotificationMetrics
}

func NewNotificationService(cfg *config.EmailConfig) *NotificationService {
	return NewNotificationServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewNotificationServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *NotificationService {
	logger.GetLogger().Infow("Initializing notification service",
		"enabled", cfg.Enabled, "from", cfg.FromAddress, "to", cfg.ToAddress)

	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &NotificationMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leads_notification_send_duration_seconds",
			Help:    "Time taken to send lead notification emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leads_notification_errors_total",
			Help: "Total number of notification sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leads_notifications_sent_total",
			Help: "Total number of notifications sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &NotificationService{
		config:  cfg,
		client:  client,
		metrics: metrics,
	}
}

// NotifyNewLead sends the operators a summary of a just-accepted lead.
func (s *NotificationService) NotifyNewLead(ctx context.Context, sub types.LeadSubmission) error {
	if !s.config.Enabled || s.config.ToAddress == "" {
		return nil
	}

	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	subject := "Новая заявка с сайта"
	body := fmt.Sprintf("<p><b>Имя:</b> %s</p><p><b>Контакты:</b> %s</p>", sub.Name, sub.ContactInfo)
	if sub.EquipmentName != nil && *sub.EquipmentName != "" {
		subject = fmt.Sprintf("Новый запрос цены: %s", *sub.EquipmentName)
		body += fmt.Sprintf("<p><b>Техника:</b> %s</p>", *sub.EquipmentName)
	}
	if sub.Message != nil && *sub.Message != "" {
		body += fmt.Sprintf("<p><b>Сообщение:</b> %s</p>", *sub.Message)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{s.config.ToAddress},
		Subject: subject,
		Html:    body,
	}

	_, err := s.client.Emails.Send(params)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send lead notification",
			"error", err,
			"contact", logger.MaskContactInfo(sub.ContactInfo))
		return fmt.Errorf("notification send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Lead notification sent", "subject", subject)
	return nil
}
