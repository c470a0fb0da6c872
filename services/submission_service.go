package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/business-partner/leads-backend/config"
	apperrors "github.com/business-partner/leads-backend/errors"
	"github.com/business-partner/leads-backend/internal/lead"
	"github.com/business-partner/leads-backend/internal/store"
	"github.com/business-partner/leads-backend/logger"
	"github.com/business-partner/leads-backend/types"
)

// LeadNotifier is notified about accepted leads. Best effort.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, sub types.LeadSubmission) error
}

// CacheRevalidator is poked after an accepted lead so the admin dashboard
// and catalog pages reflect the new row.
type CacheRevalidator interface {
	Trigger()
}

type SubmissionMetrics struct {
	accepted       prometheus.Counter
	rejected       prometheus.Counter
	failed         prometheus.Counter
	submitDuration prometheus.Histogram
}

// SubmissionService is the single write path for untrusted lead
// submissions. Input is validated and normalized here, then handed to the
// restricted procedure; nothing else in the process writes lead rows.
type SubmissionService struct {
	cfg         *config.SupabaseConfig
	store       store.SubmissionStore
	notifier    LeadNotifier
	revalidator CacheRevalidator
	metrics     *SubmissionMetrics
}

func NewSubmissionService(cfg *config.SupabaseConfig, leadStore store.SubmissionStore, notifier LeadNotifier, revalidator CacheRevalidator) *SubmissionService {
	return NewSubmissionServiceWithRegistry(cfg, leadStore, notifier, revalidator, prometheus.DefaultRegisterer)
}

func NewSubmissionServiceWithRegistry(cfg *config.SupabaseConfig, leadStore store.SubmissionStore, notifier LeadNotifier, revalidator CacheRevalidator, reg prometheus.Registerer) *SubmissionService {
	metrics := &SubmissionMetrics{
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leads_submissions_accepted_total",
			Help: "Total number of accepted lead submissions",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leads_submissions_rejected_total",
			Help: "Total number of submissions rejected by validation",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leads_submissions_failed_total",
			Help: "Total number of submissions that failed at the store",
		}),
		submitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leads_submission_duration_seconds",
			Help:    "Time taken to process a lead submission",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5},
		}),
	}

	reg.MustRegister(metrics.accepted)
	reg.MustRegister(metrics.rejected)
	reg.MustRegister(metrics.failed)
	reg.MustRegister(metrics.submitDuration)

	return &SubmissionService{
		cfg:         cfg,
		store:       leadStore,
		notifier:    notifier,
		revalidator: revalidator,
		metrics:     metrics,
	}
}

// Submit validates, normalizes and persists one lead. The returned error
// is always an *AppError whose message is safe to show to the submitter.
func (s *SubmissionService) Submit(ctx context.Context, kind types.LeadKind, input types.SubmissionInput) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.submitDuration.Observe(time.Since(startTime).Seconds())
	}()

	form := lead.Form{
		Kind:          kind,
		Name:          input.CustomerName,
		Phone:         input.Phone,
		Email:         input.Email,
		Message:       input.Comment,
		EquipmentID:   input.EquipmentID,
		EquipmentName: input.EquipmentName,
		ConsentGiven:  input.ConsentGiven,
	}

	validated, appErr := lead.Validate(form)
	if appErr != nil {
		s.metrics.rejected.Inc()
		log.Debugw("Submission rejected by validation",
			"kind", kind,
			"reason", appErr.Message)
		return appErr
	}

	// Fail closed: without the data-plane credentials no write is attempted.
	if s.cfg.URL == "" || s.cfg.ServiceKey == "" {
		log.Errorw("Submission refused: data plane is not configured",
			"url_set", s.cfg.URL != "",
			"service_key_set", s.cfg.ServiceKey != "")
		return apperrors.ConfigurationFailed("Ошибка конфигурации сервера. Обратитесь к администратору.")
	}

	sub := lead.Normalize(validated)
	if err := s.store.SubmitLead(ctx, sub); err != nil {
		s.metrics.failed.Inc()
		log.Errorw("Lead submission failed at the store",
			"kind", kind,
			"error", err,
			"contact", logger.MaskContactInfo(sub.ContactInfo))
		dbErr := apperrors.NewDatabaseError(err)
		dbErr.Message = "Произошла ошибка при отправке заявки. Попробуйте позже."
		return dbErr
	}

	s.metrics.accepted.Inc()
	log.Infow("Lead accepted",
		"kind", kind,
		"name", sub.Name,
		"contact", logger.MaskContactInfo(sub.ContactInfo))

	if s.revalidator != nil {
		s.revalidator.Trigger()
	}

	if s.notifier != nil {
		go func(sub types.LeadSubmission) {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.notifier.NotifyNewLead(notifyCtx, sub); err != nil {
				log.Warnw("Lead notification failed", "error", err)
			}
		}(sub)
	}

	return nil
}
