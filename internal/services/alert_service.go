package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/onarrival/onarrival/internal/models"
	"github.com/onarrival/onarrival/internal/notify"
	pkglogger "github.com/onarrival/onarrival/pkg/logger"
)

// namePlaceholder in a leisure message is replaced by each contact's name.
const namePlaceholder = "()"

// GroupLoader is the persistence capability consumed by alert dispatch.
type GroupLoader interface {
	GetGroup(name string) (*models.Group, error)
}

// AlertService orchestrates alert dispatch: it resolves recipients, renders
// the message per contact, fans out deliveries, and aggregates the outcomes.
type AlertService struct {
	groups   GroupLoader
	notifier notify.Notifier
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger
}

// NewAlertService creates an alert dispatch service.
func NewAlertService(groups GroupLoader, notifier notify.Notifier, logger *slog.Logger, audit *pkglogger.AuditLogger) *AlertService {
	return &AlertService{
		groups:   groups,
		notifier: notifier,
		logger:   logger,
		audit:    audit,
	}
}

// SendBusinessAlert delivers a message to a single recipient on behalf of a
// named business.
func (s *AlertService) SendBusinessAlert(ctx context.Context, businessName, to, message string) (*models.Alert, error) {
	alert := &models.Alert{
		ID:      uuid.New().String(),
		Kind:    models.AlertKindBusiness,
		Message: message,
		SentAt:  time.Now().UTC(),
	}

	payload := notify.Payload{
		Subject: fmt.Sprintf("Message from %s", businessName),
		Body:    message,
	}

	contact := models.Contact{Phone: to}
	result := models.DeliveryResult{Contact: contact, Delivered: true}
	if err := s.notifier.Deliver(ctx, to, payload); err != nil {
		s.logger.Error("business alert delivery failed",
			slog.String("alert_id", alert.ID),
			slog.String("to", pkglogger.SanitizedPhone(to)),
			slog.Any("error", err))
		result.Delivered = false
		result.Error = err.Error()
	}
	alert.Results = []models.DeliveryResult{result}

	s.audit.LogDispatch(alert.ID, string(alert.Kind), "", alert.Delivered(), alert.Failed())
	return alert, nil
}

// SendLeisureAlert delivers a message to every contact of a group. The
// placeholder "()" in the message is replaced with each contact's name. A
// failed delivery to one contact does not stop the fan-out; the per-contact
// outcome is reported in the alert's results.
func (s *AlertService) SendLeisureAlert(ctx context.Context, groupName, message string) (*models.Alert, error) {
	group, err := s.groups.GetGroup(groupName)
	if err != nil {
		return nil, err
	}

	alert := &models.Alert{
		ID:        uuid.New().String(),
		Kind:      models.AlertKindLeisure,
		GroupName: groupName,
		Message:   message,
		SentAt:    time.Now().UTC(),
		Results:   make([]models.DeliveryResult, 0, len(group.Contacts)),
	}

	for _, contact := range group.Contacts {
		rendered := strings.ReplaceAll(message, namePlaceholder, contact.Name)
		payload := notify.Payload{
			Subject: "OnArrival alert",
			Body:    rendered,
		}

		result := models.DeliveryResult{Contact: contact, Delivered: true}
		if err := s.notifier.Deliver(ctx, contact.Phone, payload); err != nil {
			s.logger.Error("leisure alert delivery failed",
				slog.String("alert_id", alert.ID),
				slog.String("group", groupName),
				slog.String("to", pkglogger.SanitizedPhone(contact.Phone)),
				slog.Any("error", err))
			result.Delivered = false
			result.Error = err.Error()
		}
		alert.Results = append(alert.Results, result)
	}

	s.audit.LogDispatch(alert.ID, string(alert.Kind), groupName, alert.Delivered(), alert.Failed())
	return alert, nil
}
