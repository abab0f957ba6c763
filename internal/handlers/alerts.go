package handlers

import (
	"errors"
	"net/http"

	"github.com/onarrival/onarrival/internal/models"
	"github.com/onarrival/onarrival/internal/services"
	"github.com/onarrival/onarrival/internal/validation"
	pkghttp "github.com/onarrival/onarrival/pkg/http"
)

// AlertHandler dispatches arrival notifications.
type AlertHandler struct {
	alerts *services.AlertService
}

func NewAlertHandler(alerts *services.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

type sendBusinessRequest struct {
	BusinessName string `json:"business_name" validate:"required,min=1,max=100"`
	Phone        string `json:"phone" validate:"required,min=7,max=20"`
	Message      string `json:"message" validate:"required,min=1,max=1600"`
}

type sendLeisureRequest struct {
	GroupName string `json:"group_name" validate:"required,min=1,max=50"`
	Message   string `json:"message" validate:"required,min=1,max=1600"`
}

type alertResponse struct {
	Success   bool                   `json:"success"`
	AlertID   string                 `json:"alert_id"`
	Delivered int                    `json:"delivered"`
	Failed    int                    `json:"failed"`
	Results   []models.DeliveryResult `json:"results,omitempty"`
}

// SendBusiness handles POST /api/send_business: a single notification to one
// recipient on behalf of a business.
func (h *AlertHandler) SendBusiness(w http.ResponseWriter, r *http.Request) {
	var req sendBusinessRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	businessName, err := validation.BusinessName(req.BusinessName)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	phone, err := validation.Phone(req.Phone)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	message, err := validation.Message(req.Message)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	alert, err := h.alerts.SendBusinessAlert(r.Context(), businessName, phone, message)
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to send notification")
		return
	}
	writeAlert(w, alert)
}

// SendLeisure handles POST /api/send_leisure: fan-out to every contact in a
// group, with "()" in the message replaced by each contact's name.
func (h *AlertHandler) SendLeisure(w http.ResponseWriter, r *http.Request) {
	var req sendLeisureRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	groupName, err := validation.GroupName(req.GroupName)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	message, err := validation.Message(req.Message)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	alert, err := h.alerts.SendLeisureAlert(r.Context(), groupName, message)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "group not found")
			return
		}
		pkghttp.WriteInternalError(w, "failed to send notifications")
		return
	}
	writeAlert(w, alert)
}

func writeAlert(w http.ResponseWriter, alert *models.Alert) {
	pkghttp.WriteJSON(w, http.StatusOK, alertResponse{
		Success:   alert.Failed() == 0,
		AlertID:   alert.ID,
		Delivered: alert.Delivered(),
		Failed:    alert.Failed(),
		Results:   alert.Results,
	})
}
