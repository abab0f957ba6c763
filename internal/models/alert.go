package models

import "time"

// AlertKind distinguishes the two dispatch flows.
type AlertKind string

const (
	AlertKindBusiness AlertKind = "business"
	AlertKindLeisure  AlertKind = "leisure"
)

// DeliveryResult records the outcome of one delivery attempt within an alert.
type DeliveryResult struct {
	Contact   Contact `json:"contact"`
	Delivered bool    `json:"delivered"`
	Error     string  `json:"error,omitempty"`
}

// Alert is one dispatch of a message to a group of contacts.
type Alert struct {
	ID        string           `json:"id"`
	Kind      AlertKind        `json:"kind"`
	GroupName string           `json:"group_name,omitempty"`
	Message   string           `json:"message"`
	SentAt    time.Time        `json:"sent_at"`
	Results   []DeliveryResult `json:"results"`
}

// Delivered returns the number of successful deliveries.
func (a *Alert) Delivered() int {
	n := 0
	for _, r := range a.Results {
		if r.Delivered {
			n++
		}
	}
	return n
}

// Failed returns the number of failed deliveries.
func (a *Alert) Failed() int {
	return len(a.Results) - a.Delivered()
}
