package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Account lifecycle events
	AccountRegisteredEvent AuditEventType = "ACCOUNT_REGISTERED"
	AccountVerifiedEvent   AuditEventType = "ACCOUNT_VERIFIED"

	// Authentication events
	LoginEvent        AuditEventType = "LOGIN"
	LoginFailureEvent AuditEventType = "LOGIN_FAILED"

	// Credential recovery events
	OTPIssuedEvent        AuditEventType = "OTP_ISSUED"
	ResetRequestedEvent   AuditEventType = "RESET_REQUESTED"
	ResetCompletedEvent   AuditEventType = "RESET_COMPLETED"
	ResetRolledBackEvent  AuditEventType = "RESET_ROLLED_BACK"
	DeliveryFailureEvent  AuditEventType = "DELIVERY_FAILED"
)

// AuditEvent represents a business event that occurred in the system.
// Secret plaintexts and digests never appear in an event.
type AuditEvent struct {
	EventType AuditEventType
	AccountID string
	Email     string
	Timestamp time.Time
	Success   bool
	ErrorMsg  string
	Metadata  map[string]string
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, accountID string) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		AccountID: accountID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]string),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key, value string) *AuditEvent {
	e.Metadata[key] = value
	return e
}

// String renders the event as a single key=value audit line
func (e *AuditEvent) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: success=%t", e.EventType, e.Success)
	if e.AccountID != "" {
		fmt.Fprintf(&b, " account_id=%s", e.AccountID)
	}
	if e.Email != "" {
		fmt.Fprintf(&b, " email=%s", e.Email)
	}
	keys := make([]string, 0, len(e.Metadata))
	for k := range e.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, e.Metadata[k])
	}
	if e.ErrorMsg != "" {
		fmt.Fprintf(&b, " error=%q", e.ErrorMsg)
	}
	fmt.Fprintf(&b, " timestamp=%s", e.Timestamp.Format(time.RFC3339))
	return b.String()
}
