package services

import "context"

// Domain event names published by the finance core. External consumers
// (notifications, analytics) subscribe out of process.
const (
	EventDocumentCreated      = "document_created"
	EventApproveRequestsAdded = "approve_requests_added"
	EventDocumentApproved     = "document_approved"
	EventPaymentReceived      = "payment_received"
	EventPaymentForwarded     = "payment_forwarded"
)

// EventPublisher emits domain events. Publishing is fire-and-forget; event
// delivery never participates in the database transaction.
type EventPublisher interface {
	Publish(ctx context.Context, distinctID string, event string, properties map[string]any)
	Close()
}
