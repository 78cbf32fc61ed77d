package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Subjects for catalog pipeline events
const (
	SubjectImportCompleted = "catalog.import.completed"
	SubjectExportCompleted = "catalog.export.completed"
)

// ImportCompletedEvent is published after an import call finishes.
type ImportCompletedEvent struct {
	EventID         string    `json:"eventId"`
	TenantID        string    `json:"tenantId"`
	Success         bool      `json:"success"`
	TotalRows       int       `json:"totalRows"`
	SuccessCount    int       `json:"successCount"`
	ErrorCount      int       `json:"errorCount"`
	CreatedProducts int       `json:"createdProducts"`
	UpdatedProducts int       `json:"updatedProducts"`
	CreatedVariants int       `json:"createdVariants"`
	ProcessingMs    int64     `json:"processingMs"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// ExportCompletedEvent is published after an export stream finishes.
type ExportCompletedEvent struct {
	EventID    string    `json:"eventId"`
	TenantID   string    `json:"tenantId"`
	Format     string    `json:"format"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher publishes catalog pipeline events to NATS
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS and creates a catalog events publisher
func NewPublisher(logger *logrus.Logger) (*Publisher, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "catalog-events"),
	}, nil
}

// Close drains and closes the NATS connection
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Drain()
	}
}

// PublishImportCompleted publishes a catalog.import.completed event
func (p *Publisher) PublishImportCompleted(ctx context.Context, tenantID string, result *models.ImportResult) error {
	event := &ImportCompletedEvent{
		EventID:         uuid.New().String(),
		TenantID:        tenantID,
		Success:         result.Success,
		TotalRows:       result.TotalRows,
		SuccessCount:    result.SuccessCount,
		ErrorCount:      result.ErrorCount,
		CreatedProducts: result.CreatedProducts,
		UpdatedProducts: result.UpdatedProducts,
		CreatedVariants: result.CreatedVariants,
		ProcessingMs:    result.ProcessingMs,
		OccurredAt:      time.Now().UTC(),
	}
	return p.publish(SubjectImportCompleted, event, logrus.Fields{
		"tenantId":     tenantID,
		"successCount": result.SuccessCount,
		"errorCount":   result.ErrorCount,
	})
}

// PublishExportCompleted publishes a catalog.export.completed event
func (p *Publisher) PublishExportCompleted(ctx context.Context, tenantID string, format models.ImportFormat) error {
	event := &ExportCompletedEvent{
		EventID:    uuid.New().String(),
		TenantID:   tenantID,
		Format:     string(format),
		OccurredAt: time.Now().UTC(),
	}
	return p.publish(SubjectExportCompleted, event, logrus.Fields{
		"tenantId": tenantID,
		"format":   format,
	})
}

// publish marshals and publishes an event asynchronously so the request path
// is never blocked on the broker.
func (p *Publisher) publish(subject string, event interface{}, fields logrus.Fields) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	go func() {
		if err := p.conn.Publish(subject, data); err != nil {
			p.logger.WithFields(fields).WithField("subject", subject).
				WithError(err).Error("Failed to publish event")
			return
		}
		p.logger.WithFields(fields).WithField("subject", subject).
			Info("Event published")
	}()

	return nil
}
