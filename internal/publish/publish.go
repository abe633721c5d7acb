// FilePath: internal/publish/publish.go
package publish

import (
	"context"
	"errors"
	"time"

	"github.com/itsatony/headcount/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const MessageTypeObservations = "observations"

// Publisher forwards committed observations to an outside consumer.
type Publisher interface {
	Publish(ctx context.Context, observations []*models.CountObservation) error
	Close() error
}

// Message is the JSON envelope every publisher sends.
type Message struct {
	Type         string                     `json:"type"`
	PublishedAt  time.Time                  `json:"published_at"`
	Observations []*models.CountObservation `json:"observations"`
}

func NewMessage(observations []*models.CountObservation) Message {
	return Message{
		Type:         MessageTypeObservations,
		PublishedAt:  time.Now().UTC(),
		Observations: observations,
	}
}

// Multi publishes to every configured publisher and joins their errors.
type Multi struct {
	publishers []Publisher
}

func NewMulti(publishers ...Publisher) *Multi {
	m := &Multi{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

func (m *Multi) Len() int {
	return len(m.publishers)
}

func (m *Multi) Publish(ctx context.Context, observations []*models.CountObservation) error {
	if len(observations) == 0 {
		return nil
	}
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, observations); err != nil {
			nuts.L.Errorf("[Publish] %T failed: %v", p, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
