package workflow

import (
	"barangay-backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notifier consumes audit events asynchronously (email/SMS fan-out).
// Delivery is fire-and-forget; the engine never waits on it.
type Notifier interface {
	Notify(models.AuditEvent)
}

// LogNotifier writes would-be notifications to the application log.
type LogNotifier struct {
	Log *logrus.Logger
}

func (n LogNotifier) Notify(ev models.AuditEvent) {
	n.Log.WithFields(logrus.Fields{
		"request_id": ev.RequestID,
		"kind":       ev.Kind,
		"action":     ev.Action,
		"new_status": ev.NewStatus,
	}).Info("notification queued")
}

// Sink is the append-only audit log and the sole feed for activity views.
type Sink struct {
	DB  *gorm.DB
	Log *logrus.Logger

	events chan models.AuditEvent
}

func NewSink(db *gorm.DB, log *logrus.Logger, notifier Notifier) *Sink {
	s := &Sink{DB: db, Log: log}
	if notifier != nil {
		s.events = make(chan models.AuditEvent, 256)
		go func() {
			for ev := range s.events {
				notifier.Notify(ev)
			}
		}()
	}
	return s
}

// Record appends one event. It never fails the caller: a write error is
// logged and only the trail entry is lost, never the primary record.
func (s *Sink) Record(ev models.AuditEvent) {
	if err := s.DB.Create(&ev).Error; err != nil {
		s.Log.WithError(err).WithFields(logrus.Fields{
			"request_id": ev.RequestID,
			"action":     ev.Action,
		}).Error("audit write failed")
		return
	}
	if s.events != nil {
		select {
		case s.events <- ev:
		default:
			s.Log.WithField("request_id", ev.RequestID).Warn("notification queue full, dropping event")
		}
	}
}

// Trail returns the ordered event history for one request, oldest first.
func (s *Sink) Trail(requestID string) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	err := s.DB.Where("request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

// Recent returns the latest decision events for the admin activity feed.
// Creations are excluded; they are resident activity, not admin actions.
func (s *Sink) Recent(limit int) ([]models.AuditEvent, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	var events []models.AuditEvent
	err := s.DB.Where("action <> ?", "created").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
