package service

import (
	"context"
	"fmt"
	"strings"

	"lecture-qa-be/internal/constant"
	"lecture-qa-be/internal/pkg/logger"
	ws "lecture-qa-be/internal/websocket"
	"lecture-qa-be/pkg/events"
	pktNats "lecture-qa-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notice ws.Notice)
	Broadcast(notice ws.Notice)
}

// NotificationService bridges the NATS event bus to connected clients so a
// user's other devices learn about finished answers.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "qa-notif-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects include the stream prefix.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", typeCode), nil)

	if typeCode != constant.EventAnswerGenerated {
		return nil
	}
	if s.delivery == nil {
		return nil
	}

	payload := event.Payload()
	rawUserId, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(rawUserId)
	if err != nil {
		s.logger.Warn("NotificationService", "Event without valid user_id, dropping", map[string]interface{}{"user_id": rawUserId})
		return nil
	}

	s.delivery.Send(userId, ws.Notice{
		Type: "answer_ready",
		Data: payload,
	})
	return nil
}
