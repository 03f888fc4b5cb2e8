package handler

import (
	"context"
	"os"

	"lecture-qa-be/internal/pkg/logger"
	"lecture-qa-be/internal/service"
	"lecture-qa-be/pkg/rag/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// QAStreamHandler owns the websocket endpoint that streams answers. One
// connection serves one client; asks on the same connection run one at a time.
type QAStreamHandler struct {
	qaService service.IQAService
	logger    logger.ILogger
}

func NewQAStreamHandler(qaService service.IQAService, log logger.ILogger) *QAStreamHandler {
	return &QAStreamHandler{
		qaService: qaService,
		logger:    log,
	}
}

type askFrame struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	Question       string    `json:"question"`
}

// wsEmitter writes stream events as JSON frames. All writes happen from the
// single goroutine running the ask, so no write lock is needed.
type wsEmitter struct {
	conn *websocket.Conn
}

func (e *wsEmitter) Searching() error {
	return e.conn.WriteJSON(fiber.Map{"status": "searching"})
}

func (e *wsEmitter) Chunk(text string) error {
	return e.conn.WriteJSON(fiber.Map{"chunk": text})
}

func (e *wsEmitter) Done(payload stream.FinalPayload) error {
	frame := fiber.Map{"done": true, "answer": payload.Answer}
	if payload.FollowUp != "" {
		frame["follow_up"] = payload.FollowUp
	}
	if payload.Citations != nil {
		frame["citations"] = payload.Citations
	}
	return e.conn.WriteJSON(frame)
}

func (e *wsEmitter) Error(message string) error {
	return e.conn.WriteJSON(fiber.Map{"error": message})
}

// ServeWs authenticates the upgrade and then answers ask frames until the
// client disconnects.
func (h *QAStreamHandler) ServeWs(c *fiber.Ctx) error {
	userID, err := h.authenticate(c)
	if err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	// fiber releases c back to its pool before the hijacked callback runs,
	// so nothing inside the callback may touch it. Everything the session
	// needs (userID) is captured above; the pipeline context is built fresh
	// in the callback and cancelled when the connection closes.
	return websocket.New(func(conn *websocket.Conn) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		h.logger.Info("QAStreamHandler", "Starting QA stream session", map[string]interface{}{"user_id": userID})
		defer h.logger.Info("QAStreamHandler", "QA stream session ended", map[string]interface{}{"user_id": userID})

		h.runAskLoop(ctx, userID, conn, &wsEmitter{conn: conn})
	})(c)
}

// frameReader is the inbound side of the socket, abstracted so the ask loop
// is testable without a live connection.
type frameReader interface {
	ReadJSON(v interface{}) error
}

// runAskLoop answers ask frames one at a time until the reader fails, which
// is how a client disconnect surfaces.
func (h *QAStreamHandler) runAskLoop(ctx context.Context, userID uuid.UUID, reader frameReader, emitter stream.Emitter) {
	for {
		var ask askFrame
		if err := reader.ReadJSON(&ask); err != nil {
			return
		}
		if ask.Question == "" || ask.ConversationId == uuid.Nil {
			_ = emitter.Error("conversation_id and question are required")
			continue
		}

		if err := h.qaService.StreamAnswer(ctx, userID, ask.ConversationId, ask.Question, emitter); err != nil {
			// The streamer already emitted a user-safe error event for
			// pipeline failures. Pre-flight failures get one here.
			switch err {
			case service.ErrConversationNotFound, service.ErrAnswerInProgress:
				_ = emitter.Error(err.Error())
			}
			h.logger.Warn("QAStreamHandler", "Ask failed", map[string]interface{}{
				"user_id": userID, "conversation_id": ask.ConversationId, "error": err.Error(),
			})
		}
	}
}

func (h *QAStreamHandler) authenticate(c *fiber.Ctx) (uuid.UUID, error) {
	// Browsers cannot set headers on websocket upgrades, so the token may
	// come via query parameter as well.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("QAStreamHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Token missing user_id")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID format in token")
	}
	return userID, nil
}

// RegisterRoutes registers the stream endpoint.
func (h *QAStreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/qa/v1/stream", h.ServeWs)
}
