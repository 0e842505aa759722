package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"waffles-trivia-service/internal/app"
	"waffles-trivia-service/internal/domain"
)

type WSHandler struct {
	service   *app.GameService
	upgrader  websocket.Upgrader
	validator *payloadValidator
	logger    zerolog.Logger
}

func NewWSHandler(service *app.GameService, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		validator: newPayloadValidator(),
		logger:    logger,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID  string   `json:"questionId" validate:"required"`
	OptionID    string   `json:"optionId" validate:"required"`
	TimeTakenMs *float64 `json:"timeTakenMs" validate:"required"`
}

type previewPayload struct {
	QuestionID string  `json:"questionId" validate:"required"`
	ElapsedMs  float64 `json:"elapsedMs" validate:"gte=0"`
}

type previewResult struct {
	QuestionID string `json:"questionId"`
	Score      int    `json:"score"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	displayName := r.URL.Query().Get("name")
	if quizID == "" || userID == "" || displayName == "" {
		http.Error(w, "missing quizId, userId, or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	logger := h.logger.With().Str("quiz_id", quizID).Str("user_id", userID).Logger()

	joined, err := h.service.Join(r.Context(), quizID, userID, displayName)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}

	updates, cancel, err := h.service.Subscribe(r.Context(), quizID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	defer cancel()
	defer h.service.Leave(r.Context(), quizID, userID)

	logger.Info().Str("name", displayName).Msg("player joined")

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer: gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				logger.Warn().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "leaderboard", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joined}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		for _, msg := range h.handle(r, quizID, userID, inbound) {
			send <- msg
		}
	}

	logger.Info().Msg("player left")
	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) handle(r *http.Request, quizID, userID string, inbound inboundMessage) []outboundMessage[any] {
	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := h.decode(inbound.Payload, &payload); err != nil {
			return []outboundMessage[any]{errorMessage(err)}
		}
		lb, result, err := h.service.SubmitAnswer(r.Context(), quizID, userID, domain.AnswerSubmission{
			QuestionID:  payload.QuestionID,
			OptionID:    payload.OptionID,
			TimeTakenMs: *payload.TimeTakenMs,
		})
		if err != nil {
			return []outboundMessage[any]{errorMessage(err)}
		}
		return []outboundMessage[any]{
			{Type: "answerResult", Payload: result},
			{Type: "leaderboard", Payload: lb},
		}
	case "preview":
		var payload previewPayload
		if err := h.decode(inbound.Payload, &payload); err != nil {
			return []outboundMessage[any]{errorMessage(err)}
		}
		score, err := h.service.PreviewScore(r.Context(), quizID, userID, payload.QuestionID, payload.ElapsedMs)
		if err != nil {
			return []outboundMessage[any]{errorMessage(err)}
		}
		return []outboundMessage[any]{{Type: "preview", Payload: previewResult{QuestionID: payload.QuestionID, Score: score}}}
	default:
		return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}}
	}
}

func (h *WSHandler) decode(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: malformed payload", domain.ErrInvalidSubmission)
	}
	return h.validator.Check(dst)
}
