package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/taskbooking/taskbooking-api/internal/service"
)

// ChatHandler handles per-task chat API requests.
type ChatHandler struct {
	chatService service.ChatService
	validator   *validator.Validate
}

// NewChatHandler creates a new ChatHandler with the given dependencies.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validator:   validator.New(),
	}
}

// List handles GET /chat/{taskId}.
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "taskId")
	if !ok {
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), userID, taskID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, messages)
}

// Send handles POST /chat/{taskId}.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "taskId")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	msg, err := h.chatService.Send(r.Context(), userID, taskID, req.Content, req.Attachment)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, msg)
}

// MarkRead handles POST /chat/{taskId}/read.
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "taskId")
	if !ok {
		return
	}

	if err := h.chatService.MarkRead(r.Context(), userID, taskID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
