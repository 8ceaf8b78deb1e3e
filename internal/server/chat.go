package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aroundme/aroundme/internal/pii"
	"github.com/aroundme/aroundme/internal/store"
)

// chatStreamRequest is the body of POST /api/chat/stream. ClientMeta
// carries the app context (selected result explanation, result set
// summary, active filters) the assistant must ground its answers in.
type chatStreamRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
	ClientMeta     struct {
		ResultExplanation json.RawMessage `json:"resultExplanation"`
		ResultSetSummary  json.RawMessage `json:"resultSetSummary"`
		Filters           json.RawMessage `json:"filters"`
	} `json:"clientMeta"`
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var req chatStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	raw := strings.TrimSpace(req.Message)
	if raw == "" {
		writeError(w, http.StatusBadRequest, "empty message")
		return
	}

	ctx := r.Context()
	conversationID, err := s.ensureConversation(ctx, req.ConversationID)
	if err != nil {
		s.logger.Error("conversation setup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "chat unavailable")
		return
	}

	// Scrub before anything touches disk or the model.
	userText := pii.Scrub(raw)
	userMsgID, err := s.store.AddMessage(ctx, conversationID, store.RoleUser, userText, nil, "")
	if err != nil {
		s.logger.Error("persist user message failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "chat unavailable")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	emit := func(event string, data any) {
		payload, _ := json.Marshal(data)
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
		flusher.Flush()
	}

	emit("start", map[string]string{"conversationId": conversationID, "userMsgId": userMsgID})

	systemPrompt := groundedSystemPrompt(req)
	final, err := s.streamer.StreamChat(ctx, systemPrompt, userText, func(delta string) error {
		emit("delta", map[string]string{"delta": delta})
		return ctx.Err()
	})
	if err != nil {
		emit("error", map[string]string{"message": err.Error()})
		return
	}

	// Persist only after the stream finished cleanly, so an aborted
	// generation never leaves a half answer in history.
	final = strings.TrimSpace(final)
	if final == "" {
		final = "(empty)"
	}
	assistantMsgID, err := s.store.AddMessage(ctx, conversationID, store.RoleAssistant, final, nil, "")
	if err != nil {
		emit("error", map[string]string{"message": "failed to persist reply"})
		return
	}
	emit("done", map[string]string{"assistantMsgId": assistantMsgID})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var beforeMs int64
	if before := r.URL.Query().Get("before"); before != "" {
		parsed, err := strconv.ParseInt(before, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "before must be a millisecond timestamp")
			return
		}
		beforeMs = parsed
	}

	msgs, err := s.store.ListMessages(r.Context(), conversationID, s.historyLimit, beforeMs)
	if err != nil {
		s.logger.Error("history fetch failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	var nextCursor *int64
	if len(msgs) > 0 {
		nextCursor = &msgs[len(msgs)-1].CreatedAt
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"messages":   msgs,
		"nextCursor": nextCursor,
	})
}

// ensureConversation reuses a valid conversation id or starts a fresh
// thread.
func (s *Server) ensureConversation(ctx context.Context, id string) (string, error) {
	if id != "" {
		c, err := s.store.GetConversation(ctx, id)
		if err != nil {
			return "", err
		}
		if c != nil {
			return id, nil
		}
	}
	return s.store.CreateConversation(ctx, "New conversation", "")
}

// groundedSystemPrompt builds a strict system prompt from the client's
// app context so answers stay grounded in what the UI is showing.
func groundedSystemPrompt(req chatStreamRequest) string {
	var ctxLines []string
	if len(req.ClientMeta.ResultExplanation) > 0 {
		ctxLines = append(ctxLines, "SELECTED_RESULT:", string(req.ClientMeta.ResultExplanation))
	}
	if len(req.ClientMeta.ResultSetSummary) > 0 {
		ctxLines = append(ctxLines, "RESULT_SET_SUMMARY:", string(req.ClientMeta.ResultSetSummary))
	}
	if len(req.ClientMeta.Filters) > 0 {
		ctxLines = append(ctxLines, "FILTERS:", string(req.ClientMeta.Filters))
	}

	contextBlock := "NO CONTEXT PROVIDED."
	if len(ctxLines) > 0 {
		contextBlock = strings.Join(ctxLines, "\n")
	}

	return fmt.Sprintf(`You are the AroundMe explainer. Answer ONLY using the provided CONTEXT. If information is missing in CONTEXT, say what is missing instead of guessing. Prefer concise bullet points; include numbers (scores, distances, ratings) when present.

===== CONTEXT START =====
%s
===== CONTEXT END =====

RULES:
- If asked "why is X ranked #1/#2/etc", explain using the 'contributions' and 'raw' fields from SELECTED_RESULT.
- If filters conflict with the result, call that out.
- If user asks for cheaper/closer/better-rated, suggest how score would change based on contributions.
- Never invent data that is not in CONTEXT.`, contextBlock)
}
