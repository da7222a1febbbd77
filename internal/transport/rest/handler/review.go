package handler

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"securesphere/internal/model"
	"securesphere/internal/service"
	"securesphere/internal/transport/rest/middleware"
)

// ReviewHandler handles lead verdicts and comment threads.
type ReviewHandler struct {
	reviewSvc *service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewSvc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// Review handles POST /v1/responses/{responseId}/review
func (h *ReviewHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Comment string              `json:"comment"`
		Status  model.CommentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	responseID := mux.Vars(r)["responseId"]
	comment, err := h.reviewSvc.ReviewResponse(r.Context(), middleware.GetUserID(r.Context()), responseID, req.Comment, req.Status)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// ClientReply handles POST /v1/comments/{commentId}/reply for clients. Accepts
// multipart form data ("comment" field plus optional "evidence" file) or JSON.
func (h *ReviewHandler) ClientReply(w http.ResponseWriter, r *http.Request) {
	text, evidence, err := parseReply(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	parentID := mux.Vars(r)["commentId"]
	reply, err := h.reviewSvc.ClientReply(r.Context(), middleware.GetUserID(r.Context()), parentID, text, evidence)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reply)
}

// LeadReply handles POST /v1/comments/{commentId}/lead-reply
func (h *ReviewHandler) LeadReply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	parentID := mux.Vars(r)["commentId"]
	reply, err := h.reviewSvc.LeadReply(r.Context(), middleware.GetUserID(r.Context()), parentID, req.Comment)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reply)
}

// Thread handles GET /v1/comments/{commentId}/thread
func (h *ReviewHandler) Thread(w http.ResponseWriter, r *http.Request) {
	rootID := mux.Vars(r)["commentId"]
	thread, err := h.reviewSvc.Thread(r.Context(), middleware.GetUserID(r.Context()), callerRole(r), rootID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, thread)
}

// MarkRead handles POST /v1/comments/{commentId}/read
func (h *ReviewHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	rootID := mux.Vars(r)["commentId"]
	marked, err := h.reviewSvc.MarkThreadRead(r.Context(), middleware.GetUserID(r.Context()), callerRole(r), rootID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"marked": marked})
}

// UnreadCount handles GET /v1/comments/unread
func (h *ReviewHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.reviewSvc.UnreadCount(r.Context(), middleware.GetUserID(r.Context()), callerRole(r))
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

// ClientComments handles GET /v1/comments for clients.
func (h *ReviewHandler) ClientComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.reviewSvc.CommentsForClient(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// ClientReplies handles GET /v1/review/replies for leads.
func (h *ReviewHandler) ClientReplies(w http.ResponseWriter, r *http.Request) {
	comments, err := h.reviewSvc.ClientRepliesForLead(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

func parseReply(r *http.Request) (string, *model.EvidenceBlob, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if !strings.HasPrefix(mediaType, "multipart/") {
		var req struct {
			Comment string `json:"comment"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", nil, errInvalidBody
		}
		return req.Comment, nil, nil
	}

	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		return "", nil, errInvalidBody
	}

	text := r.FormValue("comment")
	file, header, err := r.FormFile("evidence")
	if err != nil {
		return text, nil, nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, errInvalidBody
	}
	return text, &model.EvidenceBlob{Filename: header.Filename, Data: data}, nil
}
