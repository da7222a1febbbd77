package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"securesphere/internal/catalog"
	"securesphere/internal/model"
	"securesphere/internal/service"
	"securesphere/internal/storage"
	"securesphere/internal/transport/rest/middleware"
)

const maxSubmissionBytes = 32 << 20 // whole multipart submission, evidence included

// AssessmentHandler serves the questionnaire catalog, section submissions,
// and the derived status and score views.
type AssessmentHandler struct {
	responseSvc *service.ResponseService
	scoringSvc  *service.ScoringService
	statusSvc   *service.StatusService
	productSvc  *service.ProductService
	files       storage.FileStore
	cat         *catalog.Catalog
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(
	responseSvc *service.ResponseService,
	scoringSvc *service.ScoringService,
	statusSvc *service.StatusService,
	productSvc *service.ProductService,
	files storage.FileStore,
	cat *catalog.Catalog,
) *AssessmentHandler {
	return &AssessmentHandler{
		responseSvc: responseSvc,
		scoringSvc:  scoringSvc,
		statusSvc:   statusSvc,
		productSvc:  productSvc,
		files:       files,
		cat:         cat,
	}
}

// Sections handles GET /v1/catalog/sections
func (h *AssessmentHandler) Sections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sections":       h.cat.OrderedSections(),
		"totalQuestions": h.cat.TotalQuestions(),
	})
}

// Questions handles GET /v1/catalog/sections/{section}
func (h *AssessmentHandler) Questions(w http.ResponseWriter, r *http.Request) {
	section := mux.Vars(r)["section"]
	questions := h.cat.Questions(section)
	if questions == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown section %q", section))
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// SubmitSection handles POST /v1/products/{productId}/sections/{section}.
// The body is multipart form data: an "answers" field holding the JSON answer
// array, plus optional evidence files keyed "evidence_<questionIndex>".
func (h *AssessmentHandler) SubmitSection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID, section := vars["productId"], vars["section"]

	answers, err := parseSubmission(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.responseSvc.SubmitSection(r.Context(), middleware.GetUserID(r.Context()), productID, section, answers)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SectionResponses handles GET /v1/products/{productId}/sections/{section}
func (h *AssessmentHandler) SectionResponses(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	responses, err := h.responseSvc.SectionResponses(r.Context(), middleware.GetUserID(r.Context()), vars["productId"], vars["section"])
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

// Responses handles GET /v1/products/{productId}/responses
func (h *AssessmentHandler) Responses(w http.ResponseWriter, r *http.Request) {
	owner, err := h.assessmentOwner(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	responses, err := h.responseSvc.AllResponses(r.Context(), mux.Vars(r)["productId"], owner)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

// Status handles GET /v1/products/{productId}/status
func (h *AssessmentHandler) Status(w http.ResponseWriter, r *http.Request) {
	owner, err := h.assessmentOwner(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	status, err := h.statusSvc.Get(r.Context(), mux.Vars(r)["productId"], owner)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// HeatMap handles GET /v1/products/{productId}/heatmap
func (h *AssessmentHandler) HeatMap(w http.ResponseWriter, r *http.Request) {
	owner, err := h.assessmentOwner(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	report, err := h.scoringSvc.HeatMap(r.Context(), mux.Vars(r)["productId"], owner)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Snapshots handles GET /v1/products/{productId}/scores
func (h *AssessmentHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	owner, err := h.assessmentOwner(r)
	if err != nil {
		writeAppError(w, err)
		return
	}

	snapshots, err := h.scoringSvc.Snapshots(r.Context(), mux.Vars(r)["productId"], owner)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// Evidence handles GET /v1/evidence/{ref}
func (h *AssessmentHandler) Evidence(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	file, err := h.files.Open(ref)
	if err != nil {
		writeAppError(w, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Disposition", "attachment; filename="+ref)
	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, file)
}

// assessmentOwner resolves which user's assessment the request refers to:
// clients always read their own; leads and superusers read the product
// owner's.
func (h *AssessmentHandler) assessmentOwner(r *http.Request) (string, error) {
	userID := middleware.GetUserID(r.Context())
	role := callerRole(r)
	if role == model.RoleClient {
		return userID, nil
	}
	product, err := h.productSvc.Get(r.Context(), userID, role, mux.Vars(r)["productId"])
	if err != nil {
		return "", err
	}
	return product.OwnerID, nil
}

// parseSubmission decodes a section submission from either multipart form
// data or a plain JSON array.
func parseSubmission(r *http.Request) ([]model.SectionAnswer, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if !strings.HasPrefix(mediaType, "multipart/") {
		var answers []model.SectionAnswer
		if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
			return nil, fmt.Errorf("invalid request body")
		}
		return answers, nil
	}

	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		return nil, fmt.Errorf("invalid multipart body")
	}

	var answers []model.SectionAnswer
	if err := json.Unmarshal([]byte(r.FormValue("answers")), &answers); err != nil {
		return nil, fmt.Errorf("invalid answers field")
	}

	for i := range answers {
		key := fmt.Sprintf("evidence_%d", answers[i].QuestionIndex)
		file, header, err := r.FormFile(key)
		if err != nil {
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("read evidence file %q", header.Filename)
		}
		answers[i].Evidence = &model.EvidenceBlob{Filename: header.Filename, Data: data}
	}
	return answers, nil
}
