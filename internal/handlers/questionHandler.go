package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi"

	"zetaexams/internal/importer"
	models "zetaexams/internal/models"
	"zetaexams/internal/store"
	"zetaexams/internal/utility"
	http2 "zetaexams/internal/utility/http"
)

const maxUploadSize = 10 << 20

// GetQuestions pages the bank, optionally narrowed to a subject and chapter.
func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	filter := models.QuestionFilter{
		Subject: r.URL.Query().Get("subject"),
		Chapter: r.URL.Query().Get("chapter"),
	}
	page := queryInt(r, "page", store.DefaultPage)
	limit := queryInt(r, "limit", store.DefaultLimit)

	questions, pagination, err := h.Questions.List(r.Context(), filter, page, limit)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{
		"questions":  questions,
		"pagination": pagination,
	})
}

func (h *Handler) GetQuestionSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.Questions.Subjects(r.Context())
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"subjects": subjects})
}

func (h *Handler) GetQuestionChapters(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		http2.RespondError(w, http.StatusBadRequest, "Subject is required", nil)
		return
	}
	chapters, err := h.Questions.Chapters(r.Context(), subject)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"chapters": chapters})
}

// SearchQuestion finds one question by questionId or serialNumber.
func (h *Handler) SearchQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := strings.TrimSpace(r.URL.Query().Get("questionId"))
	serial := strings.TrimSpace(r.URL.Query().Get("serialNumber"))
	if questionID == "" && serial == "" {
		http2.RespondError(w, http.StatusBadRequest, "Question ID or Serial Number required", nil)
		return
	}
	question, err := h.Questions.Find(r.Context(), questionID, serial)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"question": question})
}

type bulkRequest struct {
	CSVData string `json:"csvData" validate:"required"`
}

// bulkText reads the import text from a JSON body or, for multipart requests,
// from the uploaded csvFile.
func bulkText(r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return "", fmt.Errorf("unable to parse form: %w", utility.ErrValidation)
		}
		file, _, err := r.FormFile("csvFile")
		if err != nil {
			return "", fmt.Errorf("failed to retrieve the file: %w", utility.ErrValidation)
		}
		defer file.Close()
		b, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", err
	}
	return req.CSVData, nil
}

// BulkUploadQuestions imports '#' delimited question lines in one batch.
func (h *Handler) BulkUploadQuestions(w http.ResponseWriter, r *http.Request) {
	text, err := bulkText(r)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	summary, err := importer.ImportQuestions(r.Context(), h.Questions, text, h.now())
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondStatus(w, http.StatusOK,
		fmt.Sprintf("%d questions uploaded successfully", summary.Inserted), summary)
}

func (h *Handler) EditQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	var update models.QuestionUpdate
	if err := decodeJSON(r, &update); err != nil {
		http2.RespondWithError(w, err)
		return
	}

	current, err := h.Questions.Get(r.Context(), id)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	edited := *current
	edited.Apply(update)
	if err := validate.Struct(edited); err != nil {
		http2.RespondError(w, http.StatusBadRequest, err.Error(), err)
		return
	}
	if !edited.Populated(edited.CorrectOption) {
		http2.RespondError(w, http.StatusBadRequest, "Correct option must be one of the populated options", nil)
		return
	}

	question, err := h.Questions.Update(r.Context(), id, update)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondStatus(w, http.StatusOK, "Question updated successfully", map[string]interface{}{"question": question})
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	question, err := h.Questions.Delete(r.Context(), id)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	h.deleteUploads(r.Context(), question.QuestionImageURL, question.ExplanationImageURL)
	http2.RespondStatus(w, http.StatusOK, "Question deleted successfully", nil)
}
