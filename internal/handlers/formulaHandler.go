package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi"

	models "zetaexams/internal/models"
	"zetaexams/internal/store"
	http2 "zetaexams/internal/utility/http"
)

// GetFormula returns the sheet for ?subject=&chapter=.
func (h *Handler) GetFormula(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	chapter := r.URL.Query().Get("chapter")
	if subject == "" || chapter == "" {
		http2.RespondError(w, http.StatusBadRequest, "Subject and chapter are required", nil)
		return
	}
	formula, err := h.Formulas.Get(r.Context(), subject, chapter)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"formula": formula})
}

func (h *Handler) GetAllFormulas(w http.ResponseWriter, r *http.Request) {
	formulas, err := h.Formulas.All(r.Context())
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"formulas": formulas})
}

func (h *Handler) GetFormulaSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.Formulas.Subjects(r.Context())
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"subjects": subjects})
}

func (h *Handler) GetFormulaChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.Formulas.Chapters(r.Context(), r.URL.Query().Get("subject"))
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"chapters": chapters})
}

// CreateFormula adds a sheet. A second sheet for the same subject and chapter is rejected.
func (h *Handler) CreateFormula(w http.ResponseWriter, r *http.Request) {
	var formula models.Formula
	if err := decodeJSON(r, &formula); err != nil {
		http2.RespondWithError(w, err)
		return
	}
	formula.Chapter = strings.TrimSpace(formula.Chapter)
	if err := h.Formulas.Create(r.Context(), &formula); err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondStatus(w, http.StatusCreated, "Formula added successfully", map[string]interface{}{"formula": formula})
}

func (h *Handler) EditFormula(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	var update models.FormulaUpdate
	if err := decodeJSON(r, &update); err != nil {
		http2.RespondWithError(w, err)
		return
	}
	formula, err := h.Formulas.Update(r.Context(), id, update)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondStatus(w, http.StatusOK, "Formula updated successfully", map[string]interface{}{"formula": formula})
}

func (h *Handler) DeleteFormula(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	formula, err := h.Formulas.Delete(r.Context(), id)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	h.deleteUploads(r.Context(), formula.PdfURL)
	http2.RespondStatus(w, http.StatusOK, "Formula deleted successfully", nil)
}
