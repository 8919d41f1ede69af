package handlers

import (
	"context"
	"log"
	"net/http"

	"zetaexams/internal/utility"
	http2 "zetaexams/internal/utility/http"
)

// UploadFile stores the multipart "file" under the folder for "kind" and
// returns its public URL, ready for pdfUrl or an image field.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if h.Files == nil {
		http2.RespondError(w, http.StatusServiceUnavailable, "File uploads are not configured", nil)
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http2.RespondError(w, http.StatusBadRequest, "Unable to parse form", err)
		return
	}
	_, fileHeader, err := r.FormFile("file")
	if err != nil {
		http2.RespondError(w, http.StatusBadRequest, "Failed to retrieve the file", err)
		return
	}

	url, err := utility.SaveUpload(r.Context(), h.Files, fileHeader, r.FormValue("kind"))
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondStatus(w, http.StatusCreated, "File uploaded successfully", map[string]interface{}{"url": url})
}

// deleteUploads removes files a deleted document pointed at. The document is
// already gone, so a failure is only logged.
func (h *Handler) deleteUploads(ctx context.Context, urls ...string) {
	if h.Files == nil {
		return
	}
	if err := utility.DeleteUploads(ctx, h.Files, urls...); err != nil {
		log.Printf("Failed to delete uploaded files: %v", err)
	}
}
