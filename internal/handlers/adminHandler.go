package handlers

import (
	"errors"
	"net/http"

	models "zetaexams/internal/models"
	"zetaexams/internal/store"
	"zetaexams/internal/utility"
	http2 "zetaexams/internal/utility/http"
)

type adminView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func viewOf(a *models.Admin) adminView {
	return adminView{ID: a.ID.Hex(), Email: a.Email}
}

// AdminLogin exchanges email and password for a session token.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		http2.RespondWithError(w, err)
		return
	}

	admin, err := h.Admins.FindByEmail(r.Context(), creds.Email)
	if errors.Is(err, utility.ErrNotFound) {
		http2.RespondError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	if !utility.VerifyPassword(admin.Password, creds.Password) {
		http2.RespondError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := h.Tokens.GenerateAdminToken(admin.ID.Hex(), admin.Email)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondStatus(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token": token,
		"admin": viewOf(admin),
	})
}

// CreateAdmin registers a new admin. The first admin needs no token; once one
// exists only an authenticated admin may add another. An email that is already
// taken is rejected.
func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	existing, err := h.Admins.Count(r.Context())
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	if existing > 0 {
		token := bearerToken(r)
		if token == "" {
			http2.RespondError(w, http.StatusUnauthorized, "Setup is complete, an admin token is required", nil)
			return
		}
		if _, err := h.Tokens.ValidateAdminToken(token); err != nil {
			http2.RespondError(w, http.StatusUnauthorized, "Invalid or expired token", err)
			return
		}
	}

	var creds models.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		http2.RespondWithError(w, err)
		return
	}

	hash, err := utility.HashPassword(creds.Password)
	if err != nil {
		http2.RespondWithError(w, err)
		return
	}
	admin := &models.Admin{Email: creds.Email, Password: hash}
	if err := h.Admins.Create(r.Context(), admin); err != nil {
		if errors.Is(err, utility.ErrDuplicate) {
			http2.RespondError(w, http.StatusBadRequest, "Admin already exists", err)
			return
		}
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondStatus(w, http.StatusCreated, "Admin created successfully", map[string]interface{}{
		"admin": viewOf(admin),
	})
}

// VerifyAdminToken checks the bearer token and that its admin still exists.
func (h *Handler) VerifyAdminToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := AdminFromContext(r.Context())
	if !ok {
		http2.RespondError(w, http.StatusUnauthorized, "No token provided", nil)
		return
	}
	id, err := store.ParseID(claims.ID)
	if err != nil {
		http2.RespondError(w, http.StatusUnauthorized, "Invalid token", err)
		return
	}
	admin, err := h.Admins.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, utility.ErrNotFound) {
			http2.RespondError(w, http.StatusUnauthorized, "Admin not found", err)
			return
		}
		http2.RespondWithError(w, err)
		return
	}
	http2.RespondSuccess(w, map[string]interface{}{"admin": viewOf(admin)})
}
