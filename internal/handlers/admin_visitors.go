package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/AnshRaj112/portfolio-backend/internal/models"
	"github.com/AnshRaj112/portfolio-backend/internal/services"
	"github.com/AnshRaj112/portfolio-backend/pkg/utils"
)

const adminRequestTimeout = 10 * time.Second

// AdminHandler serves the token-gated analytics endpoints.
type AdminHandler struct {
	visitors   *services.VisitorStore
	clicks     *services.EventLog[models.ClickEvent]
	archiver   services.Archiver // optional
	adminToken string
	now        func() time.Time
}

func NewAdminHandler(visitors *services.VisitorStore, clicks *services.EventLog[models.ClickEvent], archiver services.Archiver, adminToken string) *AdminHandler {
	return &AdminHandler{
		visitors:   visitors,
		clicks:     clicks,
		archiver:   archiver,
		adminToken: adminToken,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// DeleteVisitorsResponse is returned by POST /api/admin/delete-visitors.
type DeleteVisitorsResponse struct {
	Success    bool   `json:"success"`
	ArchiveURL string `json:"archiveUrl,omitempty"`
}

// DeletionStatusResponse is returned by GET /api/admin/check-deletion.
type DeletionStatusResponse struct {
	IsDeleted bool      `json:"isDeleted"`
	CacheSize int       `json:"cacheSize"`
	Timestamp time.Time `json:"timestamp"`
}

// ClearResponse is returned by POST /api/admin/delete-click-events.
type ClearResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// authorize repeats the AdminGate check for handlers mounted without it.
func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request, route string) bool {
	token := utils.ExtractBearerToken(r.Header.Get("Authorization"))
	if !utils.ValidAdminToken(token, h.adminToken) {
		writeAdminJSON(w, route, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return false
	}
	return true
}

// GetVisitors handles GET /api/admin/visitors?startDate=&endDate=
func (h *AdminHandler) GetVisitors(w http.ResponseWriter, r *http.Request) {
	const route = "visitors"
	if !h.authorize(w, r, route) {
		return
	}

	start, err := parseDateParam("startDate", r.URL.Query().Get("startDate"), false)
	if err != nil {
		writeAdminJSON(w, route, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	end, err := parseDateParam("endDate", r.URL.Query().Get("endDate"), true)
	if err != nil {
		writeAdminJSON(w, route, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminRequestTimeout)
	defer cancel()

	records, err := h.visitors.QueryByDateRange(ctx, start, end)
	if errors.Is(err, services.ErrInvalidDateRange) {
		writeAdminJSON(w, route, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		log.Printf("[GetVisitors] Failed to query visitors: %v", err)
		writeAdminJSON(w, route, http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch visitors: " + err.Error()})
		return
	}
	writeAdminJSON(w, route, http.StatusOK, records)
}

// DeleteVisitors handles POST /api/admin/delete-visitors. With an archiver
// configured the current log is uploaded first; a failed upload aborts the purge.
func (h *AdminHandler) DeleteVisitors(w http.ResponseWriter, r *http.Request) {
	const route = "delete-visitors"
	if !h.authorize(w, r, route) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminRequestTimeout)
	defer cancel()

	var archiveURL string
	if h.archiver != nil {
		url, err := h.archiveVisitors(ctx)
		if err != nil {
			log.Printf("[DeleteVisitors] Archive failed, visitors kept: %v", err)
			writeAdminJSON(w, route, http.StatusInternalServerError, ErrorResponse{Error: "Failed to archive visitors: " + err.Error()})
			return
		}
		archiveURL = url
	}

	if err := h.visitors.DeleteAll(ctx); err != nil {
		log.Printf("[DeleteVisitors] Failed to delete visitors: %v", err)
		writeAdminJSON(w, route, http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete visitors: " + err.Error()})
		return
	}
	log.Printf("[DeleteVisitors] Visitor history purged")
	writeAdminJSON(w, route, http.StatusOK, DeleteVisitorsResponse{Success: true, ArchiveURL: archiveURL})
}

func (h *AdminHandler) archiveVisitors(ctx context.Context) (string, error) {
	records, err := h.visitors.QueryByDateRange(ctx, nil, nil)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", nil
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return h.archiver.Archive(ctx, "visitors-"+h.now().Format("20060102T150405Z"), data)
}

// CheckDeletion handles GET /api/admin/check-deletion.
func (h *AdminHandler) CheckDeletion(w http.ResponseWriter, r *http.Request) {
	const route = "check-deletion"
	if !h.authorize(w, r, route) {
		return
	}
	writeAdminJSON(w, route, http.StatusOK, DeletionStatusResponse{
		IsDeleted: h.visitors.IsDeleted(),
		CacheSize: h.visitors.CacheSize(),
		Timestamp: h.now(),
	})
}

// GetClickEvents handles GET /api/admin/click-events?startDate=&endDate=
func (h *AdminHandler) GetClickEvents(w http.ResponseWriter, r *http.Request) {
	const route = "click-events"
	if !h.authorize(w, r, route) {
		return
	}

	start, err := parseDateParam("startDate", r.URL.Query().Get("startDate"), false)
	if err != nil {
		writeAdminJSON(w, route, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	end, err := parseDateParam("endDate", r.URL.Query().Get("endDate"), true)
	if err != nil {
		writeAdminJSON(w, route, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminRequestTimeout)
	defer cancel()

	events, err := h.clicks.Between(ctx, start, end)
	if errors.Is(err, services.ErrInvalidDateRange) {
		writeAdminJSON(w, route, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		log.Printf("[GetClickEvents] Failed to query click events: %v", err)
		writeAdminJSON(w, route, http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch click events: " + err.Error()})
		return
	}
	writeAdminJSON(w, route, http.StatusOK, events)
}

// DeleteClickEvents handles POST /api/admin/delete-click-events.
func (h *AdminHandler) DeleteClickEvents(w http.ResponseWriter, r *http.Request) {
	const route = "delete-click-events"
	if !h.authorize(w, r, route) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminRequestTimeout)
	defer cancel()

	if err := h.clicks.Clear(ctx); err != nil {
		log.Printf("[DeleteClickEvents] Failed to clear click events: %v", err)
		writeAdminJSON(w, route, http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete click events: " + err.Error()})
		return
	}
	writeAdminJSON(w, route, http.StatusOK, ClearResponse{
		Success:   true,
		Message:   "Click event cache cleared",
		Timestamp: h.now(),
	})
}
