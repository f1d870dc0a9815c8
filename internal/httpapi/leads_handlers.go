package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"leadminer-engine/internal/domain"
	"leadminer-engine/internal/events"
	"leadminer-engine/internal/store"
)

type LeadsHandler struct {
	DB  *sql.DB
	Hub *events.Hub
}

func listOptsFromQuery(r *http.Request) store.ListLeadsOpts {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	return store.ListLeadsOpts{
		Status:          q.Get("status"),
		SignalType:      q.Get("signal_type"),
		SignalStrength:  q.Get("signal_strength"),
		DiscoverySource: q.Get("discovery_source"),
		Location:        q.Get("location"),
		Industry:        q.Get("industry"),
		Search:          q.Get("search"),
		Sort:            q.Get("sort"),
		Limit:           limit,
	}
}

func (h LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := store.ListLeads(r.Context(), h.DB, listOptsFromQuery(r))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	writeJSON(w, leads)
}

// Create inserts a manually-entered lead. The source_url uniqueness rule
// applies to manual entries too: a colliding URL is a conflict, not a
// silent skip.
func (h LeadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var lead domain.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), 400)
		return
	}
	if strings.TrimSpace(lead.SourceURL) == "" {
		http.Error(w, "source_url is required", 400)
		return
	}
	if lead.Status != "" && !domain.ValidStatus(lead.Status) {
		http.Error(w, "invalid status", 400)
		return
	}
	if lead.SignalStrength != "" && !domain.ValidStrength(lead.SignalStrength) {
		http.Error(w, "invalid signal_strength", 400)
		return
	}

	added, err := store.InsertLeadIfNew(r.Context(), h.DB, lead)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if !added {
		WriteError(w, r, http.StatusConflict, "duplicate_source_url", "a lead with this source_url already exists")
		return
	}

	saved, err := store.GetLeadBySourceURL(r.Context(), h.DB, lead.SourceURL)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeLeadNew, 1, saved))
	WriteJSON(w, http.StatusCreated, saved)
}

func (h LeadsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(r.Context(), h.DB)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, stats)
}

func (h LeadsHandler) Filters(w http.ResponseWriter, r *http.Request) {
	fv, err := store.GetFilterValues(r.Context(), h.DB)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, fv)
}

func (h LeadsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		`attachment; filename="leads_`+time.Now().UTC().Format("2006-01-02")+`.csv"`)
	if err := store.ExportCSV(r.Context(), h.DB, w, listOptsFromQuery(r)); err != nil {
		http.Error(w, err.Error(), 500)
	}
}

// leadPathID parses /leads/{id} and /leads/{id}/status, reporting whether the
// trailing /status segment was present.
func leadPathID(path string) (id int64, statusOp bool, err error) {
	rest := strings.TrimPrefix(path, "/leads/")
	if s, ok := strings.CutSuffix(rest, "/status"); ok {
		rest = s
		statusOp = true
	}
	id, err = strconv.ParseInt(rest, 10, 64)
	if err == nil && id <= 0 {
		err = errors.New("invalid id")
	}
	return id, statusOp, err
}

// ByPath dispatches /leads/{id} GET/PUT/DELETE and /leads/{id}/status PUT.
func (h LeadsHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	id, statusOp, err := leadPathID(r.URL.Path)
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	if statusOp {
		if r.Method != http.MethodPut && r.Method != http.MethodPatch {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.updateStatus(w, r, id)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h LeadsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	lead, err := store.GetLead(r.Context(), h.DB, id)
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, r, http.StatusNotFound, "not_found", "lead not found")
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, lead)
}

func (h LeadsHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var lead domain.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), 400)
		return
	}
	lead.ID = id
	if lead.Status != "" && !domain.ValidStatus(lead.Status) {
		http.Error(w, "invalid status", 400)
		return
	}
	if lead.SignalStrength != "" && !domain.ValidStrength(lead.SignalStrength) {
		http.Error(w, "invalid signal_strength", 400)
		return
	}

	err := store.UpdateLead(r.Context(), h.DB, lead)
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, r, http.StatusNotFound, "not_found", "lead not found")
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	saved, err := store.GetLead(r.Context(), h.DB, id)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, saved)
}

func (h LeadsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := store.DeleteLead(r.Context(), h.DB, id); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, "lead.deleted", 1, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h LeadsHandler) updateStatus(w http.ResponseWriter, r *http.Request, id int64) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", 400)
		return
	}

	err := store.UpdateStatus(r.Context(), h.DB, id, req.Status)
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, r, http.StatusNotFound, "not_found", "lead not found")
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeLeadStatus, 1, map[string]any{
		"id":     id,
		"status": req.Status,
	}))
	writeJSON(w, map[string]any{"ok": true, "id": id, "status": req.Status})
}
