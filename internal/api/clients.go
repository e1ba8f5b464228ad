package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/watchdesk/internal/model"
	"github.com/erazemk/watchdesk/internal/store"
)

// ClientsHandler handles client endpoints. Clients are never deleted; their
// watches keep referring to them.
type ClientsHandler struct {
	DB *sqlx.DB
}

type clientRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	SocialHandle string `json:"socialHandle"`
	Country      string `json:"country"`
	Type         string `json:"type"`
	VIP          bool   `json:"vip"`
	Notes        string `json:"notes"`
}

func (req *clientRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return errors.New("name required")
	}
	if req.Type == "" {
		req.Type = model.ClientTypeClient
	}
	if !model.ValidClientType(req.Type) {
		return errors.New("type must be client or dealer")
	}
	return nil
}

func (req *clientRequest) apply(c *model.Client) {
	c.Name = req.Name
	c.Email = strings.TrimSpace(req.Email)
	c.Phone = strings.TrimSpace(req.Phone)
	c.SocialHandle = strings.TrimSpace(req.SocialHandle)
	c.Country = strings.TrimSpace(req.Country)
	c.Type = req.Type
	c.VIP = req.VIP
	c.Notes = req.Notes
}

// List handles GET /api/clients?type=.
func (h *ClientsHandler) List(w http.ResponseWriter, r *http.Request) {
	clientType := r.URL.Query().Get("type")
	if clientType != "" && !model.ValidClientType(clientType) {
		jsonError(w, http.StatusBadRequest, "invalid client type")
		return
	}

	clients, err := store.ListClients(r.Context(), h.DB, clientType)
	if err != nil {
		slog.Error("failed to list clients", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}
	jsonResponse(w, http.StatusOK, clients)
}

// Create handles POST /api/clients.
func (h *ClientsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	var c model.Client
	req.apply(&c)

	created, err := store.CreateClient(r.Context(), h.DB, &c)
	if err != nil {
		slog.Error("failed to create client", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create client")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("client created", "user", claims.Username, "client", created.Name, "type", created.Type)
	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/clients/{id}.
func (h *ClientsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	c, err := store.GetClient(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get client", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get client")
		return
	}
	if c == nil {
		jsonError(w, http.StatusNotFound, "client not found")
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// Update handles PUT /api/clients/{id}.
func (h *ClientsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := model.Client{ID: id}
	req.apply(&c)

	err := store.UpdateClient(r.Context(), h.DB, &c)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "client not found")
		return
	}
	if err != nil {
		slog.Error("failed to update client", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update client")
		return
	}

	updated, err := store.GetClient(r.Context(), h.DB, id)
	if err != nil || updated == nil {
		slog.Error("failed to reload client", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update client")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("client updated", "user", claims.Username, "client", updated.Name)
	jsonResponse(w, http.StatusOK, updated)
}

// GetWatches handles GET /api/clients/{id}/watches.
func (h *ClientsHandler) GetWatches(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	c, err := store.GetClient(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get client", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get client watches")
		return
	}
	if c == nil {
		jsonError(w, http.StatusNotFound, "client not found")
		return
	}

	watches, err := store.ListClientWatches(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to list client watches", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get client watches")
		return
	}
	jsonResponse(w, http.StatusOK, watches)
}
