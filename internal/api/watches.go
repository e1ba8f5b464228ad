package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/watchdesk/internal/model"
	"github.com/erazemk/watchdesk/internal/photo"
	"github.com/erazemk/watchdesk/internal/store"
)

// WatchesHandler handles watch endpoints.
type WatchesHandler struct {
	DB *sqlx.DB
}

type watchRequest struct {
	Brand           string `json:"brand"`
	Model           string `json:"model"`
	ReferenceNumber string `json:"referenceNumber"`
	SerialNumber    string `json:"serialNumber"`
	Year            *int   `json:"year"`
	Condition       string `json:"condition"`
	Box             bool   `json:"box"`
	Papers          bool   `json:"papers"`

	PurchasePrice   int64  `json:"purchasePrice"`
	TargetSellPrice int64  `json:"targetSellPrice"`
	SalePrice       *int64 `json:"salePrice"`
	ImportFee       *int64 `json:"importFee"`
	ServiceFee      *int64 `json:"serviceFee"`
	PolishFee       *int64 `json:"polishFee"`
	PlatformFees    *int64 `json:"platformFees"`
	ShippingFee     *int64 `json:"shippingFee"`
	InsuranceFee    *int64 `json:"insuranceFee"`
	WatchRegister   bool   `json:"watchRegister"`

	PurchaseDate            *isoDate `json:"purchaseDate"`
	DateReceived            *isoDate `json:"dateReceived"`
	DateListed              *isoDate `json:"dateListed"`
	DateSentToService       *isoDate `json:"dateSentToService"`
	DateReturnedFromService *isoDate `json:"dateReturnedFromService"`
	SoldDate                *isoDate `json:"soldDate"`
	DateSold                *isoDate `json:"dateSold"`

	Status    string `json:"status"`
	ClientID  *int64 `json:"clientId"`
	BuyerID   *int64 `json:"buyerId"`
	BuyerName string `json:"buyerName"`
	Notes     string `json:"notes"`
}

// validate checks the request and returns a message suitable for the client.
func (req *watchRequest) validate() error {
	req.Brand = strings.TrimSpace(req.Brand)
	req.Model = strings.TrimSpace(req.Model)
	if req.Brand == "" || req.Model == "" {
		return errors.New("brand and model required")
	}
	if req.Status != "" && !model.ValidWatchStatus(req.Status) {
		return fmt.Errorf("invalid status %q", req.Status)
	}
	if req.PurchasePrice < 0 || req.TargetSellPrice < 0 {
		return errors.New("prices must not be negative")
	}
	for name, v := range map[string]*int64{
		"salePrice":    req.SalePrice,
		"importFee":    req.ImportFee,
		"serviceFee":   req.ServiceFee,
		"polishFee":    req.PolishFee,
		"platformFees": req.PlatformFees,
		"shippingFee":  req.ShippingFee,
		"insuranceFee": req.InsuranceFee,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// apply copies the request onto w, leaving identity, photo and timestamps
// untouched.
func (req *watchRequest) apply(w *model.Watch) {
	w.Brand = req.Brand
	w.Model = req.Model
	w.ReferenceNumber = req.ReferenceNumber
	w.SerialNumber = req.SerialNumber
	w.Year = req.Year
	w.Condition = req.Condition
	w.Box = req.Box
	w.Papers = req.Papers

	w.PurchasePrice = req.PurchasePrice
	w.TargetSellPrice = req.TargetSellPrice
	w.SalePrice = req.SalePrice
	w.ImportFee = req.ImportFee
	w.ServiceFee = req.ServiceFee
	w.PolishFee = req.PolishFee
	w.PlatformFees = req.PlatformFees
	w.ShippingFee = req.ShippingFee
	w.InsuranceFee = req.InsuranceFee
	w.WatchRegister = req.WatchRegister

	w.PurchaseDate = timePtr(req.PurchaseDate)
	w.DateReceived = timePtr(req.DateReceived)
	w.DateListed = timePtr(req.DateListed)
	w.DateSentToService = timePtr(req.DateSentToService)
	w.DateReturnedFromService = timePtr(req.DateReturnedFromService)
	w.SoldDate = timePtr(req.SoldDate)
	w.DateSold = timePtr(req.DateSold)

	w.Status = req.Status
	w.ClientID = req.ClientID
	w.BuyerID = req.BuyerID
	w.BuyerName = strings.TrimSpace(req.BuyerName)
	w.Notes = req.Notes
}

// checkClients verifies that referenced clients exist.
func (h *WatchesHandler) checkClients(r *http.Request, ids ...*int64) (string, error) {
	for _, id := range ids {
		if id == nil {
			continue
		}
		c, err := store.GetClient(r.Context(), h.DB, *id)
		if err != nil {
			return "", err
		}
		if c == nil {
			return fmt.Sprintf("client %d not found", *id), nil
		}
	}
	return "", nil
}

// List handles GET /api/watches?status=.
func (h *WatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidWatchStatus(status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	watches, err := store.ListWatches(r.Context(), h.DB, status)
	if err != nil {
		slog.Error("failed to list watches", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list watches")
		return
	}
	jsonResponse(w, http.StatusOK, watches)
}

// Create handles POST /api/watches.
func (h *WatchesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req watchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.checkClients(r, req.ClientID, req.BuyerID)
	if err != nil {
		slog.Error("failed to check clients", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create watch")
		return
	}
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	var watch model.Watch
	req.apply(&watch)

	created, err := store.CreateWatch(r.Context(), h.DB, &watch, userID(r.Context()))
	if err != nil {
		slog.Error("failed to create watch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create watch")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("watch created", "user", claims.Username, "watch", created.ID, "brand", created.Brand, "model", created.Model)
	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/watches/{id}.
func (h *WatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid watch id")
		return
	}

	watch, err := store.GetWatch(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get watch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get watch")
		return
	}
	if watch == nil {
		jsonError(w, http.StatusNotFound, "watch not found")
		return
	}
	jsonResponse(w, http.StatusOK, watch)
}

// Update handles PUT /api/watches/{id}. The body replaces every editable
// field; omitted optional fields are cleared.
func (h *WatchesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid watch id")
		return
	}

	var req watchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := store.GetWatch(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get watch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update watch")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "watch not found")
		return
	}

	msg, err := h.checkClients(r, req.ClientID, req.BuyerID)
	if err != nil {
		slog.Error("failed to check clients", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update watch")
		return
	}
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	previous := existing.Status
	req.apply(existing)
	if existing.Status == "" {
		existing.Status = previous
	}

	err = store.UpdateWatch(r.Context(), h.DB, existing, userID(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "watch not found")
		return
	}
	if err != nil {
		slog.Error("failed to update watch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update watch")
		return
	}

	updated, err := store.GetWatch(r.Context(), h.DB, id)
	if err != nil || updated == nil {
		slog.Error("failed to reload watch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update watch")
		return
	}

	claims := GetClaims(r.Context())
	attrs := []any{"user", claims.Username, "watch", id}
	if previous != updated.Status {
		attrs = append(attrs, "from", previous, "to", updated.Status)
	}
	slog.Info("watch updated", attrs...)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/watches/{id}. Linked expenses and history are
// removed with the watch.
func (h *WatchesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid watch id")
		return
	}

	err := store.DeleteWatch(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "watch not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete watch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete watch")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("watch deleted", "user", claims.Username, "watch", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "watch deleted"})
}

// UploadImage handles PUT /api/watches/{id}/image.
func (h *WatchesHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid watch id")
		return
	}

	// Leave headroom for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, photo.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(photo.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	result, err := photo.Process(file)
	if errors.Is(err, photo.ErrTooLarge) {
		jsonError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = store.SetWatchImage(r.Context(), h.DB, id, result.Data, result.MIME)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "watch not found")
		return
	}
	if err != nil {
		slog.Error("failed to save image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "image uploaded",
		"width":   result.Width,
		"height":  result.Height,
	})
}

// GetImage handles GET /api/watches/{id}/image.
func (h *WatchesHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid watch id")
		return
	}

	data, mime, err := store.GetWatchImage(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// GetHistory handles GET /api/watches/{id}/history.
func (h *WatchesHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid watch id")
		return
	}

	watch, err := store.GetWatch(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get watch", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get history")
		return
	}
	if watch == nil {
		jsonError(w, http.StatusNotFound, "watch not found")
		return
	}

	history, err := store.GetWatchHistory(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get history", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get history")
		return
	}
	jsonResponse(w, http.StatusOK, history)
}
