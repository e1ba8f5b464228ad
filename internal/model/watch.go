package model

import "time"

// Watch is a single timepiece tracked from intake to sale. Currency fields are
// minor units (cents).
type Watch struct {
	ID              int64  `json:"id" db:"id"`
	Brand           string `json:"brand" db:"brand"`
	Model           string `json:"model" db:"model"`
	ReferenceNumber string `json:"referenceNumber" db:"reference_number"`
	SerialNumber    string `json:"serialNumber,omitempty" db:"serial_number"`
	Year            *int   `json:"year,omitempty" db:"year"`
	Condition       string `json:"condition" db:"condition"`
	Box             bool   `json:"box" db:"box"`
	Papers          bool   `json:"papers" db:"papers"`

	PurchasePrice   int64  `json:"purchasePrice" db:"purchase_price"`
	TargetSellPrice int64  `json:"targetSellPrice" db:"target_sell_price"`
	SalePrice       *int64 `json:"salePrice,omitempty" db:"sale_price"`
	ImportFee       *int64 `json:"importFee,omitempty" db:"import_fee"`
	ServiceFee      *int64 `json:"serviceFee,omitempty" db:"service_fee"`
	PolishFee       *int64 `json:"polishFee,omitempty" db:"polish_fee"`
	PlatformFees    *int64 `json:"platformFees,omitempty" db:"platform_fees"`
	ShippingFee     *int64 `json:"shippingFee,omitempty" db:"shipping_fee"`
	InsuranceFee    *int64 `json:"insuranceFee,omitempty" db:"insurance_fee"`
	WatchRegister   bool   `json:"watchRegister" db:"watch_register"`

	PurchaseDate            *time.Time `json:"purchaseDate,omitempty" db:"purchase_date"`
	DateReceived            *time.Time `json:"dateReceived,omitempty" db:"date_received"`
	DateListed              *time.Time `json:"dateListed,omitempty" db:"date_listed"`
	DateSentToService       *time.Time `json:"dateSentToService,omitempty" db:"date_sent_to_service"`
	DateReturnedFromService *time.Time `json:"dateReturnedFromService,omitempty" db:"date_returned_from_service"`
	SoldDate                *time.Time `json:"soldDate,omitempty" db:"sold_date"`
	DateSold                *time.Time `json:"dateSold,omitempty" db:"date_sold"`

	Status    string `json:"status" db:"status"`
	ClientID  *int64 `json:"clientId,omitempty" db:"client_id"`
	BuyerID   *int64 `json:"buyerId,omitempty" db:"buyer_id"`
	BuyerName string `json:"buyerName,omitempty" db:"buyer_name"`
	Notes     string `json:"notes,omitempty" db:"notes"`
	ImageMime string `json:"imageMime,omitempty" db:"image_mime"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Watch statuses, in lifecycle order. Transitions are not enforced.
const (
	WatchStatusIncoming  = "incoming"
	WatchStatusReceived  = "received"
	WatchStatusServicing = "servicing"
	WatchStatusInStock   = "in_stock"
	WatchStatusSold      = "sold"
)

// WatchRegisterFee is the fixed charge for registering a watch.
const WatchRegisterFee int64 = 600

// ValidWatchStatus reports whether status is a known lifecycle status.
func ValidWatchStatus(status string) bool {
	switch status {
	case WatchStatusIncoming, WatchStatusReceived, WatchStatusServicing, WatchStatusInStock, WatchStatusSold:
		return true
	}
	return false
}

// SaleDate returns the sale date. Older records carry it in DateSold, newer
// ones in SoldDate; SoldDate wins when both are set.
func (w *Watch) SaleDate() *time.Time {
	if w.SoldDate != nil {
		return w.SoldDate
	}
	return w.DateSold
}

// IsSold reports whether the watch counts as a finalized sale.
func (w *Watch) IsSold() bool {
	return w.Status == WatchStatusSold && w.SaleDate() != nil
}

// WatchEvent records a status change of a watch.
type WatchEvent struct {
	ID         int64     `json:"id" db:"id"`
	WatchID    int64     `json:"watchId" db:"watch_id"`
	FromStatus string    `json:"fromStatus" db:"from_status"`
	ToStatus   string    `json:"toStatus" db:"to_status"`
	ChangedAt  time.Time `json:"changedAt" db:"changed_at"`
	ChangedBy  *int64    `json:"changedBy,omitempty" db:"changed_by"`

	// Joined fields (not always populated).
	ChangedByName string `json:"changedByName,omitempty" db:"changed_by_name"`
}

// Int64 returns the value of an optional amount, treating nil as zero.
func Int64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// StatusSummary counts the watches in one lifecycle status.
type StatusSummary struct {
	Status string `json:"status" db:"status"`
	Count  int    `json:"count" db:"count"`
	Value  int64  `json:"value" db:"value"`
}
