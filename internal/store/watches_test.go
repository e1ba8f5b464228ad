package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/watchdesk/internal/db"
	"github.com/erazemk/watchdesk/internal/model"
)

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newWatch(brand, name string) *model.Watch {
	return &model.Watch{
		Brand:         brand,
		Model:         name,
		PurchasePrice: 900000,
		PurchaseDate:  day(2025, time.January, 10),
	}
}

func TestCreateAndGetWatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	in := newWatch("Rolex", "Submariner")
	in.ReferenceNumber = "124060"
	in.Year = ptr(2021)
	in.Box = true
	in.ServiceFee = ptr(int64(10000))
	in.WatchRegister = true

	w, err := CreateWatch(ctx, database, in, nil)
	if err != nil {
		t.Fatalf("CreateWatch: %v", err)
	}
	if w.Status != model.WatchStatusIncoming {
		t.Errorf("expected status 'incoming', got %q", w.Status)
	}
	if w.Brand != "Rolex" || w.ReferenceNumber != "124060" {
		t.Errorf("unexpected watch %+v", w)
	}
	if w.Year == nil || *w.Year != 2021 {
		t.Errorf("expected year 2021, got %v", w.Year)
	}
	if !w.Box || w.Papers || !w.WatchRegister {
		t.Errorf("booleans not preserved: box=%v papers=%v register=%v", w.Box, w.Papers, w.WatchRegister)
	}
	if w.ServiceFee == nil || *w.ServiceFee != 10000 {
		t.Errorf("expected service fee 10000, got %v", w.ServiceFee)
	}
	if w.SalePrice != nil {
		t.Errorf("expected nil sale price, got %v", *w.SalePrice)
	}
	if w.PurchaseDate == nil || !w.PurchaseDate.Equal(*day(2025, time.January, 10)) {
		t.Errorf("expected purchase date 2025-01-10, got %v", w.PurchaseDate)
	}

	missing, err := GetWatch(ctx, database, 9999)
	if err != nil {
		t.Fatalf("GetWatch: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing watch")
	}
}

func TestListWatchesByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateWatch(ctx, database, newWatch("Omega", "Speedmaster"), nil)
	sold := newWatch("Tudor", "Black Bay")
	sold.Status = model.WatchStatusSold
	sold.SalePrice = ptr(int64(1000000))
	sold.SoldDate = day(2025, time.March, 1)
	CreateWatch(ctx, database, sold, nil)

	all, err := ListWatches(ctx, database, "")
	if err != nil {
		t.Fatalf("ListWatches: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 watches, got %d", len(all))
	}
	if len(all) == 2 && all[0].Brand != "Tudor" {
		t.Errorf("expected newest first, got %q", all[0].Brand)
	}

	soldOnly, _ := ListWatches(ctx, database, model.WatchStatusSold)
	if len(soldOnly) != 1 {
		t.Errorf("expected 1 sold watch, got %d", len(soldOnly))
	}

	none, _ := ListWatches(ctx, database, model.WatchStatusServicing)
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil list, got %v", none)
	}
}

func TestUpdateWatchRecordsHistory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "manager", "hash", model.RoleManager)
	w, _ := CreateWatch(ctx, database, newWatch("Omega", "Seamaster"), &user.ID)

	w.Notes = "scratch on bezel"
	if err := UpdateWatch(ctx, database, w, &user.ID); err != nil {
		t.Fatalf("UpdateWatch: %v", err)
	}

	w.Status = model.WatchStatusServicing
	w.DateSentToService = day(2025, time.February, 1)
	if err := UpdateWatch(ctx, database, w, &user.ID); err != nil {
		t.Fatalf("UpdateWatch: %v", err)
	}

	got, _ := GetWatch(ctx, database, w.ID)
	if got.Notes != "scratch on bezel" || got.Status != model.WatchStatusServicing {
		t.Errorf("update not applied: %+v", got)
	}

	history, err := GetWatchHistory(ctx, database, w.ID)
	if err != nil {
		t.Fatalf("GetWatchHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 events (create + status change), got %d", len(history))
	}
	if history[0].FromStatus != model.WatchStatusIncoming || history[0].ToStatus != model.WatchStatusServicing {
		t.Errorf("unexpected latest event %+v", history[0])
	}
	if history[0].ChangedByName != "manager" {
		t.Errorf("expected changed by 'manager', got %q", history[0].ChangedByName)
	}
	if history[1].FromStatus != "" || history[1].ToStatus != model.WatchStatusIncoming {
		t.Errorf("unexpected first event %+v", history[1])
	}
}

func TestUpdateMissingWatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	w := newWatch("Seiko", "SKX007")
	w.ID = 42
	w.Status = model.WatchStatusInStock
	if err := UpdateWatch(ctx, database, w, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteWatchCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	w, _ := CreateWatch(ctx, database, newWatch("Rolex", "Daytona"), nil)
	other, _ := CreateWatch(ctx, database, newWatch("Rolex", "Explorer"), nil)

	CreateExpense(ctx, database, &model.Expense{Description: "strap", Amount: 5000, Category: model.ExpenseParts, Date: *day(2025, time.January, 12), WatchID: &w.ID})
	CreateExpense(ctx, database, &model.Expense{Description: "polish", Amount: 8000, Category: model.ExpenseService, Date: *day(2025, time.January, 12), WatchID: &other.ID})
	CreateExpense(ctx, database, &model.Expense{Description: "ads", Amount: 2000, Category: model.ExpenseMarketing, Date: *day(2025, time.January, 12)})

	if err := DeleteWatch(ctx, database, w.ID); err != nil {
		t.Fatalf("DeleteWatch: %v", err)
	}

	got, _ := GetWatch(ctx, database, w.ID)
	if got != nil {
		t.Error("expected watch to be gone")
	}

	expenses, _ := ListExpenses(ctx, database)
	if len(expenses) != 2 {
		t.Errorf("expected 2 remaining expenses, got %d", len(expenses))
	}
	for _, e := range expenses {
		if e.WatchID != nil && *e.WatchID == w.ID {
			t.Errorf("expense %d still linked to deleted watch", e.ID)
		}
	}

	history, _ := GetWatchHistory(ctx, database, w.ID)
	if len(history) != 0 {
		t.Errorf("expected no history, got %d events", len(history))
	}

	if err := DeleteWatch(ctx, database, w.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestWatchImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	w, _ := CreateWatch(ctx, database, newWatch("Cartier", "Tank"), nil)

	data, mime, err := GetWatchImage(ctx, database, w.ID)
	if err != nil {
		t.Fatalf("GetWatchImage: %v", err)
	}
	if data != nil || mime != "" {
		t.Errorf("expected no image, got %d bytes %q", len(data), mime)
	}

	if err := SetWatchImage(ctx, database, w.ID, []byte{0xff, 0xd8, 0xff}, "image/jpeg"); err != nil {
		t.Fatalf("SetWatchImage: %v", err)
	}
	data, mime, _ = GetWatchImage(ctx, database, w.ID)
	if len(data) != 3 || mime != "image/jpeg" {
		t.Errorf("expected 3 byte jpeg, got %d bytes %q", len(data), mime)
	}

	got, _ := GetWatch(ctx, database, w.ID)
	if got.ImageMime != "image/jpeg" {
		t.Errorf("expected image mime on watch, got %q", got.ImageMime)
	}

	if err := SetWatchImage(ctx, database, 9999, []byte{1}, "image/png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordsSource(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	records := Records{DB: database}

	CreateWatch(ctx, database, newWatch("IWC", "Portugieser"), nil)
	CreateExpense(ctx, database, &model.Expense{Description: "rent", Amount: 100000, Category: model.ExpenseRentStorage, Date: *day(2025, time.January, 1), Recurring: true})

	watches, err := records.ListWatches(ctx, "")
	if err != nil || len(watches) != 1 {
		t.Errorf("ListWatches = %d, %v", len(watches), err)
	}
	expenses, err := records.ListExpenses(ctx)
	if err != nil || len(expenses) != 1 {
		t.Errorf("ListExpenses = %d, %v", len(expenses), err)
	}
	if len(expenses) == 1 && !expenses[0].Recurring {
		t.Error("expected recurring expense")
	}
}

func TestWatchesPostgres(t *testing.T) {
	database := db.NewPostgresTestDB(t)
	ctx := context.Background()

	w, err := CreateWatch(ctx, database, newWatch("Rolex", "GMT"), nil)
	if err != nil {
		t.Fatalf("CreateWatch: %v", err)
	}
	w.Status = model.WatchStatusSold
	w.SalePrice = ptr(int64(1200000))
	w.SoldDate = day(2025, time.April, 2)
	if err := UpdateWatch(ctx, database, w, nil); err != nil {
		t.Fatalf("UpdateWatch: %v", err)
	}

	got, err := GetWatch(ctx, database, w.ID)
	if err != nil || got == nil {
		t.Fatalf("GetWatch: %v", err)
	}
	if !got.IsSold() {
		t.Errorf("expected sold watch, got %+v", got)
	}

	history, _ := GetWatchHistory(ctx, database, w.ID)
	if len(history) != 2 {
		t.Errorf("expected 2 events, got %d", len(history))
	}

	if err := DeleteWatch(ctx, database, w.ID); err != nil {
		t.Fatalf("DeleteWatch: %v", err)
	}
}
