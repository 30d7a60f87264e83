package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/erazemk/itemdesk/internal/db"
	"github.com/erazemk/itemdesk/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, model.Draft{Title: "Laptop", Text: "Dell XPS 15", Status: model.StatusActive})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.ID == 0 {
		t.Error("expected assigned id")
	}
	if item.Title != "Laptop" || item.Text != "Dell XPS 15" {
		t.Errorf("unexpected item %+v", item)
	}
	if item.Status != model.StatusActive {
		t.Errorf("expected status 1, got %d", item.Status)
	}

	missing, err := GetItem(ctx, database, item.ID+100)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing item, got %+v", missing)
	}
}

func TestListSummariesOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, model.Draft{Title: "B", Text: "x"})
	CreateItem(ctx, database, model.Draft{Title: "A", Text: "y"})

	got, err := ListSummaries(ctx, database)
	if err != nil {
		t.Fatalf("ListSummaries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	if got[0].Title != "B" || got[1].Title != "A" {
		t.Errorf("expected insertion order, got %+v", got)
	}
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, model.Draft{Title: "Old", Text: "x"})
	other, _ := CreateItem(ctx, database, model.Draft{Title: "Other", Text: "z"})

	if err := UpdateItem(ctx, database, item.ID, model.Draft{Title: "New", Text: "y", Status: model.StatusDone}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Title != "New" || got.Text != "y" || got.Status != model.StatusDone {
		t.Errorf("unexpected updated item %+v", got)
	}

	untouched, _ := GetItem(ctx, database, other.ID)
	if *untouched != *other {
		t.Errorf("unrelated item changed: %+v", untouched)
	}

	err := UpdateItem(ctx, database, 999, model.Draft{Title: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSoftDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, model.Draft{Title: "Delete Me", Text: "x"})
	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	items, _ := ListSummaries(ctx, database)
	if len(items) != 0 {
		t.Errorf("expected 0 items after soft delete, got %d", len(items))
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected soft-deleted item to be hidden")
	}

	if err := DeleteItem(ctx, database, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	var deletedAt sql.NullString
	if err := database.QueryRow(`SELECT deleted_at FROM items WHERE id = ?`, item.ID).Scan(&deletedAt); err != nil {
		t.Fatalf("reading deleted_at: %v", err)
	}
	if !deletedAt.Valid {
		t.Error("expected row to be kept with deleted_at set")
	}
}
