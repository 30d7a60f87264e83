package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/itemdesk/internal/model"
)

// API is the subset of the REST client the controller needs.
type API interface {
	ListItems(ctx context.Context) ([]model.Summary, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	CreateItem(ctx context.Context, draft model.Draft) (*model.Item, error)
	UpdateItem(ctx context.Context, id int64, item model.Item) (*model.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

// ErrRefresh marks a mutation the server accepted whose follow-up refresh
// failed. The store still holds the list from before the mutation.
var ErrRefresh = errors.New("saved, but refresh failed")

// Controller runs the refresh protocol and the mutation handlers against a
// store. On any failure it logs, returns the error, and leaves the store as
// it was.
type Controller struct {
	api    API
	store  *Store
	logger *slog.Logger

	mu    sync.Mutex
	draft model.Draft
}

// NewController wires api to store. A nil logger uses slog.Default().
func NewController(api API, store *Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{api: api, store: store, logger: logger}
}

// Store returns the store the controller writes to.
func (c *Controller) Store() *Store {
	return c.store
}

// Draft returns the pending create draft.
func (c *Controller) Draft() model.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the pending create draft.
func (c *Controller) SetDraft(d model.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

// FetchItems lists summaries, fetches every detail concurrently, and replaces
// the store contents in list order. Any failed detail fetch fails the whole
// refresh.
func (c *Controller) FetchItems(ctx context.Context) error {
	items, err := c.fetchAll(ctx)
	if err != nil {
		return err
	}
	c.store.Replace(items)
	c.logger.Debug("items refreshed", "count", len(items))
	return nil
}

func (c *Controller) fetchAll(ctx context.Context) ([]model.Item, error) {
	summaries, err := c.api.ListItems(ctx)
	if err != nil {
		c.logger.Error("error fetching items", "error", err)
		return nil, err
	}

	items := make([]model.Item, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	for i, sum := range summaries {
		g.Go(func() error {
			item, err := c.api.GetItem(gctx, sum.ID)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("item %d: empty response", sum.ID)
			}
			detail := item.Clone()
			detail.ShowDetails = false
			items[i] = detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Error("error fetching item details", "error", err)
		return nil, err
	}
	return items, nil
}

// AddItem creates an item from draft, refreshes, and clears the pending
// draft.
func (c *Controller) AddItem(ctx context.Context, draft model.Draft) error {
	created, err := c.api.CreateItem(ctx, draft)
	if err != nil {
		c.logger.Error("error adding item", "error", err)
		return err
	}
	if created != nil {
		c.logger.Info("item created", "id", created.ID, "title", created.Title)
	}

	c.SetDraft(model.Draft{})
	return c.refresh(ctx)
}

// UpdateItem replaces the server record for item.ID and refreshes.
func (c *Controller) UpdateItem(ctx context.Context, item model.Item) error {
	if _, err := c.api.UpdateItem(ctx, item.ID, item); err != nil {
		c.logger.Error("error updating item", "id", item.ID, "error", err)
		return err
	}
	c.logger.Info("item updated", "id", item.ID, "title", item.Title, "status", item.Status)
	return c.refresh(ctx)
}

// DeleteItem removes the item and refreshes.
func (c *Controller) DeleteItem(ctx context.Context, id int64) error {
	if err := c.api.DeleteItem(ctx, id); err != nil {
		c.logger.Error("error deleting item", "id", id, "error", err)
		return err
	}
	c.logger.Info("item deleted", "id", id)
	return c.refresh(ctx)
}

// refresh runs FetchItems after a successful mutation, tagging its failure
// with ErrRefresh.
func (c *Controller) refresh(ctx context.Context) error {
	if err := c.FetchItems(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRefresh, err)
	}
	return nil
}

// ToggleDetails flips the inline detail visibility of one item. It never
// touches the server.
func (c *Controller) ToggleDetails(id int64) {
	if !c.store.ToggleDetails(id) {
		c.logger.Warn("toggle on unknown item", "id", id)
	}
}

// LoadItem fetches a single item for a detail view without touching the
// store.
func (c *Controller) LoadItem(ctx context.Context, id int64) (*model.Item, error) {
	item, err := c.api.GetItem(ctx, id)
	if err != nil {
		c.logger.Error("error fetching item", "id", id, "error", err)
		return nil, err
	}
	return item, nil
}
