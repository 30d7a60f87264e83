package state

import (
	"context"
	"errors"
	"sync"

	"github.com/erazemk/itemdesk/internal/model"
)

var errBoom = errors.New("boom")

// fakeAPI is an in-memory API with per-operation failure switches.
type fakeAPI struct {
	mu      sync.Mutex
	items   map[int64]model.Item
	order   []int64
	nextID  int64
	failGet map[int64]bool

	failList, failCreate, failUpdate, failDelete bool

	listCalls int
	getCalls  int
}

func newFakeAPI(items ...model.Item) *fakeAPI {
	f := &fakeAPI{items: make(map[int64]model.Item), failGet: make(map[int64]bool)}
	for _, it := range items {
		f.items[it.ID] = it
		f.order = append(f.order, it.ID)
		if it.ID > f.nextID {
			f.nextID = it.ID
		}
	}
	return f
}

func (f *fakeAPI) ListItems(ctx context.Context) ([]model.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failList {
		return nil, errBoom
	}
	var out []model.Summary
	for _, id := range f.order {
		out = append(out, model.Summary{ID: id})
	}
	return out, nil
}

func (f *fakeAPI) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.failGet[id] {
		return nil, errBoom
	}
	it, ok := f.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &it, nil
}

func (f *fakeAPI) CreateItem(ctx context.Context, d model.Draft) (*model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, errBoom
	}
	f.nextID++
	it := d.Apply(f.nextID)
	f.items[it.ID] = it
	f.order = append(f.order, it.ID)
	return &it, nil
}

func (f *fakeAPI) UpdateItem(ctx context.Context, id int64, item model.Item) (*model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return nil, errBoom
	}
	if _, ok := f.items[id]; !ok {
		return nil, errors.New("not found")
	}
	item.ID = id
	item.ShowDetails = false
	f.items[id] = item
	return &item, nil
}

func (f *fakeAPI) DeleteItem(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errBoom
	}
	delete(f.items, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}
