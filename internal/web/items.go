package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/itemdesk/internal/client"
	"github.com/erazemk/itemdesk/internal/form"
	"github.com/erazemk/itemdesk/internal/model"
	"github.com/erazemk/itemdesk/internal/state"
)

// Flash messages carried in the ?msg= query parameter after a redirect.
var flashes = map[string]PageData{
	"created": {Success: "Item added."},
	"updated": {Success: "Item updated."},
	"deleted": {Success: "Item deleted."},
	"failed":  {Error: "The request to the item service failed."},
	"stale":   {Error: "Saved, but the list could not be refreshed."},
}

type itemsPage struct {
	PageData
	Items []model.Item
	Form  FormView
}

type itemDetailPage struct {
	PageData
	Item model.Item
	Form FormView
}

// ItemsPage handles GET /items. The create form shows the pending draft.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	f := form.New(nil)
	f.SetDraft(s.Items.Draft())
	page := s.listPage(r, f)
	s.Templates.Render(w, http.StatusOK, "items.html", page)
}

func (s *Server) listPage(r *http.Request, f *form.Form) *itemsPage {
	page := &itemsPage{
		PageData: flash(r, "Items"),
		Form:     newFormView("/items", f),
	}
	if err := s.Items.FetchItems(r.Context()); err != nil {
		page.Error = "Could not load items; showing the last known list."
	}
	page.Items = s.Items.Store().Snapshot().Items
	return page
}

// ItemCreateSubmit handles POST /items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	f := form.New(nil)
	if err := bindForm(r, f); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.OnSubmit = func(d model.Draft) error {
		s.Items.SetDraft(d)
		return s.Items.AddItem(r.Context(), d)
	}
	err := f.Submit()
	switch {
	case err == nil:
		http.Redirect(w, r, "/items?msg=created", http.StatusSeeOther)
	case errors.Is(err, state.ErrRefresh):
		http.Redirect(w, r, "/items?msg=stale", http.StatusSeeOther)
	case errors.Is(err, form.ErrRequired):
		page := s.listPage(r, f)
		page.Error = "Title and text are required."
		s.Templates.Render(w, http.StatusUnprocessableEntity, "items.html", page)
	default:
		page := s.listPage(r, f)
		page.Error = "The item could not be added. Your input is kept below."
		s.Templates.Render(w, http.StatusBadGateway, "items.html", page)
	}
}

// ItemDetailPage handles GET /items/{id}. The item is fetched on every
// request, so changing the id in the path always loads the new record.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := s.Items.LoadItem(r.Context(), id)
	if err != nil {
		s.renderLoadError(w, id, err)
		return
	}

	s.Templates.Render(w, http.StatusOK, "item_detail.html", &itemDetailPage{
		PageData: flash(r, item.Title),
		Item:     *item,
		Form:     newFormView(itemURL(id), form.New(item)),
	})
}

// ItemUpdateSubmit handles POST /items/{id}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	f := form.New(&model.Item{ID: id})
	if err := bindForm(r, f); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.OnSubmit = func(model.Draft) error {
		return s.Items.UpdateItem(r.Context(), f.Item())
	}
	err := f.Submit()
	switch {
	case err == nil:
		http.Redirect(w, r, itemURL(id)+"?msg=updated", http.StatusSeeOther)
	case errors.Is(err, state.ErrRefresh):
		http.Redirect(w, r, itemURL(id)+"?msg=stale", http.StatusSeeOther)
	default:
		status := http.StatusBadGateway
		if client.IsNotFound(err) {
			status = http.StatusNotFound
		}
		s.Templates.Render(w, status, "item_detail.html", &itemDetailPage{
			PageData: PageData{Title: fmt.Sprintf("Item %d", id), Error: "The item could not be updated. Your changes are kept below."},
			Item:     f.Item(),
			Form:     newFormView(itemURL(id), f),
		})
	}
}

// ItemDeleteSubmit handles POST /items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := s.Items.DeleteItem(r.Context(), id)
	switch {
	case err == nil:
		http.Redirect(w, r, "/items?msg=deleted", http.StatusSeeOther)
	case errors.Is(err, state.ErrRefresh):
		http.Redirect(w, r, "/items?msg=stale", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/items?msg=failed", http.StatusSeeOther)
	}
}

func (s *Server) renderLoadError(w http.ResponseWriter, id int64, err error) {
	status := http.StatusBadGateway
	msg := "The item could not be loaded."
	if client.IsNotFound(err) {
		status = http.StatusNotFound
		msg = "Item not found."
	}
	slog.Warn("detail page unavailable", "id", id, "status", status)
	s.Templates.Render(w, status, "error.html", &PageData{Title: fmt.Sprintf("Item %d", id), Error: msg})
}

// bindForm copies the posted fields into f.
func bindForm(r *http.Request, f *form.Form) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("invalid form: %w", err)
	}
	f.SetTitle(r.PostForm.Get("title"))
	f.SetText(r.PostForm.Get("text"))
	if v := r.PostForm.Get("status"); v != "" {
		if err := f.SetStatusString(v); err != nil {
			return err
		}
	}
	return nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func itemURL(id int64) string {
	return "/items/" + url.PathEscape(strconv.FormatInt(id, 10))
}

func flash(r *http.Request, title string) PageData {
	pd := flashes[r.URL.Query().Get("msg")]
	pd.Title = title
	return pd
}
