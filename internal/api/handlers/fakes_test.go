package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"requisition-api-server/internal/cache"
	"requisition-api-server/internal/database"
	"requisition-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeItems struct {
	mu           sync.Mutex
	items        []models.Item
	catalogCalls int
	createErr    error
}

func (f *fakeItems) Create(_ context.Context, item *models.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeItems) List(context.Context) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Item{}, f.items...), nil
}

func (f *fakeItems) Catalog(context.Context) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogCalls++
	return append([]models.Item{}, f.items...), nil
}

func (f *fakeItems) Get(_ context.Context, id string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID.Hex() == id {
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeItems) Update(_ context.Context, id string, upd models.ItemUpdate) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID.Hex() == id {
			f.items[i].ItemName = upd.ItemName
			f.items[i].UnitOfMeasure = upd.UnitOfMeasure
			f.items[i].Description = upd.Description
			f.items[i].UnitPrice = upd.UnitPrice
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeItems) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID.Hex() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

type fakeRequisitions struct {
	mu   sync.Mutex
	reqs []models.Requisition
}

func (f *fakeRequisitions) Create(_ context.Context, req *models.Requisition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	f.reqs = append(f.reqs, *req)
	return nil
}

func (f *fakeRequisitions) List(_ context.Context, archived bool) ([]models.Requisition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Requisition{}
	for _, r := range f.reqs {
		if (r.Status == models.StatusArchived) == archived {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequisitions) Get(_ context.Context, id string) (*models.Requisition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.reqs {
		if f.reqs[i].ID.Hex() == id {
			r := f.reqs[i]
			return &r, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeRequisitions) SetStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.reqs {
		if f.reqs[i].ID.Hex() == id {
			f.reqs[i].Status = status
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *fakeRequisitions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.reqs {
		if f.reqs[i].ID.Hex() == id {
			f.reqs = append(f.reqs[:i], f.reqs[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

type fakeUsers struct {
	mu    sync.Mutex
	users []models.User
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User{}, f.users...), nil
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].Username == username {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID.Hex() == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

type fixedIDs struct {
	item        string
	requisition string
}

func (f fixedIDs) NextItemID(context.Context) string            { return f.item }
func (f fixedIDs) NextRequisitionNumber(context.Context) string { return f.requisition }

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Event
}

func (n *recordingNotifier) Broadcast(e models.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Event)
	}
	return out
}

type fakeArchiver struct {
	calls    int
	filename string
	body     string
	err      error
}

func (a *fakeArchiver) ArchiveImport(_ context.Context, filename, _ string, data io.Reader) (string, error) {
	a.calls++
	a.filename = filename
	b, _ := io.ReadAll(data)
	a.body = string(b)
	return "https://example.invalid/" + filename, a.err
}

func newCatalog(items ItemRepository) *CatalogReader {
	return &CatalogReader{Items: items, Cache: cache.New[[]models.Item](0)}
}

func doRequest(t *testing.T, r http.Handler, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, r, method, path, "application/json", []byte(body))
}
