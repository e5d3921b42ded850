package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/backend"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/event"
)

// mockBackend 后端API的内存实现，记录调用以供断言
type mockBackend struct {
	mu sync.Mutex

	products   map[string]*domain.Product
	categories []domain.Category
	uploads    []string

	createCalls int
	updateCalls int

	// failNext 非空时下一次调用返回该错误；
	// failMutate 只作用于下一次写操作（读调用不消费）
	failNext   error
	failMutate error
}

var _ backend.API = (*mockBackend)(nil)

func newMockBackend() *mockBackend {
	return &mockBackend{products: make(map[string]*domain.Product)}
}

func (m *mockBackend) takeErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *mockBackend) takeMutateErr() error {
	if err := m.takeErr(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failMutate
	m.failMutate = nil
	return err
}

func (m *mockBackend) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, &backend.CollaboratorError{StatusCode: 404, Message: "product not found"}
	}
	clone := *p
	return &clone, nil
}

func (m *mockBackend) ListProducts(_ context.Context) ([]domain.Product, error) {
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockBackend) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if err := m.takeMutateErr(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	saved := *p
	saved.ID = fmt.Sprintf("prod-%d", m.createCalls)
	m.products[saved.ID] = &saved
	return &saved, nil
}

func (m *mockBackend) UpdateProduct(_ context.Context, id string, p *domain.Product) (*domain.Product, error) {
	if err := m.takeMutateErr(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	saved := *p
	saved.ID = id
	m.products[id] = &saved
	return &saved, nil
}

func (m *mockBackend) UpdateProductStatus(_ context.Context, id string, status domain.ProductStatus) error {
	if err := m.takeMutateErr(); err != nil {
		return err
	}
	p, ok := m.products[id]
	if !ok {
		return &backend.CollaboratorError{StatusCode: 404, Message: "product not found"}
	}
	p.Status = status
	return nil
}

func (m *mockBackend) GetCategories(_ context.Context) ([]domain.Category, error) {
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	out := make([]domain.Category, len(m.categories))
	copy(out, m.categories)
	return out, nil
}

func (m *mockBackend) CreateCategory(_ context.Context, in *domain.CategoryInput) (*domain.Category, error) {
	if err := m.takeMutateErr(); err != nil {
		return nil, err
	}
	c := domain.Category{ID: fmt.Sprintf("cat-%d", len(m.categories)+1), Name: in.Name}
	m.categories = append(m.categories, c)
	return &c, nil
}

func (m *mockBackend) UpdateCategory(_ context.Context, id string, in *domain.CategoryInput) (*domain.Category, error) {
	if err := m.takeMutateErr(); err != nil {
		return nil, err
	}
	for i := range m.categories {
		if m.categories[i].ID == id {
			m.categories[i].Name = in.Name
			return &m.categories[i], nil
		}
	}
	return nil, &backend.CollaboratorError{StatusCode: 404, Message: "category not found"}
}

func (m *mockBackend) DeleteCategory(_ context.Context, id string) error {
	if err := m.takeMutateErr(); err != nil {
		return err
	}
	for i := range m.categories {
		if m.categories[i].ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return &backend.CollaboratorError{StatusCode: 404, Message: "category not found"}
}

func (m *mockBackend) CreateSubcategory(_ context.Context, parentID string, in *domain.CategoryInput) (*domain.Subcategory, error) {
	if err := m.takeMutateErr(); err != nil {
		return nil, err
	}
	for i := range m.categories {
		if m.categories[i].ID == parentID {
			sc := domain.Subcategory{
				ID:       fmt.Sprintf("sub-%d", len(m.categories[i].Subcategories)+1),
				Name:     in.Name,
				ParentID: parentID,
			}
			m.categories[i].Subcategories = append(m.categories[i].Subcategories, sc)
			return &sc, nil
		}
	}
	return nil, &backend.CollaboratorError{StatusCode: 404, Message: "parent not found"}
}

func (m *mockBackend) UpdateSubcategory(_ context.Context, parentID, id string, in *domain.CategoryInput) (*domain.Subcategory, error) {
	if err := m.takeMutateErr(); err != nil {
		return nil, err
	}
	for i := range m.categories {
		if m.categories[i].ID != parentID {
			continue
		}
		for j := range m.categories[i].Subcategories {
			if m.categories[i].Subcategories[j].ID == id {
				m.categories[i].Subcategories[j].Name = in.Name
				return &m.categories[i].Subcategories[j], nil
			}
		}
	}
	return nil, &backend.CollaboratorError{StatusCode: 404, Message: "subcategory not found"}
}

func (m *mockBackend) DeleteSubcategory(_ context.Context, parentID, id string) error {
	if err := m.takeMutateErr(); err != nil {
		return err
	}
	for i := range m.categories {
		if m.categories[i].ID != parentID {
			continue
		}
		subs := m.categories[i].Subcategories
		for j := range subs {
			if subs[j].ID == id {
				m.categories[i].Subcategories = append(subs[:j], subs[j+1:]...)
				return nil
			}
		}
	}
	return &backend.CollaboratorError{StatusCode: 404, Message: "subcategory not found"}
}

func (m *mockBackend) ListOrders(_ context.Context) (json.RawMessage, error) {
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	return json.RawMessage(`[]`), nil
}

func (m *mockBackend) UpdateOrderStatus(_ context.Context, id, status string) (json.RawMessage, error) {
	if err := m.takeMutateErr(); err != nil {
		return nil, err
	}
	return json.RawMessage(fmt.Sprintf(`{"id":%q,"status":%q}`, id, status)), nil
}

func (m *mockBackend) Upload(_ context.Context, filename, _ string, _ []byte) (string, error) {
	if err := m.takeMutateErr(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	path := "/uploads/" + filename
	m.uploads = append(m.uploads, path)
	return path, nil
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu        sync.Mutex
	submitted []event.DraftSubmitted
	changed   []event.CategoryChanged
	failNext  error
}

var _ event.Publisher = (*recordingPublisher)(nil)

func (r *recordingPublisher) PublishDraftSubmitted(_ context.Context, evt event.DraftSubmitted) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.submitted = append(r.submitted, evt)
	return nil
}

func (r *recordingPublisher) PublishCategoryChanged(_ context.Context, evt event.CategoryChanged) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.changed = append(r.changed, evt)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }
