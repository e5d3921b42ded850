package api

import (
	"context"
	"encoding/json"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/catalog"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/service"
)

// mockDraftService 按需覆盖函数字段，未覆盖的方法返回简单默认值
type mockDraftService struct {
	createFunc       func(ctx context.Context, productID string) (*catalog.Draft, error)
	getFunc          func(ctx context.Context, draftID string) (*catalog.Draft, error)
	discardFunc      func(ctx context.Context, draftID string) error
	updateFieldsFunc func(ctx context.Context, draftID string, in *domain.ProductFieldsInput) (*catalog.Draft, error)
	addVariantFunc   func(ctx context.Context, draftID string, in *domain.VariantInput) (*catalog.Draft, error)
	startEditFunc    func(ctx context.Context, draftID, variantID string) (*catalog.Draft, error)
	saveEditFunc     func(ctx context.Context, draftID, variantID string, in *domain.VariantInput) (*catalog.Draft, error)
	cancelEditFunc   func(ctx context.Context, draftID string) (*catalog.Draft, error)
	removeVariant    func(ctx context.Context, draftID, variantID string) (*catalog.Draft, error)
	projectMedia     func(ctx context.Context, draftID, variantID string) ([]domain.CombinedMediaItem, error)
	moveMediaFunc    func(ctx context.Context, draftID, variantID string, from, to int) ([]domain.CombinedMediaItem, error)
	removeMediaFunc  func(ctx context.Context, draftID, variantID string, index int) ([]domain.CombinedMediaItem, error)
	appendUploads    func(ctx context.Context, draftID, variantID string, files []service.UploadFile) (*service.UploadReport, error)
	submitFunc       func(ctx context.Context, draftID string) (*domain.Product, error)
}

func (m *mockDraftService) Create(ctx context.Context, productID string) (*catalog.Draft, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, productID)
	}
	return &catalog.Draft{ID: "draft-1"}, nil
}

func (m *mockDraftService) Get(ctx context.Context, draftID string) (*catalog.Draft, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, draftID)
	}
	return &catalog.Draft{ID: draftID}, nil
}

func (m *mockDraftService) Discard(ctx context.Context, draftID string) error {
	if m.discardFunc != nil {
		return m.discardFunc(ctx, draftID)
	}
	return nil
}

func (m *mockDraftService) UpdateFields(ctx context.Context, draftID string, in *domain.ProductFieldsInput) (*catalog.Draft, error) {
	if m.updateFieldsFunc != nil {
		return m.updateFieldsFunc(ctx, draftID, in)
	}
	return &catalog.Draft{ID: draftID}, nil
}

func (m *mockDraftService) AddVariant(ctx context.Context, draftID string, in *domain.VariantInput) (*catalog.Draft, error) {
	if m.addVariantFunc != nil {
		return m.addVariantFunc(ctx, draftID, in)
	}
	return &catalog.Draft{ID: draftID}, nil
}

func (m *mockDraftService) StartEdit(ctx context.Context, draftID, variantID string) (*catalog.Draft, error) {
	if m.startEditFunc != nil {
		return m.startEditFunc(ctx, draftID, variantID)
	}
	return &catalog.Draft{ID: draftID}, nil
}

func (m *mockDraftService) SaveEdit(ctx context.Context, draftID, variantID string, in *domain.VariantInput) (*catalog.Draft, error) {
	if m.saveEditFunc != nil {
		return m.saveEditFunc(ctx, draftID, variantID, in)
	}
	return &catalog.Draft{ID: draftID}, nil
}

func (m *mockDraftService) CancelEdit(ctx context.Context, draftID string) (*catalog.Draft, error) {
	if m.cancelEditFunc != nil {
		return m.cancelEditFunc(ctx, draftID)
	}
	return &catalog.Draft{ID: draftID}, nil
}

func (m *mockDraftService) RemoveVariant(ctx context.Context, draftID, variantID string) (*catalog.Draft, error) {
	if m.removeVariant != nil {
		return m.removeVariant(ctx, draftID, variantID)
	}
	return &catalog.Draft{ID: draftID}, nil
}

func (m *mockDraftService) ProjectMedia(ctx context.Context, draftID, variantID string) ([]domain.CombinedMediaItem, error) {
	if m.projectMedia != nil {
		return m.projectMedia(ctx, draftID, variantID)
	}
	return []domain.CombinedMediaItem{}, nil
}

func (m *mockDraftService) MoveMedia(ctx context.Context, draftID, variantID string, from, to int) ([]domain.CombinedMediaItem, error) {
	if m.moveMediaFunc != nil {
		return m.moveMediaFunc(ctx, draftID, variantID, from, to)
	}
	return []domain.CombinedMediaItem{}, nil
}

func (m *mockDraftService) RemoveMedia(ctx context.Context, draftID, variantID string, index int) ([]domain.CombinedMediaItem, error) {
	if m.removeMediaFunc != nil {
		return m.removeMediaFunc(ctx, draftID, variantID, index)
	}
	return []domain.CombinedMediaItem{}, nil
}

func (m *mockDraftService) AppendUploads(ctx context.Context, draftID, variantID string, files []service.UploadFile) (*service.UploadReport, error) {
	if m.appendUploads != nil {
		return m.appendUploads(ctx, draftID, variantID, files)
	}
	return &service.UploadReport{Draft: &catalog.Draft{ID: draftID}, Added: len(files)}, nil
}

func (m *mockDraftService) Submit(ctx context.Context, draftID string) (*domain.Product, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, draftID)
	}
	return &domain.Product{ID: "prod-1"}, nil
}

func (m *mockDraftService) Options() (sizes, colors []domain.CatalogOption) {
	return []domain.CatalogOption{{ID: "s", Name: "S"}}, []domain.CatalogOption{{ID: "black", Name: "Black"}}
}

// mockCategoryService 分类服务mock
type mockCategoryService struct {
	treeFunc      func(ctx context.Context) ([]domain.Category, error)
	createFunc    func(ctx context.Context, in *domain.CategoryInput) ([]domain.Category, error)
	updateFunc    func(ctx context.Context, id string, in *domain.CategoryInput) ([]domain.Category, error)
	deleteFunc    func(ctx context.Context, id string) ([]domain.Category, error)
	cascadeFunc   func(ctx context.Context, id string) (*domain.CascadeWarning, error)
	createSubFunc func(ctx context.Context, parentID string, in *domain.CategoryInput) ([]domain.Category, error)
	updateSubFunc func(ctx context.Context, parentID, id string, in *domain.CategoryInput) ([]domain.Category, error)
	deleteSubFunc func(ctx context.Context, parentID, id string) ([]domain.Category, error)
}

func (m *mockCategoryService) Tree(ctx context.Context) ([]domain.Category, error) {
	if m.treeFunc != nil {
		return m.treeFunc(ctx)
	}
	return []domain.Category{{ID: "c1", Name: "Shirts"}}, nil
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, in *domain.CategoryInput) ([]domain.Category, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return []domain.Category{{ID: "c1", Name: in.Name}}, nil
}

func (m *mockCategoryService) UpdateCategory(ctx context.Context, id string, in *domain.CategoryInput) ([]domain.Category, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, in)
	}
	return []domain.Category{{ID: id, Name: in.Name}}, nil
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, id string) ([]domain.Category, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return []domain.Category{}, nil
}

func (m *mockCategoryService) CascadeWarning(ctx context.Context, id string) (*domain.CascadeWarning, error) {
	if m.cascadeFunc != nil {
		return m.cascadeFunc(ctx, id)
	}
	return &domain.CascadeWarning{CategoryID: id}, nil
}

func (m *mockCategoryService) CreateSubcategory(ctx context.Context, parentID string, in *domain.CategoryInput) ([]domain.Category, error) {
	if m.createSubFunc != nil {
		return m.createSubFunc(ctx, parentID, in)
	}
	return []domain.Category{{ID: parentID}}, nil
}

func (m *mockCategoryService) UpdateSubcategory(ctx context.Context, parentID, id string, in *domain.CategoryInput) ([]domain.Category, error) {
	if m.updateSubFunc != nil {
		return m.updateSubFunc(ctx, parentID, id, in)
	}
	return []domain.Category{{ID: parentID}}, nil
}

func (m *mockCategoryService) DeleteSubcategory(ctx context.Context, parentID, id string) ([]domain.Category, error) {
	if m.deleteSubFunc != nil {
		return m.deleteSubFunc(ctx, parentID, id)
	}
	return []domain.Category{{ID: parentID}}, nil
}

// decodeEnvelope 解析统一响应体
func decodeEnvelope(body []byte) (map[string]interface{}, error) {
	var response map[string]interface{}
	err := json.Unmarshal(body, &response)
	return response, err
}
