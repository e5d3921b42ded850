package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/backend"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/catalog"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/event"
)

// CategoryService 分类树维护接口。
// 所有写操作遵循同一模式：取最新树 → 本地唯一性预检 →
// 调用后端 → 重新拉取整棵树。后端失败时本地不保留任何变更。
type CategoryService interface {
	Tree(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in *domain.CategoryInput) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in *domain.CategoryInput) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id string) ([]domain.Category, error)
	CascadeWarning(ctx context.Context, id string) (*domain.CascadeWarning, error)
	CreateSubcategory(ctx context.Context, parentID string, in *domain.CategoryInput) ([]domain.Category, error)
	UpdateSubcategory(ctx context.Context, parentID, id string, in *domain.CategoryInput) ([]domain.Category, error)
	DeleteSubcategory(ctx context.Context, parentID, id string) ([]domain.Category, error)
}

// ErrCategoryNotFound 分类不存在
var ErrCategoryNotFound = catalog.NewValidationError("id", "category not found")

type categoryService struct {
	backend   backend.API
	publisher event.Publisher
	logger    *zap.Logger
}

// NewCategoryService 创建分类服务
func NewCategoryService(api backend.API, publisher event.Publisher, logger *zap.Logger) CategoryService {
	if publisher == nil {
		publisher = event.NullPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &categoryService{backend: api, publisher: publisher, logger: logger}
}

// Tree 返回完整分类树快照
func (s *categoryService) Tree(ctx context.Context) ([]domain.Category, error) {
	return s.backend.GetCategories(ctx)
}

// CreateCategory 新建顶层分类
func (s *categoryService) CreateCategory(ctx context.Context, in *domain.CategoryInput) ([]domain.Category, error) {
	tree, err := s.backend.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	if err := catalog.ValidateCategoryName(in.Name, "", tree, ""); err != nil {
		return nil, err
	}

	created, err := s.backend.CreateCategory(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.publishChanged(ctx, "created", created.ID, "", created.Name)
	return s.refetch(ctx)
}

// UpdateCategory 更新顶层分类（重命名为自身原名不算冲突）
func (s *categoryService) UpdateCategory(ctx context.Context, id string, in *domain.CategoryInput) ([]domain.Category, error) {
	tree, err := s.backend.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	if catalog.FindCategory(tree, id) == nil {
		return nil, ErrCategoryNotFound
	}
	if err := catalog.ValidateCategoryName(in.Name, "", tree, id); err != nil {
		return nil, err
	}

	updated, err := s.backend.UpdateCategory(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.publishChanged(ctx, "updated", updated.ID, "", updated.Name)
	return s.refetch(ctx)
}

// DeleteCategory 删除顶层分类，后端级联删除其二级分类
func (s *categoryService) DeleteCategory(ctx context.Context, id string) ([]domain.Category, error) {
	tree, err := s.backend.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	c := catalog.FindCategory(tree, id)
	if c == nil {
		return nil, ErrCategoryNotFound
	}

	if err := s.backend.DeleteCategory(ctx, id); err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}

	s.publishChanged(ctx, "deleted", id, "", c.Name)
	return s.refetch(ctx)
}

// CascadeWarning 删除确认前的级联提示（包含将被一并删除的二级分类数量）
func (s *categoryService) CascadeWarning(ctx context.Context, id string) (*domain.CascadeWarning, error) {
	tree, err := s.backend.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	warning, ok := catalog.CascadeWarningFor(tree, id)
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return warning, nil
}

// CreateSubcategory 新建二级分类
func (s *categoryService) CreateSubcategory(ctx context.Context, parentID string, in *domain.CategoryInput) ([]domain.Category, error) {
	tree, err := s.backend.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	if err := catalog.ValidateCategoryName(in.Name, parentID, tree, ""); err != nil {
		return nil, err
	}

	created, err := s.backend.CreateSubcategory(ctx, parentID, in)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}

	s.publishChanged(ctx, "created", created.ID, parentID, created.Name)
	return s.refetch(ctx)
}

// UpdateSubcategory 更新二级分类
func (s *categoryService) UpdateSubcategory(ctx context.Context, parentID, id string, in *domain.CategoryInput) ([]domain.Category, error) {
	tree, err := s.backend.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	if err := catalog.ValidateCategoryName(in.Name, parentID, tree, id); err != nil {
		return nil, err
	}

	updated, err := s.backend.UpdateSubcategory(ctx, parentID, id, in)
	if err != nil {
		return nil, fmt.Errorf("update subcategory: %w", err)
	}

	s.publishChanged(ctx, "updated", updated.ID, parentID, updated.Name)
	return s.refetch(ctx)
}

// DeleteSubcategory 删除二级分类
func (s *categoryService) DeleteSubcategory(ctx context.Context, parentID, id string) ([]domain.Category, error) {
	if err := s.backend.DeleteSubcategory(ctx, parentID, id); err != nil {
		return nil, fmt.Errorf("delete subcategory: %w", err)
	}

	s.publishChanged(ctx, "deleted", id, parentID, "")
	return s.refetch(ctx)
}

// refetch 写操作成功后重新拉取整棵树，后端是唯一权威
func (s *categoryService) refetch(ctx context.Context) ([]domain.Category, error) {
	tree, err := s.backend.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("refetch categories: %w", err)
	}
	return tree, nil
}

// publishChanged 发布分类变更事件，失败只记日志
func (s *categoryService) publishChanged(ctx context.Context, action, id, parentID, name string) {
	evt := event.CategoryChanged{
		Action:     action,
		CategoryID: id,
		ParentID:   parentID,
		Name:       name,
		ChangedAt:  time.Now(),
	}
	if err := s.publisher.PublishCategoryChanged(ctx, evt); err != nil {
		s.logger.Warn("publish category changed event", zap.String("category_id", id), zap.Error(err))
	}
}
