package catalog

import (
	"strings"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
)

// ValidateCategoryName 检查名称在目标层级内的唯一性（大小写不敏感）。
// parentID 为空时检查顶层分类，否则检查该父节点下的二级分类；
// excludeID 为正在编辑的节点自身（重命名为原名不算冲突）。
// 这是提交前的乐观预检，后端仍是最终权威。
func ValidateCategoryName(name, parentID string, tree []domain.Category, excludeID string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return NewValidationError("name", "name is required")
	}

	if parentID == "" {
		for _, c := range tree {
			if c.ID != excludeID && strings.EqualFold(c.Name, trimmed) {
				return &DuplicateNameError{Name: trimmed}
			}
		}
		return nil
	}

	parent := FindCategory(tree, parentID)
	if parent == nil {
		return NewValidationError("parent_id", "parent category not found")
	}
	for _, sc := range parent.Subcategories {
		if sc.ID != excludeID && strings.EqualFold(sc.Name, trimmed) {
			return &DuplicateNameError{Name: trimmed}
		}
	}
	return nil
}

// FindCategory 在树中按ID查找顶层分类
func FindCategory(tree []domain.Category, id string) *domain.Category {
	for i := range tree {
		if tree[i].ID == id {
			return &tree[i]
		}
	}
	return nil
}

// CascadeWarningFor 生成删除顶层分类前的级联提示。
// 级联删除本身由后端执行，本地只负责在确认前展示数量。
func CascadeWarningFor(tree []domain.Category, id string) (*domain.CascadeWarning, bool) {
	c := FindCategory(tree, id)
	if c == nil {
		return nil, false
	}
	return &domain.CascadeWarning{
		CategoryID:       c.ID,
		CategoryName:     c.Name,
		SubcategoryCount: len(c.Subcategories),
	}, true
}
