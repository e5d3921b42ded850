// Package event 实现目录域事件的RabbitMQ发布
package event

import "time"

// 路由键
const (
	RoutingDraftSubmitted  = "catalog.draft.submitted"
	RoutingCategoryChanged = "catalog.category.changed"
)

// DraftSubmitted 草稿提交成功事件
type DraftSubmitted struct {
	DraftID      string    `json:"draft_id"`
	ProductID    string    `json:"product_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	VariantCount int       `json:"variant_count"`
	IsUpdate     bool      `json:"is_update"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// CategoryChanged 分类树结构变更事件
type CategoryChanged struct {
	Action     string    `json:"action"` // created / updated / deleted
	CategoryID string    `json:"category_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}
