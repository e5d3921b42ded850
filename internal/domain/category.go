package domain

// CategoryStatus 定义分类状态类型
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "Active"
	CategoryStatusInactive CategoryStatus = "Inactive"
)

// Category 后端所有的分类树节点（两层结构的顶层）。
// ProductCount 由后端计算，本地只读。
type Category struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Status        CategoryStatus `json:"status"`
	ProductCount  int            `json:"product_count"`
	Subcategories []Subcategory  `json:"subcategories"`
}

// Subcategory 二级分类节点。ParentID 仅用于回查，不拥有父节点。
type Subcategory struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Status       CategoryStatus `json:"status"`
	ProductCount int            `json:"product_count"`
	ParentID     string         `json:"parent_id"`
}

// CategoryInput 分类增改的输入
type CategoryInput struct {
	Name   string         `json:"name"`
	Status CategoryStatus `json:"status,omitempty"`
}

// CascadeWarning 删除顶层分类前返回的级联提示。
// 实际的级联删除由后端执行，本地只负责提示确认。
type CascadeWarning struct {
	CategoryID       string `json:"category_id"`
	CategoryName     string `json:"category_name"`
	SubcategoryCount int    `json:"subcategory_count"`
}
