package domain

// ProductStatus 定义商品状态类型
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "Active"   // 正常销售
	ProductStatusInactive ProductStatus = "Inactive" // 暂停销售
)

// CustomSelection 尺码/颜色选择为自定义时使用的哨兵值
const CustomSelection = "custom"

// Product 表示商品草稿或已持久化的商品条目。
// 草稿阶段 ID 为本地临时标识，提交成功后由后端返回的持久化ID替换。
type Product struct {
	ID          string        `json:"id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Subcategory string        `json:"subcategory,omitempty"`
	Variants    []Variant     `json:"variants"`
	StyleNumber string        `json:"style_number,omitempty"`
	Fabric      string        `json:"fabric,omitempty"`
	Status      ProductStatus `json:"status"`
}

// Variant 表示商品的一个可售尺码/颜色组合。
// Size/Color 保存解析后的展示值：目录项名称或自定义文本；
// CustomSize/CustomColor 保留自定义时的原始输入，供编辑表单回填判断。
type Variant struct {
	ID          string     `json:"id"`
	Size        string     `json:"size"`
	Color       string     `json:"color"`
	CustomSize  string     `json:"custom_size,omitempty"`
	CustomColor string     `json:"custom_color,omitempty"`
	Images      []MediaRef `json:"images"`
	Videos      []MediaRef `json:"videos"`
	Price       float64    `json:"price"`
	Stock       int64      `json:"stock"`
	StyleNumber string     `json:"style_number,omitempty"`
	Fabric      string     `json:"fabric,omitempty"`
}

// Key 返回变体的 (尺码,颜色) 唯一键
func (v *Variant) Key() VariantKey {
	return VariantKey{Size: v.Size, Color: v.Color}
}

// VariantKey 同一商品内变体的唯一性判定键
type VariantKey struct {
	Size  string
	Color string
}

// CatalogOption 尺码/颜色目录项
type CatalogOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VariantInput 变体表单输入。
// SizeSelection/ColorSelection 为目录项ID或哨兵值 "custom"；
// 为 "custom" 时对应的 Custom* 字段必填。
type VariantInput struct {
	SizeSelection  string  `json:"size_selection"`
	CustomSize     string  `json:"custom_size"`
	ColorSelection string  `json:"color_selection"`
	CustomColor    string  `json:"custom_color"`
	Price          float64 `json:"price"`
	Stock          int64   `json:"stock"`
	StyleNumber    string  `json:"style_number"`
	Fabric         string  `json:"fabric"`
}

// ProductFieldsInput 商品顶层字段编辑输入
type ProductFieldsInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Subcategory *string `json:"subcategory"`
	StyleNumber *string `json:"style_number"`
	Fabric      *string `json:"fabric"`
}
