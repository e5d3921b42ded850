package catalog

import (
	"strings"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
)

// DefaultSizes 服装尺码目录的默认项
var DefaultSizes = []domain.CatalogOption{
	{ID: "xs", Name: "XS"},
	{ID: "s", Name: "S"},
	{ID: "m", Name: "M"},
	{ID: "l", Name: "L"},
	{ID: "xl", Name: "XL"},
	{ID: "xxl", Name: "XXL"},
}

// DefaultColors 颜色目录的默认项
var DefaultColors = []domain.CatalogOption{
	{ID: "black", Name: "Black"},
	{ID: "white", Name: "White"},
	{ID: "red", Name: "Red"},
	{ID: "blue", Name: "Blue"},
	{ID: "green", Name: "Green"},
	{ID: "beige", Name: "Beige"},
	{ID: "navy", Name: "Navy"},
}

// OptionsFromNames 从名称列表构造目录项，ID 取名称的小写形式。
// 用于通过配置覆盖内置尺码/颜色目录。
func OptionsFromNames(names []string) []domain.CatalogOption {
	opts := make([]domain.CatalogOption, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		opts = append(opts, domain.CatalogOption{ID: strings.ToLower(name), Name: name})
	}
	return opts
}

// ResolveSizeOrColor 将表单选择解析为存储的展示值。
// 选择为 "custom" 时取自定义文本（去除首尾空白）；
// 否则取目录中匹配项的名称，目录无匹配时回退为原始选择值。
func ResolveSizeOrColor(selection, customText string, options []domain.CatalogOption) string {
	if selection == domain.CustomSelection {
		return strings.TrimSpace(customText)
	}
	for _, opt := range options {
		if opt.ID == selection {
			return opt.Name
		}
	}
	return selection
}

// IsCustom 判断已存储的展示值是否为自定义值：
// 目录中不存在名称完全相等的项即视为自定义（用于编辑表单回填）。
func IsCustom(resolved string, options []domain.CatalogOption) bool {
	for _, opt := range options {
		if opt.Name == resolved {
			return false
		}
	}
	return true
}

// validateVariantInput 执行变体表单的基础校验。
// 顺序与失败语义：缺尺码/颜色、缺自定义文本、非正价格、负库存。
func validateVariantInput(in *domain.VariantInput) error {
	if strings.TrimSpace(in.SizeSelection) == "" {
		return NewValidationError("size", "size is required")
	}
	if strings.TrimSpace(in.ColorSelection) == "" {
		return NewValidationError("color", "color is required")
	}
	if in.SizeSelection == domain.CustomSelection && strings.TrimSpace(in.CustomSize) == "" {
		return NewValidationError("custom_size", "custom size text is required")
	}
	if in.ColorSelection == domain.CustomSelection && strings.TrimSpace(in.CustomColor) == "" {
		return NewValidationError("custom_color", "custom color text is required")
	}
	if in.Price <= 0 {
		return NewValidationError("price", "price must be greater than 0")
	}
	if in.Stock < 0 {
		return NewValidationError("stock", "stock cannot be negative")
	}
	return nil
}

// resolveVariant 从表单输入构造变体（不含ID与媒体）。
// 自定义输入保留在 CustomSize/CustomColor，供再次编辑时区分来源。
func resolveVariant(in *domain.VariantInput, sizes, colors []domain.CatalogOption) domain.Variant {
	v := domain.Variant{
		Size:        ResolveSizeOrColor(in.SizeSelection, in.CustomSize, sizes),
		Color:       ResolveSizeOrColor(in.ColorSelection, in.CustomColor, colors),
		Price:       in.Price,
		Stock:       in.Stock,
		StyleNumber: strings.TrimSpace(in.StyleNumber),
		Fabric:      strings.TrimSpace(in.Fabric),
	}
	if in.SizeSelection == domain.CustomSelection {
		v.CustomSize = strings.TrimSpace(in.CustomSize)
	}
	if in.ColorSelection == domain.CustomSelection {
		v.CustomColor = strings.TrimSpace(in.CustomColor)
	}
	return v
}

// findDuplicate 在已有变体中查找相同 (尺码,颜色) 键的条目，
// excludeID 用于编辑保存时排除自身。
func findDuplicate(variants []domain.Variant, key domain.VariantKey, excludeID string) *domain.Variant {
	for i := range variants {
		if variants[i].ID == excludeID {
			continue
		}
		if variants[i].Key() == key {
			return &variants[i]
		}
	}
	return nil
}
