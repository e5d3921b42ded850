package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
)

// Draft 一次编辑会话持有的商品草稿。
// 同一草稿只属于一个编辑会话，不存在并发写者；
// 所有字段可JSON序列化，便于会话存储持久化。
type Draft struct {
	ID      string         `json:"id"`
	Product domain.Product `json:"product"`
	// Editing 当前处于编辑中的变体会话；同一时刻至多一个
	Editing *EditSession `json:"editing,omitempty"`
	// IsExisting 草稿源自已持久化商品（编辑模式）
	IsExisting bool      `json:"is_existing"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EditSession 变体的编辑缓冲区。
// Buffer 为工作副本，保存前对原条目零影响；
// 校验失败时缓冲区保留，用户输入不丢失。
type EditSession struct {
	VariantID string         `json:"variant_id"`
	Buffer    domain.Variant `json:"buffer"`
}

// Policy 草稿引擎的可配置策略
type Policy struct {
	// AllowDuplicateVariants 放行相同 (尺码,颜色) 组合
	AllowDuplicateVariants bool
}

// Engine 草稿状态机引擎。无内部状态，所有操作作用于传入的草稿。
type Engine struct {
	policy Policy
	sizes  []domain.CatalogOption
	colors []domain.CatalogOption
}

// NewEngine 创建草稿引擎。sizes/colors 为空时使用默认目录。
func NewEngine(policy Policy, sizes, colors []domain.CatalogOption) *Engine {
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}
	if len(colors) == 0 {
		colors = DefaultColors
	}
	return &Engine{policy: policy, sizes: sizes, colors: colors}
}

// Sizes 返回引擎使用的尺码目录
func (e *Engine) Sizes() []domain.CatalogOption { return e.sizes }

// Colors 返回引擎使用的颜色目录
func (e *Engine) Colors() []domain.CatalogOption { return e.colors }

// NewDraft 创建草稿。seed 非空时从已持久化商品播种（编辑模式），
// 否则创建空白草稿，状态默认 Active。
func (e *Engine) NewDraft(seed *domain.Product) *Draft {
	now := time.Now()
	d := &Draft{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if seed != nil {
		d.Product = *seed
		d.Product.Variants = cloneVariants(seed.Variants)
		d.IsExisting = seed.ID != ""
		if d.Product.Status == "" {
			d.Product.Status = domain.ProductStatusActive
		}
	} else {
		d.Product = domain.Product{
			Status:   domain.ProductStatusActive,
			Variants: []domain.Variant{},
		}
	}
	return d
}

// UpdateFields 更新商品顶层字段（仅更新提供的字段）
func (e *Engine) UpdateFields(d *Draft, in *domain.ProductFieldsInput) {
	if in.Title != nil {
		d.Product.Title = *in.Title
	}
	if in.Description != nil {
		d.Product.Description = *in.Description
	}
	if in.Category != nil {
		d.Product.Category = *in.Category
	}
	if in.Subcategory != nil {
		d.Product.Subcategory = *in.Subcategory
	}
	if in.StyleNumber != nil {
		d.Product.StyleNumber = *in.StyleNumber
	}
	if in.Fabric != nil {
		d.Product.Fabric = *in.Fabric
	}
	d.touch()
}

// AddVariant 校验组合区的变体输入并追加到草稿的变体列表。
// 校验失败时草稿不变，错误原样返回给调用方展示。
func (e *Engine) AddVariant(d *Draft, in *domain.VariantInput) (*domain.Variant, error) {
	if err := validateVariantInput(in); err != nil {
		return nil, err
	}

	v := resolveVariant(in, e.sizes, e.colors)
	if !e.policy.AllowDuplicateVariants {
		if dup := findDuplicate(d.Product.Variants, v.Key(), ""); dup != nil {
			return nil, NewValidationError("variant", "variant with size "+v.Size+" and color "+v.Color+" already exists")
		}
	}

	v.ID = uuid.New().String()
	v.Images = []domain.MediaRef{}
	v.Videos = []domain.MediaRef{}
	d.Product.Variants = append(d.Product.Variants, v)
	d.touch()
	return &d.Product.Variants[len(d.Product.Variants)-1], nil
}

// StartEdit 对列表中的变体开启编辑会话。
// 同一时刻至多一个编辑会话：已有会话被隐式取消（不叠加）。
func (e *Engine) StartEdit(d *Draft, variantID string) (*EditSession, error) {
	v := d.findVariant(variantID)
	if v == nil {
		return nil, ErrVariantNotFound
	}

	if d.Editing != nil && d.Editing.VariantID != variantID {
		d.Editing = nil
	}

	d.Editing = &EditSession{
		VariantID: variantID,
		Buffer:    cloneVariant(*v),
	}
	d.touch()
	return d.Editing, nil
}

// SaveEdit 校验编辑缓冲并原位替换原条目（按ID匹配，保持列表位置）。
// 标量字段来自表单输入，媒体列表来自编辑缓冲（包含编辑期间的排序/增删）。
// 校验失败时保持编辑状态，缓冲区原样保留。
func (e *Engine) SaveEdit(d *Draft, variantID string, in *domain.VariantInput) (*domain.Variant, error) {
	if d.Editing == nil || d.Editing.VariantID != variantID {
		return nil, ErrNotEditing
	}
	if err := validateVariantInput(in); err != nil {
		return nil, err
	}

	v := resolveVariant(in, e.sizes, e.colors)
	if !e.policy.AllowDuplicateVariants {
		if dup := findDuplicate(d.Product.Variants, v.Key(), variantID); dup != nil {
			return nil, NewValidationError("variant", "variant with size "+v.Size+" and color "+v.Color+" already exists")
		}
	}

	v.ID = variantID
	v.Images = d.Editing.Buffer.Images
	v.Videos = d.Editing.Buffer.Videos

	for i := range d.Product.Variants {
		if d.Product.Variants[i].ID == variantID {
			d.Product.Variants[i] = v
			d.Editing = nil
			d.touch()
			return &d.Product.Variants[i], nil
		}
	}
	return nil, ErrVariantNotFound
}

// CancelEdit 丢弃编辑缓冲，原条目不变
func (e *Engine) CancelEdit(d *Draft) {
	d.Editing = nil
	d.touch()
}

// RemoveVariant 从变体列表中删除条目。无确认步骤，
// 草稿内不可恢复（不提交商品即可整体放弃）。
func (e *Engine) RemoveVariant(d *Draft, variantID string) error {
	if d.Editing != nil && d.Editing.VariantID == variantID {
		d.Editing = nil
	}
	for i := range d.Product.Variants {
		if d.Product.Variants[i].ID == variantID {
			d.Product.Variants = append(d.Product.Variants[:i], d.Product.Variants[i+1:]...)
			d.touch()
			return nil
		}
	}
	return ErrVariantNotFound
}

// MediaTarget 返回媒体操作作用的变体：
// 处于编辑会话的变体操作其缓冲区（取消编辑可整体回退），
// 其余变体直接操作列表条目。
func (d *Draft) MediaTarget(variantID string) *domain.Variant {
	if d.Editing != nil && d.Editing.VariantID == variantID {
		return &d.Editing.Buffer
	}
	return d.findVariant(variantID)
}

// ProjectMedia 投影变体的合并媒体列表
func (e *Engine) ProjectMedia(d *Draft, variantID string) ([]domain.CombinedMediaItem, error) {
	v := d.MediaTarget(variantID)
	if v == nil {
		return nil, ErrVariantNotFound
	}
	return ProjectMedia(v), nil
}

// MoveMedia 在变体的合并媒体列表上执行一次位置移动
func (e *Engine) MoveMedia(d *Draft, variantID string, from, to int) error {
	v := d.MediaTarget(variantID)
	if v == nil {
		return ErrVariantNotFound
	}
	if err := ApplyMediaOrder(v, from, to); err != nil {
		return err
	}
	d.touch()
	return nil
}

// RemoveMedia 按合并列表下标删除变体媒体
func (e *Engine) RemoveMedia(d *Draft, variantID string, index int) error {
	v := d.MediaTarget(variantID)
	if v == nil {
		return ErrVariantNotFound
	}
	if err := RemoveMediaAt(v, index); err != nil {
		return err
	}
	d.touch()
	return nil
}

// AppendVariantMedia 将已分类的媒体引用追加到变体
func (e *Engine) AppendVariantMedia(d *Draft, variantID string, kind domain.MediaKind, ref domain.MediaRef) error {
	v := d.MediaTarget(variantID)
	if v == nil {
		return ErrVariantNotFound
	}
	AppendMedia(v, kind, ref)
	d.touch()
	return nil
}

// CanSubmit 提交门禁：标题、分类、至少一个变体。
// 失败时错误信息列出所有未满足的条件；不存在部分保存路径。
func (e *Engine) CanSubmit(d *Draft) error {
	var missing []string
	if strings.TrimSpace(d.Product.Title) == "" {
		missing = append(missing, "title is required")
	}
	if strings.TrimSpace(d.Product.Category) == "" {
		missing = append(missing, "category is required")
	}
	if len(d.Product.Variants) == 0 {
		missing = append(missing, "at least one variant is required")
	}
	if len(missing) > 0 {
		return NewValidationError("product", strings.Join(missing, "; "))
	}
	return nil
}

// BuildPayload 组装整体提交载荷。
// 编辑模式沿用持久化ID与现有状态；新建商品分配本地临时ID
// （提交成功后由后端返回的ID替换），状态默认 Active。
func (e *Engine) BuildPayload(d *Draft) *domain.Product {
	payload := d.Product
	payload.Variants = cloneVariants(d.Product.Variants)
	if !d.IsExisting {
		payload.ID = "tmp-" + uuid.New().String()
		payload.Status = domain.ProductStatusActive
	}
	return &payload
}

// findVariant 按ID查找列表中的变体
func (d *Draft) findVariant(variantID string) *domain.Variant {
	for i := range d.Product.Variants {
		if d.Product.Variants[i].ID == variantID {
			return &d.Product.Variants[i]
		}
	}
	return nil
}

func (d *Draft) touch() {
	d.UpdatedAt = time.Now()
}

// cloneVariant 深拷贝变体（媒体切片独立），编辑缓冲依赖该隔离性
func cloneVariant(v domain.Variant) domain.Variant {
	c := v
	c.Images = append([]domain.MediaRef{}, v.Images...)
	c.Videos = append([]domain.MediaRef{}, v.Videos...)
	return c
}

func cloneVariants(variants []domain.Variant) []domain.Variant {
	result := make([]domain.Variant, len(variants))
	for i, v := range variants {
		result[i] = cloneVariant(v)
	}
	return result
}
