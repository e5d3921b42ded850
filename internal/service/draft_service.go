// Package service 实现业务编排层：草稿会话、分类树维护与管理端代理。
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/backend"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/catalog"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/event"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/media"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/session"
)

// ErrSubmitInFlight 同一草稿已有一次提交在途
var ErrSubmitInFlight = errors.New("submit already in flight for this draft")

// UploadFile 一个待追加到变体的上传文件
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadReport 批量上传的处理结果。
// Skipped 列出被静默丢弃的文件名（无法判定媒体类型或图片不可解码）。
type UploadReport struct {
	Draft   *catalog.Draft `json:"draft"`
	Added   int            `json:"added"`
	Skipped []string       `json:"skipped"`
}

// DraftService 草稿会话编排接口
type DraftService interface {
	Create(ctx context.Context, productID string) (*catalog.Draft, error)
	Get(ctx context.Context, draftID string) (*catalog.Draft, error)
	Discard(ctx context.Context, draftID string) error
	UpdateFields(ctx context.Context, draftID string, in *domain.ProductFieldsInput) (*catalog.Draft, error)

	AddVariant(ctx context.Context, draftID string, in *domain.VariantInput) (*catalog.Draft, error)
	StartEdit(ctx context.Context, draftID, variantID string) (*catalog.Draft, error)
	SaveEdit(ctx context.Context, draftID, variantID string, in *domain.VariantInput) (*catalog.Draft, error)
	CancelEdit(ctx context.Context, draftID string) (*catalog.Draft, error)
	RemoveVariant(ctx context.Context, draftID, variantID string) (*catalog.Draft, error)

	ProjectMedia(ctx context.Context, draftID, variantID string) ([]domain.CombinedMediaItem, error)
	MoveMedia(ctx context.Context, draftID, variantID string, from, to int) ([]domain.CombinedMediaItem, error)
	RemoveMedia(ctx context.Context, draftID, variantID string, index int) ([]domain.CombinedMediaItem, error)
	AppendUploads(ctx context.Context, draftID, variantID string, files []UploadFile) (*UploadReport, error)

	Submit(ctx context.Context, draftID string) (*domain.Product, error)
	Options() (sizes, colors []domain.CatalogOption)
}

// draftService DraftService 的默认实现
type draftService struct {
	engine    *catalog.Engine
	store     session.Store
	backend   backend.API
	pipeline  *media.Pipeline
	publisher event.Publisher
	logger    *zap.Logger

	// rejectUnknownMedia 开启后无法分类的上传返回错误而不是静默丢弃
	rejectUnknownMedia bool
}

// DraftServiceOptions 草稿服务装配参数
type DraftServiceOptions struct {
	Engine             *catalog.Engine
	Store              session.Store
	Backend            backend.API
	Pipeline           *media.Pipeline
	Publisher          event.Publisher
	Logger             *zap.Logger
	RejectUnknownMedia bool
}

// NewDraftService 创建草稿服务
func NewDraftService(opts DraftServiceOptions) DraftService {
	if opts.Publisher == nil {
		opts.Publisher = event.NullPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &draftService{
		engine:             opts.Engine,
		store:              opts.Store,
		backend:            opts.Backend,
		pipeline:           opts.Pipeline,
		publisher:          opts.Publisher,
		logger:             opts.Logger,
		rejectUnknownMedia: opts.RejectUnknownMedia,
	}
}

// Create 新建草稿会话。productID 非空时从已持久化商品播种（编辑模式）。
func (s *draftService) Create(ctx context.Context, productID string) (*catalog.Draft, error) {
	var seed *domain.Product
	if productID != "" {
		p, err := s.backend.GetProduct(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("load product for draft: %w", err)
		}
		seed = p
	}

	draft := s.engine.NewDraft(seed)
	if err := s.store.Put(ctx, draft); err != nil {
		return nil, fmt.Errorf("store draft: %w", err)
	}

	s.logger.Info("draft created",
		zap.String("draft_id", draft.ID),
		zap.String("product_id", productID),
		zap.Bool("is_existing", draft.IsExisting),
	)
	return draft, nil
}

// Get 读取草稿会话
func (s *draftService) Get(ctx context.Context, draftID string) (*catalog.Draft, error) {
	return s.store.Get(ctx, draftID)
}

// Discard 放弃草稿，会话内所有变更与暂存媒体随之丢弃
func (s *draftService) Discard(ctx context.Context, draftID string) error {
	draft, err := s.store.Get(ctx, draftID)
	if err != nil {
		return err
	}
	if ids := stagedUploadIDs(draft); len(ids) > 0 {
		if err := s.store.DeleteMedia(ctx, draftID, ids...); err != nil {
			s.logger.Warn("delete staged media on discard", zap.String("draft_id", draftID), zap.Error(err))
		}
	}
	return s.store.Delete(ctx, draftID)
}

// UpdateFields 更新商品顶层字段
func (s *draftService) UpdateFields(ctx context.Context, draftID string, in *domain.ProductFieldsInput) (*catalog.Draft, error) {
	return s.mutate(ctx, draftID, func(d *catalog.Draft) error {
		s.engine.UpdateFields(d, in)
		return nil
	})
}

// AddVariant 从组合区输入新增变体
func (s *draftService) AddVariant(ctx context.Context, draftID string, in *domain.VariantInput) (*catalog.Draft, error) {
	return s.mutate(ctx, draftID, func(d *catalog.Draft) error {
		_, err := s.engine.AddVariant(d, in)
		return err
	})
}

// StartEdit 开启变体编辑会话
func (s *draftService) StartEdit(ctx context.Context, draftID, variantID string) (*catalog.Draft, error) {
	return s.mutate(ctx, draftID, func(d *catalog.Draft) error {
		_, err := s.engine.StartEdit(d, variantID)
		return err
	})
}

// SaveEdit 保存编辑缓冲
func (s *draftService) SaveEdit(ctx context.Context, draftID, variantID string, in *domain.VariantInput) (*catalog.Draft, error) {
	return s.mutate(ctx, draftID, func(d *catalog.Draft) error {
		_, err := s.engine.SaveEdit(d, variantID, in)
		return err
	})
}

// CancelEdit 取消编辑会话
func (s *draftService) CancelEdit(ctx context.Context, draftID string) (*catalog.Draft, error) {
	return s.mutate(ctx, draftID, func(d *catalog.Draft) error {
		s.engine.CancelEdit(d)
		return nil
	})
}

// RemoveVariant 删除变体
func (s *draftService) RemoveVariant(ctx context.Context, draftID, variantID string) (*catalog.Draft, error) {
	return s.mutate(ctx, draftID, func(d *catalog.Draft) error {
		return s.engine.RemoveVariant(d, variantID)
	})
}

// ProjectMedia 投影变体的合并媒体列表
func (s *draftService) ProjectMedia(ctx context.Context, draftID, variantID string) ([]domain.CombinedMediaItem, error) {
	draft, err := s.store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return s.engine.ProjectMedia(draft, variantID)
}

// MoveMedia 移动媒体位置并返回重排后的合并列表
func (s *draftService) MoveMedia(ctx context.Context, draftID, variantID string, from, to int) ([]domain.CombinedMediaItem, error) {
	draft, err := s.mutate(ctx, draftID, func(d *catalog.Draft) error {
		return s.engine.MoveMedia(d, variantID, from, to)
	})
	if err != nil {
		return nil, err
	}
	return s.engine.ProjectMedia(draft, variantID)
}

// RemoveMedia 删除媒体并返回剩余的合并列表
func (s *draftService) RemoveMedia(ctx context.Context, draftID, variantID string, index int) ([]domain.CombinedMediaItem, error) {
	draft, err := s.mutate(ctx, draftID, func(d *catalog.Draft) error {
		return s.engine.RemoveMedia(d, variantID, index)
	})
	if err != nil {
		return nil, err
	}
	return s.engine.ProjectMedia(draft, variantID)
}

// AppendUploads 批量追加上传文件到变体。
// 每个文件先分类（声明类型→扩展名→字节嗅探），图片经管线归一化，
// 随后作为会话内暂存文件以上传ID引用，提交草稿时才统一持久化到后端。
// 无法分类的文件默认静默丢弃并在 Skipped 中上报。
func (s *draftService) AppendUploads(ctx context.Context, draftID, variantID string, files []UploadFile) (*UploadReport, error) {
	draft, err := s.store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.MediaTarget(variantID) == nil {
		return nil, catalog.ErrVariantNotFound
	}

	report := &UploadReport{Skipped: []string{}}
	for _, f := range files {
		kind, ok := catalog.ClassifyMedia(f.Filename, f.ContentType, f.Data)
		if !ok {
			if s.rejectUnknownMedia {
				return nil, catalog.NewValidationError("file", "unsupported media type: "+f.Filename)
			}
			report.Skipped = append(report.Skipped, f.Filename)
			continue
		}

		payload := f.Data
		contentType := f.ContentType
		if kind == domain.MediaKindImage {
			processed, err := s.pipeline.Process(f.Filename, f.Data)
			if err != nil {
				if s.rejectUnknownMedia {
					return nil, catalog.NewValidationError("file", "undecodable image: "+f.Filename)
				}
				report.Skipped = append(report.Skipped, f.Filename)
				continue
			}
			payload = processed.Data
			contentType = processed.ContentType
		}

		uploadID := uuid.New().String()
		staged := &session.StagedMedia{Filename: f.Filename, ContentType: contentType, Data: payload}
		if err := s.store.PutMedia(ctx, draftID, uploadID, staged); err != nil {
			return nil, fmt.Errorf("stage media: %w", err)
		}

		if err := s.engine.AppendVariantMedia(draft, variantID, kind, domain.UploadedRef(uploadID)); err != nil {
			return nil, err
		}
		report.Added++
	}

	if report.Added > 0 {
		if err := s.store.Put(ctx, draft); err != nil {
			return nil, fmt.Errorf("store draft: %w", err)
		}
	}

	report.Draft = draft
	return report, nil
}

// Submit 整体提交草稿。
// 提交门禁通过后获取单飞锁，同一草稿同一时刻只允许一次在途提交；
// 暂存媒体在此时统一上传换取持久化路径；
// 后端保存成功才删除草稿会话，失败时草稿原样保留。
func (s *draftService) Submit(ctx context.Context, draftID string) (*domain.Product, error) {
	draft, err := s.store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if err := s.engine.CanSubmit(draft); err != nil {
		return nil, err
	}

	acquired, err := s.store.AcquireSubmitLock(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", err)
	}
	if !acquired {
		return nil, ErrSubmitInFlight
	}
	defer func() {
		if err := s.store.ReleaseSubmitLock(ctx, draftID); err != nil {
			s.logger.Warn("release submit lock", zap.String("draft_id", draftID), zap.Error(err))
		}
	}()

	persisted, err := s.persistStagedMedia(ctx, draft)
	if err != nil {
		// 已换到持久化路径的引用写回会话，重试时不重复上传
		if perr := s.store.Put(ctx, draft); perr != nil {
			s.logger.Warn("store draft after partial media persist", zap.String("draft_id", draftID), zap.Error(perr))
		}
		return nil, err
	}

	payload := s.engine.BuildPayload(draft)

	var saved *domain.Product
	if draft.IsExisting {
		saved, err = s.backend.UpdateProduct(ctx, payload.ID, payload)
	} else {
		saved, err = s.backend.CreateProduct(ctx, payload)
	}
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	if err := s.store.Delete(ctx, draftID); err != nil {
		s.logger.Warn("delete draft after submit", zap.String("draft_id", draftID), zap.Error(err))
	}
	if err := s.store.DeleteMedia(ctx, draftID, persisted...); err != nil {
		s.logger.Warn("delete staged media after submit", zap.String("draft_id", draftID), zap.Error(err))
	}

	s.publishSubmitted(ctx, draft, saved)

	s.logger.Info("draft submitted",
		zap.String("draft_id", draftID),
		zap.String("product_id", saved.ID),
		zap.Int("variants", len(saved.Variants)),
		zap.Bool("is_update", draft.IsExisting),
	)
	return saved, nil
}

// Options 返回引擎使用的尺码/颜色目录
func (s *draftService) Options() (sizes, colors []domain.CatalogOption) {
	return s.engine.Sizes(), s.engine.Colors()
}

// persistStagedMedia 把草稿内所有上传ID引用换成持久化URL引用。
// 逐个上传，成功即原位替换；中途失败时已替换的引用保留，
// 返回已持久化引用对应的上传ID供提交成功后清理暂存。
func (s *draftService) persistStagedMedia(ctx context.Context, draft *catalog.Draft) ([]string, error) {
	var persisted []string
	for i := range draft.Product.Variants {
		v := &draft.Product.Variants[i]
		for _, refs := range [][]domain.MediaRef{v.Images, v.Videos} {
			for j := range refs {
				if refs[j].IsPersisted() {
					continue
				}
				uploadID := refs[j].UploadID
				staged, err := s.store.GetMedia(ctx, draft.ID, uploadID)
				if err != nil {
					if errors.Is(err, session.ErrStagedMediaNotFound) {
						return persisted, catalog.NewValidationError("media", "staged file expired, re-upload required")
					}
					return persisted, fmt.Errorf("load staged media: %w", err)
				}
				path, err := s.backend.Upload(ctx, staged.Filename, staged.ContentType, staged.Data)
				if err != nil {
					return persisted, fmt.Errorf("upload media: %w", err)
				}
				refs[j] = domain.PersistedRef(path)
				persisted = append(persisted, uploadID)
			}
		}
	}
	return persisted, nil
}

// stagedUploadIDs 收集草稿（含编辑缓冲）尚未持久化的上传ID
func stagedUploadIDs(draft *catalog.Draft) []string {
	var ids []string
	collect := func(refs []domain.MediaRef) {
		for _, r := range refs {
			if !r.IsPersisted() {
				ids = append(ids, r.UploadID)
			}
		}
	}
	for i := range draft.Product.Variants {
		collect(draft.Product.Variants[i].Images)
		collect(draft.Product.Variants[i].Videos)
	}
	if draft.Editing != nil {
		collect(draft.Editing.Buffer.Images)
		collect(draft.Editing.Buffer.Videos)
	}
	return ids
}

// mutate Get-修改-Put 的公共骨架。操作失败时不回写，草稿保持原状。
func (s *draftService) mutate(ctx context.Context, draftID string, fn func(*catalog.Draft) error) (*catalog.Draft, error) {
	draft, err := s.store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, draft); err != nil {
		return nil, fmt.Errorf("store draft: %w", err)
	}
	return draft, nil
}

// publishSubmitted 发布提交事件，失败只记日志不影响主流程
func (s *draftService) publishSubmitted(ctx context.Context, draft *catalog.Draft, saved *domain.Product) {
	evt := event.DraftSubmitted{
		DraftID:      draft.ID,
		ProductID:    saved.ID,
		Title:        saved.Title,
		Category:     saved.Category,
		VariantCount: len(saved.Variants),
		IsUpdate:     draft.IsExisting,
		SubmittedAt:  time.Now(),
	}
	if err := s.publisher.PublishDraftSubmitted(ctx, evt); err != nil {
		s.logger.Warn("publish draft submitted event", zap.String("draft_id", draft.ID), zap.Error(err))
	}
}
