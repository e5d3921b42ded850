// Package session 提供草稿会话的存储与提交互斥。
// 每个草稿属于唯一的编辑会话；存储仅作为会话生命周期内的
// 暂存，提交成功或放弃后即删除。
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/cache"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/catalog"
)

// 存储键模板
const (
	// 草稿键: draft:{draft_id}
	draftKeyTemplate = "draft:%s"
	// 提交锁键: draft:submit_lock:{draft_id}
	submitLockKeyTemplate = "draft:submit_lock:%s"
	// 暂存媒体键: draft:media:{draft_id}:{upload_id}
	stagedMediaKeyTemplate = "draft:media:%s:%s"
)

// 提交锁的保护时长。锁在提交结束后主动释放，
// TTL 仅兜底进程异常退出的情况。
const submitLockTTL = 2 * time.Minute

// ErrDraftNotFound 草稿不存在或已过期
var ErrDraftNotFound = errors.New("draft not found")

// ErrStagedMediaNotFound 暂存媒体不存在或已过期
var ErrStagedMediaNotFound = errors.New("staged media not found")

// StagedMedia 会话内暂存、尚未持久化到后端的上传文件。
// 提交时统一上传换取持久化路径。
type StagedMedia struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Store 定义草稿会话存储接口
type Store interface {
	Get(ctx context.Context, draftID string) (*catalog.Draft, error)
	Put(ctx context.Context, draft *catalog.Draft) error
	Delete(ctx context.Context, draftID string) error

	// PutMedia 暂存一个上传文件，与草稿同生命周期
	PutMedia(ctx context.Context, draftID, uploadID string, m *StagedMedia) error
	GetMedia(ctx context.Context, draftID, uploadID string) (*StagedMedia, error)
	DeleteMedia(ctx context.Context, draftID string, uploadIDs ...string) error

	// AcquireSubmitLock 获取草稿的提交互斥锁；
	// 已有提交在途时返回 false。
	AcquireSubmitLock(ctx context.Context, draftID string) (bool, error)
	ReleaseSubmitLock(ctx context.Context, draftID string) error
}

// cacheStore 基于缓存层的存储实现
type cacheStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewStore 创建草稿会话存储。ttl 为草稿的闲置过期时间，
// 每次写回都会续期。
func NewStore(c cache.Cache, ttl time.Duration) Store {
	return &cacheStore{cache: c, ttl: ttl}
}

// Get 读取草稿
func (s *cacheStore) Get(ctx context.Context, draftID string) (*catalog.Draft, error) {
	var draft catalog.Draft
	err := s.cache.Get(ctx, draftKey(draftID), &draft)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("get draft %s: %w", draftID, err)
	}
	return &draft, nil
}

// Put 写回草稿并续期
func (s *cacheStore) Put(ctx context.Context, draft *catalog.Draft) error {
	if err := s.cache.Set(ctx, draftKey(draft.ID), draft, s.ttl); err != nil {
		return fmt.Errorf("put draft %s: %w", draft.ID, err)
	}
	return nil
}

// Delete 删除草稿（提交成功或放弃时）
func (s *cacheStore) Delete(ctx context.Context, draftID string) error {
	if err := s.cache.Del(ctx, draftKey(draftID)); err != nil {
		return fmt.Errorf("delete draft %s: %w", draftID, err)
	}
	return nil
}

// PutMedia 暂存上传文件
func (s *cacheStore) PutMedia(ctx context.Context, draftID, uploadID string, m *StagedMedia) error {
	if err := s.cache.Set(ctx, stagedMediaKey(draftID, uploadID), m, s.ttl); err != nil {
		return fmt.Errorf("put staged media %s/%s: %w", draftID, uploadID, err)
	}
	return nil
}

// GetMedia 读取暂存的上传文件
func (s *cacheStore) GetMedia(ctx context.Context, draftID, uploadID string) (*StagedMedia, error) {
	var m StagedMedia
	err := s.cache.Get(ctx, stagedMediaKey(draftID, uploadID), &m)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrStagedMediaNotFound
		}
		return nil, fmt.Errorf("get staged media %s/%s: %w", draftID, uploadID, err)
	}
	return &m, nil
}

// DeleteMedia 删除暂存文件（提交成功或放弃草稿时）
func (s *cacheStore) DeleteMedia(ctx context.Context, draftID string, uploadIDs ...string) error {
	if len(uploadIDs) == 0 {
		return nil
	}
	keys := make([]string, len(uploadIDs))
	for i, id := range uploadIDs {
		keys[i] = stagedMediaKey(draftID, id)
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		return fmt.Errorf("delete staged media for draft %s: %w", draftID, err)
	}
	return nil
}

// AcquireSubmitLock 获取提交互斥锁
func (s *cacheStore) AcquireSubmitLock(ctx context.Context, draftID string) (bool, error) {
	ok, err := s.cache.SetNX(ctx, submitLockKey(draftID), time.Now().Unix(), submitLockTTL)
	if err != nil {
		return false, fmt.Errorf("acquire submit lock for draft %s: %w", draftID, err)
	}
	return ok, nil
}

// ReleaseSubmitLock 释放提交互斥锁
func (s *cacheStore) ReleaseSubmitLock(ctx context.Context, draftID string) error {
	if err := s.cache.Del(ctx, submitLockKey(draftID)); err != nil {
		return fmt.Errorf("release submit lock for draft %s: %w", draftID, err)
	}
	return nil
}

func draftKey(id string) string {
	return fmt.Sprintf(draftKeyTemplate, id)
}

func submitLockKey(id string) string {
	return fmt.Sprintf(submitLockKeyTemplate, id)
}

func stagedMediaKey(draftID, uploadID string) string {
	return fmt.Sprintf(stagedMediaKeyTemplate, draftID, uploadID)
}
