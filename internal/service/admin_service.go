package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/backend"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/media"
)

// AdminService 管理端透传操作：商品列表/状态、订单、独立上传。
// 这些操作不持有本地状态，仅代理到后端。
type AdminService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	SetProductStatus(ctx context.Context, id string, status domain.ProductStatus) error
	ListOrders(ctx context.Context) (json.RawMessage, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (json.RawMessage, error)
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

type adminService struct {
	backend  backend.API
	pipeline *media.Pipeline
	logger   *zap.Logger
}

// NewAdminService 创建管理端透传服务
func NewAdminService(api backend.API, pipeline *media.Pipeline, logger *zap.Logger) AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &adminService{backend: api, pipeline: pipeline, logger: logger}
}

// ListProducts 商品列表
func (s *adminService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.backend.ListProducts(ctx)
}

// SetProductStatus 切换商品上下架状态
func (s *adminService) SetProductStatus(ctx context.Context, id string, status domain.ProductStatus) error {
	if status != domain.ProductStatusActive && status != domain.ProductStatusInactive {
		return fmt.Errorf("invalid product status: %s", status)
	}
	if err := s.backend.UpdateProductStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info("product status updated", zap.String("product_id", id), zap.String("status", string(status)))
	return nil
}

// ListOrders 订单列表（原样透传）
func (s *adminService) ListOrders(ctx context.Context) (json.RawMessage, error) {
	return s.backend.ListOrders(ctx)
}

// UpdateOrderStatus 更新订单状态
func (s *adminService) UpdateOrderStatus(ctx context.Context, id, status string) (json.RawMessage, error) {
	return s.backend.UpdateOrderStatus(ctx, id, status)
}

// Upload 独立文件上传：经媒体管线校验归一化后代理到后端
func (s *adminService) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	processed, err := s.pipeline.Process(filename, data)
	if err != nil {
		return "", err
	}
	return s.backend.Upload(ctx, processed.Filename, processed.ContentType, processed.Data)
}
