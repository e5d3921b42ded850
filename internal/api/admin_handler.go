package api

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/middleware"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/resp"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/service"
)

// AdminHandler 管理端商品/订单透传接口处理器
type AdminHandler struct {
	admin  service.AdminService
	logger *zap.Logger
}

// NewAdminHandler 创建管理端处理器
func NewAdminHandler(admin service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// StatusRequest 商品/订单状态变更请求体
type StatusRequest struct {
	Status string `json:"status"`
}

// UploadResponse 独立上传接口的返回体
type UploadResponse struct {
	Path string `json:"path"`
}

// ListProducts 处理 GET /api/v1/products
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	products, err := h.admin.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, reqID, "list products", err)
		return
	}
	resp.OK(w, products, reqID, "")
}

// SetProductStatus 处理 PUT /api/v1/products/{id}/status
func (h *AdminHandler) SetProductStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing product id", reqID, "")
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	if err := h.admin.SetProductStatus(r.Context(), id, domain.ProductStatus(req.Status)); err != nil {
		writeServiceError(w, h.logger, reqID, "set product status", err)
		return
	}

	h.logger.Info("product status changed",
		zap.String("request_id", reqID),
		zap.String("product_id", id),
		zap.String("status", req.Status))
	resp.OK(w, nil, reqID, "")
}

// ListOrders 处理 GET /api/v1/orders
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	orders, err := h.admin.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, reqID, "list orders", err)
		return
	}
	resp.OK(w, orders, reqID, "")
}

// UpdateOrderStatus 处理 PUT /api/v1/orders/{id}/status
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing order id", reqID, "")
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	order, err := h.admin.UpdateOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "update order status", err)
		return
	}
	resp.OK(w, order, reqID, "")
}

// Upload 处理 POST /api/v1/upload，multipart 表单字段 file 单文件
func (h *AdminHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid multipart form", reqID, "")
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing file in upload", reqID, "")
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "unreadable file: "+fh.Filename, reqID, "")
		return
	}

	path, err := h.admin.Upload(r.Context(), fh.Filename, data)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "upload file", err)
		return
	}

	h.logger.Info("file uploaded",
		zap.String("request_id", reqID),
		zap.String("filename", fh.Filename),
		zap.String("path", path))
	resp.OK(w, UploadResponse{Path: path}, reqID, "")
}
