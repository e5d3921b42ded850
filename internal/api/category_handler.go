package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/middleware"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/resp"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/service"
)

// CategoryHandler 分类树HTTP处理器。
// 所有写操作返回刷新后的完整分类树。
type CategoryHandler struct {
	categories service.CategoryService
	logger     *zap.Logger
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(categories service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// Tree 处理 GET /api/v1/categories
func (h *CategoryHandler) Tree(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	tree, err := h.categories.Tree(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, reqID, "list categories", err)
		return
	}
	resp.OK(w, tree, reqID, "")
}

// Create 处理 POST /api/v1/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var in domain.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	tree, err := h.categories.CreateCategory(r.Context(), &in)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "create category", err)
		return
	}

	h.logger.Info("category created", zap.String("request_id", reqID), zap.String("name", in.Name))
	resp.OK(w, tree, reqID, "")
}

// Update 处理 PUT /api/v1/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing category id", reqID, "")
		return
	}

	var in domain.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	tree, err := h.categories.UpdateCategory(r.Context(), id, &in)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "update category", err)
		return
	}
	resp.OK(w, tree, reqID, "")
}

// Delete 处理 DELETE /api/v1/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing category id", reqID, "")
		return
	}

	tree, err := h.categories.DeleteCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "delete category", err)
		return
	}

	h.logger.Info("category deleted", zap.String("request_id", reqID), zap.String("category_id", id))
	resp.OK(w, tree, reqID, "")
}

// CascadeWarning 处理 GET /api/v1/categories/{id}/cascade-warning
func (h *CategoryHandler) CascadeWarning(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing category id", reqID, "")
		return
	}

	warning, err := h.categories.CascadeWarning(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "cascade warning", err)
		return
	}
	resp.OK(w, warning, reqID, "")
}

// CreateSubcategory 处理 POST /api/v1/categories/{id}/subcategories
func (h *CategoryHandler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	parentID, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing category id", reqID, "")
		return
	}

	var in domain.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	tree, err := h.categories.CreateSubcategory(r.Context(), parentID, &in)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "create subcategory", err)
		return
	}

	h.logger.Info("subcategory created",
		zap.String("request_id", reqID),
		zap.String("parent_id", parentID),
		zap.String("name", in.Name))
	resp.OK(w, tree, reqID, "")
}

// UpdateSubcategory 处理 PUT /api/v1/categories/{id}/subcategories/{sid}
func (h *CategoryHandler) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	parentID, subID, ok := categorySubIDs(r)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing category or subcategory id", reqID, "")
		return
	}

	var in domain.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	tree, err := h.categories.UpdateSubcategory(r.Context(), parentID, subID, &in)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "update subcategory", err)
		return
	}
	resp.OK(w, tree, reqID, "")
}

// DeleteSubcategory 处理 DELETE /api/v1/categories/{id}/subcategories/{sid}
func (h *CategoryHandler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	parentID, subID, ok := categorySubIDs(r)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing category or subcategory id", reqID, "")
		return
	}

	tree, err := h.categories.DeleteSubcategory(r.Context(), parentID, subID)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "delete subcategory", err)
		return
	}

	h.logger.Info("subcategory deleted",
		zap.String("request_id", reqID),
		zap.String("parent_id", parentID),
		zap.String("subcategory_id", subID))
	resp.OK(w, tree, reqID, "")
}

// categorySubIDs 提取 /api/v1/categories/{id}/subcategories/{sid} 中的两个ID
func categorySubIDs(r *http.Request) (parentID, subID string, ok bool) {
	parentID, ok = pathSegment(r, 4)
	if !ok {
		return "", "", false
	}
	subID, ok = pathSegment(r, 6)
	if !ok {
		return "", "", false
	}
	return parentID, subID, true
}
