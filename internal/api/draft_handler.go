package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/middleware"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/resp"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/service"
)

// maxUploadMemory 多文件上传表单解析的内存上限
const maxUploadMemory = 64 << 20

// DraftHandler 草稿会话HTTP处理器
type DraftHandler struct {
	drafts service.DraftService
	logger *zap.Logger
}

// NewDraftHandler 创建草稿处理器
func NewDraftHandler(drafts service.DraftService, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{drafts: drafts, logger: logger}
}

// CreateDraftRequest 创建草稿请求体。
// ProductID 非空时以既有商品为种子进入编辑模式。
type CreateDraftRequest struct {
	ProductID string `json:"product_id"`
}

// MoveMediaRequest 合并媒体序列的移动请求
type MoveMediaRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// OptionsResponse 尺码/颜色目录选项
type OptionsResponse struct {
	Sizes  []domain.CatalogOption `json:"sizes"`
	Colors []domain.CatalogOption `json:"colors"`
}

// Create 处理 POST /api/v1/drafts
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req CreateDraftRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
			return
		}
	}

	draft, err := h.drafts.Create(r.Context(), req.ProductID)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "create draft", err)
		return
	}

	h.logger.Info("draft created",
		zap.String("request_id", reqID),
		zap.String("draft_id", draft.ID),
		zap.String("product_id", req.ProductID))
	resp.OK(w, draft, reqID, "")
}

// Get 处理 GET /api/v1/drafts/{id}
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft id", reqID, "")
		return
	}

	draft, err := h.drafts.Get(r.Context(), draftID)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "get draft", err)
		return
	}
	resp.OK(w, draft, reqID, "")
}

// Discard 处理 DELETE /api/v1/drafts/{id}
func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft id", reqID, "")
		return
	}

	if err := h.drafts.Discard(r.Context(), draftID); err != nil {
		writeServiceError(w, h.logger, reqID, "discard draft", err)
		return
	}

	h.logger.Info("draft discarded", zap.String("request_id", reqID), zap.String("draft_id", draftID))
	resp.OK(w, nil, reqID, "")
}

// UpdateFields 处理 PUT /api/v1/drafts/{id}/fields
func (h *DraftHandler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft id", reqID, "")
		return
	}

	var in domain.ProductFieldsInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	draft, err := h.drafts.UpdateFields(r.Context(), draftID, &in)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "update draft fields", err)
		return
	}
	resp.OK(w, draft, reqID, "")
}

// AddVariant 处理 POST /api/v1/drafts/{id}/variants
func (h *DraftHandler) AddVariant(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft id", reqID, "")
		return
	}

	var in domain.VariantInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	draft, err := h.drafts.AddVariant(r.Context(), draftID, &in)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "add variant", err)
		return
	}

	h.logger.Info("variant added",
		zap.String("request_id", reqID),
		zap.String("draft_id", draftID),
		zap.Int("variant_count", len(draft.Product.Variants)))
	resp.OK(w, draft, reqID, "")
}

// StartEdit 处理 POST /api/v1/drafts/{id}/variants/{vid}/edit
func (h *DraftHandler) StartEdit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, variantID, ok := draftVariantIDs(r)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft or variant id", reqID, "")
		return
	}

	draft, err := h.drafts.StartEdit(r.Context(), draftID, variantID)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "start variant edit", err)
		return
	}
	resp.OK(w, draft, reqID, "")
}

// SaveEdit 处理 PUT /api/v1/drafts/{id}/variants/{vid}
func (h *DraftHandler) SaveEdit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, variantID, ok := draftVariantIDs(r)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft or variant id", reqID, "")
		return
	}

	var in domain.VariantInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	draft, err := h.drafts.SaveEdit(r.Context(), draftID, variantID, &in)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "save variant edit", err)
		return
	}
	resp.OK(w, draft, reqID, "")
}

// CancelEdit 处理 POST /api/v1/drafts/{id}/variants/{vid}/cancel-edit。
// 编辑会话在草稿级别至多一个，路径中的变体ID仅用于寻址。
func (h *DraftHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft id", reqID, "")
		return
	}

	draft, err := h.drafts.CancelEdit(r.Context(), draftID)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "cancel variant edit", err)
		return
	}
	resp.OK(w, draft, reqID, "")
}

// RemoveVariant 处理 DELETE /api/v1/drafts/{id}/variants/{vid}
func (h *DraftHandler) RemoveVariant(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, variantID, ok := draftVariantIDs(r)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft or variant id", reqID, "")
		return
	}

	draft, err := h.drafts.RemoveVariant(r.Context(), draftID, variantID)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "remove variant", err)
		return
	}

	h.logger.Info("variant removed",
		zap.String("request_id", reqID),
		zap.String("draft_id", draftID),
		zap.String("variant_id", variantID))
	resp.OK(w, draft, reqID, "")
}

// ListMedia 处理 GET /api/v1/drafts/{id}/variants/{vid}/media
func (h *DraftHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, variantID, ok := draftVariantIDs(r)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft or variant id", reqID, "")
		return
	}

	items, err := h.drafts.ProjectMedia(r.Context(), draftID, variantID)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "list variant media", err)
		return
	}
	resp.OK(w, items, reqID, "")
}

// MoveMedia 处理 PUT /api/v1/drafts/{id}/variants/{vid}/media/order
func (h *DraftHandler) MoveMedia(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, variantID, ok := draftVariantIDs(r)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft or variant id", reqID, "")
		return
	}

	var req MoveMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	items, err := h.drafts.MoveMedia(r.Context(), draftID, variantID, req.From, req.To)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "move media", err)
		return
	}
	resp.OK(w, items, reqID, "")
}

// RemoveMedia 处理 DELETE /api/v1/drafts/{id}/variants/{vid}/media/{index}
func (h *DraftHandler) RemoveMedia(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, variantID, ok := draftVariantIDs(r)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft or variant id", reqID, "")
		return
	}

	rawIndex, ok := pathSegment(r, 8)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing media index", reqID, "")
		return
	}
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid media index", reqID, "")
		return
	}

	items, err := h.drafts.RemoveMedia(r.Context(), draftID, variantID, index)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "remove media", err)
		return
	}
	resp.OK(w, items, reqID, "")
}

// UploadMedia 处理 POST /api/v1/drafts/{id}/variants/{vid}/media，
// multipart 表单字段 files 允许多文件。
func (h *DraftHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, variantID, ok := draftVariantIDs(r)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft or variant id", reqID, "")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid multipart form", reqID, "")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "no files in upload", reqID, "")
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "unreadable file: "+fh.Filename, reqID, "")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "unreadable file: "+fh.Filename, reqID, "")
			return
		}
		files = append(files, service.UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	report, err := h.drafts.AppendUploads(r.Context(), draftID, variantID, files)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "upload media", err)
		return
	}

	h.logger.Info("media uploaded",
		zap.String("request_id", reqID),
		zap.String("draft_id", draftID),
		zap.String("variant_id", variantID),
		zap.Int("added", report.Added),
		zap.Int("skipped", len(report.Skipped)))
	resp.OK(w, report, reqID, "")
}

// Submit 处理 POST /api/v1/drafts/{id}/submit
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	draftID, ok := pathSegment(r, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "missing draft id", reqID, "")
		return
	}

	product, err := h.drafts.Submit(r.Context(), draftID)
	if err != nil {
		writeServiceError(w, h.logger, reqID, "submit draft", err)
		return
	}

	h.logger.Info("draft submitted",
		zap.String("request_id", reqID),
		zap.String("draft_id", draftID),
		zap.String("product_id", product.ID))
	resp.OK(w, product, reqID, "")
}

// Options 处理 GET /api/v1/options
func (h *DraftHandler) Options(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	sizes, colors := h.drafts.Options()
	resp.OK(w, OptionsResponse{Sizes: sizes, Colors: colors}, reqID, "")
}

// pathSegment 返回URL路径按"/"切分后的第idx段
func pathSegment(r *http.Request, idx int) (string, bool) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) <= idx || parts[idx] == "" {
		return "", false
	}
	return parts[idx], true
}

// draftVariantIDs 提取 /api/v1/drafts/{id}/variants/{vid}/... 中的两个ID
func draftVariantIDs(r *http.Request) (draftID, variantID string, ok bool) {
	draftID, ok = pathSegment(r, 4)
	if !ok {
		return "", "", false
	}
	variantID, ok = pathSegment(r, 6)
	if !ok {
		return "", "", false
	}
	return draftID, variantID, true
}
