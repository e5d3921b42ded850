// Package api 提供商品草稿组合相关的HTTP API处理器实现。
package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/backend"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/catalog"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/resp"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/service"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/session"
)

// writeServiceError 将业务层错误映射为统一响应。
// 校验类错误消息原样透出（供管理端表单展示），
// 协作方错误透出其消息并映射502，未识别错误统一500。
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, reqID, op string, err error) {
	var ce *backend.CollaboratorError

	switch {
	case errors.Is(err, session.ErrDraftNotFound):
		resp.Error(w, http.StatusNotFound, resp.CodeInvalidParam, "draft not found", reqID, "")
	case errors.Is(err, catalog.ErrVariantNotFound):
		resp.Error(w, http.StatusNotFound, resp.CodeInvalidParam, "variant not found", reqID, "")
	case errors.Is(err, catalog.ErrNotEditing):
		resp.Error(w, http.StatusConflict, resp.CodeInvalidParam, "no edit session for this variant", reqID, "")
	case errors.Is(err, catalog.ErrIndexOutOfRange):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "media index out of range", reqID, "")
	case errors.Is(err, service.ErrSubmitInFlight):
		resp.Error(w, http.StatusConflict, resp.CodeInvalidParam, "submit already in flight", reqID, "")
	case catalog.IsDuplicateNameError(err):
		resp.Error(w, http.StatusConflict, resp.CodeInvalidParam, err.Error(), reqID, "")
	case catalog.IsValidationError(err):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
	case errors.As(err, &ce):
		logger.Warn(op+" failed upstream", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadGateway, resp.CodeUpstreamError, ce.Message, reqID, "")
	default:
		logger.Error(op+" failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, op+" failed", reqID, "")
	}
}
