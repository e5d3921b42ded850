// Package backend 实现商城后端（外部协作方）的REST客户端。
// 所有持久化资源归后端所有；本服务只消费其API，
// 响应统一为 { data?, error? } 信封。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/config"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
)

// CollaboratorError 外部协作方调用失败（网络错误或非2xx响应）。
// 调用方放弃本次操作并原样呈现消息，本地状态不做任何变更。
type CollaboratorError struct {
	StatusCode int
	Message    string
}

func (e *CollaboratorError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend unreachable: %s", e.Message)
}

// IsCollaboratorError 判断错误是否来自外部协作方
func IsCollaboratorError(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}

// envelope 后端响应信封
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// API 定义商品组合服务依赖的后端操作集合
type API interface {
	// 商品
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p *domain.Product) (*domain.Product, error)
	UpdateProductStatus(ctx context.Context, id string, status domain.ProductStatus) error

	// 分类树
	GetCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in *domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in *domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	CreateSubcategory(ctx context.Context, parentID string, in *domain.CategoryInput) (*domain.Subcategory, error)
	UpdateSubcategory(ctx context.Context, parentID, id string, in *domain.CategoryInput) (*domain.Subcategory, error)
	DeleteSubcategory(ctx context.Context, parentID, id string) error

	// 订单（管理端透传）
	ListOrders(ctx context.Context) (json.RawMessage, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (json.RawMessage, error)

	// 文件上传，返回后端相对路径
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Client API接口的HTTP实现
type Client struct {
	baseURL      string
	httpClient   *http.Client
	uploadClient *http.Client
	logger       *zap.Logger
}

var _ API = (*Client)(nil)

// New 创建后端客户端实例
func New(cfg config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		uploadClient: &http.Client{Timeout: cfg.UploadTimeout},
		logger:       logger,
	}
}

// GetProduct 获取商品详情
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts 获取商品列表
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct 创建商品（整体提交）
func (c *Client) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	var created domain.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct 更新商品（整体替换）
func (c *Client) UpdateProduct(ctx context.Context, id string, p *domain.Product) (*domain.Product, error) {
	var updated domain.Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+id, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateProductStatus 切换商品上下架状态
func (c *Client) UpdateProductStatus(ctx context.Context, id string, status domain.ProductStatus) error {
	body := map[string]domain.ProductStatus{"status": status}
	return c.do(ctx, http.MethodPut, "/api/products/"+id+"/status", body, nil)
}

// GetCategories 获取完整分类树快照
func (c *Client) GetCategories(ctx context.Context) ([]domain.Category, error) {
	var tree []domain.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// CreateCategory 新建顶层分类
func (c *Client) CreateCategory(ctx context.Context, in *domain.CategoryInput) (*domain.Category, error) {
	var created domain.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory 更新顶层分类
func (c *Client) UpdateCategory(ctx context.Context, id string, in *domain.CategoryInput) (*domain.Category, error) {
	var updated domain.Category
	if err := c.do(ctx, http.MethodPut, "/api/categories/"+id, in, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory 删除顶层分类（后端级联删除其二级分类）
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+id, nil, nil)
}

// CreateSubcategory 新建二级分类
func (c *Client) CreateSubcategory(ctx context.Context, parentID string, in *domain.CategoryInput) (*domain.Subcategory, error) {
	var created domain.Subcategory
	if err := c.do(ctx, http.MethodPost, "/api/categories/"+parentID+"/subcategories", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSubcategory 更新二级分类
func (c *Client) UpdateSubcategory(ctx context.Context, parentID, id string, in *domain.CategoryInput) (*domain.Subcategory, error) {
	var updated domain.Subcategory
	if err := c.do(ctx, http.MethodPut, "/api/categories/"+parentID+"/subcategories/"+id, in, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSubcategory 删除二级分类
func (c *Client) DeleteSubcategory(ctx context.Context, parentID, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+parentID+"/subcategories/"+id, nil, nil)
}

// ListOrders 获取订单列表（原样透传，订单结构归后端所有）
func (c *Client) ListOrders(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// UpdateOrderStatus 更新订单状态
func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) (json.RawMessage, error) {
	var raw json.RawMessage
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+id+"/status", body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Upload 以multipart形式上传文件，返回后端相对路径
func (c *Client) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setAuth(ctx, req)

	res, err := c.uploadClient.Do(req)
	if err != nil {
		return "", &CollaboratorError{Message: err.Error()}
	}
	defer res.Body.Close()

	var path string
	if err := decodeEnvelope(res, &path); err != nil {
		return "", err
	}
	return path, nil
}

// do 执行一次后端请求并解码信封。
// out 为 nil 时忽略 data 字段。
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(ctx, req)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &CollaboratorError{Message: err.Error()}
	}
	defer res.Body.Close()

	return decodeEnvelope(res, out)
}

// setAuth 将调用方的Bearer令牌原样转发给后端。
// 认证语义由上游负责，本服务不解析令牌内容。
func (c *Client) setAuth(ctx context.Context, req *http.Request) {
	if token := AuthTokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// decodeEnvelope 解码 { data?, error? } 信封并映射错误
func decodeEnvelope(res *http.Response, out any) error {
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &CollaboratorError{StatusCode: res.StatusCode, Message: err.Error()}
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return &CollaboratorError{StatusCode: res.StatusCode, Message: "invalid response body"}
		}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return &CollaboratorError{StatusCode: res.StatusCode, Message: msg}
	}
	if env.Error != "" {
		return &CollaboratorError{StatusCode: res.StatusCode, Message: env.Error}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &CollaboratorError{StatusCode: res.StatusCode, Message: "invalid data payload"}
		}
	}
	return nil
}
