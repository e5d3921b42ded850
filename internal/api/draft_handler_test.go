package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/backend"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/catalog"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/service"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/session"
)

func TestDraftHandler_Create(t *testing.T) {
	tests := []struct {
		name        string
		requestBody interface{}
		mockFunc    func(ctx context.Context, productID string) (*catalog.Draft, error)
		wantStatus  int
	}{
		{
			name:        "blank draft",
			requestBody: map[string]interface{}{},
			mockFunc: func(ctx context.Context, productID string) (*catalog.Draft, error) {
				if productID != "" {
					t.Errorf("Create() productID = %q, want empty", productID)
				}
				return &catalog.Draft{ID: "draft-1"}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "seeded from product",
			requestBody: map[string]interface{}{"product_id": "prod-9"},
			mockFunc: func(ctx context.Context, productID string) (*catalog.Draft, error) {
				if productID != "prod-9" {
					t.Errorf("Create() productID = %q, want prod-9", productID)
				}
				return &catalog.Draft{ID: "draft-2", IsExisting: true}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "product missing upstream",
			requestBody: map[string]interface{}{"product_id": "gone"},
			mockFunc: func(ctx context.Context, productID string) (*catalog.Draft, error) {
				return nil, &backend.CollaboratorError{StatusCode: 404, Message: "backend error (status 404): not found"}
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDraftHandler(&mockDraftService{createFunc: tt.mockFunc}, zap.NewNop())

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest("POST", "/api/v1/drafts", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Create(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Create() status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestDraftHandler_Get_NotFound(t *testing.T) {
	handler := NewDraftHandler(&mockDraftService{
		getFunc: func(ctx context.Context, draftID string) (*catalog.Draft, error) {
			return nil, session.ErrDraftNotFound
		},
	}, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/v1/drafts/missing", nil)
	w := httptest.NewRecorder()

	handler.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Get() status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDraftHandler_AddVariant(t *testing.T) {
	tests := []struct {
		name        string
		requestBody interface{}
		mockFunc    func(ctx context.Context, draftID string, in *domain.VariantInput) (*catalog.Draft, error)
		wantStatus  int
	}{
		{
			name: "valid variant",
			requestBody: map[string]interface{}{
				"size_selection":  "m",
				"color_selection": "red",
				"price":           499,
				"stock":           10,
			},
			mockFunc: func(ctx context.Context, draftID string, in *domain.VariantInput) (*catalog.Draft, error) {
				if in.SizeSelection != "m" || in.ColorSelection != "red" {
					t.Errorf("AddVariant() input = %+v", in)
				}
				return &catalog.Draft{ID: draftID}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "validation failure",
			requestBody: map[string]interface{}{"size_selection": "m"},
			mockFunc: func(ctx context.Context, draftID string, in *domain.VariantInput) (*catalog.Draft, error) {
				return nil, catalog.NewValidationError("color", "color is required")
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "duplicate combination",
			requestBody: map[string]interface{}{"size_selection": "m", "color_selection": "red"},
			mockFunc: func(ctx context.Context, draftID string, in *domain.VariantInput) (*catalog.Draft, error) {
				return nil, catalog.NewValidationError("variant", "variant with this size and color already exists")
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDraftHandler(&mockDraftService{addVariantFunc: tt.mockFunc}, zap.NewNop())

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest("POST", "/api/v1/drafts/draft-1/variants", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.AddVariant(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("AddVariant() status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestDraftHandler_SaveEdit_NotEditing(t *testing.T) {
	handler := NewDraftHandler(&mockDraftService{
		saveEditFunc: func(ctx context.Context, draftID, variantID string, in *domain.VariantInput) (*catalog.Draft, error) {
			return nil, catalog.ErrNotEditing
		},
	}, zap.NewNop())

	body, _ := json.Marshal(map[string]interface{}{"size_selection": "m", "color_selection": "red"})
	req := httptest.NewRequest("PUT", "/api/v1/drafts/draft-1/variants/var-1", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	handler.SaveEdit(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("SaveEdit() status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestDraftHandler_MoveMedia(t *testing.T) {
	tests := []struct {
		name        string
		requestBody interface{}
		mockFunc    func(ctx context.Context, draftID, variantID string, from, to int) ([]domain.CombinedMediaItem, error)
		wantStatus  int
	}{
		{
			name:        "valid move",
			requestBody: map[string]interface{}{"from": 0, "to": 2},
			mockFunc: func(ctx context.Context, draftID, variantID string, from, to int) ([]domain.CombinedMediaItem, error) {
				if from != 0 || to != 2 {
					t.Errorf("MoveMedia() from=%d to=%d, want 0 and 2", from, to)
				}
				return []domain.CombinedMediaItem{
					{Ref: domain.PersistedRef("/uploads/a.jpg"), Kind: domain.MediaKindImage},
				}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "index out of range",
			requestBody: map[string]interface{}{"from": 9, "to": 0},
			mockFunc: func(ctx context.Context, draftID, variantID string, from, to int) ([]domain.CombinedMediaItem, error) {
				return nil, catalog.ErrIndexOutOfRange
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "variant missing",
			requestBody: map[string]interface{}{"from": 0, "to": 1},
			mockFunc: func(ctx context.Context, draftID, variantID string, from, to int) ([]domain.CombinedMediaItem, error) {
				return nil, catalog.ErrVariantNotFound
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDraftHandler(&mockDraftService{moveMediaFunc: tt.mockFunc}, zap.NewNop())

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest("PUT", "/api/v1/drafts/draft-1/variants/var-1/media/order", bytes.NewBuffer(body))
			w := httptest.NewRecorder()

			handler.MoveMedia(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("MoveMedia() status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestDraftHandler_RemoveMedia_InvalidIndex(t *testing.T) {
	handler := NewDraftHandler(&mockDraftService{}, zap.NewNop())

	req := httptest.NewRequest("DELETE", "/api/v1/drafts/draft-1/variants/var-1/media/abc", nil)
	w := httptest.NewRecorder()

	handler.RemoveMedia(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("RemoveMedia() status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDraftHandler_UploadMedia(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("files", "look.jpg")
	part.Write([]byte("fake-image-bytes"))
	part2, _ := mw.CreateFormFile("files", "notes.txt")
	part2.Write([]byte("plain text"))
	mw.Close()

	handler := NewDraftHandler(&mockDraftService{
		appendUploads: func(ctx context.Context, draftID, variantID string, files []service.UploadFile) (*service.UploadReport, error) {
			if len(files) != 2 {
				t.Fatalf("AppendUploads() got %d files, want 2", len(files))
			}
			if files[0].Filename != "look.jpg" {
				t.Errorf("AppendUploads() first file = %q, want look.jpg", files[0].Filename)
			}
			return &service.UploadReport{
				Draft:   &catalog.Draft{ID: draftID},
				Added:   1,
				Skipped: []string{"notes.txt"},
			}, nil
		},
	}, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/v1/drafts/draft-1/variants/var-1/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	handler.UploadMedia(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("UploadMedia() status = %d, want %d", w.Code, http.StatusOK)
	}

	response, err := decodeEnvelope(w.Body.Bytes())
	if err != nil {
		t.Fatalf("UploadMedia() failed to parse response: %v", err)
	}
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("UploadMedia() missing data field")
	}
	if added, _ := data["added"].(float64); int(added) != 1 {
		t.Errorf("UploadMedia() added = %v, want 1", data["added"])
	}
	skipped, _ := data["skipped"].([]interface{})
	if len(skipped) != 1 || skipped[0] != "notes.txt" {
		t.Errorf("UploadMedia() skipped = %v, want [notes.txt]", skipped)
	}
}

func TestDraftHandler_UploadMedia_NoFiles(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("other", "value")
	mw.Close()

	handler := NewDraftHandler(&mockDraftService{}, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/v1/drafts/draft-1/variants/var-1/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	handler.UploadMedia(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("UploadMedia() status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDraftHandler_Submit(t *testing.T) {
	tests := []struct {
		name       string
		mockFunc   func(ctx context.Context, draftID string) (*domain.Product, error)
		wantStatus int
	}{
		{
			name: "successful submit",
			mockFunc: func(ctx context.Context, draftID string) (*domain.Product, error) {
				return &domain.Product{ID: "prod-1", Title: "Linen Shirt"}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "gate failure",
			mockFunc: func(ctx context.Context, draftID string) (*domain.Product, error) {
				return nil, catalog.NewValidationError("variants", "at least one variant is required")
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "submit already running",
			mockFunc: func(ctx context.Context, draftID string) (*domain.Product, error) {
				return nil, service.ErrSubmitInFlight
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "backend down",
			mockFunc: func(ctx context.Context, draftID string) (*domain.Product, error) {
				return nil, &backend.CollaboratorError{Message: "backend unreachable: connection refused"}
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDraftHandler(&mockDraftService{submitFunc: tt.mockFunc}, zap.NewNop())

			req := httptest.NewRequest("POST", "/api/v1/drafts/draft-1/submit", nil)
			w := httptest.NewRecorder()

			handler.Submit(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Submit() status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestDraftHandler_Options(t *testing.T) {
	handler := NewDraftHandler(&mockDraftService{}, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/v1/options", nil)
	w := httptest.NewRecorder()

	handler.Options(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Options() status = %d, want %d", w.Code, http.StatusOK)
	}

	response, err := decodeEnvelope(w.Body.Bytes())
	if err != nil {
		t.Fatalf("Options() failed to parse response: %v", err)
	}
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Options() missing data field")
	}
	if _, ok := data["sizes"]; !ok {
		t.Errorf("Options() missing sizes field")
	}
	if _, ok := data["colors"]; !ok {
		t.Errorf("Options() missing colors field")
	}
}
