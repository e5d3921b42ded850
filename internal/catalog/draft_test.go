package catalog

import (
	"strings"
	"testing"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
)

func newTestEngine() *Engine {
	return NewEngine(Policy{}, nil, nil)
}

func validInput(size, color string, price float64, stock int64) *domain.VariantInput {
	return &domain.VariantInput{
		SizeSelection:  size,
		ColorSelection: color,
		Price:          price,
		Stock:          stock,
	}
}

func TestAddVariant(t *testing.T) {
	tests := []struct {
		name    string
		input   *domain.VariantInput
		wantErr bool
	}{
		{name: "valid variant", input: validInput("m", "red", 499, 10), wantErr: false},
		{name: "missing size", input: validInput("", "red", 499, 10), wantErr: true},
		{name: "zero price", input: validInput("m", "red", 0, 10), wantErr: true},
		{name: "negative stock", input: validInput("m", "red", 499, -1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			d := e.NewDraft(nil)

			v, err := e.AddVariant(d, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AddVariant() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if len(d.Product.Variants) != 0 {
					t.Errorf("failed add must not modify the draft")
				}
				return
			}
			if len(d.Product.Variants) != 1 {
				t.Fatalf("expected exactly one variant, got %d", len(d.Product.Variants))
			}
			if v.ID == "" {
				t.Errorf("added variant must get a local id")
			}
		})
	}
}

func TestAddVariant_DuplicatePolicy(t *testing.T) {
	e := newTestEngine()
	d := e.NewDraft(nil)

	if _, err := e.AddVariant(d, validInput("m", "red", 499, 10)); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if _, err := e.AddVariant(d, validInput("m", "red", 599, 5)); err == nil {
		t.Fatalf("duplicate (size,color) must be rejected by default")
	}

	// Same pair with the lenient policy enabled.
	lenient := NewEngine(Policy{AllowDuplicateVariants: true}, nil, nil)
	d2 := lenient.NewDraft(nil)
	if _, err := lenient.AddVariant(d2, validInput("m", "red", 499, 10)); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if _, err := lenient.AddVariant(d2, validInput("m", "red", 599, 5)); err != nil {
		t.Errorf("lenient policy must allow duplicates: %v", err)
	}
}

func TestEditLifecycle(t *testing.T) {
	e := newTestEngine()
	d := e.NewDraft(nil)

	v1, _ := e.AddVariant(d, validInput("m", "red", 499, 10))
	v2, _ := e.AddVariant(d, validInput("l", "red", 549, 5))

	// Start editing the first variant.
	session, err := e.StartEdit(d, v1.ID)
	if err != nil {
		t.Fatalf("StartEdit() error = %v", err)
	}
	if session.Buffer.ID != v1.ID {
		t.Errorf("edit buffer id = %s, want %s", session.Buffer.ID, v1.ID)
	}

	// Starting an edit on the second variant implicitly cancels the first.
	if _, err := e.StartEdit(d, v2.ID); err != nil {
		t.Fatalf("StartEdit() second error = %v", err)
	}
	if d.Editing == nil || d.Editing.VariantID != v2.ID {
		t.Fatalf("only one edit session may exist, got %+v", d.Editing)
	}

	// Cancel leaves the original untouched.
	e.CancelEdit(d)
	if d.Editing != nil {
		t.Errorf("cancel must clear the edit session")
	}
	if d.Product.Variants[1].Price != 549 {
		t.Errorf("cancel must not modify the listed variant")
	}
}

func TestSaveEdit(t *testing.T) {
	e := newTestEngine()
	d := e.NewDraft(nil)

	v1, _ := e.AddVariant(d, validInput("m", "red", 499, 10))
	e.AddVariant(d, validInput("l", "red", 549, 5))

	if _, err := e.StartEdit(d, v1.ID); err != nil {
		t.Fatalf("StartEdit() error = %v", err)
	}

	// Invalid save keeps the edit session and buffer.
	if _, err := e.SaveEdit(d, v1.ID, validInput("m", "red", 0, 10)); err == nil {
		t.Fatalf("invalid save must fail")
	}
	if d.Editing == nil {
		t.Fatalf("failed save must retain the edit session")
	}

	// Valid save replaces in place, preserving order.
	saved, err := e.SaveEdit(d, v1.ID, validInput("m", "red", 499, 0))
	if err != nil {
		t.Fatalf("SaveEdit() error = %v", err)
	}
	if saved.Stock != 0 {
		t.Errorf("stock = %d, want 0", saved.Stock)
	}
	if d.Product.Variants[0].ID != v1.ID {
		t.Errorf("save must preserve list position")
	}
	if d.Editing != nil {
		t.Errorf("save must close the edit session")
	}

	// Saving into another variant's key collides.
	if _, err := e.StartEdit(d, v1.ID); err != nil {
		t.Fatalf("StartEdit() error = %v", err)
	}
	if _, err := e.SaveEdit(d, v1.ID, validInput("l", "red", 100, 1)); err == nil {
		t.Errorf("save must reject duplicate (size,color) against other variants")
	}

	// Self-rename to its own key does not collide.
	if _, err := e.SaveEdit(d, v1.ID, validInput("m", "red", 450, 2)); err != nil {
		t.Errorf("save with unchanged key must succeed: %v", err)
	}
}

func TestRemoveVariant(t *testing.T) {
	e := newTestEngine()
	d := e.NewDraft(nil)

	v1, _ := e.AddVariant(d, validInput("m", "red", 499, 10))
	v2, _ := e.AddVariant(d, validInput("l", "red", 549, 5))

	if err := e.RemoveVariant(d, v1.ID); err != nil {
		t.Fatalf("RemoveVariant() error = %v", err)
	}
	if len(d.Product.Variants) != 1 || d.Product.Variants[0].ID != v2.ID {
		t.Errorf("variants after remove = %+v", d.Product.Variants)
	}
	if err := e.RemoveVariant(d, "missing"); err != ErrVariantNotFound {
		t.Errorf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestMediaEditsRevertOnCancel(t *testing.T) {
	e := newTestEngine()
	d := e.NewDraft(nil)

	v, _ := e.AddVariant(d, validInput("m", "red", 499, 10))
	if err := e.AppendVariantMedia(d, v.ID, domain.MediaKindImage, domain.PersistedRef("i1")); err != nil {
		t.Fatalf("AppendVariantMedia() error = %v", err)
	}

	if _, err := e.StartEdit(d, v.ID); err != nil {
		t.Fatalf("StartEdit() error = %v", err)
	}
	// Media edits during an edit session hit the buffer only.
	if err := e.RemoveMedia(d, v.ID, 0); err != nil {
		t.Fatalf("RemoveMedia() error = %v", err)
	}
	if len(d.Editing.Buffer.Images) != 0 {
		t.Fatalf("buffer must lose the image")
	}
	if len(d.Product.Variants[0].Images) != 1 {
		t.Fatalf("listed variant must keep its image until save")
	}

	e.CancelEdit(d)
	if len(d.Product.Variants[0].Images) != 1 {
		t.Errorf("cancel must revert to the last-saved media state")
	}
}

func TestCanSubmit(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name     string
		title    string
		category string
		variants int
		wantErr  string
	}{
		{name: "missing title", title: "", category: "Tops", variants: 1, wantErr: "title"},
		{name: "missing category", title: "Tee", category: "", variants: 1, wantErr: "category"},
		{name: "no variants", title: "Tee", category: "Tops", variants: 0, wantErr: "variant"},
		{name: "complete", title: "Tee", category: "Tops", variants: 1, wantErr: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.NewDraft(nil)
			d.Product.Title = tt.title
			d.Product.Category = tt.category
			for i := 0; i < tt.variants; i++ {
				if _, err := e.AddVariant(d, validInput("m", "red", 499, 10)); err != nil {
					t.Fatalf("AddVariant() error = %v", err)
				}
			}

			err := e.CanSubmit(d)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("CanSubmit() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("CanSubmit() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildPayload(t *testing.T) {
	e := newTestEngine()

	// New product gets a temporary id and Active status.
	d := e.NewDraft(nil)
	d.Product.Title = "Tee"
	d.Product.Category = "Tops"
	e.AddVariant(d, validInput("m", "red", 499, 10))

	payload := e.BuildPayload(d)
	if payload.ID == "" {
		t.Errorf("new product payload must carry a temporary id")
	}
	if payload.Status != domain.ProductStatusActive {
		t.Errorf("new product status = %s, want Active", payload.Status)
	}

	// Editing carries forward the persisted id and status.
	seed := &domain.Product{
		ID:       "prod-42",
		Title:    "Hoodie",
		Category: "Tops",
		Status:   domain.ProductStatusInactive,
		Variants: []domain.Variant{{ID: "v-1", Size: "M", Color: "Red", Price: 100, Stock: 1}},
	}
	d2 := e.NewDraft(seed)
	payload2 := e.BuildPayload(d2)
	if payload2.ID != "prod-42" {
		t.Errorf("edit payload id = %s, want prod-42", payload2.ID)
	}
	if payload2.Status != domain.ProductStatusInactive {
		t.Errorf("edit payload must preserve status, got %s", payload2.Status)
	}
}

func TestEndToEndComposition(t *testing.T) {
	e := newTestEngine()
	d := e.NewDraft(nil)
	d.Product.Title = "Tee"
	d.Product.Category = "Tops"

	v1, err := e.AddVariant(d, validInput("m", "red", 499, 10))
	if err != nil {
		t.Fatalf("add first variant: %v", err)
	}
	if _, err := e.AddVariant(d, validInput("l", "red", 549, 5)); err != nil {
		t.Fatalf("add second variant: %v", err)
	}

	// Edit the first variant's stock down to zero.
	if _, err := e.StartEdit(d, v1.ID); err != nil {
		t.Fatalf("StartEdit(): %v", err)
	}
	if _, err := e.SaveEdit(d, v1.ID, validInput("m", "red", 499, 0)); err != nil {
		t.Fatalf("SaveEdit(): %v", err)
	}

	if err := e.CanSubmit(d); err != nil {
		t.Fatalf("CanSubmit(): %v", err)
	}
	payload := e.BuildPayload(d)

	if len(payload.Variants) != 2 {
		t.Fatalf("payload variants = %d, want 2", len(payload.Variants))
	}
	first, second := payload.Variants[0], payload.Variants[1]
	if first.Stock != 0 {
		t.Errorf("first variant stock = %d, want 0", first.Stock)
	}
	if first.Size != "M" || first.Color != "Red" || second.Size != "L" || second.Color != "Red" {
		t.Errorf("variants lost their (size,color): %+v", payload.Variants)
	}
}
