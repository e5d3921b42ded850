package catalog

import (
	"testing"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/domain"
)

func testTree() []domain.Category {
	return []domain.Category{
		{
			ID:   "c1",
			Name: "Shirts",
			Subcategories: []domain.Subcategory{
				{ID: "s1", Name: "Casual", ParentID: "c1"},
				{ID: "s2", Name: "Formal", ParentID: "c1"},
			},
		},
		{ID: "c2", Name: "Pants"},
	}
}

func TestValidateCategoryName(t *testing.T) {
	tree := testTree()

	tests := []struct {
		name      string
		input     string
		parentID  string
		excludeID string
		wantErr   bool
		wantDup   bool
	}{
		{name: "unique top-level name", input: "Dresses", wantErr: false},
		{name: "duplicate top-level case-insensitive", input: "shirts", wantErr: true, wantDup: true},
		{name: "self-rename is allowed", input: "Shirts", excludeID: "c1", wantErr: false},
		{name: "duplicate subcategory", input: "CASUAL", parentID: "c1", wantErr: true, wantDup: true},
		{name: "unique subcategory", input: "Casual", parentID: "c2", wantErr: false},
		{name: "subcategory self-rename", input: "Formal", parentID: "c1", excludeID: "s2", wantErr: false},
		{name: "blank name", input: "  ", wantErr: true},
		{name: "unknown parent", input: "X", parentID: "missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategoryName(tt.input, tt.parentID, tree, tt.excludeID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCategoryName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantDup && !IsDuplicateNameError(err) {
				t.Errorf("expected DuplicateNameError, got %T", err)
			}
		})
	}
}

func TestCascadeWarningFor(t *testing.T) {
	tree := testTree()

	w, ok := CascadeWarningFor(tree, "c1")
	if !ok {
		t.Fatalf("expected warning for existing category")
	}
	if w.SubcategoryCount != 2 || w.CategoryName != "Shirts" {
		t.Errorf("unexpected warning: %+v", w)
	}

	if _, ok := CascadeWarningFor(tree, "missing"); ok {
		t.Errorf("missing category must not produce a warning")
	}
}
