package httputil

import (
	"encoding/json"
	"testing"
)

func TestOptionalInt64Unmarshal(t *testing.T) {
	type payload struct {
		ParentID OptionalInt64 `json:"parent_id"`
	}

	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantValue   *int64
	}{
		{
			name:        "absent field",
			body:        `{}`,
			wantPresent: false,
		},
		{
			name:        "explicit null",
			body:        `{"parent_id": null}`,
			wantPresent: true,
			wantValue:   nil,
		},
		{
			name:        "value",
			body:        `{"parent_id": 42}`,
			wantPresent: true,
			wantValue:   func() *int64 { v := int64(42); return &v }(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if p.ParentID.Present != tt.wantPresent {
				t.Errorf("Present = %v, want %v", p.ParentID.Present, tt.wantPresent)
			}
			switch {
			case tt.wantValue == nil && p.ParentID.Value != nil:
				t.Errorf("Value = %v, want nil", *p.ParentID.Value)
			case tt.wantValue != nil && (p.ParentID.Value == nil || *p.ParentID.Value != *tt.wantValue):
				t.Errorf("Value = %v, want %v", p.ParentID.Value, *tt.wantValue)
			}
		})
	}
}

func TestOptionalIntUnmarshalRejectsNonNumber(t *testing.T) {
	var o OptionalInt
	if err := json.Unmarshal([]byte(`"three"`), &o); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}
