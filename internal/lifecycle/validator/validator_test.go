package validator

import (
	"strings"
	"testing"

	"slotline/pkg/model"
)

func TestValidateHold(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     model.HoldRequest
		wantErr string
	}{
		{
			name: "valid request",
			req:  model.HoldRequest{SlotID: "665f1c2ab1e2c3d4e5f60718", Name: "Amna", Phone: "555"},
		},
		{
			name:    "missing slot id",
			req:     model.HoldRequest{Name: "Amna", Phone: "555"},
			wantErr: "SlotID is required",
		},
		{
			name:    "slot id not an object id",
			req:     model.HoldRequest{SlotID: "slot-1", Name: "Amna", Phone: "555"},
			wantErr: "SlotID must be a valid slot identifier",
		},
		{
			name:    "name too short",
			req:     model.HoldRequest{SlotID: "665f1c2ab1e2c3d4e5f60718", Name: "A", Phone: "555"},
			wantErr: "Name must be at least 2 characters",
		},
		{
			name:    "missing phone",
			req:     model.HoldRequest{SlotID: "665f1c2ab1e2c3d4e5f60718", Name: "Amna"},
			wantErr: "Phone is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateHold(&tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
