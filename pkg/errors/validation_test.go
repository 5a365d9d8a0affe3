package errors

import "testing"

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "a", wantErr: false},
		{name: "alphanumeric", id: "node_42", wantErr: false},
		{name: "unicode", id: "gène", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "space", id: "a b", wantErr: true},
		{name: "tab", id: "a\tb", wantErr: true},
		{name: "newline", id: "a\nb", wantErr: true},
		{name: "control char", id: "a\x00b", wantErr: true},
		{name: "too long", id: string(make([]byte, 257)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeStructural) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.id, GetCode(err), ErrCodeStructural)
			}
		})
	}
}

func TestValidateAttrName(t *testing.T) {
	if err := ValidateAttrName("flow"); err != nil {
		t.Errorf("ValidateAttrName(flow) = %v, want nil", err)
	}
	if err := ValidateAttrName(""); err == nil {
		t.Error("ValidateAttrName(\"\") = nil, want error")
	}
	if err := ValidateAttrName("has space"); err == nil {
		t.Error("ValidateAttrName with whitespace = nil, want error")
	}
}
