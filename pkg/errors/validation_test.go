package errors

import "testing"

func TestValidateWorkFlowyURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid share link", "https://workflowy.com/s/my-brainlift/AbC123xyz", false},
		{"trailing slash", "https://workflowy.com/s/notes/Xyz789/", false},
		{"empty", "", true},
		{"no scheme", "workflowy.com/s/notes/Xyz789", true},
		{"wrong host", "https://example.com/s/notes/Xyz789", true},
		{"missing share id", "https://workflowy.com/s/notes", true},
		{"extra path segment", "https://workflowy.com/s/notes/Xyz789/more", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkFlowyURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWorkFlowyURL(%q) = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid short id", "a1b2c3d4", false},
		{"valid uuid", "0f8fad5b-d9cb-469f-a165-70867728950e", false},
		{"empty", "", true},
		{"path traversal", "../etc/passwd", true},
		{"path separator", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"too long", string(make([]byte, 65)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Spaced Repetition", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"control character", "bad\x01name", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
