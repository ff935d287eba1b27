package errors

import (
	"strings"
	"testing"
)

func TestValidateOutputName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "mean.png", false},
		{"underscore", "mean_ci.png", false},
		{"upper ext", "BOX.PNG", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300) + ".png", true},
		{"path", "img/mean.png", true},
		{"backslash", "img\\mean.png", true},
		{"hidden", ".mean.png", true},
		{"wrong ext", "mean.svg", true},
		{"no ext", "mean", true},
		{"control char", "me\x01an.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateOutputName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateDataFile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "turnout.csv", false},
		{"nested", "2014/turnout.csv", false},
		{"dots in name", "turnout..v2.csv", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../turnout.csv", true},
		{"nested traversal", "a/../../b.csv", true},
		{"null byte", "a\x00.csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDataFile(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDataFile(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
