package wire

import (
	"errors"
	"strings"
	"testing"
)

func TestFieldError(t *testing.T) {
	tests := []struct {
		name         string
		buildError   func() error
		expectedPath string
	}{
		{
			name: "single field error",
			buildError: func() error {
				return WrapField(invalidArgument("varint value -1 is negative"), "nonce")
			},
			expectedPath: "nonce",
		},
		{
			name: "nested field error",
			buildError: func() error {
				err := WrapField(invalidArgument("varint value -1 is negative"), "nonce")
				err = WrapField(err, "extra")
				err = WrapField(err, "locale")
				return WrapField(err, "VisitorData")
			},
			expectedPath: "VisitorData.locale.extra.nonce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buildError()

			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected FieldError, got %T", err)
			}
			if actual := strings.Join(fieldErr.FieldPath, "."); actual != tt.expectedPath {
				t.Errorf("expected path %q, got %q", tt.expectedPath, actual)
			}
			if !strings.Contains(err.Error(), tt.expectedPath) {
				t.Errorf("error message should contain path %q, got: %s", tt.expectedPath, err)
			}
			if strings.Count(err.Error(), "error at proto path") != 1 {
				t.Errorf("path prefix repeated: %s", err)
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected errors.Is ErrInvalidArgument for %v", err)
			}
		})
	}
}

func TestWrapField_Nil(t *testing.T) {
	if err := WrapField(nil, "field"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
