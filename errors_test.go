package cryptodisk

import (
	"errors"
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ValidationError
		wantMsg string
	}{
		{
			name: "with field",
			err: &ValidationError{
				Field:   "sector_buffer",
				Value:   513,
				Message: "not a multiple of 512",
			},
			wantMsg: "validation error: sector_buffer: not a multiple of 512",
		},
		{
			name: "without field",
			err: &ValidationError{
				Message: "invalid descriptor",
			},
			wantMsg: "validation error: invalid descriptor",
		},
		{
			name: "with wrapped error",
			err: &ValidationError{
				Field:   "key",
				Message: "invalid key",
				Err:     ErrInvalidArg,
			},
			wantMsg: "validation error: key: invalid key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.wantMsg)
			}
			if tt.err.Err != nil {
				if unwrapped := tt.err.Unwrap(); unwrapped != tt.err.Err {
					t.Errorf("ValidationError.Unwrap() = %v, want %v", unwrapped, tt.err.Err)
				}
			}
		})
	}
}

func TestCryptoError(t *testing.T) {
	baseErr := errors.New("decrypt: not supported")

	tests := []struct {
		name    string
		err     *CryptoError
		wantMsg string
	}{
		{
			name: "with mode and sector",
			err: &CryptoError{
				Operation: "decrypt",
				Mode:      "xts",
				Sector:    42,
				Message:   "cipher lacks decrypt_block",
				Err:       baseErr,
			},
			wantMsg: "decrypt error: xts (sector 42): cipher lacks decrypt_block",
		},
		{
			name: "without mode",
			err: &CryptoError{
				Operation: "setkey",
				Message:   "lrw precalc allocation failed",
			},
			wantMsg: "setkey error: lrw precalc allocation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("CryptoError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestDeviceError(t *testing.T) {
	tests := []struct {
		name    string
		err     *DeviceError
		wantMsg string
	}{
		{
			name: "with name",
			err: &DeviceError{
				Operation: "open",
				Name:      "crypto9",
				Message:   "no such device",
			},
			wantMsg: `device error: open "crypto9": no such device`,
		},
		{
			name: "without name",
			err: &DeviceError{
				Operation: "cleanup",
				Message:   "nothing to do",
			},
			wantMsg: "device error: cleanup: nothing to do",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("DeviceError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestErrorCheckers(t *testing.T) {
	ve := &ValidationError{Message: "test"}
	ce := &CryptoError{Operation: "decrypt", Message: "test"}
	de := &DeviceError{Operation: "open", Message: "test"}
	generic := errors.New("generic error")

	tests := []struct {
		name string
		err  error
		fn   func(error) bool
		want bool
	}{
		{"IsValidationError with ValidationError", ve, IsValidationError, true},
		{"IsValidationError with other error", generic, IsValidationError, false},
		{"IsCryptoError with CryptoError", ce, IsCryptoError, true},
		{"IsCryptoError with other error", generic, IsCryptoError, false},
		{"IsDeviceError with DeviceError", de, IsDeviceError, true},
		{"IsDeviceError with other error", generic, IsDeviceError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.err); got != tt.want {
				t.Errorf("error checker = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	t.Run("NewValidationError", func(t *testing.T) {
		err := NewValidationError("field", 123, "invalid value")
		if !IsValidationError(err) {
			t.Error("NewValidationError should create ValidationError")
		}
		ve := err.(*ValidationError)
		if ve.Field != "field" || ve.Value != 123 || ve.Message != "invalid value" {
			t.Errorf("NewValidationError fields incorrect: %+v", ve)
		}
	})

	t.Run("NewCryptoError", func(t *testing.T) {
		err := NewCryptoError("decrypt", "cbc", 7, ErrNotSupported)
		if !IsCryptoError(err) {
			t.Error("NewCryptoError should create CryptoError")
		}
		ce := err.(*CryptoError)
		if ce.Operation != "decrypt" || ce.Mode != "cbc" || ce.Sector != 7 {
			t.Errorf("NewCryptoError fields incorrect: %+v", ce)
		}
		if !errors.Is(err, ErrNotSupported) {
			t.Error("NewCryptoError should wrap the underlying error")
		}
	})

	t.Run("NewDeviceError", func(t *testing.T) {
		err := NewDeviceError("open", "crypto0", ErrUnknownDevice)
		if !IsDeviceError(err) {
			t.Error("NewDeviceError should create DeviceError")
		}
		de := err.(*DeviceError)
		if de.Operation != "open" || de.Name != "crypto0" {
			t.Errorf("NewDeviceError fields incorrect: %+v", de)
		}
	})
}
