package cryptodisk

import (
	"crypto/aes"
	"strings"
	"testing"
)

func TestDescriptorBuilder_CBCValid(t *testing.T) {
	key := make([]byte, 16)
	d, err := NewDescriptorBuilder(ModeCBC, IVPlain64).
		TotalSectors(8).
		Key(key, aes.NewCipher).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.Mode != ModeCBC || d.IVMode != IVPlain64 {
		t.Errorf("mode/ivmode = %v/%v, want cbc/plain64", d.Mode, d.IVMode)
	}
	if d.Cipher == nil {
		t.Error("expected a primary cipher to be installed")
	}
}

func TestDescriptorBuilder_XTSNeedsNoExtraWiring(t *testing.T) {
	key := make([]byte, 32)
	d, err := NewDescriptorBuilder(ModeXTS, IVPlain64).
		Key(key, aes.NewCipher).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.SecondaryCipher == nil {
		t.Error("XTS build should install a secondary cipher")
	}
}

func TestDescriptorBuilder_ESSIVRequiresHash(t *testing.T) {
	key := make([]byte, 16)
	_, err := NewDescriptorBuilder(ModeCBC, IVESSIV).
		Key(key, aes.NewCipher).
		Build()
	if !IsValidationError(err) {
		t.Fatalf("expected a validation error without EssivHash, got %v", err)
	}

	_, err = NewDescriptorBuilder(ModeCBC, IVESSIV).
		EssivHash(SHA256Hash).
		Key(key, aes.NewCipher).
		Build()
	if err != nil {
		t.Fatalf("Build with EssivHash set: %v", err)
	}
}

func TestDescriptorBuilder_ECBRejectsNonNullIV(t *testing.T) {
	key := make([]byte, 16)
	_, err := NewDescriptorBuilder(ModeECB, IVPlain64).
		Key(key, aes.NewCipher).
		Build()
	if !IsValidationError(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestDescriptorBuilder_MissingKeyIsError(t *testing.T) {
	_, err := NewDescriptorBuilder(ModeCBC, IVPlain64).Build()
	if !IsValidationError(err) {
		t.Fatalf("expected a validation error without Key(), got %v", err)
	}
}

func TestDescriptorBuilder_UUIDKeptVerbatimWhenUnparseable(t *testing.T) {
	key := make([]byte, 16)
	d, err := NewDescriptorBuilder(ModeCBC, IVPlain64).
		UUID("not-a-uuid").
		Key(key, aes.NewCipher).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.UUID != "not-a-uuid" {
		t.Errorf("UUID = %q, want unchanged %q", d.UUID, "not-a-uuid")
	}
}

func TestDescriptorBuilder_GenerateUUIDProducesWellFormedUUID(t *testing.T) {
	key := make([]byte, 16)
	d, err := NewDescriptorBuilder(ModeCBC, IVPlain64).
		GenerateUUID().
		Key(key, aes.NewCipher).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Count(d.UUID, "-") != 4 {
		t.Errorf("GenerateUUID produced %q, want RFC 4122 dash layout", d.UUID)
	}
}
