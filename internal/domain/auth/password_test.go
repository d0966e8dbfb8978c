package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "super-secret" {
		t.Fatal("hash must not equal the raw secret")
	}
	if !hasher.Compare(hash, "super-secret") {
		t.Fatal("expected secret to match")
	}
	if hasher.Compare(hash, "super-secreT") {
		t.Fatal("expected mismatch")
	}
}

func TestHashIsSalted(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	first, err := hasher.Hash("same-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	second, err := hasher.Hash("same-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts")
	}
}

func TestHasherUsesConfiguredCost(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost + 1)
	hash, err := hasher.Hash("cost-check")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost error: %v", err)
	}
	if cost != bcrypt.MinCost+1 {
		t.Fatalf("expected cost %d, got %d", bcrypt.MinCost+1, cost)
	}
	if NewHasher(99).Cost() != bcrypt.DefaultCost {
		t.Fatal("out-of-range cost should fall back to default")
	}
}

func TestValidateSecret(t *testing.T) {
	if err := ValidateSecret("password", "short"); err == nil {
		t.Fatal("expected short secret to fail")
	}
	if err := ValidateSecret("password", strings.Repeat("a", 73)); err == nil {
		t.Fatal("expected oversize secret to fail")
	}
	if err := ValidateSecret("password", "long-enough"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
