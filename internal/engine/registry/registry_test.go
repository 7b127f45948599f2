package registry

import (
	"testing"

	"classlink/internal/core/errors"
)

func TestValidateFQN(t *testing.T) {
	valid := []string{"a.b.c", "single", "my_pkg.my_class", "_x.Y9"}
	for _, fqn := range valid {
		if err := ValidateFQN(fqn); err != nil {
			t.Errorf("ValidateFQN(%q) = %v, want nil", fqn, err)
		}
	}

	invalid := []string{"", "a..b", ".a.b", "a.b.", "a/b", "a b", "9a.b"}
	for _, fqn := range invalid {
		if err := ValidateFQN(fqn); err == nil {
			t.Errorf("ValidateFQN(%q) = nil, want error", fqn)
		}
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := NewPackageRegistry()
	spec := &ClassSpec{FQN: "pkg.A", Package: "pkg", Name: "A", SpecType: SpecDefinition}
	if err := reg.Register(spec); err != nil {
		t.Fatalf("first register: %v", err)
	}

	err := reg.Register(&ClassSpec{FQN: "pkg.A", Package: "pkg", Name: "A"})
	if !errors.IsCode(err, errors.CodeConflict) {
		t.Fatalf("second register = %v, want conflict", err)
	}

	// The losing register must not alter registry state.
	got, ok := reg.Lookup("pkg.A")
	if !ok || got != spec {
		t.Error("registry state changed after failed register")
	}
	if reg.Size() != 1 {
		t.Errorf("size = %d, want 1", reg.Size())
	}
}

func TestRegisterRejectsMalformedFQN(t *testing.T) {
	reg := NewPackageRegistry()
	err := reg.Register(&ClassSpec{FQN: "bad..name", Name: "name"})
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("register = %v, want validation error", err)
	}
	if reg.Size() != 0 {
		t.Error("malformed fqn must not register")
	}
}

func TestLookupIsCaseSensitive(t *testing.T) {
	reg := NewPackageRegistry()
	_ = reg.Register(&ClassSpec{FQN: "pkg.Widget", Package: "pkg", Name: "Widget"})
	if reg.Exists("pkg.widget") {
		t.Error("lookup must be case-sensitive")
	}
	if !reg.Exists("pkg.Widget") {
		t.Error("exact match must exist")
	}
}

func TestListByPackageAndOrder(t *testing.T) {
	reg := NewPackageRegistry()
	for _, fqn := range []string{"a.One", "b.Two", "a.Three"} {
		if err := reg.Register(&ClassSpec{FQN: fqn, Package: fqn[:1], Name: fqn[2:]}); err != nil {
			t.Fatal(err)
		}
	}

	pkgA := reg.ListByPackage("a")
	if len(pkgA) != 2 || pkgA[0].FQN != "a.One" || pkgA[1].FQN != "a.Three" {
		t.Errorf("ListByPackage(a) = %+v", pkgA)
	}

	all := reg.GetAll()
	if len(all) != 3 || all[0].FQN != "a.One" || all[2].FQN != "a.Three" {
		t.Errorf("GetAll order broken: %+v", all)
	}
}

func TestClear(t *testing.T) {
	reg := NewPackageRegistry()
	_ = reg.Register(&ClassSpec{FQN: "pkg.A", Package: "pkg", Name: "A"})
	reg.Clear()
	if reg.Size() != 0 || reg.Exists("pkg.A") {
		t.Error("clear must fully reset")
	}
}

func TestIsOverlongFQN(t *testing.T) {
	long := "p"
	for len(long) <= MaxFQNLength {
		long += ".seg"
	}
	if !IsOverlongFQN(long) {
		t.Error("expected overlong")
	}
	if IsOverlongFQN("pkg.Short") {
		t.Error("short fqn flagged overlong")
	}
}
