package validator

import "testing"

func TestCheckCollectsErrors(t *testing.T) {
	var v Validator

	v.Check(true, "should not appear")
	v.CheckField(true, "campo", "should not appear")

	if v.HasErrors() {
		t.Fatalf("HasErrors() = true before any failed check: %+v", v)
	}

	v.Check(false, "algo deu errado")
	v.CheckField(false, "email", "must be valid")
	v.CheckField(false, "email", "second message is dropped")

	if !v.HasErrors() {
		t.Fatal("HasErrors() = false after failed checks")
	}
	if len(v.Errors) != 1 || v.Errors[0] != "algo deu errado" {
		t.Errorf("Errors = %v", v.Errors)
	}
	if v.FieldErrors["email"] != "must be valid" {
		t.Errorf("FieldErrors[email] = %q, want first message kept", v.FieldErrors["email"])
	}
}

func TestNotBlank(t *testing.T) {
	if NotBlank("   ") {
		t.Error("NotBlank(whitespace) = true")
	}
	if !NotBlank(" x ") {
		t.Error("NotBlank(\" x \") = false")
	}
}

func TestIsEmail(t *testing.T) {
	valid := []string{"presidente@camara.gov.br", "a@b.co"}
	invalid := []string{"", "sem-arroba", "a@", "@b.com"}

	for _, s := range valid {
		if !IsEmail(s) {
			t.Errorf("IsEmail(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsEmail(s) {
			t.Errorf("IsEmail(%q) = true, want false", s)
		}
	}
}

func TestIn(t *testing.T) {
	if !In("sim", "sim", "nao", "abster") {
		t.Error("In() = false for member value")
	}
	if In("talvez", "sim", "nao", "abster") {
		t.Error("In() = true for non-member value")
	}
}

func TestMinMaxRunes(t *testing.T) {
	if !MinRunes("ação", 4) || MinRunes("ação", 5) {
		t.Error("MinRunes miscounts multibyte runes")
	}
	if !MaxRunes("ação", 4) || MaxRunes("ação", 3) {
		t.Error("MaxRunes miscounts multibyte runes")
	}
}
