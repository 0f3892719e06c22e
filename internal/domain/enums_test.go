package domain

import "testing"

func TestPropertyStatusRoundTrip(t *testing.T) {
	for _, code := range []string{"available", "rented", "maintenance"} {
		label, err := PropertyStatusLabel(code)
		if err != nil {
			t.Fatalf("PropertyStatusLabel(%q): %v", code, err)
		}
		back, err := PropertyStatusCode(label)
		if err != nil {
			t.Fatalf("PropertyStatusCode(%q): %v", label, err)
		}
		if back != code {
			t.Errorf("round trip %q -> %q -> %q", code, label, back)
		}
	}
}

func TestUnknownPropertyStatusIsError(t *testing.T) {
	if _, err := PropertyStatusLabel("demolished"); err == nil {
		t.Error("expected error for unknown status code")
	}
	if _, err := PropertyStatusCode("Demolido"); err == nil {
		t.Error("expected error for unknown status label")
	}
}

func TestPropertyTypeFallsBackToOther(t *testing.T) {
	if got := PropertyTypeLabel("houseboat"); got != PropertyTypeOther {
		t.Errorf("expected %q for unknown type code, got %q", PropertyTypeOther, got)
	}
	if got := PropertyTypeCode("Barco"); got != "other" {
		t.Errorf("expected other for unknown type label, got %q", got)
	}
	if got := PropertyTypeLabel("house"); got != PropertyTypeHouse {
		t.Errorf("expected %q, got %q", PropertyTypeHouse, got)
	}
}

func TestFinancialTypeRoundTrip(t *testing.T) {
	cases := map[string]string{"income": FinancialTypeIncome, "expense": FinancialTypeExpense}
	for code, wantLabel := range cases {
		label, err := FinancialTypeLabel(code)
		if err != nil {
			t.Fatal(err)
		}
		if label != wantLabel {
			t.Errorf("expected %q, got %q", wantLabel, label)
		}
		back, err := FinancialTypeCode(label)
		if err != nil {
			t.Fatal(err)
		}
		if back != code {
			t.Errorf("round trip %q -> %q -> %q", code, label, back)
		}
	}
	if _, err := FinancialTypeLabel("transfer"); err == nil {
		t.Error("expected error for unknown financial type")
	}
}

func TestFinancialStatusRoundTrip(t *testing.T) {
	for _, code := range []string{"paid", "pending", "overdue"} {
		label, err := FinancialStatusLabel(code)
		if err != nil {
			t.Fatal(err)
		}
		back, err := FinancialStatusCode(label)
		if err != nil {
			t.Fatal(err)
		}
		if back != code {
			t.Errorf("round trip %q -> %q -> %q", code, label, back)
		}
	}
	if _, err := FinancialStatusCode("Cancelado"); err == nil {
		t.Error("expected error for unknown financial status")
	}
}

func TestContractHasGuarantee(t *testing.T) {
	deposit := 1500.0
	if (Contract{}).HasGuarantee() {
		t.Error("empty contract should have no guarantee")
	}
	if !(Contract{SecurityDeposit: &deposit}).HasGuarantee() {
		t.Error("deposit alone should count as a guarantee")
	}
	if !(Contract{Complement: "fiador"}).HasGuarantee() {
		t.Error("complement alone should count as a guarantee")
	}
}

func TestValidation(t *testing.T) {
	if err := (Owner{Name: "Ana"}).Validate(); err != nil {
		t.Errorf("minimal owner should validate: %v", err)
	}
	if err := (Owner{}).Validate(); err == nil {
		t.Error("owner without name should fail")
	}
	if err := (Owner{Name: "Ana", Email: "not-an-email"}).Validate(); err == nil {
		t.Error("bad email should fail")
	}

	ok := FinancialRecord{Type: FinancialTypeIncome, Amount: 100, DueDate: "2026-03-05"}
	if err := ok.Validate(); err != nil {
		t.Errorf("record should validate: %v", err)
	}
	bad := ok
	bad.Type = "Transferência"
	if err := bad.Validate(); err == nil {
		t.Error("unknown type label should fail validation")
	}

	if err := (User{Name: "Ana", Email: "ana@example.com", Password: "short"}).Validate(); err == nil {
		t.Error("password under 6 chars should fail")
	}
	if err := (User{Name: "Ana", Email: "ana@example.com", Password: "longenough"}).Validate(); err != nil {
		t.Errorf("user should validate: %v", err)
	}
}
