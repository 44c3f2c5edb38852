package validator

import "testing"

func TestValidate(t *testing.T) {
	v := New()
	if err := v.Validate("SELECT (t0.col_t0_1_int32 + 5) FROM t0 WHERE TRUE"); err != nil {
		t.Fatalf("valid statement rejected: %v", err)
	}
	if err := v.Validate("SELECT FROM WHERE"); err == nil {
		t.Fatal("invalid statement accepted")
	}
}
