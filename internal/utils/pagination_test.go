package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	if got := AtoiDefault("42", 0); got != 42 {
		t.Fatalf("AtoiDefault(42) = %d", got)
	}
	if got := AtoiDefault("", 10); got != 10 {
		t.Fatalf("AtoiDefault(empty) = %d", got)
	}
	if got := AtoiDefault("x", 5); got != 5 {
		t.Fatalf("AtoiDefault(junk) = %d", got)
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct {
		limit, def, max, want int
	}{
		{0, 100, 1000, 100},
		{-5, 100, 1000, 100},
		{50, 100, 1000, 50},
		{1000, 100, 1000, 1000},
		{5000, 100, 1000, 1000},
	}
	for _, tc := range cases {
		if got := ClampLimit(tc.limit, tc.def, tc.max); got != tc.want {
			t.Fatalf("ClampLimit(%d,%d,%d) = %d, want %d", tc.limit, tc.def, tc.max, got, tc.want)
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	token := EncodeCursor("1700000000.000123", "C123ABCDE")
	fields, err := DecodeCursor(token, 2)
	if err != nil {
		t.Fatalf("DecodeCursor: %v", err)
	}
	if fields[0] != "1700000000.000123" || fields[1] != "C123ABCDE" {
		t.Fatalf("round trip mismatch: %v", fields)
	}
}

func TestEncodeCursor_EmptyFieldsYieldEmptyToken(t *testing.T) {
	if got := EncodeCursor(); got != "" {
		t.Fatalf("EncodeCursor() = %q, want empty", got)
	}
}

func TestDecodeCursor_Rejections(t *testing.T) {
	if _, err := DecodeCursor("not base64!!", 1); err != ErrBadCursor {
		t.Fatalf("junk token: err = %v", err)
	}
	// valid base64 but wrong field count
	token := EncodeCursor("a", "b")
	if _, err := DecodeCursor(token, 1); err != ErrBadCursor {
		t.Fatalf("field count: err = %v", err)
	}
	// empty field inside
	if _, err := DecodeCursor(EncodeCursor(""), 1); err != ErrBadCursor {
		t.Fatalf("empty field: err = %v", err)
	}
}
