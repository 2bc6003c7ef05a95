package fieldvalue

import (
	"reflect"
	"testing"

	"github.com/member-admin-api/internal/models"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		ftype models.FieldType
		want  interface{}
	}{
		{"email valid", " user@example.com ", models.TypeEmail, "user@example.com"},
		{"email invalid", "not-an-email", models.TypeEmail, ""},
		{"url valid", "https://example.com/page", models.TypeURL, "https://example.com/page"},
		{"url missing scheme", "example.com/page", models.TypeURL, ""},
		{"number valid", "42.5", models.TypeNumber, 42.5},
		{"number invalid", "abc", models.TypeNumber, float64(0)},
		{"date compact", "20240315", models.TypeDate, "20240315"},
		{"date rejected", "2024-03-15", models.TypeDate, ""},
		{"date garbage", "15th of March", models.TypeDate, ""},
		{"bool on", "true", models.TypeTrueFalse, 1},
		{"bool off", "0", models.TypeTrueFalse, 0},
		{"checkbox list", []string{"a", " b ", ""}, models.TypeCheckbox, []string{"a", "b"}},
		{"checkbox scalar", "a", models.TypeCheckbox, []string{"a"}},
		{"text strips tags", "<b>bold</b> move", models.TypeText, "bold move"},
		{"text collapses whitespace", "  a \n b\t", models.TypeText, "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input, tt.ftype)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sanitize(%v, %s) = %#v, want %#v", tt.input, tt.ftype, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	required := &models.FieldDefinition{Key: "f", Label: "Member ID", Type: models.TypeText, Required: true}

	// Zero-but-present must not be treated as missing.
	for _, v := range []interface{}{"0", 0, float64(0)} {
		if res := Validate(v, required); !res.Valid {
			t.Errorf("Validate(%#v, required) invalid: %s", v, res.Message)
		}
	}

	for _, v := range []interface{}{nil, "", []string{}} {
		if res := Validate(v, required); res.Valid {
			t.Errorf("Validate(%#v, required) should fail", v)
		}
	}

	// Optional empty values are fine.
	optional := &models.FieldDefinition{Key: "f", Label: "Note", Type: models.TypeText}
	if res := Validate("", optional); !res.Valid {
		t.Errorf("optional empty rejected: %s", res.Message)
	}

	email := &models.FieldDefinition{Key: "f", Label: "Contact", Type: models.TypeEmail}
	if res := Validate("nope", email); res.Valid {
		t.Error("invalid email accepted")
	}
	if res := Validate("a@b.se", email); !res.Valid {
		t.Errorf("valid email rejected: %s", res.Message)
	}

	u := &models.FieldDefinition{Key: "f", Label: "Site", Type: models.TypeURL}
	if res := Validate("://broken", u); res.Valid {
		t.Error("invalid url accepted")
	}
	if res := Validate("https://example.com", u); !res.Valid {
		t.Errorf("valid url rejected: %s", res.Message)
	}
}

func TestDateParseOrderIsDeterministic(t *testing.T) {
	// 15/03/2024 must resolve day-first: 15 March, never March 15 read as
	// month 15.
	got, ok := parseDateString("15/03/2024")
	if !ok {
		t.Fatal("15/03/2024 did not parse")
	}
	if got.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("15/03/2024 parsed as %s, want 2024-03-15", got.Format("2006-01-02"))
	}

	// An unambiguous month-first date still parses via the second slash
	// layout.
	got, ok = parseDateString("03/15/2024")
	if !ok {
		t.Fatal("03/15/2024 did not parse")
	}
	if got.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("03/15/2024 parsed as %s, want 2024-03-15", got.Format("2006-01-02"))
	}
}
