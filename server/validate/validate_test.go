package validate

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRequiredFieldMissing(t *testing.T) {
	var dst *string
	err := Fields([]Field{
		{Name: "login", Required: true, Nullable: true, Rule: String(&dst)},
	}, map[string]interface{}{})
	if err == nil {
		t.Fatal("Expected error for missing required field, got nil")
	}
	errs, ok := err.(Errors)
	if !ok {
		t.Fatalf("Expected Errors, got %T", err)
	}
	if len(errs) != 1 || errs[0].Field != "login" || errs[0].Reason != ReasonMissing {
		t.Errorf("Expected one missing-field error for 'login', got %+v", errs)
	}
}

func TestEmptyValueNotNullable(t *testing.T) {
	// An empty value must fail when the field forbids emptiness, even when
	// the key is present and the rest of the input is valid.
	cases := []struct {
		name string
		rule func() Rule
		raw  interface{}
	}{
		{"empty string", func() Rule { var d *string; return String(&d) }, ""},
		{"null", func() Rule { var d *string; return String(&d) }, nil},
		{"empty list", func() Rule { var d []int64; return ClientIDs(&d) }, []interface{}{}},
		{"empty object", func() Rule { var d map[string]interface{}; return Arguments(&d) }, map[string]interface{}{}},
	}
	for _, tc := range cases {
		err := Fields([]Field{
			{Name: "val", Required: true, Rule: tc.rule()},
		}, map[string]interface{}{"val": tc.raw})
		errs, ok := err.(Errors)
		if !ok {
			t.Fatalf("%s: expected Errors, got %v", tc.name, err)
		}
		if len(errs) != 1 || errs[0].Reason != ReasonEmpty {
			t.Errorf("%s: expected one empty-value error, got %+v", tc.name, errs)
		}
	}
}

func TestEmptyValueNullable(t *testing.T) {
	// Present-but-empty passes for a nullable field, but the bag stays unset.
	var dst *string
	err := Fields([]Field{
		{Name: "last_name", Required: true, Nullable: true, Rule: String(&dst)},
	}, map[string]interface{}{"last_name": ""})
	if err != nil {
		t.Errorf("Expected no error for empty nullable field, got %v", err)
	}
	if dst != nil {
		t.Errorf("Expected bag location to stay unset, got %q", *dst)
	}
}

func TestNullDistinctFromAbsent(t *testing.T) {
	var dst *string
	// Null satisfies the presence requirement.
	if err := Fields([]Field{
		{Name: "token", Required: true, Nullable: true, Rule: String(&dst)},
	}, map[string]interface{}{"token": nil}); err != nil {
		t.Errorf("Expected null to count as present, got %v", err)
	}
	// Absent does not.
	if err := Fields([]Field{
		{Name: "token", Required: true, Nullable: true, Rule: String(&dst)},
	}, map[string]interface{}{}); err == nil {
		t.Error("Expected absent required field to fail")
	}
}

func TestUnknownKeysIgnored(t *testing.T) {
	var dst *string
	err := Fields([]Field{
		{Name: "email", Nullable: true, Rule: Email(&dst)},
	}, map[string]interface{}{"email": "a@b.c", "junk": 42, "more_junk": []interface{}{1}})
	if err != nil {
		t.Errorf("Expected unknown keys to be ignored, got %v", err)
	}
}

func TestErrorsAggregated(t *testing.T) {
	var email, phone *string
	var gender *int
	err := Fields([]Field{
		{Name: "email", Nullable: true, Rule: Email(&email)},
		{Name: "phone", Nullable: true, Rule: Phone(&phone)},
		{Name: "gender", Nullable: true, Rule: Gender(&gender)},
	}, map[string]interface{}{
		"email":  "not-an-email",
		"phone":  "12345",
		"gender": 7,
	})
	errs, ok := err.(Errors)
	if !ok {
		t.Fatalf("Expected Errors, got %v", err)
	}
	if len(errs) != 3 {
		t.Fatalf("Expected all 3 failing fields reported, got %+v", errs)
	}
	msg := errs.Error()
	for _, name := range []string{"email", "phone", "gender"} {
		if !strings.Contains(msg, name) {
			t.Errorf("Expected message to name field %q: %s", name, msg)
		}
	}
}

func TestPhoneFormats(t *testing.T) {
	cases := []struct {
		raw   interface{}
		valid bool
	}{
		{"79175002040", true},
		{json.Number("79175002040"), true},
		{int64(79175002040), true},
		{"89175002040", false},  // wrong leading digit
		{"7917500204", false},   // too short
		{"791750020400", false}, // too long
		{"7917500204x", false},  // not all digits
		{true, false},           // wrong type
	}
	for _, tc := range cases {
		var dst *string
		err := Fields([]Field{
			{Name: "phone", Nullable: true, Rule: Phone(&dst)},
		}, map[string]interface{}{"phone": tc.raw})
		if tc.valid && err != nil {
			t.Errorf("phone %v: expected valid, got %v", tc.raw, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("phone %v: expected error, got nil", tc.raw)
		}
		if tc.valid && (dst == nil || *dst != "79175002040") {
			t.Errorf("phone %v: expected canonical '79175002040', got %v", tc.raw, dst)
		}
	}
}

func TestDateAndBirthday(t *testing.T) {
	var d *time.Time
	if err := Fields([]Field{
		{Name: "date", Nullable: true, Rule: Date(&d)},
	}, map[string]interface{}{"date": "01.01.2000"}); err != nil {
		t.Fatalf("Expected valid date, got %v", err)
	}
	if d == nil || d.Year() != 2000 || d.Month() != time.January || d.Day() != 1 {
		t.Errorf("Expected 2000-01-01, got %v", d)
	}

	for _, bad := range []string{"2000-01-01", "32.01.2000", "not-a-date"} {
		var dd *time.Time
		if err := Fields([]Field{
			{Name: "date", Nullable: true, Rule: Date(&dd)},
		}, map[string]interface{}{"date": bad}); err == nil {
			t.Errorf("date %q: expected error, got nil", bad)
		}
	}

	// A birthday more than 70 years back is rejected.
	var bd *time.Time
	old := time.Now().AddDate(-MaxAge-1, 0, 0).Format(DateLayout)
	if err := Fields([]Field{
		{Name: "birthday", Nullable: true, Rule: Birthday(&bd)},
	}, map[string]interface{}{"birthday": old}); err == nil {
		t.Error("Expected error for a 71-year-old birthday, got nil")
	}
	recent := time.Now().AddDate(-30, 0, 0).Format(DateLayout)
	if err := Fields([]Field{
		{Name: "birthday", Nullable: true, Rule: Birthday(&bd)},
	}, map[string]interface{}{"birthday": recent}); err != nil {
		t.Errorf("Expected valid birthday, got %v", err)
	}
}

func TestGenderValues(t *testing.T) {
	for _, val := range []int{0, 1, 2} {
		var g *int
		if err := Fields([]Field{
			{Name: "gender", Nullable: true, Rule: Gender(&g)},
		}, map[string]interface{}{"gender": val}); err != nil {
			t.Errorf("gender %d: expected valid, got %v", val, err)
		}
		if g == nil || *g != val {
			t.Errorf("gender %d: expected value stored, got %v", val, g)
		}
	}
	for _, bad := range []interface{}{-1, 3, "male", 1.5} {
		var g *int
		if err := Fields([]Field{
			{Name: "gender", Nullable: true, Rule: Gender(&g)},
		}, map[string]interface{}{"gender": bad}); err == nil {
			t.Errorf("gender %v: expected error, got nil", bad)
		}
	}
}

func TestClientIDs(t *testing.T) {
	var ids []int64
	err := Fields([]Field{
		{Name: "client_ids", Required: true, Rule: ClientIDs(&ids)},
	}, map[string]interface{}{"client_ids": []interface{}{json.Number("1"), json.Number("2"), json.Number("3")}})
	if err != nil {
		t.Fatalf("Expected valid client_ids, got %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Errorf("Expected [1 2 3], got %v", ids)
	}

	for _, bad := range []interface{}{
		"1,2,3",
		[]interface{}{json.Number("1"), "two"},
		[]interface{}{1.5},
	} {
		var out []int64
		if err := Fields([]Field{
			{Name: "client_ids", Required: true, Rule: ClientIDs(&out)},
		}, map[string]interface{}{"client_ids": bad}); err == nil {
			t.Errorf("client_ids %v: expected error, got nil", bad)
		}
	}
}
