package csvjson

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"First Name":           "firstName",
		"Last Date":            "lastDate",
		"start_date":           "startDate",
		"  Job-Title ":         "jobTitle",
		"Start Date (MM/YYYY)": "startDateMMYYYY",
		"URL":                  "uRL",
		"e-mail address":       "eMailAddress",
		"name":                 "name",
		"(%)":                  "",
		"start\u00a0date":      "startDate",
		"Start\u2003Date":      "startDate",
		"\u00a0Name\u00a0":     "name",
	}
	for in, want := range cases {
		if got := NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCoerce(t *testing.T) {
	cases := []struct {
		in   string
		want Value
	}{
		{"true", BoolValue(true)},
		{"TRUE", BoolValue(true)},
		{"False", StringValue("False")},
		{"false", BoolValue(false)},
		{"42", NumberValue(42)},
		{"-3.5", NumberValue(-3.5)},
		{"1e3", NumberValue(1000)},
		{"", NullValue()},
		{"12 Main St", StringValue("12 Main St")},
		{"2020-01", StringValue("2020-01")},
		{"99999999999999999999", StringValue("99999999999999999999")},
	}
	for _, tc := range cases {
		if got := Coerce(tc.in); got != tc.want {
			t.Errorf("Coerce(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestNegativeZeroIsZero(t *testing.T) {
	for _, in := range []string{"-0", "-0.0", "-0e5"} {
		got, err := json.Marshal(Coerce(in))
		if err != nil {
			t.Fatalf("marshal %q: %v", in, err)
		}
		if string(got) != "0" {
			t.Errorf("Coerce(%q) encodes as %s, want 0", in, got)
		}
	}
}

func TestParseLanguagesExample(t *testing.T) {
	res, err := Parse("Name,Proficiency\nEnglish,Native\nFrench,Fluent\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, err := json.Marshal(res.Records)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"name":"English","proficiency":"Native"},{"name":"French","proficiency":"Fluent"}]`
	if string(got) != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestParseKeepsHeaderOrderAndTypes(t *testing.T) {
	res, err := Parse("\ufeffTitle,Year,Current,Notes\nEngineer,2021,true,\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if strings.Join(res.Headers, ",") != "title,year,current,notes" {
		t.Fatalf("unexpected headers %v", res.Headers)
	}
	got, _ := json.Marshal(res.Records[0])
	want := `{"title":"Engineer","year":2021,"current":true,"notes":null}`
	if string(got) != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestParseSkipsBadRows(t *testing.T) {
	text := "name,level\nGo,5\nShort\nPython,\"4\"x\nRust,3\n"
	res, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	if v, _ := res.Records[1].Get("name"); v.Str() != "Rust" {
		t.Fatalf("unexpected second record %v", res.Records[1])
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %v", res.Errors)
	}
	if res.Errors[0].Line != 3 {
		t.Fatalf("expected first bad row on line 3, got %d", res.Errors[0].Line)
	}
}

func TestParseSkipsEmptyLines(t *testing.T) {
	res, err := Parse("a,b\n\n1,2\n\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(res.Records) != 1 || len(res.Errors) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestParseWithoutHeader(t *testing.T) {
	for _, text := range []string{"", "\n\n", "(),[]\n1,2\n"} {
		if _, err := Parse(text); !errors.Is(err, ErrNoHeader) {
			t.Errorf("Parse(%q) error = %v, want ErrNoHeader", text, err)
		}
	}
}

func TestParseDuplicateHeadersKeepFirstPosition(t *testing.T) {
	res, err := Parse("Name,name,Level\nfirst,second,1\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, _ := json.Marshal(res.Records[0])
	if string(got) != `{"name":"second","level":1}` {
		t.Fatalf("got %s", got)
	}
}

func TestShapeAndMarshalPretty(t *testing.T) {
	res, err := Parse("Full Name,Headline\nMinh,Builder <web>\nIgnored,Row\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	single, err := MarshalPretty(Shape(res.Records, true))
	if err != nil {
		t.Fatalf("MarshalPretty() error = %v", err)
	}
	want := "{\n  \"fullName\": \"Minh\",\n  \"headline\": \"Builder <web>\"\n}"
	if string(single) != want {
		t.Fatalf("got %q\nwant %q", single, want)
	}

	empty, err := MarshalPretty(Shape(nil, true))
	if err != nil {
		t.Fatalf("MarshalPretty() error = %v", err)
	}
	if string(empty) != "[]" {
		t.Fatalf("expected empty list for singleton without rows, got %s", empty)
	}

	list, _ := MarshalPretty(Shape(res.Records, false))
	if !strings.HasPrefix(string(list), "[\n  {\n    \"fullName\": \"Minh\"") {
		t.Fatalf("unexpected list output %s", list)
	}
}
