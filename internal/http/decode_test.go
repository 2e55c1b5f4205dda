package httpapi

import (
	"errors"
	"testing"

	"github.com/fairyhunter13/item-registry-service/internal/registry"
)

func TestDecodeItemInput_Valid(t *testing.T) {
	cases := []struct {
		name, body string
		wantQty    int64
		wantDesc   *string
	}{
		{"plain", `{"name":"a","price":1.5,"quantity":3}`, 3, nil},
		{"null_description", `{"name":"a","description":null,"price":1,"quantity":3}`, 3, nil},
		{"integral_float_quantity", `{"name":"a","price":1,"quantity":4.0}`, 4, nil},
		{"negative_values", `{"name":"a","price":-1,"quantity":-2}`, -2, nil},
		{"trailing_whitespace", "{\"name\":\"a\",\"price\":1,\"quantity\":1}\n  ", 1, nil},
		{"numeric_strings", `{"name":"a","price":"2.5","quantity":"4"}`, 4, nil},
		{"padded_numeric_strings", `{"name":"a","price":" 3 ","quantity":" 7 "}`, 7, nil},
		{"bool_quantity", `{"name":"a","price":1,"quantity":true}`, 1, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := decodeItemInput([]byte(tc.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if in.Quantity != tc.wantQty || in.Description != tc.wantDesc {
				t.Fatalf("unexpected input: %+v", in)
			}
		})
	}
}

func TestDecodeItemInput_Description(t *testing.T) {
	in, err := decodeItemInput([]byte(`{"name":"a","description":"","price":1,"quantity":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Description == nil || *in.Description != "" {
		t.Fatalf("expected empty description, got %v", in.Description)
	}
}

func TestDecodeItemInput_LaxNumbers(t *testing.T) {
	in, err := decodeItemInput([]byte(`{"name":"w","price":"2.5","quantity":"4"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Price != 2.5 || in.Quantity != 4 {
		t.Fatalf("unexpected input: %+v", in)
	}

	in, err = decodeItemInput([]byte(`{"name":"w","price":false,"quantity":false}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Price != 0 || in.Quantity != 0 {
		t.Fatalf("expected booleans as zero, got %+v", in)
	}

	in, err = decodeItemInput([]byte(`{"name":"w","price":true,"quantity":3}`))
	if err != nil || in.Price != 1 {
		t.Fatalf("expected true price as 1, got %+v %v", in, err)
	}
}

func TestDecodeItemInput_Invalid(t *testing.T) {
	cases := []struct {
		name, body, wantType string
	}{
		{"empty_body", ``, "missing"},
		{"malformed", `{"name":"a",`, "json_invalid"},
		{"trailing_garbage", `{"name":"a","price":1,"quantity":1}}`, "json_invalid"},
		{"array_body", `[1,2]`, "model_attributes_type"},
		{"name_number", `{"name":1,"price":1,"quantity":1}`, "string_type"},
		{"price_word", `{"name":"a","price":"cheap","quantity":1}`, "float_parsing"},
		{"price_object", `{"name":"a","price":{"v":1},"quantity":1}`, "float_type"},
		{"price_string_nan", `{"name":"a","price":"nan","quantity":1}`, "finite_number"},
		{"quantity_word", `{"name":"a","price":1,"quantity":"many"}`, "int_parsing"},
		{"quantity_decimal_string", `{"name":"a","price":1,"quantity":"4.5"}`, "int_parsing"},
		{"quantity_string_huge", `{"name":"a","price":1,"quantity":"99999999999999999999"}`, "int_parsing_size"},
		{"quantity_list", `{"name":"a","price":1,"quantity":[1]}`, "int_type"},
		{"price_null", `{"name":"a","price":null,"quantity":1}`, "float_type"},
		{"price_overflow", `{"name":"a","price":1e400,"quantity":1}`, "finite_number"},
		{"quantity_fraction", `{"name":"a","price":1,"quantity":1.5}`, "int_from_float"},
		{"quantity_huge", `{"name":"a","price":1,"quantity":1e30}`, "int_parsing_size"},
		{"quantity_missing", `{"name":"a","price":1}`, "missing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeItemInput([]byte(tc.body))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(ve.Errors) != 1 || ve.Errors[0].Type != tc.wantType {
				t.Fatalf("expected single %s error, got %+v", tc.wantType, ve.Errors)
			}
		})
	}
}

func TestParseItemID(t *testing.T) {
	if id, err := parseItemID("42"); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d %v", id, err)
	}
	if id, err := parseItemID("-3"); err != nil || id != -3 {
		t.Fatalf("expected -3, got %d %v", id, err)
	}
	for _, s := range []string{"abc", "1.5", ""} {
		_, err := parseItemID(s)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected validation error for %q, got %v", s, err)
		}
	}
	for _, s := range []string{"99999999999999999999", "-99999999999999999999"} {
		if _, err := parseItemID(s); !errors.Is(err, registry.ErrNotFound) {
			t.Fatalf("expected not found for %q, got %v", s, err)
		}
	}
}
