package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fairyhunter13/item-registry-service/internal/model"
	"github.com/fairyhunter13/item-registry-service/internal/registry"
)

const maxBodyBytes = 1 << 20

func fieldErr(typ, msg string, loc ...any) FieldError {
	return FieldError{Type: typ, Loc: loc, Msg: msg}
}

// decodeItemInput parses a create-item body. Every failing field is reported;
// unknown fields are ignored.
func decodeItemInput(body []byte) (model.ItemInput, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return model.ItemInput{}, &ValidationError{Errors: []FieldError{
				fieldErr("missing", "Field required", "body"),
			}}
		}
		return model.ItemInput{}, &ValidationError{Errors: []FieldError{jsonInvalid(err)}}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return model.ItemInput{}, &ValidationError{Errors: []FieldError{
			fieldErr("json_invalid", "JSON decode error", "body", dec.InputOffset()),
		}}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.ItemInput{}, &ValidationError{Errors: []FieldError{
			fieldErr("model_attributes_type", "Input should be a valid dictionary or object to extract fields from", "body"),
		}}
	}

	var (
		in   model.ItemInput
		errs []FieldError
	)
	if fe := decodeName(obj, &in); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := decodeDescription(obj, &in); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := decodePrice(obj, &in); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := decodeQuantity(obj, &in); fe != nil {
		errs = append(errs, *fe)
	}
	if len(errs) > 0 {
		return model.ItemInput{}, &ValidationError{Errors: errs}
	}
	return in, nil
}

func jsonInvalid(err error) FieldError {
	var se *json.SyntaxError
	var off int64
	if errors.As(err, &se) {
		off = se.Offset
	}
	return fieldErr("json_invalid", "JSON decode error", "body", off)
}

func missing(name string) *FieldError {
	fe := fieldErr("missing", "Field required", "body", name)
	return &fe
}

func decodeName(obj map[string]any, in *model.ItemInput) *FieldError {
	v, ok := obj["name"]
	if !ok {
		return missing("name")
	}
	s, ok := v.(string)
	if !ok {
		fe := fieldErr("string_type", "Input should be a valid string", "body", "name")
		return &fe
	}
	in.Name = s
	return nil
}

func decodeDescription(obj map[string]any, in *model.ItemInput) *FieldError {
	v, ok := obj["description"]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		fe := fieldErr("string_type", "Input should be a valid string", "body", "description")
		return &fe
	}
	in.Description = &s
	return nil
}

// boolNumber mirrors lax JSON coercion of booleans into numbers.
func boolNumber(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func decodePrice(obj map[string]any, in *model.ItemInput) *FieldError {
	v, ok := obj["price"]
	if !ok {
		return missing("price")
	}
	var (
		f   float64
		err error
	)
	switch x := v.(type) {
	case json.Number:
		f, err = x.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			fe := fieldErr("float_parsing", "Input should be a valid number, unable to parse string as a number", "body", "price")
			return &fe
		}
	case bool:
		f = float64(boolNumber(x))
	default:
		fe := fieldErr("float_type", "Input should be a valid number", "body", "price")
		return &fe
	}
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		fe := fieldErr("finite_number", "Input should be a finite number", "body", "price")
		return &fe
	}
	in.Price = f
	return nil
}

func decodeQuantity(obj map[string]any, in *model.ItemInput) *FieldError {
	v, ok := obj["quantity"]
	if !ok {
		return missing("quantity")
	}
	switch x := v.(type) {
	case json.Number:
		return quantityFromNumber(x, in)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return quantityTooLarge()
		}
		if err != nil {
			fe := fieldErr("int_parsing", "Input should be a valid integer, unable to parse string as an integer", "body", "quantity")
			return &fe
		}
		in.Quantity = i
		return nil
	case bool:
		in.Quantity = boolNumber(x)
		return nil
	default:
		fe := fieldErr("int_type", "Input should be a valid integer", "body", "quantity")
		return &fe
	}
}

func quantityTooLarge() *FieldError {
	fe := fieldErr("int_parsing_size", "Unable to parse input string as an integer, exceeded maximum size", "body", "quantity")
	return &fe
}

func quantityFromNumber(n json.Number, in *model.ItemInput) *FieldError {
	if i, err := n.Int64(); err == nil {
		in.Quantity = i
		return nil
	}
	// Integral floats such as 4.0 are accepted.
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return quantityTooLarge()
	}
	if f != math.Trunc(f) {
		fe := fieldErr("int_from_float", "Input should be a valid integer, got a number with a fractional part", "body", "quantity")
		return &fe
	}
	in.Quantity = int64(f)
	return nil
}

// parseItemID parses the item_id path parameter.
func parseItemID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		// No id outside int64 is ever assigned.
		return 0, fmt.Errorf("item %s: %w", s, registry.ErrNotFound)
	}
	if err != nil {
		return 0, &ValidationError{Errors: []FieldError{
			fieldErr("int_parsing", "Input should be a valid integer, unable to parse string as an integer", "path", "item_id"),
		}}
	}
	return id, nil
}
