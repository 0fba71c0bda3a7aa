package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrorResponse cuerpo de error HTTP. El cliente muestra Detail al usuario.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Money formatea un monto con 2 decimales fijos ("25.00").
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ReceiptNumber número de boleta opcional. Acepta número, string numérico, "" o null.
// Set es falso cuando el cliente no envió número; 0 también se asigna automáticamente.
type ReceiptNumber struct {
	Value int64
	Set   bool
}

// Ptr devuelve nil si no se envió número o si vino en 0.
func (r ReceiptNumber) Ptr() *int64 {
	if !r.Set || r.Value == 0 {
		return nil
	}
	v := r.Value
	return &v
}

func (r *ReceiptNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ReceiptNumber{}
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*r = ReceiptNumber{}
			return nil
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("numero_boleta inválido: %q", raw)
	}
	*r = ReceiptNumber{Value: n, Set: true}
	return nil
}

func (r ReceiptNumber) MarshalJSON() ([]byte, error) {
	if !r.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(r.Value, 10)), nil
}
