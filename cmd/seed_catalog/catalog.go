package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalogItem fila de la planilla: sku;nombre;precio;stock;categoria
type catalogItem struct {
	SKU      string
	Name     string
	Price    decimal.Decimal
	Stock    int
	Category string
}

// parseCatalog lee el CSV. Las planillas exportadas desde Excel suelen venir en
// ISO-8859-1; si el contenido no es UTF-8 válido se decodifica como Latin-1.
func parseCatalog(raw []byte) ([]catalogItem, error) {
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var items []catalogItem
	for i, rec := range records {
		if len(rec) == 0 || strings.HasPrefix(strings.TrimSpace(rec[0]), "#") {
			continue
		}
		// Cabecera opcional.
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "sku") {
			continue
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 4 columnas", i+1)
		}
		sku := strings.ToUpper(strings.TrimSpace(rec[0]))
		name := strings.TrimSpace(rec[1])
		if sku == "" || name == "" {
			return nil, fmt.Errorf("línea %d: sku y nombre son obligatorios", i+1)
		}
		if seen[sku] {
			return nil, fmt.Errorf("línea %d: sku %s repetido", i+1, sku)
		}
		seen[sku] = true

		// Acepta coma decimal ("1990,50").
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", "."))
		if err != nil || price.IsNegative() || !price.Equal(price.Round(2)) {
			return nil, fmt.Errorf("línea %d: precio inválido %q", i+1, rec[2])
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("línea %d: stock inválido %q", i+1, rec[3])
		}
		item := catalogItem{SKU: sku, Name: name, Price: price, Stock: stock}
		if len(rec) > 4 {
			item.Category = strings.TrimSpace(rec[4])
		}
		items = append(items, item)
	}
	return items, nil
}

// writeSQL escribe el script idempotente: categorías primero, luego productos por SKU.
func writeSQL(w io.Writer, items []catalogItem) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de productos\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")

	cats := make(map[string]bool)
	for _, it := range items {
		if it.Category != "" {
			cats[it.Category] = true
		}
	}
	if len(cats) > 0 {
		names := make([]string, 0, len(cats))
		for c := range cats {
			names = append(names, c)
		}
		sort.Strings(names)

		b.WriteString("-- 1. Categorías\n")
		b.WriteString("INSERT INTO categories (name) VALUES\n")
		for i, c := range names {
			sep := ","
			if i == len(names)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  ('%s')%s\n", escapeSQL(c), sep)
		}
		b.WriteString("ON CONFLICT (name) DO NOTHING;\n\n")
	}

	b.WriteString("-- 2. Productos\n")
	for _, it := range items {
		category := "NULL"
		if it.Category != "" {
			category = fmt.Sprintf("(SELECT id FROM categories WHERE name = '%s')", escapeSQL(it.Category))
		}
		fmt.Fprintf(&b, "INSERT INTO products (sku, name, price, stock, active, category_id)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', %s, %d, TRUE, %s)\n",
			escapeSQL(it.SKU), escapeSQL(it.Name), it.Price.StringFixed(2), it.Stock, category)
		b.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, category_id = EXCLUDED.category_id;\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
