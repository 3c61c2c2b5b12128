package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"radagast/internal/domain"
)

// CSV contract: one product per row, recipe packed into a single cell as
// "ingredientName:quantity" pairs joined by "; ". Quoting follows standard
// CSV escaping. Import is lenient: a malformed price or recipe quantity
// becomes 0 and ingredient names are not checked against the catalog.

var csvHeader = []string{"name", "category", "price", "imageUrl", "recipe", "status"}

// WriteProductsCSV writes the collection in export order.
func WriteProductsCSV(w io.Writer, products []domain.Product) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, p := range products {
		record := []string{
			p.Name,
			p.Category,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			p.ImageRef,
			encodeRecipe(p.Recipe),
			string(p.Status),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ParseProductsCSV reads rows into products without IDs; the store assigns
// IDs on import. Columns are matched by header name, so column order and
// extra columns do not matter.
func ParseProductsCSV(r io.Reader) ([]domain.Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.TrimSpace(strings.ToLower(h))] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	products := make([]domain.Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		price, _ := strconv.ParseFloat(strings.TrimSpace(field(row, "price")), 64)
		products = append(products, domain.Product{
			Name:     field(row, "name"),
			Category: field(row, "category"),
			Price:    price,
			ImageRef: field(row, "imageurl"),
			Recipe:   decodeRecipe(field(row, "recipe")),
		})
	}
	return products, nil
}

func encodeRecipe(recipe []domain.RecipeLine) string {
	pairs := make([]string, len(recipe))
	for i, line := range recipe {
		pairs[i] = fmt.Sprintf("%s:%s", line.IngredientName, strconv.FormatFloat(line.Quantity, 'f', -1, 64))
	}
	return strings.Join(pairs, "; ")
}

func decodeRecipe(cell string) []domain.RecipeLine {
	var recipe []domain.RecipeLine
	for _, pair := range strings.Split(cell, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, qtyStr, _ := strings.Cut(pair, ":")
		qty, _ := strconv.ParseFloat(strings.TrimSpace(qtyStr), 64)
		recipe = append(recipe, domain.RecipeLine{
			IngredientName: strings.TrimSpace(name),
			Quantity:       qty,
		})
	}
	return recipe
}
