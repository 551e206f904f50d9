package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/repository/catalog"
)

type StockWriter interface {
	UpsertVariant(ctx context.Context, row catalog.StockRow) error
}

// CSVImporter reads stock CSV files (product_id, size, color, quantity, sku)
// and upserts variant quantities.
type CSVImporter struct {
	reader *csv.Reader
	stock  StockWriter
}

func NewCSVImporter(r io.Reader, stock StockWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader: csvr,
		stock:  stock,
	}
}

// Run parses CSV rows and upserts one variant per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", imported+2, err)
		}
		if row == nil {
			continue
		}

		if err := i.stock.UpsertVariant(ctx, *row); err != nil {
			return imported, fmt.Errorf("upsert variant product_id=%d size=%s color=%s: %w", row.ProductID, row.SizeName, row.Color, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func parseRow(record []string, index map[string]int) (*catalog.StockRow, error) {
	get := func(key string) string {
		i, ok := index[key]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rawID := get("product_id")
	if rawID == "" {
		return nil, nil
	}
	productID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad product_id %q", rawID)
	}

	quantity, err := strconv.Atoi(get("quantity"))
	if err != nil || quantity < 0 {
		return nil, fmt.Errorf("bad quantity %q", get("quantity"))
	}

	row := catalog.StockRow{
		ProductID: productID,
		SizeName:  get("size"),
		Color:     get("color"),
		Quantity:  quantity,
		SKU:       get("sku"),
	}
	if row.SizeName == "" || row.Color == "" {
		return nil, fmt.Errorf("size and color required")
	}
	return &row, nil
}
