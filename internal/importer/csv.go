package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"miniapp-shop/internal/domain"
	"miniapp-shop/internal/repository/catalog"
)

// CSVImporter reads a flat menu export. A row with an id starts an item;
// rows without one add further variants to the item above. Categories must
// already exist.
type CSVImporter struct {
	reader *csv.Reader
	dst    catalog.Writer
}

func NewCSVImporter(r io.Reader, dst catalog.Writer) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, dst: dst}
}

// Run upserts items and returns how many were written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current   *domain.MenuItem
		imported  int
		positions = map[string]int{}
	)
	flush := func() error {
		if current == nil {
			return nil
		}
		if err := validItem(*current); err != nil {
			return err
		}
		pos := positions[current.CategoryID]
		if err := i.dst.UpsertItem(ctx, *current, pos); err != nil {
			return fmt.Errorf("upsert item %q: %w", current.ID, err)
		}
		positions[current.CategoryID] = pos + 1
		imported++
		return nil
	}

	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		variant, err := parseVariant(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}

		if id := pick(record, index, "id"); id != "" {
			if err := flush(); err != nil {
				return imported, err
			}
			item, err := parseItem(id, record, index)
			if err != nil {
				return imported, fmt.Errorf("line %d: %w", line, err)
			}
			current = item
		} else if current == nil {
			continue
		}
		if variant != nil {
			current.Variants = append(current.Variants, *variant)
		}
	}

	if err := flush(); err != nil {
		return imported, err
	}
	return imported, nil
}

func parseItem(id string, record []string, index map[string]int) (*domain.MenuItem, error) {
	item := &domain.MenuItem{
		ID:          id,
		CategoryID:  pick(record, index, "category"),
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		Image:       pick(record, index, "image"),
	}
	if !catalog.ValidKey(item.CategoryID) {
		return nil, fmt.Errorf("item %q: invalid category %q", id, item.CategoryID)
	}
	if d := pick(record, index, "discount"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			return nil, fmt.Errorf("item %q: discount %q is not a number", id, d)
		}
		item.Discount = n
	}
	if g := pick(record, index, "gallery"); g != "" {
		for _, u := range strings.Split(g, ";") {
			if u = strings.TrimSpace(u); u != "" {
				item.Gallery = append(item.Gallery, u)
			}
		}
	}
	return item, nil
}

func parseVariant(record []string, index map[string]int) (*domain.Variant, error) {
	name := pick(record, index, "variant.name")
	costStr := pick(record, index, "variant.cost")
	if name == "" && costStr == "" {
		return nil, nil
	}
	v := &domain.Variant{
		ID:     pick(record, index, "variant.id"),
		Name:   name,
		Weight: pick(record, index, "variant.weight"),
	}
	if costStr != "" {
		cost, err := decimal.NewFromString(costStr)
		if err != nil {
			return nil, fmt.Errorf("variant cost %q is not a number", costStr)
		}
		v.Cost = cost
	}
	return v, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
