package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/panaderia-stock/internal/application/inventory"
	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain"
)

type stockRow struct {
	Line         int
	SKU          string
	LocationCode string
	Quantity     decimal.Decimal
}

type rowFailure struct {
	stockRow
	Err error
}

type loadResult struct {
	Applied   int
	Unchanged int
	Failed    []rowFailure
}

// parseRows lee el CSV separado por ';'. Omite líneas vacías, comentarios (#) y un encabezado
// cuya tercera columna no sea numérica. La cantidad admite coma decimal.
func parseRows(raw []byte) ([]stockRow, error) {
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	var rows []stockRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		qtyText := strings.Replace(strings.TrimSpace(rec[2]), ",", ".", 1)
		qty, err := decimal.NewFromString(qtyText)
		if err != nil {
			if len(rows) == 0 && line == 1 {
				continue // encabezado
			}
			return nil, fmt.Errorf("línea %d: cantidad %q inválida", line, rec[2])
		}
		if qty.IsNegative() {
			return nil, fmt.Errorf("línea %d: cantidad negativa", line)
		}
		rows = append(rows, stockRow{
			Line:         line,
			SKU:          strings.TrimSpace(rec[0]),
			LocationCode: strings.TrimSpace(rec[1]),
			Quantity:     qty,
		})
	}
	return rows, nil
}

// load resuelve SKU y código de local y fija cada saldo con SetQuantity. Una fila con datos
// desconocidos se reporta y no detiene la carga; un error de infraestructura sí.
func load(ctx context.Context, txRunner ports.TxRunner, adjust *inventory.AdjustUseCase, rows []stockRow, actor string) (*loadResult, error) {
	res := &loadResult{}
	locations := map[string]string{}
	for _, row := range rows {
		var itemID, locationID string
		err := txRunner.Run(ctx, func(repos ports.Repositories) error {
			item, err := repos.Items.GetBySKU(ctx, row.SKU)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("sku %s: %w", row.SKU, domain.ErrNotFound)
			}
			itemID = item.ID
			if id, ok := locations[row.LocationCode]; ok {
				locationID = id
				return nil
			}
			loc, err := repos.Locations.GetByCode(ctx, row.LocationCode)
			if err != nil {
				return err
			}
			if loc == nil {
				return fmt.Errorf("local %s: %w", row.LocationCode, domain.ErrNotFound)
			}
			locationID = loc.ID
			locations[row.LocationCode] = loc.ID
			return nil
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				res.Failed = append(res.Failed, rowFailure{stockRow: row, Err: err})
				continue
			}
			return res, err
		}

		out, err := adjust.SetQuantity(ctx, inventory.SetQuantityInput{
			ItemID:     itemID,
			LocationID: locationID,
			Quantity:   row.Quantity,
			Notes:      fmt.Sprintf("saldo inicial (línea %d)", row.Line),
			Actor:      actor,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
				res.Failed = append(res.Failed, rowFailure{stockRow: row, Err: err})
				continue
			}
			return res, err
		}
		if out.MovementID == "" {
			res.Unchanged++
		} else {
			res.Applied++
		}
	}
	return res, nil
}
