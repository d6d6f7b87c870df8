package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"app/models"
	"app/utils"
)

// Column headers of the canteen POS export.
const (
	csvTimestampHeader = "Time/Date"
	csvItemHeader      = "Item Name"
	csvQuantityHeader  = "Quantity Sold"
)

// CSVSource reads the transaction log from a POS CSV export with a header
// row naming at least the Time/Date, Item Name and Quantity Sold columns.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Load(ctx context.Context) ([]models.TransactionRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %v", s.Path, models.ErrDataSource, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w: %v", s.Path, models.ErrDataSource, err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	tsCol, ok1 := cols[csvTimestampHeader]
	itemCol, ok2 := cols[csvItemHeader]
	qtyCol, ok3 := cols[csvQuantityHeader]
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("%s is missing required columns: %w", s.Path, models.ErrDataSource)
	}

	var transactions []models.TransactionRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w: %v", s.Path, line, models.ErrDataSource, err)
		}
		ts, err := utils.ParseFlexibleTime(strings.TrimSpace(row[tsCol]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad timestamp %q: %w", s.Path, line, row[tsCol], models.ErrDataSource)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(row[qtyCol]))
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("%s line %d: bad quantity %q: %w", s.Path, line, row[qtyCol], models.ErrDataSource)
		}
		transactions = append(transactions, models.TransactionRecord{
			Timestamp: ts,
			ItemName:  strings.TrimSpace(row[itemCol]),
			Quantity:  qty,
		})
	}

	if len(transactions) == 0 {
		return nil, fmt.Errorf("%s has no transactions: %w", s.Path, models.ErrDataSource)
	}
	return transactions, nil
}
