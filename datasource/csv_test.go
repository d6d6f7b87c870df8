package datasource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "1.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestCSVSourceLoads(t *testing.T) {
	path := writeCSV(t, "Time/Date,Item Name,Quantity Sold\n"+
		"2024-03-04 12:30:00,Dosa,3\n"+
		"2024-03-04T13:00:00,Tea,1\n")

	txs, err := NewCSVSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "Dosa", txs[0].ItemName)
	assert.Equal(t, 3, txs[0].Quantity)
	assert.Equal(t, 12, txs[0].Timestamp.Hour())
}

func TestCSVSourceExtraColumns(t *testing.T) {
	path := writeCSV(t, "Order ID,Time/Date,Item Name,Quantity Sold\n"+
		"17,2024-03-04 12:30:00,Dosa,3\n")
	txs, err := NewCSVSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestCSVSourceEmptyIsDataSourceError(t *testing.T) {
	path := writeCSV(t, "Time/Date,Item Name,Quantity Sold\n")
	_, err := NewCSVSource(path).Load(context.Background())
	if !errors.Is(err, models.ErrDataSource) {
		t.Fatalf("expected ErrDataSource, got %v", err)
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv")).Load(context.Background())
	if !errors.Is(err, models.ErrDataSource) {
		t.Fatalf("expected ErrDataSource, got %v", err)
	}
}

func TestCSVSourceMissingColumns(t *testing.T) {
	path := writeCSV(t, "When,What,HowMany\n2024-03-04,Dosa,3\n")
	_, err := NewCSVSource(path).Load(context.Background())
	if !errors.Is(err, models.ErrDataSource) {
		t.Fatalf("expected ErrDataSource, got %v", err)
	}
}

func TestCSVSourceRejectsNegativeQuantity(t *testing.T) {
	path := writeCSV(t, "Time/Date,Item Name,Quantity Sold\n2024-03-04 12:00:00,Dosa,-2\n")
	_, err := NewCSVSource(path).Load(context.Background())
	if !errors.Is(err, models.ErrDataSource) {
		t.Fatalf("expected ErrDataSource, got %v", err)
	}
}
