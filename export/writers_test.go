package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rakibhsn/chaldal-agent/models"
)

func sampleProducts() []models.Product {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	discount := 25.0
	return []models.Product{
		{
			Name:          "Soybean Oil 5L",
			Price:         "৳ 750",
			OriginalPrice: "৳ 1,000",
			DiscountPct:   &discount,
			Quantity:      "5 L",
			Category:      "oil",
			ProductURL:    "https://grocer.test/soybean-oil-5l",
			ScrapedAt:     now,
			UpdatedAt:     now,
		},
		{
			Name:      "Miniket Rice 1kg",
			Price:     "৳ 85",
			Quantity:  "1 kg",
			Category:  "rice",
			ScrapedAt: now,
			UpdatedAt: now,
		},
	}
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleProducts()))
	require.NoError(t, w.Validate())
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "name", records[0][0])
	require.Equal(t, "Soybean Oil 5L", records[1][0])
	require.Equal(t, "25.0", records[1][3])
	require.Equal(t, "", records[2][3])
}

func TestJSONWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")

	w, err := NewJSONWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleProducts()))
	require.NoError(t, w.Validate())
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []models.Product
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var p models.Product
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &p))
		lines = append(lines, p)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)
	require.Equal(t, "Soybean Oil 5L", lines[0].Name)
	require.NotNil(t, lines[0].DiscountPct)
	require.Nil(t, lines[1].DiscountPct)
}

func TestDualWriter(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "products.csv")
	jsonPath := filepath.Join(dir, "products.json")

	w, err := NewDualWriter(csvPath, jsonPath)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleProducts()))
	require.NoError(t, w.Validate())
	require.NoError(t, w.Close())

	for _, path := range []string{csvPath, jsonPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Positive(t, info.Size())
	}
}

func TestWriterCreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "products.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleProducts()))
	require.NoError(t, w.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)
}
