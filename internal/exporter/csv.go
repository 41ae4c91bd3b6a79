package exporter

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"i94cli/internal/errors"
)

// WriteTableCSV writes one table as <dir>/<name>.csv and returns the
// written path.
func WriteTableCSV(ctx context.Context, logger *slog.Logger, dir string, t Table) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.NewStorageError("create tables directory", err)
	}

	path := filepath.Join(dir, fileName(t.Name)+".csv")
	file, err := os.Create(path)
	if err != nil {
		return "", errors.NewStorageError("create CSV file "+path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(t.Columns); err != nil {
		return "", errors.NewStorageError("write CSV header", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return "", errors.NewStorageError("write CSV row", err)
		}
	}

	logger.InfoContext(ctx, "wrote table",
		slog.String("path", path),
		slog.Int("rows", len(t.Rows)))

	return path, nil
}

func fileName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "/", "_")
}
