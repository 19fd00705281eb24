// internal/database/seeder.go
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"requisition-api-server/internal/importer"

	"go.uber.org/zap"
)

// Counter cho biết collection đã có dữ liệu hay chưa.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Importer là phần của importer.Importer mà seeder cần.
type Importer interface {
	Import(ctx context.Context, raw string) (importer.Report, error)
}

// SeedCatalog nạp danh mục hàng ban đầu từ file (.csv/.xlsx) khi collection items còn rỗng.
// Path rỗng thì bỏ qua.
func SeedCatalog(ctx context.Context, items Counter, im Importer, path string, log *zap.Logger) error {
	if path == "" {
		return nil
	}

	// Kiểm tra xem đã có item nào chưa
	count, err := items.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("Catalog already populated. Seeding skipped.", zap.Int64("items", count))
		return nil
	}

	log.Info("Catalog is empty. Seeding...", zap.String("file", path))
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}
	raw, err := importer.PayloadText(filepath.Base(path), data)
	if err != nil {
		return err
	}

	report, err := im.Import(ctx, raw)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	log.Info("Catalog seeded successfully.",
		zap.Int("succeeded", report.Succeeded), zap.Int("failed", report.Failed))
	return nil
}
