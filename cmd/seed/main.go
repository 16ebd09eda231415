// Command seed moves the product list between the product file and the
// MongoDB products collection. The import action lets the storefront run
// with CATALOG_SOURCE=mongo; export writes the collection back to a file.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	fileadapter "github.com/kishkisupermarket/khs/internal/adapter/file"
	mongoadapter "github.com/kishkisupermarket/khs/internal/adapter/mongo"
	"github.com/kishkisupermarket/khs/internal/app/config"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
)

func main() {
	var (
		action  = flag.String("action", "import", "Action: import (file to MongoDB), export (MongoDB to file)")
		path    = flag.String("file", "", "Product file (defaults to catalog.file_path)")
		timeout = flag.Duration("timeout", 30*time.Second, "Operation timeout")
	)
	flag.Parse()

	cfg := config.MustLoad()
	if *path == "" {
		*path = cfg.Catalog.FilePath
	}

	appLogger, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		appLogger.Fatalf("Failed to initialize MongoDB client: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	source := mongoadapter.NewProductSource(client.Database(cfg.MongoDB.Database), cfg.MongoDB.Collection, appLogger)

	switch *action {
	case "import":
		products, err := fileadapter.NewProductSource(*path).FetchProducts(ctx)
		if err != nil {
			appLogger.Fatalf("Failed to read products: %v", err)
		}
		if err := source.ReplaceAll(ctx, products); err != nil {
			appLogger.Fatalf("Failed to seed products: %v", err)
		}
		appLogger.Infof("Seeded %d products into %s.%s", len(products), cfg.MongoDB.Database, cfg.MongoDB.Collection)
	case "export":
		products, err := source.FetchProducts(ctx)
		if err != nil {
			appLogger.Fatalf("Failed to read products from MongoDB: %v", err)
		}
		if err := fileadapter.WriteProducts(*path, products); err != nil {
			appLogger.Fatalf("Failed to export products: %v", err)
		}
		appLogger.Infof("Exported %d products from %s.%s to %s", len(products), cfg.MongoDB.Database, cfg.MongoDB.Collection, *path)
	default:
		appLogger.Fatalf("Unknown action %q, expected import or export", *action)
	}
}
