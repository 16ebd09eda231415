package mongo

import (
	"context"
	"fmt"

	"github.com/kishkisupermarket/khs/internal/domain/entity"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductSource reads the catalog from a MongoDB collection in natural
// insertion order.
type ProductSource struct {
	collection *mongo.Collection
	log        logger.Logger
}

func NewProductSource(db *mongo.Database, collection string, log logger.Logger) *ProductSource {
	return &ProductSource{
		collection: db.Collection(collection),
		log:        log,
	}
}

func (s *ProductSource) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	cursor, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]entity.Product, 0, len(docs))
	for _, d := range docs {
		p, err := toDomainProduct(d)
		if err != nil {
			s.log.Warnf("Skipping product document: %v", err)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// ReplaceAll swaps the collection contents for products, keeping their order.
func (s *ProductSource) ReplaceAll(ctx context.Context, products []entity.Product) error {
	if _, err := s.collection.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear products collection: %w", err)
	}
	if len(products) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(products))
	for _, p := range products {
		docs = append(docs, toProductDocument(p))
	}
	if _, err := s.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to insert products: %w", err)
	}
	s.log.Infof("Products collection replaced: Products=%d", len(products))
	return nil
}
