package mongo

import (
	"fmt"
	"strconv"

	"github.com/kishkisupermarket/khs/internal/domain/entity"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// productDocument is the stored shape of a product. Prices are plain doubles
// and _id may be an ObjectID, a string or an integer.
type productDocument struct {
	ID          bson.RawValue `bson:"_id"`
	Name        string        `bson:"name"`
	Description string        `bson:"description,omitempty"`
	Category    string        `bson:"category"`
	Price       float64       `bson:"price"`
	Discount    *int          `bson:"discount,omitempty"`
	OldPrice    *float64      `bson:"old_price,omitempty"`
	Rating      *float64      `bson:"rating,omitempty"`
	Reviews     *int          `bson:"reviews,omitempty"`
	IsNew       bool          `bson:"is_new,omitempty"`
	Image       string        `bson:"image,omitempty"`
}

// productWriteDocument is used for inserts, where _id is always the string id.
type productWriteDocument struct {
	ID          string   `bson:"_id"`
	Name        string   `bson:"name"`
	Description string   `bson:"description,omitempty"`
	Category    string   `bson:"category"`
	Price       float64  `bson:"price"`
	Discount    *int     `bson:"discount,omitempty"`
	OldPrice    *float64 `bson:"old_price,omitempty"`
	Rating      *float64 `bson:"rating,omitempty"`
	Reviews     *int     `bson:"reviews,omitempty"`
	IsNew       bool     `bson:"is_new,omitempty"`
	Image       string   `bson:"image,omitempty"`
}

func documentID(v bson.RawValue) (string, error) {
	switch v.Type {
	case bsontype.String:
		return v.StringValue(), nil
	case bsontype.ObjectID:
		return v.ObjectID().Hex(), nil
	case bsontype.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10), nil
	case bsontype.Int64:
		return strconv.FormatInt(v.Int64(), 10), nil
	default:
		return "", fmt.Errorf("unsupported _id type %s", v.Type)
	}
}

func toDomainProduct(d *productDocument) (entity.Product, error) {
	id, err := documentID(d.ID)
	if err != nil {
		return entity.Product{}, err
	}

	p := entity.Product{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Price:       decimal.NewFromFloat(d.Price),
		Discount:    d.Discount,
		Rating:      d.Rating,
		Reviews:     d.Reviews,
		IsNew:       d.IsNew,
		Image:       d.Image,
	}
	if d.OldPrice != nil {
		oldPrice := decimal.NewFromFloat(*d.OldPrice)
		p.OldPrice = &oldPrice
	}
	return p, nil
}

func toProductDocument(p entity.Product) productWriteDocument {
	doc := productWriteDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price.InexactFloat64(),
		Discount:    p.Discount,
		Rating:      p.Rating,
		Reviews:     p.Reviews,
		IsNew:       p.IsNew,
		Image:       p.Image,
	}
	if p.OldPrice != nil {
		oldPrice := p.OldPrice.InexactFloat64()
		doc.OldPrice = &oldPrice
	}
	return doc
}
