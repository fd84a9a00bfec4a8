package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
)

// cartDocument is the MongoDB shape of a cart. The aggregate keeps its fields
// unexported, so persistence goes through this explicit mapping instead of
// struct tags on the domain type.
type cartDocument struct {
	ID         string             `bson:"_id"`
	CustomerID string             `bson:"customer_id"`
	Items      []cartItemDocument `bson:"items"`
	Converted  bool               `bson:"converted"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

type cartItemDocument struct {
	ID                string            `bson:"item_id"`
	ProductID         string            `bson:"product_id"`
	Options           map[string]string `bson:"options,omitempty"`
	Quantity          int               `bson:"quantity"`
	AddedAt           time.Time         `bson:"added_at"`
	UpdatedAt         time.Time         `bson:"updated_at"`
	Available         bool              `bson:"available"`
	UnavailableReason string            `bson:"unavailable_reason,omitempty"`
}

func toCartDocument(cart *domain.Cart) cartDocument {
	items := cart.Items()
	docs := make([]cartItemDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, cartItemDocument{
			ID:                item.ID().String(),
			ProductID:         item.ProductID().String(),
			Options:           item.Options().Values(),
			Quantity:          item.Quantity(),
			AddedAt:           item.AddedAt(),
			UpdatedAt:         item.LastModifiedAt(),
			Available:         item.IsAvailable(),
			UnavailableReason: item.UnavailableReason(),
		})
	}
	return cartDocument{
		ID:         cart.ID().String(),
		CustomerID: cart.CustomerID().String(),
		Items:      docs,
		Converted:  cart.IsConverted(),
		CreatedAt:  cart.CreatedAt(),
		UpdatedAt:  cart.LastModifiedAt(),
	}
}

func (d cartDocument) toDomain(clock domain.Clock) *domain.Cart {
	items := make([]*domain.CartItem, 0, len(d.Items))
	for _, doc := range d.Items {
		items = append(items, domain.RestoreCartItem(
			domain.CartItemID(doc.ID),
			domain.ProductID(doc.ProductID),
			domain.NewProductOptions(doc.Options),
			doc.Quantity,
			doc.AddedAt,
			doc.UpdatedAt,
			doc.Available,
			doc.UnavailableReason,
			clock,
		))
	}
	return domain.RestoreCart(
		domain.CartID(d.ID),
		domain.CustomerID(d.CustomerID),
		items,
		d.CreatedAt,
		d.UpdatedAt,
		d.Converted,
		clock,
	)
}

type mongoRepository struct {
	collection *mongo.Collection
	clock      domain.Clock
}

func NewMongoRepository(db *mongo.Database, clock domain.Clock) CartRepository {
	return &mongoRepository{
		collection: db.Collection("carts"),
		clock:      clock,
	}
}

func (m *mongoRepository) FindByID(ctx context.Context, id domain.CartID) (*domain.Cart, error) {
	var doc cartDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return doc.toDomain(m.clock), nil
}

// FindActiveByCustomerID returns the customer's most recently touched
// unconverted cart. Converted carts stay in the collection for order
// traceability but never come back from here.
func (m *mongoRepository) FindActiveByCustomerID(ctx context.Context, customerID domain.CustomerID) (*domain.Cart, error) {
	filter := bson.M{"customer_id": customerID.String(), "converted": false}
	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	var doc cartDocument
	err := m.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get active cart: %w", err)
	}
	return doc.toDomain(m.clock), nil
}

func (m *mongoRepository) Save(ctx context.Context, cart *domain.Cart) error {
	doc := toCartDocument(cart)

	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (m *mongoRepository) Delete(ctx context.Context, id domain.CartID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrCartNotFound
	}
	return nil
}

// CreateCartIndexes sets up the customer lookup index and the idle-cart TTL.
// Mongo's TTL monitor sweeps carts whose updated_at is older than the cart
// expiry, so abandonment cleanup needs no application-side job.
func CreateCartIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "converted", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(domain.CartExpiry / time.Second)),
		},
	}

	if _, err := db.Collection("carts").Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
