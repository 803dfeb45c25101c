package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/bizcoach-api/internal/domain/entity"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	domainRepo "github.com/sangkips/bizcoach-api/internal/domain/repository"
	"github.com/sangkips/bizcoach-api/internal/infrastructure/database"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Documents keep ids as strings so the collections stay readable from the mongo shell

type productDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Name      string    `bson:"name"`
	Category  string    `bson:"category"`
	CostPrice float64   `bson:"cost_price"`
	SellPrice float64   `bson:"sell_price"`
	ImageURL  *string   `bson:"image_url,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type customerDoc struct {
	ID             string     `bson:"_id"`
	UserID         string     `bson:"user_id"`
	Name           string     `bson:"name"`
	Phone          *string    `bson:"phone,omitempty"`
	Address        *string    `bson:"address,omitempty"`
	Age            *int       `bson:"age,omitempty"`
	Location       *string    `bson:"location,omitempty"`
	TotalOrders    int        `bson:"total_orders"`
	TotalSpent     float64    `bson:"total_spent"`
	LastOrderDate  *time.Time `bson:"last_order_date,omitempty"`
	CanceledOrders int        `bson:"canceled_orders"`
	CreatedAt      time.Time  `bson:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at"`
}

type saleDoc struct {
	ID           string          `bson:"_id"`
	UserID       string          `bson:"user_id"`
	Date         time.Time       `bson:"date"`
	CustomerID   string          `bson:"customer_id"`
	ProductID    string          `bson:"product_id"`
	Quantity     int             `bson:"quantity"`
	UnitPrice    float64         `bson:"unit_price"`
	TotalAmount  float64         `bson:"total_amount"`
	Status       enum.SaleStatus `bson:"status"`
	SalesChannel *string         `bson:"sales_channel,omitempty"`
	CreatedAt    time.Time       `bson:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at"`
}

type costDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	Date        time.Time `bson:"date"`
	Category    string    `bson:"category"`
	Amount      float64   `bson:"amount"`
	Description *string   `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// parseID maps a stored id back to a uuid. Malformed ids become uuid.Nil and
// therefore behave like dangling references.
func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func cents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func (d productDoc) toEntity() entity.Product {
	return entity.Product{
		ID: parseID(d.ID), UserID: parseID(d.UserID), Name: d.Name, Category: d.Category,
		CostPrice: d.CostPrice, SellPrice: d.SellPrice, ImageURL: d.ImageURL,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (d customerDoc) toEntity() entity.Customer {
	return entity.Customer{
		ID: parseID(d.ID), UserID: parseID(d.UserID), Name: d.Name,
		Phone: d.Phone, Address: d.Address, Age: d.Age, Location: d.Location,
		TotalOrders: d.TotalOrders, TotalSpent: d.TotalSpent, LastOrderDate: d.LastOrderDate,
		CanceledOrders: d.CanceledOrders, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (d saleDoc) toEntity() entity.Sale {
	return entity.Sale{
		ID: parseID(d.ID), UserID: parseID(d.UserID), Date: d.Date,
		CustomerID: parseID(d.CustomerID), ProductID: parseID(d.ProductID),
		Quantity: d.Quantity, UnitPrice: d.UnitPrice, TotalAmount: d.TotalAmount,
		Status: d.Status, SalesChannel: d.SalesChannel,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func newSaleDoc(s entity.Sale) saleDoc {
	return saleDoc{
		ID: s.ID.String(), UserID: s.UserID.String(), Date: s.Date,
		CustomerID: s.CustomerID.String(), ProductID: s.ProductID.String(),
		Quantity: s.Quantity, UnitPrice: cents(s.UnitPrice), TotalAmount: cents(s.TotalAmount),
		Status: s.Status, SalesChannel: s.SalesChannel,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

func (d costDoc) toEntity() entity.Cost {
	return entity.Cost{
		ID: parseID(d.ID), UserID: parseID(d.UserID), Date: d.Date, Category: d.Category,
		Amount: d.Amount, Description: d.Description,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

// ownerFilter builds the owner scope and, for dated collections, the date range
func ownerFilter(ownerID uuid.UUID, rng *domainRepo.DateRange) bson.D {
	filter := bson.D{{Key: "user_id", Value: ownerID.String()}}
	if rng != nil && rng.Bounded {
		filter = append(filter, bson.E{Key: "date", Value: bson.D{
			{Key: "$gte", Value: rng.From},
			{Key: "$lt", Value: rng.EndExclusive()},
		}})
	}
	return filter
}

type mongoRecordRepository struct {
	db  *mongo.Database
	now func() time.Time
}

// NewMongoRecordRepository creates the mongo backed record store
func NewMongoRecordRepository(db *mongo.Database) domainRepo.Store {
	return &mongoRecordRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func findAll[D any, E any](ctx context.Context, coll *mongo.Collection, filter bson.D, sort bson.D, convert func(D) E) ([]E, error) {
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return lo.Map(docs, func(d D, _ int) E { return convert(d) }), nil
}

var byDate = bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}
var byCreation = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

func (r *mongoRecordRepository) ListSales(ctx context.Context, ownerID uuid.UUID, rng domainRepo.DateRange) ([]entity.Sale, error) {
	sales, err := findAll(ctx, r.db.Collection(database.SalesCollection), ownerFilter(ownerID, &rng), byDate, saleDoc.toEntity)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

func (r *mongoRecordRepository) ListCosts(ctx context.Context, ownerID uuid.UUID, rng domainRepo.DateRange) ([]entity.Cost, error) {
	costs, err := findAll(ctx, r.db.Collection(database.CostsCollection), ownerFilter(ownerID, &rng), byDate, costDoc.toEntity)
	if err != nil {
		return nil, fmt.Errorf("list costs: %w", err)
	}
	return costs, nil
}

func (r *mongoRecordRepository) ListProducts(ctx context.Context, ownerID uuid.UUID) ([]entity.Product, error) {
	products, err := findAll(ctx, r.db.Collection(database.ProductsCollection), ownerFilter(ownerID, nil), byCreation, productDoc.toEntity)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *mongoRecordRepository) ListCustomers(ctx context.Context, ownerID uuid.UUID) ([]entity.Customer, error) {
	customers, err := findAll(ctx, r.db.Collection(database.CustomersCollection), ownerFilter(ownerID, nil), byCreation, customerDoc.toEntity)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (r *mongoRecordRepository) ListOwners(ctx context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{})
	for _, name := range []string{database.ProductsCollection, database.CustomersCollection, database.SalesCollection} {
		values, err := r.db.Collection(name).Distinct(ctx, "user_id", bson.D{})
		if err != nil {
			return nil, fmt.Errorf("list owners: %w", err)
		}
		for _, v := range values {
			if s, ok := v.(string); ok {
				if id := parseID(s); id != uuid.Nil {
					seen[id] = struct{}{}
				}
			}
		}
	}

	owners := lo.Keys(seen)
	slices.SortFunc(owners, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return owners, nil
}

func (r *mongoRecordRepository) GetProduct(ctx context.Context, ownerID, productID uuid.UUID) (*entity.Product, error) {
	var doc productDoc
	filter := append(ownerFilter(ownerID, nil), bson.E{Key: "_id", Value: productID.String()})
	err := r.db.Collection(database.ProductsCollection).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	p := doc.toEntity()
	return &p, nil
}

func (r *mongoRecordRepository) GetCustomer(ctx context.Context, ownerID, customerID uuid.UUID) (*entity.Customer, error) {
	var doc customerDoc
	filter := append(ownerFilter(ownerID, nil), bson.E{Key: "_id", Value: customerID.String()})
	err := r.db.Collection(database.CustomersCollection).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	c := doc.toEntity()
	return &c, nil
}

// RecordSale inserts the sale document and then applies $inc/$max to the
// customer document. Without a replica set the two writes are not atomic.
func (r *mongoRecordRepository) RecordSale(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	now := r.now()
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = now
	}
	sale.UpdatedAt = now

	doc := newSaleDoc(*sale)
	if _, err := r.db.Collection(database.SalesCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	if sale.IsCompleted() {
		filter := append(ownerFilter(sale.UserID, nil), bson.E{Key: "_id", Value: sale.CustomerID.String()})
		update := bson.D{
			{Key: "$inc", Value: bson.D{{Key: "total_orders", Value: 1}, {Key: "total_spent", Value: doc.TotalAmount}}},
			{Key: "$max", Value: bson.D{{Key: "last_order_date", Value: doc.Date}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now}}},
		}
		res, err := r.db.Collection(database.CustomersCollection).UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("update customer counters: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("update customer counters: %w", mongo.ErrNoDocuments)
		}
	}

	*sale = doc.toEntity()
	return nil
}

func (r *mongoRecordRepository) Close(ctx context.Context) error {
	return r.db.Client().Disconnect(ctx)
}
