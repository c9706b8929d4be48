package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

const reservationsCollection = "reservations"

type ReservationRepository struct {
	coll *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{coll: db.Collection(reservationsCollection)}
}

type mongoReservation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProductID string             `bson:"product_id"`
	BuyerID   string             `bson:"buyer_id"`
	SellerID  string             `bson:"seller_id"`
	Quantity  int                `bson:"quantity"`
	Status    string             `bson:"status"`
	Note      string             `bson:"note,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m mongoReservation) toDomain() *domain.Reservation {
	return &domain.Reservation{
		ID:        m.ID.Hex(),
		ProductID: m.ProductID,
		BuyerID:   m.BuyerID,
		SellerID:  m.SellerID,
		Quantity:  m.Quantity,
		Status:    domain.ReservationStatus(m.Status),
		Note:      m.Note,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ins, err := r.coll.InsertOne(ctx, mongoReservation{
		ProductID: res.ProductID,
		BuyerID:   res.BuyerID,
		SellerID:  res.SellerID,
		Quantity:  res.Quantity,
		Status:    string(res.Status),
		Note:      res.Note,
		CreatedAt: res.CreatedAt,
		UpdatedAt: res.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	created := *res
	created.ID = insertedID(ins)
	return &created, nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoReservation
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReservationRepository) List(ctx context.Context, f ports.ListReservationsFilter) ([]*domain.Reservation, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.BuyerID != "" {
		filter["buyer_id"] = f.BuyerID
	}
	if f.SellerID != "" {
		filter["seller_id"] = f.SellerID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	cur, err := r.coll.Find(ctx, filter, pageOptions(f.Skip(), f.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("find reservations: %w", err)
	}
	var docs []mongoReservation
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode reservations: %w", err)
	}

	out := make([]*domain.Reservation, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, total, nil
}

// UpdateStatus writes to only while the stored status is still from, so two
// racing transitions out of the same status cannot both succeed.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ReservationStatus) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid, "status": string(from)}, bson.M{"$set": bson.M{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("count reservation: %w", err)
	}
	if n == 0 {
		return domain.ErrReservationNotFound
	}
	return fmt.Errorf("%w (status changed from %s)", domain.ErrInvalidTransition, from)
}
