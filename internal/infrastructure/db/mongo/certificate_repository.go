package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/core/ports"
)

const certificatesCollection = "certificates"

type CertificateRepository struct {
	coll *mongo.Collection
}

func NewCertificateRepository(db *mongo.Database) *CertificateRepository {
	return &CertificateRepository{coll: db.Collection(certificatesCollection)}
}

type mongoCertificate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProductID string             `bson:"product_id"`
	VetID     string             `bson:"vet_id"`
	Status    string             `bson:"status"`
	Notes     string             `bson:"notes,omitempty"`
	IssuedAt  time.Time          `bson:"issued_at"`
	ExpiresAt *time.Time         `bson:"expires_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m mongoCertificate) toDomain() *domain.Certificate {
	c := &domain.Certificate{
		ID:        m.ID.Hex(),
		ProductID: m.ProductID,
		VetID:     m.VetID,
		Status:    domain.CertificateStatus(m.Status),
		Notes:     m.Notes,
		IssuedAt:  m.IssuedAt.UTC(),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if m.ExpiresAt != nil {
		exp := m.ExpiresAt.UTC()
		c.ExpiresAt = &exp
	}
	return c
}

func (r *CertificateRepository) Create(ctx context.Context, c *domain.Certificate) (*domain.Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoCertificate{
		ProductID: c.ProductID,
		VetID:     c.VetID,
		Status:    string(c.Status),
		Notes:     c.Notes,
		IssuedAt:  c.IssuedAt,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert certificate: %w", err)
	}
	created := *c
	created.ID = insertedID(res)
	return &created, nil
}

func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*domain.Certificate, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrCertificateNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoCertificate
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CertificateRepository) List(ctx context.Context, f ports.ListCertificatesFilter) ([]*domain.Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.ProductID != "" {
		filter["product_id"] = f.ProductID
	}
	if f.VetID != "" {
		filter["vet_id"] = f.VetID
	}

	opts := options.Find().SetSort(bson.D{{Key: "issued_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find certificates: %w", err)
	}
	var docs []mongoCertificate
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode certificates: %w", err)
	}

	out := make([]*domain.Certificate, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *CertificateRepository) Update(ctx context.Context, c *domain.Certificate) error {
	oid, ok := objectID(c.ID)
	if !ok {
		return domain.ErrCertificateNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"product_id": c.ProductID,
		"status":     string(c.Status),
		"notes":      c.Notes,
		"updated_at": c.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if c.ExpiresAt != nil {
		set["expires_at"] = *c.ExpiresAt
	} else {
		update["$unset"] = bson.M{"expires_at": ""}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update certificate: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCertificateNotFound
	}
	return nil
}

func (r *CertificateRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrCertificateNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCertificateNotFound
	}
	return nil
}
