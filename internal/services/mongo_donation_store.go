package services

import (
	"context"
	"crypto/tls"
	"log"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fwrp/backend/internal/models"
)

// MongoDonationStore persists listings in the donated_food collection with
// uuid string ids.
type MongoDonationStore struct {
	client *mongo.Client
	db     *mongo.Database
	col    *mongo.Collection
}

func NewMongoDonationStore(ctx context.Context, mongoURI, dbName string) (*MongoDonationStore, error) {
	// Atlas occasionally fails TLS negotiation in some environments unless we
	// force TLS 1.2.
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("donated_food")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})

	log.Printf("MongoDB connected: db=%s collection=donated_food", dbName)
	return &MongoDonationStore{
		client: client,
		db:     db,
		col:    col,
	}, nil
}

func (s *MongoDonationStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoDonationStore) Create(ctx context.Context, d *models.Donation) (string, error) {
	d.ID = uuid.New().String()
	if _, err := s.col.InsertOne(ctx, d); err != nil {
		return "", err
	}
	return d.ID, nil
}

func (s *MongoDonationStore) GetByID(ctx context.Context, id string) (*models.Donation, error) {
	var d models.Donation
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *MongoDonationStore) List(ctx context.Context) ([]*models.Donation, error) {
	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := make([]*models.Donation, 0)
	for cur.Next(ctx) {
		var d models.Donation
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		results = append(results, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *MongoDonationStore) Patch(ctx context.Context, id string, fields map[string]interface{}) error {
	set := bson.M{}
	for name, value := range fields {
		set[name] = value
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrDonationNotFound
	}
	return nil
}

func (s *MongoDonationStore) Delete(ctx context.Context, id string) error {
	// Deleting an absent id succeeds, matching the memory store.
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
