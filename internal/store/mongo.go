// Pricemap - Crowd-sourced Real Estate Price Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricemap

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/pricemap/internal/logging"
	"github.com/tomtom215/pricemap/internal/metrics"
	"github.com/tomtom215/pricemap/internal/models"
)

const (
	backendMongo = "mongo"

	collectionProperties = "properties"
	collectionUsers      = "users"
)

// MongoConfig configures the MongoDB store. The deployment must be a replica
// set (or sharded cluster): vote updates use multi-document transactions.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// MongoStore keeps properties (with embedded votes) and users in MongoDB.
type MongoStore struct {
	client     *mongo.Client
	properties *mongo.Collection
	users      *mongo.Collection
}

// OpenMongo connects, pings the primary and ensures indexes.
func OpenMongo(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &MongoStore{
		client:     client,
		properties: db.Collection(collectionProperties),
		users:      db.Collection(collectionUsers),
	}
	if err := s.ensureIndexes(cctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logging.Info().Str("database", cfg.Database).Msg("Store opened")
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.properties.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "geometry", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "votes.voterId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create property indexes: %w", err)
	}
	_, err = s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "googleId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

// Backend implements Store.
func (s *MongoStore) Backend() string { return backendMongo }

// Update implements Store. The driver's WithTransaction retries transient
// transaction errors and unknown commit results on its own; a transient error
// that survives those retries is reported as ErrTxConflict.
func (s *MongoStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.Background())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&mongoTx{ctx: sc, properties: s.properties})
	})
	if err != nil && isTransientTxError(err) {
		metrics.RecordTxConflict(backendMongo)
		return fmt.Errorf("%w: %v", ErrTxConflict, err)
	}
	return err
}

func isTransientTxError(err error) bool {
	var le mongo.LabeledError
	if !errors.As(err, &le) {
		return false
	}
	return le.HasErrorLabel("TransientTransactionError") || le.HasErrorLabel("UnknownTransactionCommitResult")
}

// GetProperty implements PropertyStore.
func (s *MongoStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	return findProperty(ctx, s.properties, id)
}

// ListProperties implements PropertyStore.
func (s *MongoStore) ListProperties(ctx context.Context, filter models.ListingFilter) ([]models.Property, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"votes": 0})

	cur, err := s.properties.Find(ctx, listingQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find properties: %w", err)
	}
	out := []models.Property{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	return out, nil
}

// listingQuery translates the filter into a MongoDB query document.
func listingQuery(f models.ListingFilter) bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if len(f.PropertyTypes) > 0 {
		q["type"] = bson.M{"$in": f.PropertyTypes}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		q["price"] = price
	}
	if f.AnyRoomCount() {
		return q
	}

	var exact []int
	var alternatives bson.A
	for _, b := range f.Rooms {
		switch b.Kind {
		case models.RoomsExact:
			exact = append(exact, b.N)
		case models.RoomsAtLeast:
			alternatives = append(alternatives, bson.M{"rooms": bson.M{"$gte": b.N}})
		}
	}
	if len(exact) > 0 {
		alternatives = append(alternatives, bson.M{"rooms": bson.M{"$in": exact}})
	}
	if len(alternatives) == 1 {
		q["rooms"] = alternatives[0].(bson.M)["rooms"]
	} else {
		q["$or"] = alternatives
	}
	return q
}

// CreateProperty implements PropertyStore.
func (s *MongoStore) CreateProperty(ctx context.Context, p *models.Property) error {
	doc := *p
	if doc.Votes == nil {
		// $push needs an array, not null.
		doc.Votes = []models.Vote{}
	}
	if _, err := s.properties.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrPropertyExists, p.ID)
		}
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

// DeleteProperty implements PropertyStore.
func (s *MongoStore) DeleteProperty(ctx context.Context, id string) error {
	return deleteProperty(ctx, s.properties, id)
}

// GetVote implements VoteStore.
func (s *MongoStore) GetVote(ctx context.Context, propertyID, voterID string) (models.Vote, error) {
	p, err := findProperty(ctx, s.properties, propertyID)
	if err != nil {
		return models.Vote{}, err
	}
	v, ok := p.FindVote(voterID)
	if !ok {
		return models.Vote{}, ErrVoteNotFound
	}
	return v, nil
}

// ListVotesByVoter implements VoteStore.
func (s *MongoStore) ListVotesByVoter(ctx context.Context, voterID string) ([]models.UserVote, error) {
	opts := options.Find().SetProjection(bson.M{
		"votes": bson.M{"$elemMatch": bson.M{"voterId": voterID}},
	})
	cur, err := s.properties.Find(ctx, bson.M{"votes.voterId": voterID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find votes of %s: %w", voterID, err)
	}
	defer cur.Close(ctx)

	votes := []models.UserVote{}
	for cur.Next(ctx) {
		var doc struct {
			ID    string        `bson:"_id"`
			Votes []models.Vote `bson:"votes"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode votes: %w", err)
		}
		for _, v := range doc.Votes {
			votes = append(votes, models.UserVote{PropertyID: doc.ID, VoteType: v.VoteType, VotedAt: v.VotedAt})
		}
	}
	return votes, cur.Err()
}

// GetUser implements UserStore.
func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

// GetUserByEmail implements UserStore.
func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

// GetUserByGoogleID implements UserStore.
func (s *MongoStore) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"googleId": googleID})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// SaveUser implements UserStore.
func (s *MongoStore) SaveUser(ctx context.Context, u *models.User) error {
	_, err := s.users.ReplaceOne(ctx, bson.M{"_id": u.ID}, u, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Ping implements Store.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close implements Store.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func findProperty(ctx context.Context, coll *mongo.Collection, id string) (*models.Property, error) {
	var p models.Property
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find property %s: %w", id, err)
	}
	return &p, nil
}

func deleteProperty(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// mongoTx runs every operation on the session context, so they share one transaction.
type mongoTx struct {
	ctx        mongo.SessionContext
	properties *mongo.Collection
}

func (t *mongoTx) GetProperty(id string) (*models.Property, error) {
	return findProperty(t.ctx, t.properties, id)
}

func (t *mongoTx) FindVote(propertyID, voterID string) (models.Vote, error) {
	p, err := t.GetProperty(propertyID)
	if err != nil {
		return models.Vote{}, err
	}
	v, ok := p.FindVote(voterID)
	if !ok {
		return models.Vote{}, ErrVoteNotFound
	}
	return v, nil
}

func (t *mongoTx) InsertVote(propertyID string, vote models.Vote) error {
	res, err := t.properties.UpdateOne(t.ctx,
		bson.M{"_id": propertyID, "votes.voterId": bson.M{"$ne": vote.VoterID}},
		bson.M{
			"$push": bson.M{"votes": vote},
			"$set":  bson.M{"updatedAt": vote.VotedAt},
		},
	)
	if err != nil {
		return fmt.Errorf("push vote: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if _, err := t.GetProperty(propertyID); err != nil {
		return err
	}
	return ErrVoteExists
}

func (t *mongoTx) RemoveVote(propertyID, voterID string) (models.Vote, error) {
	v, err := t.FindVote(propertyID, voterID)
	if err != nil {
		return models.Vote{}, err
	}
	_, err = t.properties.UpdateOne(t.ctx,
		bson.M{"_id": propertyID},
		bson.M{"$pull": bson.M{"votes": bson.M{"voterId": voterID}}},
	)
	if err != nil {
		return models.Vote{}, fmt.Errorf("pull vote: %w", err)
	}
	return v, nil
}

func (t *mongoTx) SetScore(propertyID string, reliability float64, reviewCount int) error {
	res, err := t.properties.UpdateOne(t.ctx,
		bson.M{"_id": propertyID},
		bson.M{"$set": bson.M{
			"dataReliability": reliability,
			"numberOfReviews": reviewCount,
			"updatedAt":       time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("set score: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (t *mongoTx) DeleteProperty(id string) error {
	return deleteProperty(t.ctx, t.properties, id)
}
