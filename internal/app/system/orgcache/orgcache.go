// internal/app/system/orgcache/orgcache.go

// Package orgcache keeps per-organization summary rows (member and pending
// counts) cached in memory so the organization screens don't re-aggregate on
// every render. Lifecycle operations call Reconcile after changing which
// organization a client belongs to.
package orgcache

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Aggregator is a minimal interface satisfied by *mongo.Database.
// It allows unit-testing aggregation helpers with a fake.
type Aggregator interface {
	Collection(name string, opts ...*options.CollectionOptions) *mongo.Collection
}

// Summary is one cached organization row.
type Summary struct {
	Members     int64
	Pending     int64
	RefreshedAt time.Time
}

// Cache holds org summaries. The zero value is not usable; construct with New.
type Cache struct {
	db  Aggregator
	log *zap.Logger

	mu   sync.RWMutex
	rows map[string]Summary
}

func New(db Aggregator, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{db: db, log: log, rows: make(map[string]Summary)}
}

// Get returns the cached summary and whether one is present.
func (c *Cache) Get(orgID string) (Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.rows[orgID]
	return s, ok
}

// Reconcile recomputes the summary for one organization. An empty org id is a
// no-op: it is the "no organization changed" signal. Failures only log; the
// cache is advisory and must never fail the operation that triggered it.
func (c *Cache) Reconcile(ctx context.Context, orgID string) {
	if orgID == "" {
		return
	}
	oid, err := primitive.ObjectIDFromHex(orgID)
	if err != nil {
		c.log.Warn("orgcache: bad org id", zap.String("org_id", orgID), zap.Error(err))
		return
	}

	members, err := c.countByOrg(ctx, "clients", bson.M{"organization_id": oid}, "organization_id")
	if err != nil {
		c.log.Warn("orgcache: member count failed", zap.String("org_id", orgID), zap.Error(err))
		return
	}
	pending, err := c.countByOrg(ctx, "org_assignments",
		bson.M{"business_organization_id": oid, "status": "PENDING"}, "business_organization_id")
	if err != nil {
		c.log.Warn("orgcache: pending count failed", zap.String("org_id", orgID), zap.Error(err))
		return
	}

	c.mu.Lock()
	c.rows[orgID] = Summary{
		Members:     members[oid],
		Pending:     pending[oid],
		RefreshedAt: time.Now().UTC(),
	}
	c.mu.Unlock()
}

// Invalidate drops one organization's row.
func (c *Cache) Invalidate(orgID string) {
	c.mu.Lock()
	delete(c.rows, orgID)
	c.mu.Unlock()
}

// countByOrg computes counts grouped by a field.
func (c *Cache) countByOrg(ctx context.Context, coll string, match bson.M, groupKey string) (map[primitive.ObjectID]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + groupKey},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := c.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[primitive.ObjectID]int64)
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int64              `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.N
	}
	return out, cur.Err()
}
