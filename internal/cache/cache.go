// Package cache publishes per-game action records to a Redis stream for
// the transcript/audit consumer. The publisher is optional: when Rdb is
// nil every publish is a no-op.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client, nil when Redis is not configured.
var Rdb *redis.Client

// actionStreamPrefix namespaces per-game action streams.
const actionStreamPrefix = "bluph:game:actions:"

// GameActionRecord is one ordered entry of a game's action history.
type GameActionRecord struct {
	GameCode      string                 `json:"gameCode"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorPlayerID uuid.UUID              `json:"actorPlayerId"`
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"`
}

// Init connects the package-level client. Returns an error if the ping
// fails; callers may treat Redis as optional and continue without it.
func Init(ctx context.Context, url string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	Rdb = client
	logrus.WithField("addr", opts.Addr).Info("connected to redis")
	return nil
}

// Close shuts the client down.
func Close() {
	if Rdb != nil {
		_ = Rdb.Close()
		Rdb = nil
	}
}

// PublishGameAction appends rec to the game's action stream.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return nil
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	key := actionStreamPrefix + rec.GameCode
	err = Rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: key,
		Values: map[string]interface{}{"record": payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", key, err)
	}
	return nil
}
