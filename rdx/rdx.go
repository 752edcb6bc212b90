package rdx

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Init connects to Redis. The connection is shared by the event emitter
// and the notification worker.
func Init(addr string) {
	Conn = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Conn.Ping(ctx).Err(); err != nil {
		log.Printf("Redis ping failed (%s): %v", addr, err)
	}
}
