//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type DatasetRefreshedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	Dataset     string    `json:"dataset"`
	Tables      []string  `json:"tables,omitempty"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	dataset := flag.String("dataset", "stats19", "Dataset name")
	tables := flag.String("tables", "geo_events_raw", "Comma-separated tables; empty means all")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := DatasetRefreshedEvent{
		EventID:     uuid.New(),
		Dataset:     *dataset,
		RefreshedAt: time.Now().UTC(),
	}
	if *tables != "" {
		event.Tables = strings.Split(*tables, ",")
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:dataset:refreshed",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published refresh event %s as message %s\n", event.EventID, result)
	fmt.Printf("Payload: %s\n", data)
}
