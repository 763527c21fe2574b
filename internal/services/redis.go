package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kwizerafab/twende-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheDriverStatus stores a driver's availability status for quick lookups.
func CacheDriverStatus(ctx context.Context, driverID uint, status models.DriverStatus) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("driver:status:%d", driverID)
	return RedisClient.Set(ctx, key, string(status), time.Hour).Err()
}

// GetCachedDriverStatus retrieves a driver's cached availability status.
func GetCachedDriverStatus(ctx context.Context, driverID uint) (models.DriverStatus, error) {
	if RedisClient == nil {
		return "", redis.Nil
	}
	key := fmt.Sprintf("driver:status:%d", driverID)
	result, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}
	return models.DriverStatus(result), nil
}

// CacheLocations stores the pickup/dropoff location list.
func CacheLocations(ctx context.Context, locations []string) error {
	if RedisClient == nil {
		return nil
	}
	data, err := json.Marshal(locations)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, "locations:all", data, 10*time.Minute).Err()
}

// GetCachedLocations retrieves the cached location list.
func GetCachedLocations(ctx context.Context) ([]string, error) {
	if RedisClient == nil {
		return nil, redis.Nil
	}
	data, err := RedisClient.Get(ctx, "locations:all").Result()
	if err != nil {
		return nil, err
	}

	var locations []string
	if err := json.Unmarshal([]byte(data), &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// PublishBookingEvent publishes a booking event to Redis pub/sub
func PublishBookingEvent(ctx context.Context, bookingID, tripID, driverID uint, seats int) error {
	if RedisClient == nil {
		return nil
	}

	eventData := map[string]interface{}{
		"bookingId": bookingID,
		"tripId":    tripID,
		"driverId":  driverID,
		"seats":     seats,
		"timestamp": time.Now().Unix(),
	}

	data, err := json.Marshal(eventData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "booking:events", data).Err()
}
