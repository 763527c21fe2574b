package services

import (
	"context"
	"log"
	"time"
)

// RunAutoUnpauseLoop sweeps paused drivers once at startup and then on
// every tick, independently of request traffic. It exits when ctx is done.
func RunAutoUnpauseLoop(ctx context.Context, ratings *RatingService, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	sweep := func() {
		count, err := ratings.AutoUnpause(ctx, time.Now())
		if err != nil {
			log.Printf("Error unpausing drivers: %v", err)
			return
		}
		if count > 0 {
			log.Printf("Unpaused %d driver(s).", count)
		}
	}

	sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Auto-unpause sweep scheduled every %s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("Auto-unpause sweep stopped.")
			return
		case <-ticker.C:
			sweep()
		}
	}
}
