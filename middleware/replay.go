// middleware/replay.go
package middleware

import (
	"log"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const nonceTTL = 5 * time.Minute

// ReplayProtectionMiddleware rejects requests that reuse an X-Request-Nonce
// within the TTL window, or whose X-Request-Timestamp falls outside it.
// Nonces are claimed with SETNX in Redis so the check holds across instances.
// Requests without a nonce pass through.
func ReplayProtectionMiddleware(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		nonce := c.Get("X-Request-Nonce")
		if nonce == "" {
			return c.Next()
		}

		if ts := c.Get("X-Request-Timestamp"); ts != "" {
			unix, err := strconv.ParseInt(ts, 10, 64)
			if err != nil || math.Abs(time.Since(time.Unix(unix, 0)).Seconds()) > nonceTTL.Seconds() {
				log.Printf("🚫 [REPLAY] stale or malformed timestamp for %s", c.Path())
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "request timestamp outside the accepted window",
				})
			}
		}

		key := "nonce:" + nonce
		ok, err := rdb.SetNX(c.Context(), key, 1, nonceTTL).Result()
		if err != nil {
			// Redis being down should not take the API down with it
			log.Printf("⚠️ [REPLAY] redis unavailable, skipping nonce check: %v", err)
			return c.Next()
		}
		if !ok {
			log.Printf("🚫 [REPLAY] nonce reuse detected for %s", c.Path())
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "duplicate request nonce",
			})
		}

		return c.Next()
	}
}
