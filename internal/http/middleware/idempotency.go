// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file validates the Idempotency-Key header on POST requests. A valid key
// is stashed for the handler (GetIdempotencyKey); when the supplied lookup
// reports a stored result for (article_id, key) the request is flagged as a
// replay (IsReplay). Only the first replay of a pair within the bypass window
// is exempted from rate limiting. Serving the stored comment is left to the
// comment service.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed is set to "true" on responses served from a
// stored idempotency record.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key stashed by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the lookup found a stored result for this request.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. Defaults to ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
	// BypassWindow is how long a granted rate bypass is remembered per
	// (article_id, key). Values <= 0 default to bucketIdleTTL.
	BypassWindow time.Duration
}

// replayGrants remembers which (article_id, key) pairs already spent their
// rate bypass.
type replayGrants struct {
	window    time.Duration
	mu        sync.Mutex
	granted   map[string]time.Time
	lastSweep time.Time
}

func newReplayGrants(window time.Duration) *replayGrants {
	return &replayGrants{window: window, granted: make(map[string]time.Time)}
}

// take reports whether the pair may skip the limiter at now and records the
// grant. A pair is granted again once window has elapsed.
func (g *replayGrants) take(articleID int64, key string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if now.Sub(g.lastSweep) >= sweepInterval {
		for k, at := range g.granted {
			if now.Sub(at) >= g.window {
				delete(g.granted, k)
			}
		}
		g.lastSweep = now
	}

	id := strconv.FormatInt(articleID, 10) + ":" + key
	if at, ok := g.granted[id]; ok && now.Sub(at) < g.window {
		return false
	}
	g.granted[id] = now
	return true
}

// IdempotencyLookup reports whether a still-valid record exists for
// (articleID, key) at now. Errors never block the request.
type IdempotencyLookup func(ctx context.Context, articleID int64, key string, now time.Time) (bool, error)

// IdempotencyValidator checks the Idempotency-Key header of POST requests.
//
//   - Other methods and requests without the header pass through untouched.
//   - An over-long or badly formed key is rejected with 400.
//   - A lookup hit marks the request as a replay. The first hit for a pair
//     within BypassWindow also sets the rate bypass; later ones are limited.
//
// The article id comes from the :article_id path parameter; requests where it
// does not parse skip the lookup and are left for the handler to reject.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}
	window := opts.BypassWindow
	if window <= 0 {
		window = bucketIdleTTL
	}
	grants := newReplayGrants(window)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abortWithError(c, http.StatusBadRequest, "bad_idempotency_key", "invalid Idempotency-Key")
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			if id, err := strconv.ParseInt(c.Param("article_id"), 10, 64); err == nil {
				now := time.Now().UTC()
				if exists, _ := lookup(c.Request.Context(), id, key, now); exists {
					c.Set(ctxKeyIdemReplay, true)
					if grants.take(id, key, now) {
						c.Set(ctxKeyRateBypass, true)
					}
				}
			}
		}

		c.Next()
	}
}
