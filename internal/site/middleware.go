package site

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestID tags every request with an id, reusing a well-formed incoming one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// visitorLog is a privacy-conscious access log. Client addresses are salted
// and hashed, Do Not Track requests are logged without them, and nothing is
// stored.
type visitorLog struct {
	salt   string
	logger *log.Logger
}

func newVisitorLog(salt string, logger *log.Logger) (*visitorLog, error) {
	if salt == "" {
		var err error
		if salt, err = generateSalt(); err != nil {
			return nil, err
		}
	}
	return &visitorLog{salt: salt, logger: logger}, nil
}

func generateSalt() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate log salt: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// hashIP is stable per address for the lifetime of the salt.
func (v *visitorLog) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + v.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func skipTracking(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/favicon") ||
		path == "/healthz"
}

func (v *visitorLog) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipTracking(path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		visitor := "-"
		if c.GetHeader("DNT") != "1" {
			visitor = v.hashIP(c.ClientIP())
		}
		v.logger.Printf("%s %s %d %s visitor=%s id=%s",
			c.Request.Method, path, c.Writer.Status(), time.Since(start).Round(time.Millisecond),
			visitor, c.GetString("request_id"))
	}
}
