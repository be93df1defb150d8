package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

func jsonBody(payload any) ([]byte, error) {
	return json.Marshal(payload)
}

// RespondJSONWithETag writes payload as JSON with a strong ETag and
// honors If-None-Match so list polls can short-circuit with a 304.
func RespondJSONWithETag(c *gin.Context, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		RespondInternal(c)
		return
	}

	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	c.Header("ETag", etag)

	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(status, "application/json; charset=utf-8", body)
}
