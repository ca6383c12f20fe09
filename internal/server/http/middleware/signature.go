package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/nacl/sign"

	"github.com/polkiloo/savingsvault/internal/domain/model"
)

const (
	// ProofContextKey is a gin context key for the signer proof of the request.
	ProofContextKey = "proof"
	// SignerHeader carries the base58 identity that signed the request body.
	SignerHeader = "X-Signer"
	// SignatureHeader carries the base58 ed25519 signature over the raw request body.
	SignatureHeader = "X-Signature"
	// MaxSignedBodyBytes bounds the body buffered for signature checks.
	MaxSignedBodyBytes = 1 << 20
)

// SignedRequest requires signer headers and attaches a model.Proof over the raw body.
// The proof is only parsed here; whether it authorizes the operation is decided by the use case.
func SignedRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		signer, err := model.ParseAddress(c.GetHeader(SignerHeader))
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		signature, err := base58.Decode(c.GetHeader(SignatureHeader))
		if err != nil || len(signature) != sign.Overhead {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, err = io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxSignedBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					c.AbortWithStatus(http.StatusRequestEntityTooLarge)
					return
				}
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		c.Set(ProofContextKey, model.Proof{Signer: signer, Message: body, Signature: signature})
		c.Next()
	}
}
