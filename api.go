// Package visitortoken generates the opaque visitor data token that
// identifies an anonymous client session. A token is a small nested
// protobuf message, encoded with the wire package and rendered as unpadded
// base64url.
package visitortoken

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/anirudhraja/visitortoken/wire"
)

// ErrInvalidArgument is returned for arguments that cannot be encoded or
// sampled, such as negative varints or an empty alphabet.
var ErrInvalidArgument = wire.ErrInvalidArgument

// Generator produces visitor tokens. A Generator is safe for concurrent use.
type Generator struct {
	src    Source
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource sets the random source. Access to it is serialized by the
// Generator, so sources that are not goroutine-safe may be passed.
func WithSource(src Source) Option {
	return func(g *Generator) {
		g.src = &lockedSource{src: src}
	}
}

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithLogger sets the logger. If unset, nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator. Without options it draws from the math/rand/v2
// global generator and the system clock.
func New(opts ...Option) *Generator {
	g := &Generator{
		src:    globalSource{},
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a new unpadded base64url visitor token.
func (g *Generator) Generate() (string, error) {
	p, err := DrawParams(g.src, g.now())
	if err != nil {
		return "", err
	}

	token, err := Recipe(p).EncodeBase64()
	if err != nil {
		return "", err
	}

	g.logger.LogAttrs(context.Background(), slog.LevelDebug, "generated visitor token",
		slog.String("visitor_id", p.VisitorID),
		slog.Int64("issued_at", p.IssuedAt),
		slog.Int64("nonce", p.Nonce),
	)
	return token, nil
}

var defaultGenerator = New()

// GenerateVisitorToken returns a new visitor token using the system clock and
// the math/rand/v2 global generator. It is safe for concurrent use.
func GenerateVisitorToken() string {
	token, err := defaultGenerator.Generate()
	if err != nil {
		// unreachable: the recipe only carries values DrawParams keeps in range
		panic("visitortoken: " + err.Error())
	}
	return token
}
