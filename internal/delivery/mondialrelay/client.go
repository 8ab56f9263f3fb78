package mondialrelay

import (
	"context"
	"time"
)

// Credentials are the parameters a carrier session is opened with
type Credentials struct {
	Username    string
	Password    string
	CustomerID  string
	Culture     string
	LabelFormat string
	PDFFormat   string
	Version     string
	Timeout     time.Duration
	Debug       bool
}

// CreateResult is the carrier's answer to a create call.
// Any combination of the three fields may be empty.
type CreateResult struct {
	Reference string
	Label     []byte
	Error     string
}

// Client opens carrier sessions
type Client interface {
	Open(ctx context.Context, creds Credentials) (Session, error)
}

// Session is a connection to the carrier used serially for a whole batch.
// Close releases its network resources and must be called once.
type Session interface {
	Create(ctx context.Context, payload Payload) (*CreateResult, error)
	Close() error
}
