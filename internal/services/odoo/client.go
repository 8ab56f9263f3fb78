package odoo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kolo/xmlrpc"
)

// ErrNotAuthenticated is returned by object calls made before Authenticate
var ErrNotAuthenticated = errors.New("odoo client is not authenticated")

// Client represents an Odoo XML-RPC client
type Client struct {
	URL       string
	Database  string
	Username  string
	Password  string
	CommonURL string
	ObjectURL string
	Transport http.RoundTripper

	mu  sync.RWMutex
	uid int
}

// NewClient creates a new Odoo client
func NewClient(url, db, username, password string) *Client {
	url = strings.TrimRight(url, "/")
	return &Client{
		URL:       url,
		Database:  db,
		Username:  username,
		Password:  password,
		CommonURL: fmt.Sprintf("%s/xmlrpc/2/common", url),
		ObjectURL: fmt.Sprintf("%s/xmlrpc/2/object", url),
		Transport: &http.Transport{ResponseHeaderTimeout: 30 * time.Second},
	}
}

// UID returns the authenticated user id, 0 before Authenticate
func (c *Client) UID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.uid
}

// Authenticate authenticates with Odoo and returns the user ID
func (c *Client) Authenticate() (int, error) {
	client, err := xmlrpc.NewClient(c.CommonURL, c.Transport)
	if err != nil {
		return 0, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{c.Database, c.Username, c.Password, map[string]interface{}{}}
	var uid int
	if err := client.Call("authenticate", args, &uid); err != nil {
		return 0, fmt.Errorf("authentication failed: %w", err)
	}
	if uid == 0 {
		return 0, fmt.Errorf("authentication failed: invalid credentials for %s", c.Username)
	}

	c.mu.Lock()
	c.uid = uid
	c.mu.Unlock()
	return uid, nil
}

// execute runs execute_kw on the object endpoint
func (c *Client) execute(model, method string, args []interface{}, kwargs map[string]interface{}, result interface{}) error {
	uid := c.UID()
	if uid == 0 {
		return ErrNotAuthenticated
	}

	client, err := xmlrpc.NewClient(c.ObjectURL, c.Transport)
	if err != nil {
		return fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	params := []interface{}{c.Database, uid, c.Password, model, method, args}
	if kwargs != nil {
		params = append(params, kwargs)
	}
	if err := client.Call("execute_kw", params, result); err != nil {
		return fmt.Errorf("failed to execute %s on %s: %w", method, model, err)
	}
	return nil
}

// SearchRead performs a generic search_read operation.
// result is a pointer to a slice of structs decoded through their json tags.
func (c *Client) SearchRead(model string, domain []interface{}, fields []string, limit, offset int, result interface{}) error {
	var rawResult []map[string]interface{}
	err := c.execute(model, "search_read", []interface{}{domain}, map[string]interface{}{
		"fields": fields,
		"limit":  limit,
		"offset": offset,
	}, &rawResult)
	if err != nil {
		return err
	}

	// Convert raw maps to target struct using JSON marshaling
	jsonData, err := json.Marshal(rawResult)
	if err != nil {
		return fmt.Errorf("failed to marshal raw result: %w", err)
	}
	if err := json.Unmarshal(jsonData, result); err != nil {
		return fmt.Errorf("failed to unmarshal into target: %w", err)
	}
	return nil
}

// Write updates existing record(s)
func (c *Client) Write(model string, ids []int64, values map[string]interface{}) error {
	var success bool
	if err := c.execute(model, "write", []interface{}{ids, values}, nil, &success); err != nil {
		return err
	}
	if !success {
		return fmt.Errorf("write operation returned false")
	}
	return nil
}
