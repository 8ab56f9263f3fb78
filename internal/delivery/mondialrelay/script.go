package mondialrelay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

const defaultTimeout = 30 * time.Second

// ScriptConfig configures the helper script that speaks the carrier's web service
type ScriptConfig struct {
	ScriptPath string // Path to the helper script (create-mondialrelay-shipment.js)
	NodePath   string // Interpreter, defaults to "node"
	URL        string // Web service endpoint passed to the script, empty for its default
}

// ScriptClient opens sessions backed by an external helper script.
// The script receives the payload as a JSON file and prints one JSON result on stdout.
type ScriptClient struct {
	config ScriptConfig
}

// NewScriptClient creates a client for the given helper script
func NewScriptClient(config ScriptConfig) (*ScriptClient, error) {
	if config.NodePath == "" {
		config.NodePath = "node"
	}
	if config.ScriptPath == "" {
		return nil, fmt.Errorf("script path is required")
	}
	if _, err := os.Stat(config.ScriptPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("script not found at %s", config.ScriptPath)
	}
	return &ScriptClient{config: config}, nil
}

// Open prepares a working directory for the batch and checks the credentials
func (c *ScriptClient) Open(ctx context.Context, creds Credentials) (Session, error) {
	if creds.Username == "" || creds.Password == "" || creds.CustomerID == "" {
		return nil, fmt.Errorf("%w: incomplete credentials", ErrSessionUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}
	if creds.Timeout <= 0 {
		creds.Timeout = defaultTimeout
	}

	dir, err := os.MkdirTemp("", "mondialrelay-session-*")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create work dir: %v", ErrSessionUnavailable, err)
	}

	return &scriptSession{
		config: c.config,
		creds:  creds,
		dir:    dir,
	}, nil
}

type scriptSession struct {
	config ScriptConfig
	creds  Credentials
	dir    string

	mu     sync.Mutex
	seq    int
	closed bool
}

type scriptResult struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
	Label     []byte `json:"label"` // base64 in the script output
	Error     string `json:"error"`
	Message   string `json:"message"`
}

// Create hands one payload to the script and decodes its answer
func (s *scriptSession) Create(ctx context.Context, payload Payload) (*CreateResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.New("session is closed")
	}
	s.seq++
	dataFile := filepath.Join(s.dir, fmt.Sprintf("shipment-%d.json", s.seq))
	s.mu.Unlock()

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := os.WriteFile(dataFile, jsonData, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write payload: %w", err)
	}
	defer os.Remove(dataFile)

	args := []string{
		s.config.ScriptPath,
		"--data=" + dataFile,
		"--json-output",
		"--culture=" + s.creds.Culture,
		"--label-format=" + s.creds.LabelFormat,
		"--version=" + s.creds.Version,
	}
	if s.creds.PDFFormat != "" {
		args = append(args, "--pdf-format="+s.creds.PDFFormat)
	}
	if s.creds.Debug {
		args = append(args, "--debug")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.creds.Timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, s.config.NodePath, args...)
	cmd.Env = append(os.Environ(),
		"MONDIALRELAY_USERNAME="+s.creds.Username,
		"MONDIALRELAY_PASSWORD="+s.creds.Password,
		"MONDIALRELAY_CUSTOMER_ID="+s.creds.CustomerID,
	)
	if s.config.URL != "" {
		cmd.Env = append(cmd.Env, "MONDIALRELAY_URL="+s.config.URL)
	}

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("script execution failed: %w\nStderr: %s", err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("script execution failed: %w", err)
	}

	var result scriptResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse script output: %w\nOutput: %s", err, string(output))
	}

	res := &CreateResult{
		Reference: result.Reference,
		Label:     result.Label,
		Error:     result.Error,
	}
	if !result.Success && res.Error == "" {
		res.Error = result.Message
	}
	return res, nil
}

// Close removes the session's working directory
func (s *scriptSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return os.RemoveAll(s.dir)
}
