package mondialrelay

import (
	"fmt"
	"os"
)

// LabelSink stores label bytes and returns where they went
type LabelSink interface {
	Write(reference, ext string, label []byte) (string, error)
}

// TempFileSink writes each label to a uniquely named file.
// Scope distinguishes installations sharing the same directory (the database name).
type TempFileSink struct {
	Dir   string // empty for the system temp dir
	Scope string
}

// Write stores the label as <scope>-mondialrelay-<reference>-<random>.<ext>
func (s *TempFileSink) Write(reference, ext string, label []byte) (string, error) {
	pattern := fmt.Sprintf("%s-mondialrelay-%s-*.%s", s.Scope, reference, ext)
	f, err := os.CreateTemp(s.Dir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create label file: %w", err)
	}
	if _, err := f.Write(label); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write label: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close label file: %w", err)
	}
	return f.Name(), nil
}
