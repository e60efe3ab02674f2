package worklist

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"
)

// LoadFile reads an entry from a YAML or JSON file
func LoadFile(path string) (Fields, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fields{}, fmt.Errorf("opening entry file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a single entry from YAML or JSON (a YAML subset). Unknown keys
// are rejected, and human-written dates such as "1980-01-01" or
// "Jan 15, 2024" are normalized to YYYYMMDD.
func Load(r io.Reader) (Fields, error) {
	var f Fields
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Fields{}, errors.New("entry file is empty")
		}
		return Fields{}, fmt.Errorf("decoding entry: %w", err)
	}

	var err error
	if f.BirthDate, err = normalizeDate(f.BirthDate); err != nil {
		return Fields{}, fmt.Errorf("birthDate: %w", err)
	}
	if f.ScheduledDate, err = normalizeDate(f.ScheduledDate); err != nil {
		return Fields{}, fmt.Errorf("scheduledDate: %w", err)
	}
	return f, nil
}

// normalizeDate passes DA values and blanks through and reformats anything dateparse understands
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || isDA(s) {
		return s, nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return "", fmt.Errorf("unrecognized date %q: %w", s, err)
	}
	da := t.Format("20060102")
	slog.Debug("normalized date", "in", s, "out", da)
	return da, nil
}

func isDA(s string) bool {
	return len(s) == 8 && strings.Trim(s, "0123456789") == ""
}
