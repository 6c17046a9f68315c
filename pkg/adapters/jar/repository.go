// Package jar implements core.Store as a single flat file of expiring
// key/value entries, modeled on the per-origin cookie jar the original
// widget persisted into. The medium's constraints are reproduced
// faithfully: a hard per-entry capacity ceiling that silently truncates,
// per-entry expiry, and the possibility of out-of-band modification by
// another process sharing the same file.
package jar

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/noodle/pkg/codec"
	"github.com/aretw0/noodle/pkg/core"
)

const (
	// header identifies a jar file. Files without it are rewritten.
	header = "# noodle jar v1"
	// fieldSep separates key, expiry, and value on each line.
	fieldSep = "\t"
)

// Config holds the configuration for the jar store.
type Config struct {
	// Path is the jar file location.
	Path string
	// Logger receives debug and error messages. nil disables logging.
	Logger *slog.Logger
	// Ceiling overrides the per-entry capacity in bytes. Zero means the
	// medium default of codec.EntryCeiling.
	Ceiling int
	// Clock overrides the expiry clock. nil means time.Now.
	Clock func() time.Time
}

// Jar is a file-backed core.Store.
type Jar struct {
	mu     sync.Mutex
	config Config

	watcherActive bool
	lastSnapshot  map[string]string
}

type record struct {
	key     string
	expires int64 // unix seconds, 0 = no expiry
	value   string
}

// New creates a jar store at cfg.Path. Call Initialize before use.
func New(cfg Config) *Jar {
	if cfg.Ceiling <= 0 {
		cfg.Ceiling = codec.EntryCeiling
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Jar{config: cfg}
}

// Initialize creates the jar file and its parent directory if needed.
func (j *Jar) Initialize(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.config.Path), 0755); err != nil {
		return fmt.Errorf("failed to create jar directory: %w", err)
	}
	if _, err := os.Stat(j.config.Path); os.IsNotExist(err) {
		return j.writeAll(nil)
	} else if err != nil {
		return fmt.Errorf("failed to stat jar: %w", err)
	}
	return nil
}

// List implements core.Store. The returned slice is a snapshot: entries
// added or expired afterwards are not reflected.
func (j *Jar) List(ctx context.Context) ([]core.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	records, err := j.readAll()
	if err != nil {
		return nil, err
	}
	out := make([]core.Entry, 0, len(records))
	for _, r := range records {
		out = append(out, core.Entry{Key: r.key, Value: r.value})
	}
	return out, nil
}

// Get implements core.Store.
func (j *Jar) Get(ctx context.Context, key string) (string, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	records, err := j.readAll()
	if err != nil {
		return "", false, err
	}
	for _, r := range records {
		if r.key == key {
			return r.value, true, nil
		}
	}
	return "", false, nil
}

// Set implements core.Store. A value above the medium ceiling is silently
// truncated, exactly like the jar this store models; the engine's capacity
// estimator exists so callers can see that coming.
func (j *Jar) Set(ctx context.Context, key, value string, ttlDays int) error {
	if key == "" {
		return fmt.Errorf("jar entry has no key")
	}
	if len(value) > j.config.Ceiling {
		if j.config.Logger != nil {
			j.config.Logger.Debug("jar entry truncated at ceiling",
				"key", key, "size", len(value), "ceiling", j.config.Ceiling)
		}
		value = value[:j.config.Ceiling]
	}
	value = sanitizeField(value)

	var expires int64
	if ttlDays > 0 {
		expires = j.config.Clock().Add(time.Duration(ttlDays) * 24 * time.Hour).Unix()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	records, err := j.readAll()
	if err != nil {
		return err
	}
	replaced := false
	for i := range records {
		if records[i].key == key {
			records[i].expires = expires
			records[i].value = value
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record{key: key, expires: expires, value: value})
	}
	return j.writeAll(records)
}

// Delete implements core.Store.
func (j *Jar) Delete(ctx context.Context, key string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	records, err := j.readAll()
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, r := range records {
		if r.key != key {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return j.writeAll(kept)
}

// readAll parses the jar file, dropping expired and malformed lines. A
// missing file is an empty jar, not an error.
func (j *Jar) readAll() ([]record, error) {
	f, err := os.Open(j.config.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open jar: %w", err)
	}
	defer f.Close()

	now := j.config.Clock().Unix()
	var records []record

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, fieldSep, 3)
		if len(parts) != 3 || parts[0] == "" {
			// Malformed lines are dropped, never fatal: the jar may have
			// been edited out-of-band.
			continue
		}
		expires, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			continue
		}
		if expires != 0 && expires <= now {
			continue
		}
		records = append(records, record{key: parts[0], expires: expires, value: parts[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read jar: %w", err)
	}
	return records, nil
}

// writeAll rewrites the whole jar atomically. Caller holds the lock.
func (j *Jar) writeAll(records []record) error {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')

	sorted := make([]record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(a, z int) bool { return sorted[a].key < sorted[z].key })

	for _, r := range sorted {
		b.WriteString(sanitizeField(r.key))
		b.WriteString(fieldSep)
		b.WriteString(strconv.FormatInt(r.expires, 10))
		b.WriteString(fieldSep)
		b.WriteString(r.value)
		b.WriteByte('\n')
	}

	if err := writeFileAtomic(j.config.Path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write jar: %w", err)
	}
	return nil
}

// sanitizeField strips the bytes the line format cannot carry. Transport
// values are percent-encoded upstream, so engine writes are unaffected;
// this only defends the format against arbitrary raw values.
func sanitizeField(s string) string {
	if !strings.ContainsAny(s, "\t\r\n") {
		return s
	}
	return strings.NewReplacer("\t", "", "\r", "", "\n", "").Replace(s)
}

// snapshot returns the live key->value map. Used by the watcher to diff
// states across out-of-band changes.
func (j *Jar) snapshot() (map[string]string, error) {
	records, err := j.readAll()
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(records))
	for _, r := range records {
		m[r.key] = r.value
	}
	return m, nil
}

func (j *Jar) setWatcherActive(active bool) {
	j.mu.Lock()
	j.watcherActive = active
	j.mu.Unlock()
}

var _ core.Store = (*Jar)(nil)
