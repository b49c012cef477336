package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kakeibo-dev/kakeibo/internal/header"
	"github.com/kakeibo-dev/kakeibo/internal/importlog"
	"github.com/kakeibo-dev/kakeibo/internal/logger"
	"github.com/kakeibo-dev/kakeibo/internal/model"
	"github.com/kakeibo-dev/kakeibo/internal/normalize"
	"github.com/kakeibo-dev/kakeibo/internal/store"
	"github.com/kakeibo-dev/kakeibo/internal/tabular"
)

// ErrMissingColumns is returned by Commit while required fields are still
// unresolved.
var ErrMissingColumns = errors.New("missing required columns")

// Options configures how a session reads its source.
type Options struct {
	Sheet     string
	Overrides header.Overrides
	Registry  *Registry // nil means DefaultRegistry
}

// Session is one import attempt: the parsed source, the column overrides
// chosen so far, and the required fields they leave unresolved. Sessions
// are values; WithOverrides returns a new one.
type Session struct {
	ID       string
	Kind     model.Kind
	Source   string
	Encoding string
	Headers  []string
	Rows     []tabular.RawRow

	data      []byte
	reader    Reader
	sheet     string
	table     *header.Table
	overrides header.Overrides
	missing   []model.Field
}

// Open reads the file at path as kind.
func Open(ctx context.Context, path string, kind model.Kind, opts Options) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return OpenBytes(ctx, filepath.Base(path), data, kind, opts)
}

// OpenBytes parses data, choosing a reader by name's extension.
func OpenBytes(ctx context.Context, name string, data []byte, kind model.Kind, opts Options) (*Session, error) {
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	rd, err := reg.ForPath(name)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		Source:    name,
		data:      data,
		reader:    rd,
		sheet:     opts.Sheet,
		table:     header.ForKind(kind),
		overrides: opts.Overrides,
	}
	if err := s.load(); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("session", s.ID).
		Str("kind", string(kind)).
		Str("source", name).
		Str("encoding", s.Encoding).
		Int("rows", len(s.Rows)).
		Msg("import session opened")
	if len(s.missing) > 0 {
		log.Warn().Str("session", s.ID).Strs("missing", fieldNames(s.missing)).Msg("required columns unresolved")
	}
	return s, nil
}

// load (re)parses the source with the current overrides. Overrides change
// the decode hints, so CSV text may decode differently.
func (s *Session) load() error {
	src, err := s.reader.Read(bytes.NewReader(s.data), ReadOptions{
		Hints: header.DecodeHints(s.table, s.overrides),
		Sheet: s.sheet,
	})
	if err != nil {
		return fmt.Errorf("parsing %s: %w", s.Source, err)
	}
	s.Encoding = src.Encoding
	s.Headers = src.Table.Headers
	s.Rows = src.Table.Rows
	s.missing = header.MissingRequired(s.Headers, s.table, s.overrides, s.table.Required())
	return nil
}

// WithOverrides returns a copy of the session using o, with the source
// re-read and the missing columns recomputed. The receiver is unchanged.
func (s *Session) WithOverrides(o header.Overrides) (*Session, error) {
	next := *s
	next.overrides = o
	if err := next.load(); err != nil {
		return nil, err
	}
	return &next, nil
}

// Overrides returns the session's column overrides.
func (s *Session) Overrides() header.Overrides {
	return s.overrides
}

// Missing returns the required fields no header or override resolves.
func (s *Session) Missing() []model.Field {
	return s.missing
}

// Unmapped returns the headers that neither an override nor the alias table
// resolves, in source order.
func (s *Session) Unmapped() []string {
	var out []string
	for _, h := range s.Headers {
		if _, ok := header.Resolve(h, s.table, s.overrides); !ok {
			out = append(out, h)
		}
	}
	return out
}

// Result summarizes a committed session.
type Result struct {
	SessionID string
	Kind      model.Kind
	Source    string
	Encoding  string
	Imported  int
	Skipped   int
	Dropped   int
	FirstDate string
	LastDate  string
	RowErrors []model.RowError
	Missing   []model.Field
}

// LogEntry converts r to an import history row stamped at now.
func (r Result) LogEntry(now time.Time) importlog.Entry {
	return importlog.Entry{
		Timestamp: now.UTC().Truncate(time.Second),
		SessionID: r.SessionID,
		Kind:      string(r.Kind),
		Source:    r.Source,
		Encoding:  r.Encoding,
		Imported:  r.Imported,
		Skipped:   r.Skipped,
		Dropped:   r.Dropped,
		RowErrors: len(r.RowErrors),
		FirstDate: r.FirstDate,
		LastDate:  r.LastDate,
	}
}

// Commit normalizes the rows and upserts them into st. Assets are filtered
// through strategy first; transactions always overwrite by id. Nothing is
// written while required columns are missing.
func (s *Session) Commit(ctx context.Context, st store.Store, strategy store.Strategy) (Result, error) {
	res := Result{
		SessionID: s.ID,
		Kind:      s.Kind,
		Source:    s.Source,
		Encoding:  s.Encoding,
		Missing:   s.missing,
	}
	if len(s.missing) > 0 {
		return res, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(fieldNames(s.missing), ", "))
	}

	log := logger.FromContext(ctx).With().Str("session", s.ID).Logger()

	switch s.Kind {
	case model.KindTransactions:
		batch := normalize.Transactions(s.Rows, s.table, s.overrides, s.Source)
		if err := st.UpsertTransactions(ctx, batch.Items); err != nil {
			return res, fmt.Errorf("storing transactions: %w", err)
		}
		res.Imported = len(batch.Items)
		res.Dropped = batch.Dropped
		res.FirstDate, res.LastDate = dateRange(batch.Items, func(t model.Transaction) string { return t.Date })

	case model.KindAssets:
		batch := normalize.Assets(s.Rows, s.table, s.overrides)
		incoming, err := store.ApplyStrategy(ctx, st, strategy, batch.Items)
		if err != nil {
			return res, err
		}
		if err := st.UpsertAssets(ctx, incoming); err != nil {
			return res, fmt.Errorf("storing assets: %w", err)
		}
		res.Imported = len(incoming)
		res.Skipped = len(batch.Items) - len(incoming)
		res.Dropped = len(s.Rows) - len(batch.Items)
		res.RowErrors = batch.Errors
		res.FirstDate, res.LastDate = dateRange(batch.Items, func(a model.Asset) string { return a.Date })

	default:
		return res, fmt.Errorf("unknown record kind %q", s.Kind)
	}

	log.Debug().Int("dropped", res.Dropped).Int("row_errors", len(res.RowErrors)).Msg("rows normalized")
	log.Info().Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("import committed")
	return res, nil
}

func dateRange[T any](items []T, date func(T) string) (first, last string) {
	for _, it := range items {
		d := date(it)
		if first == "" || d < first {
			first = d
		}
		if d > last {
			last = d
		}
	}
	return first, last
}

func fieldNames(fs []model.Field) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}
