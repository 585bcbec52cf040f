package facet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

// QuestionCatalog loads and caches question and section definitions from
// an externally-authored content directory.
//
// The content directory holds a manifest file declaring section order and
// membership, plus one TOML file per question. Questions are cached by id
// for the lifetime of the catalog; a missing question file resolves to an
// empty question, never an error, since some frameworks reuse another
// framework's question set and optional keys are legitimately missing.
//
// Example:
//
//	catalog, err := facet.NewQuestionCatalog("content",
//	    facet.WithManifest("questions_manifest.toml"))
//	if err != nil {
//	    // manifest missing or malformed
//	}
//	defer catalog.Close()
//
//	q := catalog.GetQuestion("serviceTypesSaaS")
type QuestionCatalog struct {
	dir      string
	manifest string

	mtx      sync.RWMutex
	cache    map[string]Question
	sections []Section

	watch   bool
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// CatalogOption configures a QuestionCatalog.
type CatalogOption func(*QuestionCatalog)

// WithManifest sets the manifest file name, relative to the content
// directory (default "questions_manifest.toml").
func WithManifest(name string) CatalogOption {
	return func(c *QuestionCatalog) {
		c.manifest = name
	}
}

// WithContentWatcher makes the catalog watch the content directory and
// drop its cache when question files change, so the next lookup reloads.
// A watcher that cannot be started fails NewQuestionCatalog.
//
// Content is immutable and deterministic for a given id, so concurrent
// reload is safe: last writer wins.
func WithContentWatcher() CatalogOption {
	return func(c *QuestionCatalog) {
		c.watch = true
	}
}

// manifestFile is the on-disk shape of the section manifest.
type manifestFile struct {
	Sections []manifestSection `toml:"section"`
}

type manifestSection struct {
	Name      string   `toml:"name"`
	Questions []string `toml:"questions"`
}

// questionFile is the on-disk shape of a single question definition.
type questionFile struct {
	Question      string `toml:"question"`
	Type          string `toml:"type"`
	FilterLabel   string `toml:"filterLabel"`
	DependsOnLots string `toml:"dependsOnLots"`
	Options       []struct {
		Label string `toml:"label"`
		Value string `toml:"value"`
	} `toml:"options"`
}

// NewQuestionCatalog builds a catalog from a content directory.
//
// Sections are resolved eagerly, in manifest order. A malformed or absent
// manifest is an error; absent question files are not.
func NewQuestionCatalog(dir string, opts ...CatalogOption) (*QuestionCatalog, error) {
	c := &QuestionCatalog{
		dir:      dir,
		manifest: "questions_manifest.toml",
		cache:    make(map[string]Question),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("starting content watcher: %w", err)
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching content directory: %w", err)
		}
		c.watcher = w
	}

	if err := c.load(); err != nil {
		if c.watcher != nil {
			c.watcher.Close()
		}
		return nil, err
	}

	if c.watcher != nil {
		c.done = make(chan struct{})
		go c.reloadLoop()
	}

	return c, nil
}

// Close stops the content watcher, if one was configured.
func (c *QuestionCatalog) Close() error {
	if c.watcher == nil {
		return nil
	}

	close(c.done)
	return c.watcher.Close()
}

// GetQuestion returns the question with the given id.
//
// Repeated calls for the same id return the identical cached value. A
// question with no backing content file yields an empty record carrying
// only the id and the default lot dependencies.
func (c *QuestionCatalog) GetQuestion(id string) Question {
	c.mtx.RLock()
	q, ok := c.cache[id]
	c.mtx.RUnlock()
	if ok {
		return q
	}

	q = c.readQuestion(id)

	c.mtx.Lock()
	// another goroutine may have populated the key meanwhile; content is
	// deterministic per id, so either value is correct
	if cached, ok := c.cache[id]; ok {
		q = cached
	} else {
		c.cache[id] = q
	}
	c.mtx.Unlock()

	return q
}

// GetSection returns the section with the given id, or false when no such
// section is declared in the manifest.
func (c *QuestionCatalog) GetSection(id string) (Section, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	for _, s := range c.sections {
		if s.ID == id {
			return s, true
		}
	}

	return Section{}, false
}

// Sections returns all sections in manifest order.
func (c *QuestionCatalog) Sections() []Section {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	return c.sections
}

func (c *QuestionCatalog) load() error {
	raw, err := os.ReadFile(filepath.Join(c.dir, c.manifest))
	if err != nil {
		return fmt.Errorf("reading question manifest: %w", err)
	}

	var manifest manifestFile
	if err := toml.Unmarshal(raw, &manifest); err != nil {
		return fmt.Errorf("parsing question manifest: %w", err)
	}

	sections := make([]Section, 0, len(manifest.Sections))
	for _, ms := range manifest.Sections {
		questions := make([]Question, 0, len(ms.Questions))
		for _, id := range ms.Questions {
			questions = append(questions, c.readQuestion(id))
		}

		sections = append(sections, Section{
			ID:            snakeCase(ms.Name),
			Name:          ms.Name,
			Questions:     questions,
			DependsOnLots: sectionLots(questions),
		})
	}

	c.mtx.Lock()
	c.sections = sections
	for _, s := range sections {
		for _, q := range s.Questions {
			c.cache[q.ID] = q
		}
	}
	c.mtx.Unlock()

	return nil
}

// readQuestion loads a question definition from disk without touching the
// cache. Missing or malformed files soft-fail to an empty question.
func (c *QuestionCatalog) readQuestion(id string) Question {
	empty := Question{ID: id, DependsOnLots: RealLots()}

	raw, err := os.ReadFile(filepath.Join(c.dir, id+".toml"))
	if err != nil {
		return empty
	}

	var qf questionFile
	if err := toml.Unmarshal(raw, &qf); err != nil {
		return empty
	}

	q := Question{
		ID:          id,
		Type:        ParseQuestionType(qf.Type),
		Text:        qf.Question,
		FilterLabel: qf.FilterLabel,
	}

	for _, o := range qf.Options {
		q.Options = append(q.Options, Option{Label: o.Label, Value: o.Value})
	}

	q.DependsOnLots = parseDependentLots(qf.DependsOnLots)

	return q
}

// parseDependentLots parses a comma-separated lot list ("SaaS, PaaS").
// An absent value means the question applies to every real lot.
func parseDependentLots(s string) []Lot {
	if strings.TrimSpace(s) == "" {
		return RealLots()
	}

	var lots []Lot
	for _, part := range strings.Split(s, ",") {
		if lot, ok := ParseRealLot(part); ok {
			lots = append(lots, lot)
		}
	}

	return lots
}

func (c *QuestionCatalog) reloadLoop() {
	for {
		select {
		case <-c.done:
			return
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			c.mtx.Lock()
			c.cache = make(map[string]Question)
			c.mtx.Unlock()

			// sections hold resolved questions, so rebuild them too;
			// a failed reload keeps the previous sections
			_ = c.load()
		case _, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// snakeCase converts a section name to its id form:
// spaces become underscores and camel-case boundaries are split.
func snakeCase(name string) string {
	var b strings.Builder
	var prev rune

	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			r = '_'
		case unicode.IsUpper(r):
			if prev != 0 && prev != '_' && !unicode.IsUpper(prev) {
				b.WriteRune('_')
			}
			r = unicode.ToLower(r)
		}

		b.WriteRune(r)
		prev = r
	}

	return b.String()
}
