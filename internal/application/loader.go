package application

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/ports"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	inputSchema     = "input.schema.json"
	decisionsSchema = "decisions.schema.json"
)

// maxConcurrentReads bounds parallel decision file reads.
const maxConcurrentReads = 8

// DocumentLoader reads input documents through a DocumentStore, checks them
// against embedded JSON schemas, and decodes them into domain types.
// Use DocumentLoader for every document the CLI consumes so that malformed
// files are rejected before any allocation or scoring runs.
type DocumentLoader struct {
	// store provides the raw document bytes.
	store ports.DocumentStore
	// schemas holds the compiled schemas keyed by file name.
	schemas map[string]*jsonschema.Schema
	// sf collapses concurrent reads of the same location into one.
	sf singleflight.Group
	mu sync.Mutex
	// reads counts store reads.
	reads int
}

// NewDocumentLoader creates a DocumentLoader and compiles the embedded
// schemas.
// NewDocumentLoader returns an error if a schema fails to compile.
func NewDocumentLoader(store ports.DocumentStore) (*DocumentLoader, error) {
	compiler := jsonschema.NewCompiler()
	schemas := make(map[string]*jsonschema.Schema, 2)
	for _, name := range []string{inputSchema, decisionsSchema} {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", name, err)
		}
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		schemas[name] = schema
	}
	return &DocumentLoader{store: store, schemas: schemas}, nil
}

// read fetches the document at location, sharing the result with any
// concurrent read of the same location.
func (l *DocumentLoader) read(ctx context.Context, location string) ([]byte, error) {
	v, err, _ := l.sf.Do(location, func() (any, error) {
		l.mu.Lock()
		l.reads++
		l.mu.Unlock()
		return l.store.Read(ctx, location)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// decode validates data against the named schema and then decodes it into
// out.
func (l *DocumentLoader) decode(location, schema string, data []byte, out any) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return ports.NewStorageError(location, "decode", fmt.Errorf("%w: %v", ports.ErrInvalidDocument, err))
	}
	if err := l.schemas[schema].Validate(doc); err != nil {
		return ports.NewStorageError(location, "validate", fmt.Errorf("%w: %v", ports.ErrInvalidDocument, err))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return ports.NewStorageError(location, "decode", fmt.Errorf("%w: %v", ports.ErrInvalidDocument, err))
	}
	return nil
}

// LoadInput reads a judges-and-projects document and validates it.
// LoadInput returns a *ports.StorageError for unreadable or malformed
// documents and a *domain.ValidationError when the content breaks an entity
// rule.
func (l *DocumentLoader) LoadInput(ctx context.Context, location string) (domain.Input, error) {
	data, err := l.read(ctx, location)
	if err != nil {
		return domain.Input{}, err
	}
	var in domain.Input
	if err := l.decode(location, inputSchema, data, &in); err != nil {
		return domain.Input{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Input{}, err
	}
	return in, nil
}

// LoadDecisions reads one or more decision documents concurrently and
// concatenates their decisions in argument order.
// LoadDecisions returns the first error encountered.
func (l *DocumentLoader) LoadDecisions(ctx context.Context, locations ...string) ([]domain.StackRankDecision, error) {
	parts := make([][]domain.StackRankDecision, len(locations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i, location := range locations {
		g.Go(func() error {
			data, err := l.read(gctx, location)
			if err != nil {
				return err
			}
			var decisions []domain.StackRankDecision
			if err := l.decode(location, decisionsSchema, data, &decisions); err != nil {
				return err
			}
			parts[i] = decisions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.StackRankDecision
	for _, p := range parts {
		all = append(all, p...)
	}
	return all, nil
}

// LoadRankWeights reads a rank weight mapping such as {1: 3.0, 2: 2.0}.
// Documents starting with '{' are tried as JSON first, whose object keys
// are strings; anything else, including YAML flow mappings, is decoded as
// YAML.
func (l *DocumentLoader) LoadRankWeights(ctx context.Context, location string) (domain.RankWeights, error) {
	data, err := l.read(ctx, location)
	if err != nil {
		return nil, err
	}

	var weights domain.RankWeights
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("{")) || json.Unmarshal(trimmed, &weights) != nil {
		weights = nil
		err = yaml.Unmarshal(trimmed, &weights)
	}
	if err != nil {
		return nil, ports.NewStorageError(location, "decode", fmt.Errorf("%w: %v", ports.ErrInvalidDocument, err))
	}
	if err := validateRankWeights(weights); err != nil {
		return nil, err
	}
	return weights, nil
}

// Reads returns how many times the underlying store was read.
func (l *DocumentLoader) Reads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reads
}
