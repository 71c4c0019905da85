// Package ide is the front door for editor-style queries. It turns a crate
// name and byte offset into classified definitions with display metadata,
// and answers workspace symbol lookups from the persistent index.
package ide

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"lodestar/internal/core/errors"
	"lodestar/internal/defs"
	"lodestar/internal/index"
	"lodestar/internal/semantics"
	"lodestar/internal/shared/observability"
)

// DefinitionInfo is the display form of one classified definition.
type DefinitionInfo struct {
	Kind       string
	Name       string
	ModulePath string
	Visibility string
}

// TokenInfo describes the token the query landed on.
type TokenInfo struct {
	Text      string
	Kind      string
	StartByte uint32
	EndByte   uint32
}

// Result is the answer to a definitions-at-offset query.
type Result struct {
	RequestID   string
	Token       TokenInfo
	Definitions []DefinitionInfo
}

// Service answers classification and symbol queries over an analyzed
// workspace. Store may be nil when no index was opened.
type Service struct {
	db     *semantics.DB
	store  *index.Store
	logger *slog.Logger
}

func NewService(db *semantics.DB, store *index.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, store: store, logger: logger}
}

// DefinitionsAt classifies the token at offset in the named crate and
// returns at most two definitions, a pattern-local binding first.
func (s *Service) DefinitionsAt(ctx context.Context, crate string, offset uint) (Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "ide.definitions_at")
	defer span.End()

	requestID := uuid.NewString()
	span.SetAttributes(
		attribute.String("request.id", requestID),
		attribute.String("crate", crate),
		attribute.Int("offset", int(offset)),
	)
	start := time.Now()

	sema, ok := s.db.Semantics(crate)
	if !ok {
		observability.ClassifyRequestsTotal.WithLabelValues("unknown_crate").Inc()
		return Result{}, errors.AddContext(
			errors.New(errors.CodeNotFound, "crate not analyzed"),
			errors.CtxCrate, crate)
	}

	token := sema.File().TokenAt(offset)
	if token == nil {
		observability.ClassifyRequestsTotal.WithLabelValues("no_token").Inc()
		return Result{}, errors.AddContext(
			errors.New(errors.CodeNotFound, "no token at offset"),
			errors.CtxOffset, offset)
	}

	result := Result{
		RequestID: requestID,
		Token: TokenInfo{
			Text:      sema.File().Text(token),
			Kind:      token.Kind(),
			StartByte: uint32(token.StartByte()),
			EndByte:   uint32(token.EndByte()),
		},
	}
	for _, def := range defs.FromToken(sema, token) {
		result.Definitions = append(result.Definitions, s.describe(def))
	}

	outcome := "unclassified"
	if len(result.Definitions) > 0 {
		outcome = "classified"
	}
	observability.ClassifyRequestsTotal.WithLabelValues(outcome).Inc()
	observability.ClassifyDuration.Observe(time.Since(start).Seconds())

	s.logger.Debug("definitions query",
		"request_id", requestID,
		"crate", crate,
		"offset", offset,
		"token", result.Token.Text,
		"definitions", len(result.Definitions))
	return result, nil
}

// Symbols answers a workspace symbol lookup by exact name.
func (s *Service) Symbols(ctx context.Context, name string) ([]index.SymbolRecord, error) {
	_, span := observability.Tracer.Start(ctx, "ide.symbols")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", name))

	if s.store == nil {
		return nil, errors.New(errors.CodeNotSupported, "no symbol index configured")
	}
	return s.store.Lookup(name), nil
}

func (s *Service) describe(def defs.Definition) DefinitionInfo {
	db := s.db
	info := DefinitionInfo{Kind: def.Kind.String()}
	if name, ok := def.Name(db); ok {
		info.Name = name
	}
	if vis, ok := def.DeclaredVisibility(db); ok {
		info.Visibility = vis.String()
	}
	if path, ok := def.CanonicalModulePath(db); ok && len(path) > 0 {
		parts := make([]string, 0, len(path))
		parts = append(parts, db.ModuleCrateName(path[0]))
		for _, m := range path[1:] {
			parts = append(parts, db.ModuleName(m))
		}
		info.ModulePath = strings.Join(parts, "::")
	}
	return info
}
