package identity

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/pkg/query"
	"github.com/aquaguardian/aquaguardian/pkg/repository"
)

// System defines the public contract for identity operations.
type System interface {
	// Authenticate verifies a raw bearer token and returns the typed actor.
	Authenticate(ctx context.Context, rawToken string) (*Actor, error)
	// Profile returns the stored user record for the given id.
	Profile(ctx context.Context, id uuid.UUID) (*Profile, error)
}

// Config holds OIDC verification parameters.
type Config struct {
	Issuer   string `toml:"issuer"`
	Audience string `toml:"audience"`
}

type tokenClaims struct {
	Email        string `json:"email"`
	UserMetadata struct {
		Role string `json:"role"`
	} `json:"user_metadata"`
}

type system struct {
	cfg    Config
	db     *sql.DB
	logger *slog.Logger

	initOnce sync.Once
	initErr  error
	verifier *oidc.IDTokenVerifier
}

// New creates an identity system. The OIDC provider is discovered lazily on
// first Authenticate so startup does not depend on the issuer being
// reachable.
func New(cfg Config, db *sql.DB, logger *slog.Logger) System {
	return &system{
		cfg:    cfg,
		db:     db,
		logger: logger.With("system", "identity"),
	}
}

func (s *system) init(ctx context.Context) error {
	s.initOnce.Do(func() {
		provider, err := oidc.NewProvider(ctx, s.cfg.Issuer)
		if err != nil {
			s.initErr = fmt.Errorf("discover oidc provider: %w", err)
			return
		}

		oc := &oidc.Config{ClientID: s.cfg.Audience}
		if s.cfg.Audience == "" {
			oc = &oidc.Config{SkipClientIDCheck: true}
		}

		s.verifier = provider.Verifier(oc)
		s.logger.Info("oidc provider ready", "issuer", s.cfg.Issuer)
	})

	return s.initErr
}

func (s *system) Authenticate(ctx context.Context, rawToken string) (*Actor, error) {
	if rawToken == "" {
		return nil, ErrUnauthenticated
	}

	if err := s.init(ctx); err != nil {
		return nil, err
	}

	token, err := s.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	id, err := uuid.Parse(token.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrUnauthenticated)
	}

	var claims tokenClaims
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	role, err := s.resolveRole(ctx, id, claims.UserMetadata.Role)
	if err != nil {
		return nil, err
	}

	return &Actor{
		ID:    id,
		Email: claims.Email,
		Role:  role,
	}, nil
}

// resolveRole canonicalizes the actor role: token metadata first, then the
// profile record.
func (s *system) resolveRole(ctx context.Context, id uuid.UUID, metadataRole string) (Role, error) {
	if metadataRole != "" {
		return ParseRole(metadataRole)
	}

	profile, err := s.Profile(ctx, id)
	if err != nil {
		return "", err
	}

	return ParseRole(profile.Role)
}

var profileProjection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("email", "Email").
	Project("full_name", "FullName").
	Project("role", "Role").
	Project("wallet_address", "WalletAddress").
	Project("created_at", "CreatedAt")

func (s *system) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	q, args := query.NewBuilder(profileProjection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, s.db, q, args, scanProfile)
	if err != nil {
		return nil, repository.MapError(err, ErrProfileNotFound, ErrProfileNotFound)
	}
	return &p, nil
}

func scanProfile(sc repository.Scanner) (Profile, error) {
	var p Profile
	var fullName sql.NullString
	err := sc.Scan(
		&p.ID,
		&p.Email,
		&fullName,
		&p.Role,
		&p.WalletAddress,
		&p.CreatedAt,
	)
	p.FullName = fullName.String
	return p, err
}
