package auth

import (
	"context"
	"errors"

	"github.com/miruku-pixel/poddo-pos-engine/internal/config"
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

// staticVerifier resolves bearer tokens from the config's token table.
// Deployment bootstrap only; installations with a real auth service plug
// their own interfaces.TokenVerifier.
type staticVerifier struct {
	actors map[string]domain.Actor
}

func NewStaticVerifier(cfg config.AuthConfig) interfaces.TokenVerifier {
	actors := make(map[string]domain.Actor, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		actors[t.Token] = domain.Actor{
			ID:          t.ActorID,
			DisplayName: t.DisplayName,
			Role:        domain.Role(t.Role),
		}
	}
	return &staticVerifier{actors: actors}
}

func (v *staticVerifier) Verify(ctx context.Context, token string) (domain.Actor, error) {
	actor, ok := v.actors[token]
	if !ok {
		return domain.Actor{}, domain.NewSessionError(errors.New("unknown token"))
	}
	return actor, nil
}
