package utils

import (
	"context"

	"patrimonio-system/pkg/contextkeys"
	apperrors "patrimonio-system/pkg/errors"
)

// ActingUserFromCtx devolve a identidade autenticada colocada no contexto
// pelo middleware de autenticação.
func ActingUserFromCtx(ctx context.Context) (string, error) {
	user, ok := ctx.Value(contextkeys.ActingUserKey).(string)
	if !ok || user == "" {
		return "", apperrors.ErrUnauthorized
	}
	return user, nil
}
