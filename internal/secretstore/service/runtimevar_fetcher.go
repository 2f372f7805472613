package service

import (
	"context"
	"fmt"
	"net/url"

	"gocloud.dev/gcerrors"
	"gocloud.dev/runtimevar"

	// Register runtimevar drivers
	_ "gocloud.dev/runtimevar/constantvar"
	_ "gocloud.dev/runtimevar/filevar"
	_ "gocloud.dev/runtimevar/httpvar"

	apperrors "github.com/allisson/qrseal/internal/errors"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

// RuntimeVarFetcher reads the secret field from a JSON configuration document
// watched through gocloud.dev/runtimevar (file://, http(s)://, constant://).
type RuntimeVarFetcher struct {
	variable *runtimevar.Variable
	field    string
}

// NewRuntimeVarFetcher opens the runtime variable at rawURL.
//
// The document is decoded as a JSON object; a "decoder=jsonmap" query
// parameter is added when the URL does not name a decoder.
func NewRuntimeVarFetcher(ctx context.Context, rawURL, field string) (*RuntimeVarFetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid runtimevar url: %w", err)
	}

	q := u.Query()
	if q.Get("decoder") == "" {
		q.Set("decoder", "jsonmap")
		u.RawQuery = q.Encode()
	}

	variable, err := runtimevar.OpenVariable(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to open runtime variable: %w", err)
	}

	return NewRuntimeVarFetcherFromVariable(variable, field), nil
}

// NewRuntimeVarFetcherFromVariable wraps an already opened variable whose
// values decode to map[string]any.
func NewRuntimeVarFetcherFromVariable(variable *runtimevar.Variable, field string) *RuntimeVarFetcher {
	return &RuntimeVarFetcher{
		variable: variable,
		field:    field,
	}
}

// Fetch returns the secret field of the latest good document value.
func (f *RuntimeVarFetcher) Fetch(ctx context.Context) (secretDomain.Secret, error) {
	snapshot, err := f.variable.Latest(ctx)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return secretDomain.Secret{}, apperrors.Join(secretDomain.ErrSecretNotFound, err)
		}
		return secretDomain.Secret{}, apperrors.Wrap(err, "failed to read runtime variable")
	}

	doc, ok := snapshot.Value.(map[string]any)
	if !ok {
		return secretDomain.Secret{}, apperrors.Wrapf(
			secretDomain.ErrSecretFieldMissing,
			"document decoded to %T, expected a JSON object",
			snapshot.Value,
		)
	}

	return secretFromDocument(doc, f.field)
}

// Close stops watching the variable.
func (f *RuntimeVarFetcher) Close() error {
	return f.variable.Close()
}
