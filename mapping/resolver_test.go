package mapping

import (
	"testing"
	"time"

	"github.com/dnldd/roll/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
)

func newTestResolver(t *testing.T) *FileResolver {
	t.Helper()

	logger := zerolog.Nop()
	resolver, err := NewFileResolver(&FileResolverConfig{
		Dir:    "../testdata/mappings",
		Logger: &logger,
	})
	assert.NoError(t, err)

	return resolver
}

func TestFileResolverConfigValidate(t *testing.T) {
	// Ensure an unset config is invalid.
	cfg := &FileResolverConfig{}
	assert.Error(t, cfg.Validate())

	// Ensure a complete config is valid.
	logger := zerolog.Nop()
	cfg = &FileResolverConfig{
		Dir:    "../testdata/mappings",
		Logger: &logger,
	}
	assert.NoError(t, cfg.Validate())
}

func TestResolveMapping(t *testing.T) {
	resolver := newTestResolver(t)
	canonical := shared.NewCanonicalSymbol("ES", "cme", shared.Future)

	// Ensure a date before the first mapping entry has no mapping.
	ticker, err := resolver.ResolveMapping(canonical, time.Date(2023, time.December, 29, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "", ticker)

	// Ensure the mapping on an entry date is the entry itself.
	ticker, err = resolver.ResolveMapping(canonical, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "ESH24", ticker)

	// Ensure dates between entries resolve to the most recent entry, and
	// that intraday times resolve like their dates.
	ticker, err = resolver.ResolveMapping(canonical, time.Date(2024, time.February, 12, 15, 30, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "ESH24", ticker)

	ticker, err = resolver.ResolveMapping(canonical, time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "ESM24", ticker)

	ticker, err = resolver.ResolveMapping(canonical, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "ESU24", ticker)
}

func TestResolveMappingContractOffset(t *testing.T) {
	resolver := newTestResolver(t)

	// Ensure the contract depth offset selects contracts further out than
	// the front contract.
	deferred := shared.NewCanonicalSymbol("ES", "cme", shared.Future)
	deferred.ContractOffset = 1

	ticker, err := resolver.ResolveMapping(deferred, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "ESM24", ticker)

	// Ensure an offset past the end of the table has no mapping.
	ticker, err = resolver.ResolveMapping(deferred, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "", ticker)
}

func TestResolveMappingErrors(t *testing.T) {
	resolver := newTestResolver(t)

	// Ensure a symbol without a mapping file errors.
	missing := shared.NewCanonicalSymbol("NQ", "cme", shared.Future)
	_, err := resolver.ResolveMapping(missing, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)

	// Ensure an unsorted mapping table errors.
	unsorted := shared.NewCanonicalSymbol("BAD", "cme", shared.Future)
	_, err = resolver.ResolveMapping(unsorted, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}
