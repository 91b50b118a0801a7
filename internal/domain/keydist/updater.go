package keydist

import (
	"context"
	"fmt"

	"github.com/trustplane/trustplane/internal/domain/trust"
	"github.com/trustplane/trustplane/internal/ports"
)

// Updater applies a fetched key bundle into the trust store.
type Updater interface {
	Apply(ctx context.Context, bundle trust.KeyBundle) error
}

// UpdateMode controls how StoreUpdater reconciles fetched keys with the
// keys already in the snapshot.
type UpdateMode string

// Update modes.
const (
	// ModeReplace swaps the snapshot's key set for the bundle's.
	ModeReplace UpdateMode = "replace"
	// ModeMerge upserts bundle keys by id, keeping local-only keys.
	ModeMerge UpdateMode = "merge"
)

// ParseUpdateMode parses an update mode name.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch s {
	case "replace", "":
		return ModeReplace, nil
	case "merge":
		return ModeMerge, nil
	default:
		return "", fmt.Errorf("unknown update mode: %s", s)
	}
}

// StoreUpdater applies bundles into a trust store as a read-modify-write
// over Load/Save. Allow and deny lists are never touched: they are logically
// independent of the signing-key set.
type StoreUpdater struct {
	store  trust.Store
	mode   UpdateMode
	logger ports.Logger
}

// StoreUpdaterOption configures the updater.
type StoreUpdaterOption func(*StoreUpdater)

// WithUpdaterLogger sets the logger (default: nop).
func WithUpdaterLogger(logger ports.Logger) StoreUpdaterOption {
	return func(u *StoreUpdater) {
		u.logger = logger
	}
}

// NewStoreUpdater creates an updater writing into the given store.
func NewStoreUpdater(store trust.Store, mode UpdateMode, opts ...StoreUpdaterOption) *StoreUpdater {
	u := &StoreUpdater{
		store:  store,
		mode:   mode,
		logger: ports.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Apply writes the bundle's keys into the snapshot according to the
// configured mode.
func (u *StoreUpdater) Apply(ctx context.Context, bundle trust.KeyBundle) error {
	snapshot, err := u.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load trust snapshot: %w", err)
	}

	switch u.mode {
	case ModeMerge:
		for _, key := range bundle.Keys {
			snapshot.UpsertKey(key)
		}
	default:
		snapshot.SigningKeys = append([]trust.SigningKey(nil), bundle.Keys...)
	}

	if err := u.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save trust snapshot: %w", err)
	}

	u.logger.Info(ctx, "signing keys updated",
		ports.F("mode", string(u.mode)),
		ports.F("bundle_keys", len(bundle.Keys)),
		ports.F("issued_at", bundle.IssuedAt))
	return nil
}

var _ Updater = (*StoreUpdater)(nil)
