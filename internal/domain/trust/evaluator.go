package trust

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/trustplane/trustplane/internal/ports"
)

// Evaluator errors.
var (
	ErrEmptyPluginID = errors.New("plugin id is empty")
	ErrEmptyChecksum = errors.New("checksum is empty")
)

// Evaluator decides whether a plugin may be trusted. It holds no snapshot
// cache: every call re-reads the store, so key-bundle refreshes take effect
// on the next evaluation without a restart. Public operations on one
// Evaluator are serialized by an internal mutex.
type Evaluator struct {
	mu     sync.Mutex
	store  Store
	now    func() time.Time
	logger ports.Logger
}

// EvaluatorOption configures the evaluator.
type EvaluatorOption func(*Evaluator)

// WithClock overrides the time source, for deterministic expiry tests.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.now = now
	}
}

// WithLogger sets the logger (default: nop).
func WithLogger(logger ports.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// NewEvaluator creates an evaluator backed by the given store.
func NewEvaluator(store Store, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		store:  store,
		now:    time.Now,
		logger: ports.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate applies trust policy to a manifest and returns a decision.
// Policy mismatches are decisions, never errors; Evaluate fails only when
// the store does.
func (e *Evaluator) Evaluate(ctx context.Context, manifest Manifest) (Decision, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot, err := e.store.Load(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to load trust snapshot: %w", err)
	}

	decision := e.decide(snapshot, manifest)
	e.logger.Debug(ctx, "plugin evaluated",
		ports.F("plugin_id", manifest.ID),
		ports.F("level", string(decision.Level)))
	return decision, nil
}

// decide applies the precedence order: revocation, allow-list, signature,
// default deny. The first applicable branch wins.
func (e *Evaluator) decide(snapshot Snapshot, manifest Manifest) Decision {
	// Revocation is absolute: it overrides allow-list entries and valid
	// signatures alike.
	if snapshot.Denied(manifest.ID) {
		return newDecision(LevelUntrusted, ReasonRevoked)
	}

	if record, ok := snapshot.AllowRecord(manifest.ID); ok {
		if manifest.Checksum != "" && manifest.Checksum == record.Checksum {
			return newDecision(LevelTrusted, ReasonAllowListed)
		}
		return newDecision(LevelUntrusted, ReasonChecksumMismatch)
	}

	if manifest.IsSigned() {
		return e.decideSignature(snapshot, manifest)
	}

	// No trust signal at all: default-deny.
	return newDecision(LevelUntrusted)
}

func (e *Evaluator) decideSignature(snapshot Snapshot, manifest Manifest) Decision {
	key, ok := snapshot.Key(manifest.SignatureKeyID)
	if !ok {
		// A legitimate new key may not have propagated through the
		// refresher yet, so a human gets to decide.
		return newDecision(LevelRequiresApproval, ReasonSignatureUnknownKey)
	}

	if !key.ValidAt(e.now()) {
		// Expiry is usually rotation, not tampering.
		return newDecision(LevelRequiresApproval, ReasonSignatureExpired)
	}

	payload, _ := manifest.SignaturePayload()
	if VerifyEncoded(payload, manifest.Signature, key.PublicKey, manifest.SignatureAlgorithm) {
		return newDecision(LevelTrusted, ReasonSigned)
	}

	// A bad signature against a known-valid key is tampering.
	return newDecision(LevelUntrusted, ReasonSignatureInvalid)
}

// Allow adds or replaces the allow-list entry for a plugin id, pinning it
// to an exact checksum.
func (e *Evaluator) Allow(ctx context.Context, pluginID, checksum string) error {
	if pluginID == "" {
		return ErrEmptyPluginID
	}
	if checksum == "" {
		return ErrEmptyChecksum
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load trust snapshot: %w", err)
	}
	snapshot.Allow(pluginID, checksum)
	if err := e.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save trust snapshot: %w", err)
	}

	e.logger.Info(ctx, "plugin allow-listed",
		ports.F("plugin_id", pluginID),
		ports.F("checksum", checksum))
	return nil
}

// Revoke adds a plugin id to the deny-list. Any allow-list entry for the id
// stays in place; the deny-list wins on its own during evaluation.
func (e *Evaluator) Revoke(ctx context.Context, pluginID string) error {
	if pluginID == "" {
		return ErrEmptyPluginID
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load trust snapshot: %w", err)
	}
	snapshot.Revoke(pluginID)
	if err := e.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save trust snapshot: %w", err)
	}

	e.logger.Info(ctx, "plugin revoked", ports.F("plugin_id", pluginID))
	return nil
}
