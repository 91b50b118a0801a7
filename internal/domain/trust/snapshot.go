package trust

import "time"

// Record is one allow-list entry: the only checksum accepted for a plugin id.
type Record struct {
	PluginID string `json:"plugin_id" yaml:"plugin_id"`
	Checksum string `json:"checksum" yaml:"checksum"`
}

// Snapshot is the full persisted trust state. The zero value is the empty
// snapshot: nothing allowed, nothing denied, no signing keys.
//
// The snapshot is the single source of truth for policy. The evaluator
// re-reads it from the store on every call, so refresher updates take
// effect on the next evaluation without a restart.
type Snapshot struct {
	AllowList   []Record     `json:"allow_list,omitempty" yaml:"allow_list,omitempty"`
	DenyList    []string     `json:"deny_list,omitempty" yaml:"deny_list,omitempty"`
	SigningKeys []SigningKey `json:"signing_keys,omitempty" yaml:"signing_keys,omitempty"`
}

// AllowRecord returns the effective allow-list record for a plugin id.
// Later entries for the same id replace earlier ones.
func (s Snapshot) AllowRecord(pluginID string) (Record, bool) {
	var record Record
	found := false
	for _, r := range s.AllowList {
		if r.PluginID == pluginID {
			record = r
			found = true
		}
	}
	return record, found
}

// Denied reports whether a plugin id is on the deny-list.
func (s Snapshot) Denied(pluginID string) bool {
	for _, id := range s.DenyList {
		if id == pluginID {
			return true
		}
	}
	return false
}

// Key returns the signing key with the given id. Later entries win, matching
// AllowRecord semantics.
func (s Snapshot) Key(id string) (SigningKey, bool) {
	var key SigningKey
	found := false
	for _, k := range s.SigningKeys {
		if k.ID == id {
			key = k
			found = true
		}
	}
	return key, found
}

// Allow adds or replaces the allow-list record for a plugin id.
func (s *Snapshot) Allow(pluginID, checksum string) {
	for i, r := range s.AllowList {
		if r.PluginID == pluginID {
			s.AllowList[i].Checksum = checksum
			return
		}
	}
	s.AllowList = append(s.AllowList, Record{PluginID: pluginID, Checksum: checksum})
}

// Revoke adds a plugin id to the deny-list. The allow-list is left alone:
// deny-list membership short-circuits trust on its own.
func (s *Snapshot) Revoke(pluginID string) {
	if s.Denied(pluginID) {
		return
	}
	s.DenyList = append(s.DenyList, pluginID)
}

// UpsertKey adds or replaces a signing key by id.
func (s *Snapshot) UpsertKey(key SigningKey) {
	for i, k := range s.SigningKeys {
		if k.ID == key.ID {
			s.SigningKeys[i] = key
			return
		}
	}
	s.SigningKeys = append(s.SigningKeys, key)
}

// RevokeKey marks the signing key with the given id as revoked at t.
// It reports whether a key was found.
func (s *Snapshot) RevokeKey(id string, t time.Time) bool {
	found := false
	for i, k := range s.SigningKeys {
		if k.ID == id {
			at := t
			s.SigningKeys[i].RevokedAt = &at
			found = true
		}
	}
	return found
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	clone := Snapshot{}
	if s.AllowList != nil {
		clone.AllowList = make([]Record, len(s.AllowList))
		copy(clone.AllowList, s.AllowList)
	}
	if s.DenyList != nil {
		clone.DenyList = make([]string, len(s.DenyList))
		copy(clone.DenyList, s.DenyList)
	}
	if s.SigningKeys != nil {
		clone.SigningKeys = make([]SigningKey, len(s.SigningKeys))
		copy(clone.SigningKeys, s.SigningKeys)
	}
	return clone
}
