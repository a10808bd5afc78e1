package jsonstream

import "sigs.k8s.io/yaml"

// debugStats accumulates cheap counters useful when diagnosing a stuck or
// misbehaving stream. Kept unconditionally (the increments are a couple of
// integer adds under a lock already being taken); only the dump is opt-in.
type debugStats struct {
	chars     int
	chunkEnds int
}

// DebugSnapshot is the shape rendered by Facade.DebugYAML, modeled on the
// teacher's debug.yaml turn dump: a small, human-readable summary rather
// than a raw struct dump of internal state.
type DebugSnapshot struct {
	ID          string `json:"id"`
	CharsFed    int    `json:"charsFed"`
	ChunkEnds   int    `json:"chunkEnds"`
	Started     bool   `json:"started"`
	RootKind    string `json:"rootKind,omitempty"`
	RootDone    bool   `json:"rootDone"`
	OpenPaths   int    `json:"openPaths"`
	ClosedPaths int    `json:"closedPaths"`
	SchemaHints int    `json:"schemaHints"`
}

// Debug returns a point-in-time snapshot of parser progress.
func (f *Facade) Debug() DebugSnapshot {
	f.mu.Lock()
	snap := DebugSnapshot{
		ID:          f.id,
		CharsFed:    f.debugStats.chars,
		ChunkEnds:   f.debugStats.chunkEnds,
		Started:     f.started,
		RootDone:    f.rootDone,
		SchemaHints: len(f.schemas),
	}
	if f.started {
		snap.RootKind = f.rootKind.String()
	}
	controllers := make([]*controller, 0, len(f.controllers))
	for _, c := range f.controllers {
		controllers = append(controllers, c)
	}
	f.mu.Unlock()

	for _, c := range controllers {
		c.mu.Lock()
		if c.closed {
			snap.ClosedPaths++
		} else {
			snap.OpenPaths++
		}
		c.mu.Unlock()
	}
	return snap
}

// DebugYAML renders Debug() as YAML, for a quick eyeballed dump the way the
// teacher writes debug.yaml per turn.
func (f *Facade) DebugYAML() (string, error) {
	b, err := yaml.Marshal(f.Debug())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
