// Package noodle is the Composition Root for the noodle note engine.
//
// It connects the core note logic (Domain Layer) with the storage adapters
// (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Noodle is a persistence engine for per-section course notes. It treats a
// small key/value medium with hard per-entry capacity ceilings and per-entry
// expiry as its database, and survives whatever that medium hands back:
// legacy plain-text values, double-encoded payloads, and structurally
// hostile JSON all degrade to usable records instead of errors.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Total Decoding**: Stored values never fail to decode; corrupted and
//     legacy payloads fall back to plain text.
//   - **Debounced Saves**: Rapid edits coalesce into one write per quiescence window.
//   - **Aggregation**: Stored notes and live form state merge into one course view.
//   - **Capacity Bands**: Encoded size is estimated against the medium ceiling
//     before every write.
//   - **Pluggable Stores**: File-backed jar, SQLite, and in-memory adapters via
//     `core.Store`.
//
// Usage:
//
//	// Initialize service with functional options
//	svc, err := noodle.New("./notes.jar",
//		noodle.WithTTL(90),
//		noodle.WithLogger(logger),
//	)
//
//	// Save a note
//	err = svc.SaveNote(ctx, "cs101", "week1", core.SaveRequest{Text: "pointers"})
package noodle
