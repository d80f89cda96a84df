// Package dealservice owns vendor records for the event-services marketplace:
// card listings, the static catalog, and deal-closing writes.
//
// Layering:
// - domain: vendor entity, field validation, deal value parsing, star display
// - application: commands/queries/workers using explicit ports
// - ports: persistence, outbox, catalog boundaries
// - adapters: memory, postgres (gorm), YAML catalog, HTTP handler
// - transport: module-private DTOs for HTTP contracts
//
// Vendor writes are single-record. Without an expected version they are
// last-writer-wins; with one, stale writers get ErrVersionConflict.
package dealservice
