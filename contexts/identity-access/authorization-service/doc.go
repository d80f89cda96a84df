// Package authorization owns marketplace roles and the has_role RPC that
// consoles use to derive admin access.
//
// Layering:
// - domain: roles, assignments, role policy, errors
// - application: commands/queries/workers using explicit ports
// - ports: stable boundaries for persistence/cache/events
// - adapters: HTTP, memory, postgres (gorm), go-cache and redis role caches
// - transport: module-private DTOs for HTTP contracts
//
// HasRole reports repository failures as errors; callers decide whether to
// fail closed. Role grants and revocations invalidate cached answers.
package authorization
