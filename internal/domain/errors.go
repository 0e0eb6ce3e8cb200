package domain

import "errors"

// Error taxonomy shared by the tool dispatcher and the HTTP boundary.
// Tool-level failures are folded into the model conversation as text;
// HTTP-boundary failures map to status codes (404, 410, 403, ...).
var (
	// ErrNotFound covers unknown users, sessions, and reports, including
	// reports that exist but belong to a different user. Ownership is
	// enforced purely by key scoping, so a foreign report is
	// indistinguishable from a missing one.
	ErrNotFound = errors.New("not found")

	// ErrExpired marks a token or session past its expiry instant.
	ErrExpired = errors.New("expired")

	// ErrWrongMode marks a demo-only (or live-only) operation invoked in
	// the wrong operating mode.
	ErrWrongMode = errors.New("operation not available in this mode")

	// ErrForbiddenRole marks a role-scoped demo operation invoked by a
	// session or user bound to a different persona.
	ErrForbiddenRole = errors.New("forbidden for this demo role")

	// ErrNoRoleAssigned marks demo operations that require the user to
	// have picked a persona first.
	ErrNoRoleAssigned = errors.New("no demo role assigned")

	// ErrUnknownTool is returned when the model requests a tool name
	// outside the fixed catalogue.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvariant marks a domain rule violation, such as deleting a
	// report that is no longer pending.
	ErrInvariant = errors.New("domain invariant violated")
)
