package domain

import "time"

// AuditEntry records one successful lifecycle transition for the audit
// trail. Audit records are observational: writing them never gates or fails
// the transition that produced them.
type AuditEntry struct {
	Entity    string    `bson:"entity"`    // "request" or "transaction"
	EntityID  string    `bson:"entity_id"`
	From      string    `bson:"from,omitempty"` // empty on creation
	To        string    `bson:"to"`
	Actor     string    `bson:"actor"` // user id, or "admin"
	Timestamp time.Time `bson:"timestamp"`
}

// ActorLabel returns the audit actor string for an identity.
func ActorLabel(ident Identity) string {
	if ident.IsAdmin() {
		return RoleAdmin
	}
	return ident.UserID()
}
