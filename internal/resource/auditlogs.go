package resource

// AuditLog is one recorded operator action.
type AuditLog struct {
	ID         string `json:"id"`
	ActorID    string `json:"actorId"`
	ActorEmail string `json:"actorEmail,omitempty"`
	Action     string `json:"action"`
	Entity     string `json:"entity"`
	TargetID   string `json:"entityId,omitempty"`
	IP         string `json:"ip,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

func (a AuditLog) EntityID() string { return a.ID }

// AuditLogs is the read-only audit log module.
type AuditLogs struct {
	*Module[AuditLog]
}

// NewAuditLogs creates the audit log module.
func NewAuditLogs(d Deps) *AuditLogs {
	return &AuditLogs{newModule[AuditLog]("audit-logs", "/v1/audit-logs", d)}
}
