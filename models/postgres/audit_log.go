package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'AuditLog' records privileged mutations (lobby close/delete/kick,
 * match start...) together with the request payload and a correlation
 * id so a support ticket can be traced back to the exact request
 */
type AuditLog struct {
	AuditLogID    int            `gorm:"primaryKey;autoIncrement" json:"auditLogId"`
	ActorEmail    string         `gorm:"size:100;index:idx_audit_actor" json:"actorEmail"`
	Action        string         `gorm:"size:10;not null" json:"action"`
	EntityType    string         `gorm:"size:50" json:"entityType"`
	EntityID      string         `gorm:"size:50" json:"entityId"`
	Details       datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"details"`
	CorrelationID string         `gorm:"size:36;index:idx_audit_correlation" json:"correlationId"`
	CreatedAt     time.Time      `json:"createdAt"`
}
