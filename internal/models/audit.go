package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditAction names a moderation action recorded in the audit log
type AuditAction string

const (
	AuditActionSetStatus  AuditAction = "set_status"
	AuditActionToggleBan  AuditAction = "toggle_ban"
	AuditActionDeletePost AuditAction = "delete_post"
)

// AuditEntry is a moderation audit row (PostgreSQL)
type AuditEntry struct {
	ID         uint              `json:"id" gorm:"primaryKey"`
	Action     AuditAction       `json:"action" gorm:"size:30;index"`
	ActorID    string            `json:"actorId" gorm:"size:24;index"`
	TargetType string            `json:"targetType" gorm:"size:20"`
	TargetID   string            `json:"targetId" gorm:"size:24;index"`
	Details    datatypes.JSONMap `json:"details,omitempty"`
	CreatedAt  time.Time         `json:"createdAt" gorm:"index"`
}
