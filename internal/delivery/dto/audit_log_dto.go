package dto

import (
	"time"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID        int64                  `json:"id"`
	UserID    *uuid.UUID             `json:"user_id,omitempty"`
	UserDNI   string                 `json:"user_dni,omitempty"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type AuditLogListQuery struct {
	Action string `schema:"action" validate:"omitempty,max=100"`
	UserID string `schema:"userId" validate:"omitempty,uuid"`
	Page   int    `schema:"page" validate:"omitempty,gte=1"`
	Limit  int    `schema:"limit" validate:"omitempty,gte=1,lte=100"`
}
