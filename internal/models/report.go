package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportKind discriminates what a report targets
type ReportKind string

const (
	ReportKindPost ReportKind = "post"
	ReportKindUser ReportKind = "user"
)

// ParseReportKind normalizes a kind string; ok is false for anything but post or user
func ParseReportKind(s string) (ReportKind, bool) {
	switch k := ReportKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ReportKindPost, ReportKindUser:
		return k, true
	}
	return "", false
}

// Collection is the Mongo collection holding reports of this kind
func (k ReportKind) Collection() string {
	if k == ReportKindUser {
		return "userreports"
	}
	return "postreports"
}

// ReportStatus is the moderation state of a report. Every state is reachable from every other.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusReviewed ReportStatus = "reviewed"
	ReportStatusResolved ReportStatus = "resolved"
)

// ReportStatuses lists the valid statuses in workflow order
var ReportStatuses = []ReportStatus{ReportStatusPending, ReportStatusReviewed, ReportStatusResolved}

// Valid reports whether s is one of the enumerated statuses
func (s ReportStatus) Valid() bool {
	for _, v := range ReportStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Report is a moderation ticket. Post and user reports share this shape and live in
// separate collections; Kind is not persisted, it is set from the collection on load.
type Report struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Kind      ReportKind         `json:"type" bson:"-"`
	Reporter  primitive.ObjectID `json:"reporter" bson:"reporter"`
	Target    primitive.ObjectID `json:"target" bson:"target"`
	Reason    string             `json:"reason" bson:"reason"`
	Status    ReportStatus       `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// JoinedReport is a report resolved against its reporter and target for admin listings.
// Exactly one of Post/User may be set depending on Kind; both stay nil when the target is gone.
type JoinedReport struct {
	ID        string       `json:"id"`
	Kind      ReportKind   `json:"type"`
	Reason    string       `json:"reason"`
	Status    ReportStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Reporter  *UserCompact `json:"reporter"`
	Post      *PostCompact `json:"post,omitempty"`
	User      *UserCompact `json:"user,omitempty"`
}

// CreateReportRequest defines the request body for filing a report
type CreateReportRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// UpdateReportStatusRequest defines the request body for a status transition
type UpdateReportStatusRequest struct {
	Status string `json:"status"`
	Type   string `json:"type,omitempty"`
}
