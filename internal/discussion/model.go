// Package discussion implements the threaded discussion engine: bounded-depth
// comment trees attached to a translation subject, with like toggling,
// reporting and moderation.
package discussion

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyContent   = errors.New("comment content must not be empty")
	ErrParentNotFound = errors.New("parent comment does not exist")
	ErrNodeNotFound   = errors.New("comment does not exist")
	ErrReportNotFound = errors.New("report does not exist")
	ErrNotAuthor      = errors.New("only the author can edit a comment")
)

// MaxDepth bounds comment nesting (1 = top level). Thread assembly and
// subtree deletion never walk past it.
const MaxDepth = 4

// Node is one comment or reply. Replies are attached in memory by thread
// assembly; they are never stored embedded.
type Node struct {
	ID         int64     `db:"id" json:"id,string"`
	SubjectKey string    `db:"subject_key" json:"subject_key"`
	AuthorID   *string   `db:"author_id" json:"author_id,omitempty"`
	Content    string    `db:"content" json:"content"`
	LikeCount  int       `db:"like_count" json:"like_count"`
	ParentID   *int64    `db:"parent_id" json:"parent_id,omitempty"`
	Depth      int       `db:"depth" json:"depth"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	Replies       []*Node `db:"-" json:"replies,omitempty"`
	LikedByViewer bool    `db:"-" json:"liked_by_viewer,omitempty"`
}

// ReportStatus is the moderation state of a report.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// ParseReportOutcome validates a moderation outcome. Only resolved and
// dismissed are valid outcomes; pending is the initial state.
func ParseReportOutcome(outcome string) (ReportStatus, error) {
	switch ReportStatus(outcome) {
	case ReportStatusResolved, ReportStatusDismissed:
		return ReportStatus(outcome), nil
	}
	return "", fmt.Errorf("invalid moderation outcome %q", outcome)
}

// Report is one moderation flag on a node. At most one exists per
// (node, reporter) pair.
type Report struct {
	ID         int64        `db:"id" json:"id,string"`
	NodeID     int64        `db:"node_id" json:"node_id,string"`
	ReporterID string       `db:"reporter_id" json:"reporter_id"`
	Reason     string       `db:"reason" json:"reason,omitempty"`
	Status     ReportStatus `db:"status" json:"status"`
	ReviewerID *string      `db:"reviewer_id" json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time   `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ActionNote *string      `db:"action_note" json:"action_note,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// SortOrder orders the top-level page of a thread. Replies are always
// chronological regardless of the top-level sort.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortTop    SortOrder = "top"
)

// ParseSortOrder validates a sort order, defaulting to newest-first.
func ParseSortOrder(sort string) (SortOrder, error) {
	switch SortOrder(sort) {
	case SortNewest, SortOldest, SortTop:
		return SortOrder(sort), nil
	case "":
		return SortNewest, nil
	}
	return "", fmt.Errorf("invalid sort order %q", sort)
}

// SubjectKey derives the stable discussion grouping key for an
// (original text, target language) pair.
func SubjectKey(text, lang string) string {
	sum := sha256.Sum256([]byte(text + "\x00" + lang))
	return hex.EncodeToString(sum[:16])
}
