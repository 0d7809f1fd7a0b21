package discussion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service implements the discussion operations on top of a Repository.
// Node and report IDs are snowflakes so they sort by creation time.
type Service struct {
	repo Repository
	ids  *snowflake.Node
}

// NewService creates a Service. The snowflake node ID distinguishes
// concurrent server instances.
func NewService(repo Repository, machineID int64) (*Service, error) {
	ids, err := snowflake.NewNode(machineID)
	if err != nil {
		return nil, fmt.Errorf("snowflake.NewNode() > %w", err)
	}
	return &Service{repo: repo, ids: ids}, nil
}

// CreateNode stores a new comment or reply. Replying to a node that is
// itself a reply attaches the new node to that node's parent instead, so
// deep chains flatten into siblings rather than nesting indefinitely.
func (s *Service) CreateNode(ctx context.Context, subjectKey string, authorID *string, content string, parentID *int64) (*Node, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	depth := 1
	if parentID != nil {
		parent, err := s.repo.GetNode(ctx, *parentID)
		if err != nil {
			if errors.Is(err, ErrNodeNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("repo.GetNode() > %w", err)
		}
		if parent.ParentID != nil {
			// Effective parent: a reply to a reply becomes a sibling
			// of its target, attached to the target's own parent.
			parentID = parent.ParentID
			depth = parent.Depth
		} else {
			depth = parent.Depth + 1
		}
	}

	node := &Node{
		ID:         s.ids.Generate().Int64(),
		SubjectKey: subjectKey,
		AuthorID:   authorID,
		Content:    content,
		ParentID:   parentID,
		Depth:      depth,
	}
	if err := s.repo.InsertNode(ctx, node); err != nil {
		return nil, fmt.Errorf("repo.InsertNode() > %w", err)
	}
	return node, nil
}

// UpdateNode edits a comment's content. Only the original author may
// edit, and anonymous comments cannot be edited.
func (s *Service) UpdateNode(ctx context.Context, nodeID int64, editorID, content string) (*Node, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	node, err := s.repo.GetNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if node.AuthorID == nil || *node.AuthorID != editorID {
		return nil, ErrNotAuthor
	}
	if err := s.repo.UpdateNodeContent(ctx, nodeID, content); err != nil {
		return nil, fmt.Errorf("repo.UpdateNodeContent() > %w", err)
	}
	return s.repo.GetNode(ctx, nodeID)
}

// ListThread returns one page of top-level nodes for a subject, each
// carrying its full reply subtree. Replies are chronological regardless
// of the top-level sort, and only top-level nodes count toward total.
func (s *Service) ListThread(ctx context.Context, subjectKey string, page, pageSize int, sort SortOrder, viewerID *string) ([]*Node, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	top, err := s.repo.ListTopLevel(ctx, subjectKey, sort, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ListTopLevel() > %w", err)
	}
	total, err := s.repo.CountTopLevel(ctx, subjectKey)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.CountTopLevel() > %w", err)
	}

	all := make([]*Node, len(top))
	copy(all, top)
	byID := make(map[int64]*Node, len(top))
	frontier := make([]int64, 0, len(top))
	for _, node := range top {
		byID[node.ID] = node
		frontier = append(frontier, node.ID)
	}

	// One batched fetch per level, bounded by the depth cap.
	for level := 1; level < MaxDepth && len(frontier) > 0; level++ {
		children, err := s.repo.ListChildren(ctx, frontier)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ListChildren() > %w", err)
		}
		frontier = frontier[:0]
		for _, child := range children {
			parent, ok := byID[*child.ParentID]
			if !ok {
				continue
			}
			parent.Replies = append(parent.Replies, child)
			byID[child.ID] = child
			frontier = append(frontier, child.ID)
			all = append(all, child)
		}
	}

	if viewerID != nil {
		ids := make([]int64, len(all))
		for i, node := range all {
			ids[i] = node.ID
		}
		liked, err := s.repo.LikedNodeIDs(ctx, *viewerID, ids)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.LikedNodeIDs() > %w", err)
		}
		for _, node := range all {
			node.LikedByViewer = liked[node.ID]
		}
	}
	return top, total, nil
}

// ToggleLike flips the viewer's like on a node and returns the new state
// and count.
func (s *Service) ToggleLike(ctx context.Context, nodeID int64, userID string) (liked bool, newCount int, err error) {
	return s.repo.ToggleLike(ctx, nodeID, userID)
}

// ReportNode flags a node for moderation. A repeat report by the same
// reporter succeeds without creating a second record.
func (s *Service) ReportNode(ctx context.Context, nodeID int64, reporterID, reason string) error {
	if _, err := s.repo.GetNode(ctx, nodeID); err != nil {
		return err
	}
	report := &Report{
		ID:         s.ids.Generate().Int64(),
		NodeID:     nodeID,
		ReporterID: reporterID,
		Reason:     strings.TrimSpace(reason),
		Status:     ReportStatusPending,
	}
	if err := s.repo.InsertReport(ctx, report); err != nil {
		return fmt.Errorf("repo.InsertReport() > %w", err)
	}
	return nil
}

// Moderate closes a report. When deleteNode is set the reported node and
// its whole reply subtree are removed.
func (s *Service) Moderate(ctx context.Context, reportID int64, reviewerID, outcome string, actionNote *string, deleteNode bool) error {
	status, err := ParseReportOutcome(outcome)
	if err != nil {
		return err
	}
	report, err := s.repo.GetReport(ctx, reportID)
	if err != nil {
		return err
	}

	if deleteNode {
		if err := s.repo.DeleteSubtree(ctx, report.NodeID); err != nil {
			return fmt.Errorf("repo.DeleteSubtree() > %w", err)
		}
		slog.Info("deleted discussion subtree",
			slog.Int64("nodeId", report.NodeID),
			slog.Int64("reportId", report.ID))
	}

	now := time.Now()
	report.Status = status
	report.ReviewerID = &reviewerID
	report.ReviewedAt = &now
	report.ActionNote = actionNote
	if err := s.repo.UpdateReport(ctx, report); err != nil {
		// Deleting the node cascades its reports away; that still
		// counts as a completed moderation.
		if deleteNode && errors.Is(err, ErrReportNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// ListReports returns one page of reports for the moderation queue.
func (s *Service) ListReports(ctx context.Context, status ReportStatus, page, pageSize int) ([]*Report, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.repo.ListReports(ctx, status, pageSize, (page-1)*pageSize)
}
