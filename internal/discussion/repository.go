package discussion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines the persistence operations behind the Service. The
// production implementation is Postgres; MemoryRepository backs tests and
// the offline serve mode.
type Repository interface {
	GetNode(ctx context.Context, id int64) (*Node, error)
	InsertNode(ctx context.Context, node *Node) error
	UpdateNodeContent(ctx context.Context, id int64, content string) error
	DeleteSubtree(ctx context.Context, rootID int64) error
	ListTopLevel(ctx context.Context, subjectKey string, sort SortOrder, limit, offset int) ([]*Node, error)
	CountTopLevel(ctx context.Context, subjectKey string) (int, error)
	ListChildren(ctx context.Context, parentIDs []int64) ([]*Node, error)
	ToggleLike(ctx context.Context, nodeID int64, userID string) (liked bool, newCount int, err error)
	LikedNodeIDs(ctx context.Context, userID string, nodeIDs []int64) (map[int64]bool, error)
	InsertReport(ctx context.Context, report *Report) error
	GetReport(ctx context.Context, id int64) (*Report, error)
	UpdateReport(ctx context.Context, report *Report) error
	ListReports(ctx context.Context, status ReportStatus, limit, offset int) ([]*Report, int, error)
}

// DBRepository implements Repository using Postgres.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

const nodeColumns = `id, subject_key, author_id, content, like_count, parent_id, depth, created_at, updated_at`

// GetNode returns a node by ID.
func (r *DBRepository) GetNode(ctx context.Context, id int64) (*Node, error) {
	var node Node
	err := r.db.GetContext(ctx, &node,
		`SELECT `+nodeColumns+` FROM discussion_nodes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(discussion_node) > %w", err)
	}
	return &node, nil
}

// InsertNode stores a new node and reads back its timestamps.
func (r *DBRepository) InsertNode(ctx context.Context, node *Node) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO discussion_nodes (id, subject_key, author_id, content, like_count, parent_id, depth)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
		RETURNING created_at, updated_at`,
		node.ID, node.SubjectKey, node.AuthorID, node.Content, node.ParentID, node.Depth).
		Scan(&node.CreatedAt, &node.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db.QueryRowxContext(insert discussion_node) > %w", err)
	}
	return nil
}

// UpdateNodeContent edits a node's content and bumps updated_at.
func (r *DBRepository) UpdateNodeContent(ctx context.Context, id int64, content string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE discussion_nodes SET content = $1, updated_at = now() WHERE id = $2`,
		content, id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update discussion_node) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// DeleteSubtree hard-deletes a node and all of its descendants in one
// statement. Likes and reports cascade through foreign keys. The depth
// guard keeps the recursion bounded even against corrupt parent chains.
func (r *DBRepository) DeleteSubtree(ctx context.Context, rootID int64) error {
	_, err := r.db.ExecContext(ctx,
		`WITH RECURSIVE subtree AS (
			SELECT id, 1 AS level FROM discussion_nodes WHERE id = $1
			UNION ALL
			SELECT n.id, s.level + 1 FROM discussion_nodes n
			JOIN subtree s ON n.parent_id = s.id
			WHERE s.level < $2
		)
		DELETE FROM discussion_nodes WHERE id IN (SELECT id FROM subtree)`,
		rootID, MaxDepth)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete discussion subtree) > %w", err)
	}
	return nil
}

func topLevelOrderBy(sort SortOrder) string {
	switch sort {
	case SortOldest:
		return "created_at ASC, id ASC"
	case SortTop:
		return "like_count DESC, created_at DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

// ListTopLevel returns one page of top-level nodes for a subject.
func (r *DBRepository) ListTopLevel(ctx context.Context, subjectKey string, sort SortOrder, limit, offset int) ([]*Node, error) {
	nodes := []*Node{}
	err := r.db.SelectContext(ctx, &nodes,
		`SELECT `+nodeColumns+` FROM discussion_nodes
		WHERE subject_key = $1 AND parent_id IS NULL
		ORDER BY `+topLevelOrderBy(sort)+`
		LIMIT $2 OFFSET $3`,
		subjectKey, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db.SelectContext(top-level discussion_nodes) > %w", err)
	}
	return nodes, nil
}

// CountTopLevel counts top-level nodes only; replies never count toward
// pagination.
func (r *DBRepository) CountTopLevel(ctx context.Context, subjectKey string) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM discussion_nodes WHERE subject_key = $1 AND parent_id IS NULL`,
		subjectKey)
	if err != nil {
		return 0, fmt.Errorf("db.GetContext(count top-level discussion_nodes) > %w", err)
	}
	return total, nil
}

// ListChildren returns the direct children of all given parents in one
// query, in chronological conversation order.
func (r *DBRepository) ListChildren(ctx context.Context, parentIDs []int64) ([]*Node, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	nodes := []*Node{}
	err := r.db.SelectContext(ctx, &nodes,
		`SELECT `+nodeColumns+` FROM discussion_nodes
		WHERE parent_id = ANY($1)
		ORDER BY created_at ASC, id ASC`,
		parentIDs)
	if err != nil {
		return nil, fmt.Errorf("db.SelectContext(discussion_node children) > %w", err)
	}
	return nodes, nil
}

// ToggleLike flips the (node, user) like record and adjusts the
// denormalized counter in the same transaction. Record existence is the
// source of truth, so a double submit cannot double-decrement.
func (r *DBRepository) ToggleLike(ctx context.Context, nodeID int64, userID string) (bool, int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM discussion_likes WHERE node_id = $1 AND user_id = $2`,
		nodeID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("tx.ExecContext(delete discussion_like) > %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, 0, fmt.Errorf("result.RowsAffected() > %w", err)
	}

	var liked bool
	var newCount int
	if deleted > 0 {
		liked = false
		err = tx.QueryRowxContext(ctx,
			`UPDATE discussion_nodes SET like_count = GREATEST(like_count - 1, 0)
			WHERE id = $1 RETURNING like_count`,
			nodeID).Scan(&newCount)
	} else {
		liked = true
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO discussion_likes (node_id, user_id) VALUES ($1, $2)
			ON CONFLICT (node_id, user_id) DO NOTHING`,
			nodeID, userID); err != nil {
			return false, 0, fmt.Errorf("tx.ExecContext(insert discussion_like) > %w", err)
		}
		err = tx.QueryRowxContext(ctx,
			`UPDATE discussion_nodes SET like_count = like_count + 1
			WHERE id = $1 RETURNING like_count`,
			nodeID).Scan(&newCount)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, 0, ErrNodeNotFound
	}
	if err != nil {
		return false, 0, fmt.Errorf("tx.QueryRowxContext(update like_count) > %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("tx.Commit() > %w", err)
	}
	return liked, newCount, nil
}

// LikedNodeIDs returns which of the given nodes the user has liked.
func (r *DBRepository) LikedNodeIDs(ctx context.Context, userID string, nodeIDs []int64) (map[int64]bool, error) {
	if len(nodeIDs) == 0 {
		return map[int64]bool{}, nil
	}
	var likedIDs []int64
	err := r.db.SelectContext(ctx, &likedIDs,
		`SELECT node_id FROM discussion_likes WHERE user_id = $1 AND node_id = ANY($2)`,
		userID, nodeIDs)
	if err != nil {
		return nil, fmt.Errorf("db.SelectContext(discussion_likes) > %w", err)
	}
	liked := make(map[int64]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}
	return liked, nil
}

// InsertReport stores a report; a duplicate (node, reporter) pair is a
// no-op success.
func (r *DBRepository) InsertReport(ctx context.Context, report *Report) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO discussion_reports (id, node_id, reporter_id, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (node_id, reporter_id) DO NOTHING`,
		report.ID, report.NodeID, report.ReporterID, report.Reason, ReportStatusPending)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert discussion_report) > %w", err)
	}
	return nil
}

// GetReport returns a report by ID.
func (r *DBRepository) GetReport(ctx context.Context, id int64) (*Report, error) {
	var report Report
	err := r.db.GetContext(ctx, &report,
		`SELECT * FROM discussion_reports WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(discussion_report) > %w", err)
	}
	return &report, nil
}

// UpdateReport stores a report's moderation fields.
func (r *DBRepository) UpdateReport(ctx context.Context, report *Report) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE discussion_reports
		SET status = $1, reviewer_id = $2, reviewed_at = $3, action_note = $4
		WHERE id = $5`,
		report.Status, report.ReviewerID, report.ReviewedAt, report.ActionNote, report.ID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update discussion_report) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// ListReports returns one page of reports, newest first, optionally
// filtered by status, along with the total matching count.
func (r *DBRepository) ListReports(ctx context.Context, status ReportStatus, limit, offset int) ([]*Report, int, error) {
	filter := ``
	args := []any{limit, offset}
	if status != "" {
		filter = `WHERE status = $3`
		args = append(args, status)
	}

	reports := []*Report{}
	err := r.db.SelectContext(ctx, &reports,
		`SELECT * FROM discussion_reports `+filter+`
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db.SelectContext(discussion_reports) > %w", err)
	}

	var total int
	countArgs := []any{}
	countFilter := ``
	if status != "" {
		countFilter = `WHERE status = $1`
		countArgs = append(countArgs, status)
	}
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM discussion_reports `+countFilter, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("db.GetContext(count discussion_reports) > %w", err)
	}
	return reports, total, nil
}

var _ Repository = (*DBRepository)(nil)
