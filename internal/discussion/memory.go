package discussion

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-process Repository for tests and for running
// the server without a database.
type MemoryRepository struct {
	mu      sync.Mutex
	nodes   map[int64]*Node
	likes   map[int64]map[string]bool
	reports map[int64]*Report
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nodes:   map[int64]*Node{},
		likes:   map[int64]map[string]bool{},
		reports: map[int64]*Report{},
	}
}

func copyNode(node *Node) *Node {
	clone := *node
	clone.Replies = nil
	return &clone
}

// GetNode returns a node by ID.
func (r *MemoryRepository) GetNode(_ context.Context, id int64) (*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	node, ok := r.nodes[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return copyNode(node), nil
}

// InsertNode stores a new node.
func (r *MemoryRepository) InsertNode(_ context.Context, node *Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	node.CreatedAt = now
	node.UpdatedAt = now
	r.nodes[node.ID] = copyNode(node)
	return nil
}

// UpdateNodeContent edits a node's content.
func (r *MemoryRepository) UpdateNodeContent(_ context.Context, id int64, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	node, ok := r.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	node.Content = content
	node.UpdatedAt = time.Now()
	return nil
}

// DeleteSubtree removes a node and all of its descendants, along with
// their likes and reports.
func (r *MemoryRepository) DeleteSubtree(_ context.Context, rootID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doomed := map[int64]bool{rootID: true}
	frontier := []int64{rootID}
	for level := 1; level < MaxDepth && len(frontier) > 0; level++ {
		var next []int64
		for _, node := range r.nodes {
			if node.ParentID != nil && containsID(frontier, *node.ParentID) && !doomed[node.ID] {
				doomed[node.ID] = true
				next = append(next, node.ID)
			}
		}
		frontier = next
	}

	for id := range doomed {
		delete(r.nodes, id)
		delete(r.likes, id)
	}
	for reportID, report := range r.reports {
		if doomed[report.NodeID] {
			delete(r.reports, reportID)
		}
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// ListTopLevel returns one page of top-level nodes for a subject.
func (r *MemoryRepository) ListTopLevel(_ context.Context, subjectKey string, sortOrder SortOrder, limit, offset int) ([]*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var top []*Node
	for _, node := range r.nodes {
		if node.SubjectKey == subjectKey && node.ParentID == nil {
			top = append(top, copyNode(node))
		}
	}
	sort.Slice(top, func(i, j int) bool {
		a, b := top[i], top[j]
		switch sortOrder {
		case SortOldest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		case SortTop:
			if a.LikeCount != b.LikeCount {
				return a.LikeCount > b.LikeCount
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	if offset >= len(top) {
		return []*Node{}, nil
	}
	end := offset + limit
	if end > len(top) {
		end = len(top)
	}
	return top[offset:end], nil
}

// CountTopLevel counts top-level nodes for a subject.
func (r *MemoryRepository) CountTopLevel(_ context.Context, subjectKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, node := range r.nodes {
		if node.SubjectKey == subjectKey && node.ParentID == nil {
			total++
		}
	}
	return total, nil
}

// ListChildren returns the direct children of all given parents in
// chronological order.
func (r *MemoryRepository) ListChildren(_ context.Context, parentIDs []int64) ([]*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var children []*Node
	for _, node := range r.nodes {
		if node.ParentID != nil && containsID(parentIDs, *node.ParentID) {
			children = append(children, copyNode(node))
		}
	}
	sort.Slice(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return children, nil
}

// ToggleLike flips the (node, user) like record and adjusts the counter.
func (r *MemoryRepository) ToggleLike(_ context.Context, nodeID int64, userID string) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[nodeID]
	if !ok {
		return false, 0, ErrNodeNotFound
	}
	users := r.likes[nodeID]
	if users == nil {
		users = map[string]bool{}
		r.likes[nodeID] = users
	}

	if users[userID] {
		delete(users, userID)
		if node.LikeCount > 0 {
			node.LikeCount--
		}
		return false, node.LikeCount, nil
	}
	users[userID] = true
	node.LikeCount++
	return true, node.LikeCount, nil
}

// LikedNodeIDs returns which of the given nodes the user has liked.
func (r *MemoryRepository) LikedNodeIDs(_ context.Context, userID string, nodeIDs []int64) (map[int64]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	liked := map[int64]bool{}
	for _, id := range nodeIDs {
		if r.likes[id][userID] {
			liked[id] = true
		}
	}
	return liked, nil
}

// InsertReport stores a report unless the (node, reporter) pair already
// has one.
func (r *MemoryRepository) InsertReport(_ context.Context, report *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reports {
		if existing.NodeID == report.NodeID && existing.ReporterID == report.ReporterID {
			return nil
		}
	}
	report.CreatedAt = time.Now()
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

// GetReport returns a report by ID.
func (r *MemoryRepository) GetReport(_ context.Context, id int64) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	clone := *report
	return &clone, nil
}

// UpdateReport stores a report's moderation fields.
func (r *MemoryRepository) UpdateReport(_ context.Context, report *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[report.ID]; !ok {
		return ErrReportNotFound
	}
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

// ListReports returns one page of reports, newest first.
func (r *MemoryRepository) ListReports(_ context.Context, status ReportStatus, limit, offset int) ([]*Report, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*Report
	for _, report := range r.reports {
		if status == "" || report.Status == status {
			clone := *report
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	total := len(matched)
	if offset >= total {
		return []*Report{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

var _ Repository = (*MemoryRepository)(nil)
