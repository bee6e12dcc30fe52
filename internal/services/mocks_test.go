package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tribefund/moderation-backend/internal/models"
	"github.com/tribefund/moderation-backend/internal/policy"
	"gorm.io/datatypes"
)

// --- In-memory fakes ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User

	findErr  error
	applyErr error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) ApplySanction(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if r.applyErr != nil {
		return r.applyErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	for col, val := range updates {
		switch col {
		case "suspended_until":
			u.SuspendedUntil = toTimePtr(val)
		case "banned_at":
			u.BannedAt = toTimePtr(val)
		case "ban_reason":
			u.BanReason, _ = val.(string)
		case "auto_suspensions_count":
			// The service writes this as an increment expression.
			if n, ok := val.(int); ok {
				u.AutoSuspensionsCount = n
			} else {
				u.AutoSuspensionsCount++
			}
		case "surveillance_active":
			u.SurveillanceActive, _ = val.(bool)
		case "surveillance_added_by":
			if id, ok := val.(uuid.UUID); ok {
				u.SurveillanceAddedBy = &id
			} else {
				u.SurveillanceAddedBy = nil
			}
		case "surveillance_added_at":
			u.SurveillanceAddedAt = toTimePtr(val)
		}
	}
	return nil
}

func toTimePtr(val interface{}) *time.Time {
	switch v := val.(type) {
	case time.Time:
		return &v
	case *time.Time:
		return v
	default:
		return nil
	}
}

func (r *fakeUserRepo) AppendWarning(_ context.Context, id uuid.UUID, w models.Warning) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	list := u.WarningList()
	list = append(list, w)
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	u.Warnings = datatypes.JSON(b)
	return nil
}

func (r *fakeUserRepo) RemoveWarning(_ context.Context, id uuid.UUID, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	list := u.WarningList()
	if index < 0 || index >= len(list) {
		return nil
	}
	list = append(list[:index], list[index+1:]...)
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	u.Warnings = datatypes.JSON(b)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[uuid.UUID]*models.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[uuid.UUID]*models.Report)}
}

func (r *fakeReportRepo) Create(_ context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *report
	if copied.AggregateCount == 0 {
		// Mirror the column default (`gorm:"default:1"`) the real
		// repository relies on.
		copied.AggregateCount = 1
	}
	r.reports[report.ID] = &copied
	return nil
}

func (r *fakeReportRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	copied := *rep
	return &copied, nil
}

func (r *fakeReportRepo) FindByReporterAndTarget(_ context.Context, reporter uuid.UUID, tt models.TargetType, targetID string) (*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.reports {
		if rep.ReporterID == reporter && rep.TargetType == tt && rep.TargetID == targetID {
			copied := *rep
			return &copied, nil
		}
	}
	return nil, ErrReportNotFound
}

func (r *fakeReportRepo) IncrementAggregate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok {
		return ErrReportNotFound
	}
	rep.AggregateCount++
	return nil
}

func (r *fakeReportRepo) CountForTarget(_ context.Context, tt models.TargetType, targetID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, rep := range r.reports {
		if rep.TargetType == tt && rep.TargetID == targetID {
			count++
		}
	}
	return count, nil
}

func (r *fakeReportRepo) CountByUserTargets(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]uuid.UUID, len(ids))
	for _, id := range ids {
		want[id.String()] = id
	}
	counts := make(map[uuid.UUID]int64, len(ids))
	for _, rep := range r.reports {
		if rep.TargetType != models.TargetUser {
			continue
		}
		if id, ok := want[rep.TargetID]; ok {
			counts[id]++
		}
	}
	return counts, nil
}

func (r *fakeReportRepo) MarkEscalated(_ context.Context, id uuid.UUID, by, reason string, priority policy.Priority, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok || rep.EscalatedAt != nil {
		return false, nil
	}
	rep.EscalatedAt = &at
	rep.EscalatedBy = by
	rep.EscalationReason = reason
	rep.Priority = priority
	return true, nil
}

func (r *fakeReportRepo) Assign(_ context.Context, id uuid.UUID, staff uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok {
		return ErrReportNotFound
	}
	rep.AssignedTo = &staff
	rep.AssignedAt = &at
	return nil
}

func (r *fakeReportRepo) Transition(_ context.Context, id uuid.UUID, from models.ReportStatus, updates map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok || rep.Status != from {
		return false, nil
	}
	if v, ok := updates["status"].(models.ReportStatus); ok {
		rep.Status = v
	}
	if v, ok := updates["action"].(models.ModAction); ok {
		rep.Action = v
	}
	if v, ok := updates["moderated_by"].(uuid.UUID); ok {
		rep.ModeratedBy = &v
	}
	if v, ok := updates["moderated_at"].(time.Time); ok {
		rep.ModeratedAt = &v
	}
	return true, nil
}

func (r *fakeReportRepo) List(_ context.Context, filter ReportFilter) ([]models.Report, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Report
	for _, rep := range r.reports {
		if filter.Status != "" && rep.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && rep.Priority != filter.Priority {
			continue
		}
		if filter.Escalated != nil && *filter.Escalated != (rep.EscalatedAt != nil) {
			continue
		}
		out = append(out, *rep)
	}
	return out, int64(len(out)), nil
}

type recordingAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditLog
	failErr error
}

func (r *recordingAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *recordingAuditRepo) List(_ context.Context, filter AuditFilter) ([]models.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AuditLog
	for _, e := range r.entries {
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.ActorID != nil && e.ActorID != *filter.ActorID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *recordingAuditRepo) byAction(action models.AuditAction) []models.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AuditLog
	for _, e := range r.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type recordingNotificationRepo struct {
	mu      sync.Mutex
	created []models.Notification
	failErr error
}

func (r *recordingNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, *n)
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []SanctionEvent
}

func (n *recordingNotifier) SanctionIssued(_ context.Context, ev SanctionEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

type fakeContentStore struct {
	mu      sync.Mutex
	items   map[string]*ContentSnapshot
	hidden  map[string]bool
	deleted map[string]bool
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{
		items:   make(map[string]*ContentSnapshot),
		hidden:  make(map[string]bool),
		deleted: make(map[string]bool),
	}
}

func contentKey(tt models.TargetType, id string) string {
	return string(tt) + "/" + id
}

func (s *fakeContentStore) put(tt models.TargetType, id string, snap ContentSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[contentKey(tt, id)] = &snap
}

func (s *fakeContentStore) Fetch(_ context.Context, tt models.TargetType, id string) (*ContentSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := contentKey(tt, id)
	if s.deleted[key] {
		return nil, ErrTargetNotFound
	}
	snap, ok := s.items[key]
	if !ok {
		return nil, ErrTargetNotFound
	}
	copied := *snap
	return &copied, nil
}

func (s *fakeContentStore) Hide(_ context.Context, tt models.TargetType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := contentKey(tt, id)
	if _, ok := s.items[key]; !ok || s.deleted[key] {
		return ErrTargetNotFound
	}
	s.hidden[key] = true
	return nil
}

func (s *fakeContentStore) Delete(_ context.Context, tt models.TargetType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := contentKey(tt, id)
	if _, ok := s.items[key]; !ok || s.deleted[key] {
		return ErrTargetNotFound
	}
	s.deleted[key] = true
	return nil
}
