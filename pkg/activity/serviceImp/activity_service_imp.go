package serviceImp

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"farmadvisor/entities"
	"farmadvisor/pkg/activity/repository"
	"farmadvisor/pkg/apperr"
)

type ActivitySvc struct {
	repo repository.ActivityRepository
}

func New(repo repository.ActivityRepository) *ActivitySvc { return &ActivitySvc{repo: repo} }

func (s *ActivitySvc) Create(in entities.Activity) (*entities.Activity, error) {
	if in.UserID == "" || in.Type == "" {
		return nil, apperr.Validation("user_id and type are required")
	}
	if in.Area < 0 || in.Cost < 0 {
		return nil, apperr.Validation("area and cost must not be negative")
	}
	a := in
	a.ID = uuid.NewString()
	if a.Status == "" {
		a.Status = entities.ActivityPlanned
	}
	if a.Date.IsZero() {
		a.Date = time.Now()
	}
	if err := s.repo.Create(&a); err != nil {
		return nil, apperr.Internal("save activity: " + err.Error())
	}
	return &a, nil
}

func (s *ActivitySvc) GetByID(id string) (*entities.Activity, error) { return s.repo.FindByID(id) }

func (s *ActivitySvc) Update(id string, in entities.Activity) (*entities.Activity, error) {
	a, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if in.Area < 0 || in.Cost < 0 {
		return nil, apperr.Validation("area and cost must not be negative")
	}
	if in.Type != "" {
		a.Type = in.Type
	}
	if in.Crop != "" {
		a.Crop = in.Crop
	}
	if in.Area > 0 {
		a.Area = in.Area
	}
	if !in.Date.IsZero() {
		a.Date = in.Date
	}
	if in.Cost > 0 {
		a.Cost = in.Cost
	}
	if in.Status != "" {
		a.Status = in.Status
	}
	if in.Notes != "" {
		a.Notes = in.Notes
	}
	if err := s.repo.Save(a); err != nil {
		return nil, apperr.Internal("save activity: " + err.Error())
	}
	return a, nil
}

func (s *ActivitySvc) Delete(id string) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

type Filters struct {
	Type   string
	Crop   string
	Status entities.ActivityStatus
}

func (s *ActivitySvc) List(userID string, f Filters) ([]entities.Activity, error) {
	all, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	var out []entities.Activity
	for _, a := range all {
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.Crop != "" && !strings.EqualFold(a.Crop, f.Crop) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Upcoming returns planned activities dated within [now, now+days].
func (s *ActivitySvc) Upcoming(userID string, days int) ([]entities.Activity, error) {
	if days < 1 {
		days = 7
	}
	all, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	now := time.Now()
	horizon := now.AddDate(0, 0, days)
	var out []entities.Activity
	for _, a := range all {
		if a.Status == entities.ActivityPlanned && !a.Date.Before(now) && !a.Date.After(horizon) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Overdue returns planned activities whose date has already passed.
func (s *ActivitySvc) Overdue(userID string) ([]entities.Activity, error) {
	all, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	now := time.Now()
	var out []entities.Activity
	for _, a := range all {
		if a.Status == entities.ActivityPlanned && a.Date.Before(now) {
			out = append(out, a)
		}
	}
	return out, nil
}

type Stats struct {
	Total          int                `json:"total"`
	ByType         map[string]int     `json:"by_type"`
	ByStatus       map[string]int     `json:"by_status"`
	TotalCost      float64            `json:"total_cost"`
	CostByType     map[string]float64 `json:"cost_by_type"`
	CompletionRate float64            `json:"completion_rate"`
	OpenIssues     int                `json:"open_issues"`
}

func (s *ActivitySvc) Stats(userID string, days int) (*Stats, error) {
	if days < 1 {
		days = 90
	}
	all, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	st := &Stats{ByType: map[string]int{}, ByStatus: map[string]int{}, CostByType: map[string]float64{}}
	completed := 0
	for _, a := range all {
		if a.Date.Before(cutoff) {
			continue
		}
		st.Total++
		st.ByType[a.Type]++
		st.ByStatus[string(a.Status)]++
		st.TotalCost += a.Cost
		st.CostByType[a.Type] += a.Cost
		if a.Status == entities.ActivityCompleted {
			completed++
		}
		for _, issue := range a.Issues {
			if !issue.Resolved {
				st.OpenIssues++
			}
		}
	}
	if st.Total > 0 {
		st.CompletionRate = float64(completed) / float64(st.Total) * 100
	}
	return st, nil
}

func (s *ActivitySvc) AddIssue(id string, issue entities.ActivityIssue) (*entities.Activity, error) {
	if strings.TrimSpace(issue.Description) == "" {
		return nil, apperr.Validation("issue description is required")
	}
	a, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if issue.Severity == "" {
		issue.Severity = "medium"
	}
	issue.ReportedAt = time.Now()
	a.Issues = append(a.Issues, issue)
	if err := s.repo.Save(a); err != nil {
		return nil, apperr.Internal(err.Error())
	}
	return a, nil
}

func (s *ActivitySvc) AddAttachment(id string, att entities.ActivityAttachment) (*entities.Activity, error) {
	if strings.TrimSpace(att.URL) == "" {
		return nil, apperr.Validation("attachment url is required")
	}
	a, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	att.AddedAt = time.Now()
	a.Attachments = append(a.Attachments, att)
	if err := s.repo.Save(a); err != nil {
		return nil, apperr.Internal(err.Error())
	}
	return a, nil
}

func (s *ActivitySvc) BulkStatus(ids []string, status entities.ActivityStatus) (int, error) {
	updated := 0
	for _, id := range ids {
		a, err := s.repo.FindByID(id)
		if err != nil {
			continue
		}
		a.Status = status
		if err := s.repo.Save(a); err == nil {
			updated++
		}
	}
	return updated, nil
}

// ExportCSV renders the user's activities as CSV for download.
func (s *ActivitySvc) ExportCSV(userID string) ([]byte, error) {
	all, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "type", "crop", "area", "date", "cost", "status", "notes"})
	for _, a := range all {
		_ = w.Write([]string{
			a.ID, a.Type, a.Crop,
			fmt.Sprintf("%.2f", a.Area),
			a.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", a.Cost),
			string(a.Status), a.Notes,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperr.Internal(err.Error())
	}
	return buf.Bytes(), nil
}
