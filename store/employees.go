package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/deepsolv/linkedin-insights/apperr"
)

// MaxEmployeePageSize bounds follower/employee listings.
const MaxEmployeePageSize = 50

// EmployeeFilter narrows an employee listing. Nil flags mean "either".
type EmployeeFilter struct {
	IsFollower  *bool
	IsFollowing *bool
	IsEmployee  *bool
}

// EmployeeByID loads a person by their provider identifier.
func (s *Store) EmployeeByID(ctx context.Context, linkedinID string) (*Employee, error) {
	emp := new(Employee)
	err := s.db.NewSelect().
		Model(emp).
		Where("e.linkedin_id = ?", linkedinID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(fmt.Sprintf("employee %q not found", linkedinID))
	}
	if err != nil {
		return nil, fmt.Errorf("select employee: %w", err)
	}
	return emp, nil
}

// ListEmployees returns a page's people filtered by status flags, along
// with the total match count.
func (s *Store) ListEmployees(ctx context.Context, pageRef int64, filter EmployeeFilter, page, size int) ([]*Employee, int, error) {
	page, size, offset := applyPagination(page, size, MaxEmployeePageSize)

	var employees []*Employee
	q := s.db.NewSelect().
		Model(&employees).
		Where("e.page_ref = ?", pageRef)

	if filter.IsFollower != nil {
		q = q.Where("e.is_follower = ?", *filter.IsFollower)
	}
	if filter.IsFollowing != nil {
		q = q.Where("e.is_following = ?", *filter.IsFollowing)
	}
	if filter.IsEmployee != nil {
		q = q.Where("e.is_employee = ?", *filter.IsEmployee)
	}

	total, err := q.Order("full_name ASC").
		Limit(size).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	return employees, total, nil
}

// CountEmployees returns how many people match the filter for a page.
func (s *Store) CountEmployees(ctx context.Context, pageRef int64, filter EmployeeFilter) (int, error) {
	q := s.db.NewSelect().
		Model((*Employee)(nil)).
		Where("e.page_ref = ?", pageRef)

	if filter.IsFollower != nil {
		q = q.Where("e.is_follower = ?", *filter.IsFollower)
	}
	if filter.IsFollowing != nil {
		q = q.Where("e.is_following = ?", *filter.IsFollowing)
	}
	if filter.IsEmployee != nil {
		q = q.Where("e.is_employee = ?", *filter.IsEmployee)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return count, nil
}

// UpsertEmployee inserts the record when its linkedin_id is unseen and
// otherwise merges it into the stored row. Status flags only ever flip on
// here; a payload that omits a relationship does not revoke it.
func (s *Store) UpsertEmployee(ctx context.Context, in *Employee) (*Employee, bool, error) {
	existing := new(Employee)
	err := s.db.NewSelect().
		Model(existing).
		Where("e.linkedin_id = ?", in.LinkedInID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.NewInsert().Model(in).Exec(ctx); err != nil {
			return nil, false, fmt.Errorf("insert employee: %w", err)
		}
		return in, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select employee for upsert: %w", err)
	}

	mergeEmployee(existing, in)
	existing.UpdatedAt = time.Now().UTC()
	if _, err := s.db.NewUpdate().Model(existing).WherePK().Exec(ctx); err != nil {
		return nil, false, fmt.Errorf("update employee: %w", err)
	}
	return existing, false, nil
}

func mergeEmployee(dst, src *Employee) {
	takeString(&dst.FirstName, src.FirstName)
	takeString(&dst.LastName, src.LastName)
	takeString(&dst.FullName, src.FullName)
	takeString(&dst.Headline, src.Headline)
	takeString(&dst.ProfileURL, src.ProfileURL)
	takeString(&dst.ProfilePictureURL, src.ProfilePictureURL)
	takeString(&dst.ProfilePictureS3URL, src.ProfilePictureS3URL)
	takeString(&dst.CurrentTitle, src.CurrentTitle)
	takeString(&dst.CurrentCompany, src.CurrentCompany)
	takeString(&dst.Location, src.Location)
	takeString(&dst.Country, src.Country)
	takeString(&dst.Industry, src.Industry)
	takeIntPtr(&dst.ConnectionsCount, src.ConnectionsCount)
	dst.IsFollowing = dst.IsFollowing || src.IsFollowing
	dst.IsFollower = dst.IsFollower || src.IsFollower
	dst.IsEmployee = dst.IsEmployee || src.IsEmployee
	takeStrings(&dst.Skills, src.Skills)
	takeStrings(&dst.ExperienceSummary, src.ExperienceSummary)
	takeStrings(&dst.EducationSummary, src.EducationSummary)
}
