// internal/serializer/manager_role.go
package serializer

import (
	"github.com/google/uuid"

	"github.com/teamlattice/lattice/internal/model"
	"github.com/teamlattice/lattice/internal/repository"
	"github.com/teamlattice/lattice/internal/service"
)

// ManagerView is the wire shape of a manager: the effective email plus the
// username, which is null while the manager has no registered account.
type ManagerView struct {
	Email    string  `json:"email"`
	Username *string `json:"username"`
}

// NewManagerView shapes the manager side of a role.
func NewManagerView(role *model.ManagerRole) ManagerView {
	return ManagerView{
		Email:    role.ManagerEmail(),
		Username: role.ManagerUsername(),
	}
}

// NewManagerViews shapes the manager side of a role list.
func NewManagerViews(roles []*model.ManagerRole) []ManagerView {
	views := make([]ManagerView, 0, len(roles))
	for _, role := range roles {
		views = append(views, NewManagerView(role))
	}
	return views
}

// NewManagerViewFromProjection shapes one row of the distinct-manager
// listing.
func NewManagerViewFromProjection(p repository.ManagerProjection) ManagerView {
	return ManagerView{
		Email:    p.Email(),
		Username: p.ManagerUsername,
	}
}

// NewManagerViewsFromProjections shapes the distinct-manager listing.
func NewManagerViewsFromProjections(projections []repository.ManagerProjection) []ManagerView {
	views := make([]ManagerView, 0, len(projections))
	for _, p := range projections {
		views = append(views, NewManagerViewFromProjection(p))
	}
	return views
}

// ReportView is the wire shape of a managed user under a manager.
type ReportView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
}

// NewReportView shapes the managed-user side of a role.
func NewReportView(role *model.ManagerRole) ReportView {
	return ReportView{
		ID:       role.User.ID,
		Email:    role.User.Email,
		Username: role.User.Username,
	}
}

// NewReportViews shapes the managed-user side of a role list.
func NewReportViews(roles []*model.ManagerRole) []ReportView {
	views := make([]ReportView, 0, len(roles))
	for _, role := range roles {
		views = append(views, NewReportView(role))
	}
	return views
}

// BulkReportView carries the accepted and rejected items of a bulk create.
type BulkReportView struct {
	Results []ReportView        `json:"results"`
	Errors  []service.BulkError `json:"errors"`
}

// NewBulkReportView shapes a bulk-create outcome. Both lists are always
// present in the payload, empty rather than null.
func NewBulkReportView(out *service.BulkAddOutput) BulkReportView {
	view := BulkReportView{
		Results: NewReportViews(out.Results),
		Errors:  out.Errors,
	}
	if view.Errors == nil {
		view.Errors = []service.BulkError{}
	}
	return view
}
