package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ReportRequest is the caller-facing input to report generation. AsOf pins
// every "today"-relative calculation; a zero AsOf means the current time.
type ReportRequest struct {
	Scope                   Scope      `json:"scope"`
	EmployeeID              string     `json:"employeeId,omitempty"`
	TeamID                  string     `json:"teamId,omitempty"`
	DepartmentID            string     `json:"departmentId,omitempty"`
	Period                  Period     `json:"period"`
	StartDate               *time.Time `json:"startDate,omitempty"`
	EndDate                 *time.Time `json:"endDate,omitempty"`
	Template                string     `json:"template"`
	MetricGroups            []string   `json:"metricGroups,omitempty"`
	IncludeTeamComparison   bool       `json:"includeTeamComparison"`
	IncludePeriodComparison bool       `json:"includePeriodComparison"`
	AsOf                    time.Time  `json:"-"`
}

// SnapshotPolicy decides whether a successful report run should also be
// persisted as a periodic snapshot.
type SnapshotPolicy func(asOf time.Time) bool

// WeekdaySnapshotPolicy snapshots on one configured day of the week.
func WeekdaySnapshotPolicy(day time.Weekday) SnapshotPolicy {
	return func(asOf time.Time) bool {
		return asOf.Weekday() == day
	}
}

// Orchestrator drives a report request through period resolution,
// aggregation, optional comparison, sufficiency assessment and the narrative
// provider call. Aggregation failures and provider failures fail the whole
// request; insufficient data does not.
type Orchestrator struct {
	Engine    *Engine
	Provider  NarrativeProvider
	Snapshots SnapshotStore
	Policy    SnapshotPolicy
	MaxTokens int
}

func NewOrchestrator(engine *Engine, provider NarrativeProvider, maxTokens int) *Orchestrator {
	return &Orchestrator{Engine: engine, Provider: provider, MaxTokens: maxTokens}
}

func (o *Orchestrator) GenerateReport(ctx context.Context, req ReportRequest) (Envelope, error) {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	window, err := ResolvePeriod(req.Period, req.StartDate, req.EndDate, asOf)
	if err != nil {
		return Envelope{}, err
	}
	groups := MetricGroupsFor(req.Template, req.MetricGroups)

	envelope := Envelope{
		ID:           uuid.NewString(),
		Scope:        req.Scope,
		EmployeeID:   req.EmployeeID,
		TeamID:       req.TeamID,
		DepartmentID: req.DepartmentID,
		Window:       window,
		Template:     req.Template,
		MetricGroups: groups,
		GeneratedAt:  asOf,
	}

	var prompt PromptInput
	switch req.Scope {
	case ScopeTeam:
		team, metrics, members, err := o.Engine.TeamReport(ctx, req.TeamID, window, asOf)
		if err != nil {
			return Envelope{}, err
		}
		envelope.SubjectName = team.Name
		envelope.Metrics = metrics
		envelope.Members = members
		envelope.Sufficiency = AssessSufficiency(metrics)
		prompt = PromptInput{Scope: ScopeTeam, SubjectName: team.Name, Members: members}
	case ScopeDepartment:
		dept, metrics, members, err := o.Engine.DepartmentReport(ctx, req.DepartmentID, window, asOf)
		if err != nil {
			return Envelope{}, err
		}
		envelope.SubjectName = dept.Name
		envelope.Metrics = metrics
		envelope.Members = members
		envelope.Sufficiency = AssessSufficiency(metrics)
		prompt = PromptInput{Scope: ScopeDepartment, SubjectName: dept.Name, Members: members}
	case ScopeOrganization:
		metrics, departments, err := o.Engine.OrganizationReport(ctx, window, asOf)
		if err != nil {
			return Envelope{}, err
		}
		envelope.SubjectName = "Organization"
		envelope.Metrics = metrics
		envelope.Departments = departments
		envelope.Sufficiency = AssessSufficiency(metrics)
		prompt = PromptInput{Scope: ScopeOrganization, SubjectName: "Organization", Departments: departments}
	default:
		// Employee scope. The subject must exist before anything is
		// aggregated.
		employee, err := o.Engine.Source.Employee(ctx, req.EmployeeID)
		if err != nil {
			return Envelope{}, err
		}
		metrics, err := o.Engine.AggregateEmployee(ctx, employee.ID, groups, window, asOf)
		if err != nil {
			return Envelope{}, err
		}
		if req.IncludeTeamComparison {
			overlay, err := o.Engine.TeamComparison(ctx, employee, window, metrics, asOf)
			if err != nil {
				return Envelope{}, err
			}
			metrics.Merge(overlay)
		}
		if req.IncludePeriodComparison {
			overlay, err := o.Engine.PeriodComparison(ctx, employee.ID, window, metrics, asOf)
			if err != nil {
				return Envelope{}, err
			}
			metrics.Merge(overlay)
		}
		envelope.SubjectName = employee.FullName()
		envelope.Metrics = metrics
		envelope.Sufficiency = AssessSufficiency(metrics)
		prompt = PromptInput{Scope: ScopeEmployee, SubjectName: employee.FullName()}
	}

	prompt.Window = window
	prompt.Groups = groups
	prompt.Metrics = envelope.Metrics
	prompt.Sufficiency = envelope.Sufficiency

	narrative, err := o.Provider.Generate(ctx, BuildPromptContext(prompt), o.MaxTokens)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	envelope.Narrative = narrative

	o.maybeSnapshot(ctx, req, asOf, envelope)
	return envelope, nil
}

// maybeSnapshot persists the envelope when the policy matches. A failed
// snapshot write is logged but never fails the report.
func (o *Orchestrator) maybeSnapshot(ctx context.Context, req ReportRequest, asOf time.Time, envelope Envelope) {
	if o.Snapshots == nil || o.Policy == nil || !o.Policy(asOf) {
		return
	}
	if req.Scope != ScopeEmployee && req.Scope != "" {
		return
	}
	if err := o.Snapshots.SaveSnapshot(ctx, req.EmployeeID, dateOf(asOf), envelope); err != nil {
		slog.Warn("report snapshot save failed", "employeeId", req.EmployeeID, "err", err)
	}
}
