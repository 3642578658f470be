package analytics

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrInvalidPeriod       = errors.New("custom period requires explicit start and end dates")
	ErrMissingDepartment   = errors.New("department id is required for department scope")
	ErrProviderUnavailable = errors.New("narrative provider unavailable")
	ErrAggregation         = errors.New("aggregation failed")
)
