package model

type SortField string

const (
	SortMileage     SortField = "mileage"
	SortFuel        SortField = "fuel"
	SortViolations  SortField = "violations"
	SortMaintenance SortField = "maintenance"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

// PageRequest carries the sort and slice parameters of the tabular vehicle
// view. Invalid values are not errors; Normalize falls back to the documented
// defaults instead.
type PageRequest struct {
	Page      int
	PerPage   int
	SortBy    SortField
	SortOrder SortOrder
}

func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	switch p.SortBy {
	case SortMileage, SortFuel, SortViolations, SortMaintenance:
	default:
		p.SortBy = SortMileage
	}
	switch p.SortOrder {
	case SortAsc, SortDesc:
	default:
		p.SortOrder = SortDesc
	}
	return p
}
