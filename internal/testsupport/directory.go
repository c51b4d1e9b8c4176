package testsupport

import (
	"context"
	"strings"

	"curator/internal/services/people"
)

// FakeDirectory is an in-memory people.Directory for engine and session tests.
// SearchByName matches the term case-insensitively against any name part.
type FakeDirectory struct {
	Employees []people.Employee

	// Err, when set, is returned from every lookup.
	Err error

	// SearchCalls counts SearchByName invocations, used to assert that the
	// ORCID short-circuit skips candidate generation.
	SearchCalls int
}

var _ people.Directory = (*FakeDirectory)(nil)

func (f *FakeDirectory) SearchByName(ctx context.Context, name string) ([]people.Employee, error) {
	f.SearchCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	term := strings.ToLower(strings.TrimSpace(name))
	var results []people.Employee
	for _, employee := range f.Employees {
		for _, part := range []string{
			employee.FirstLegal, employee.FirstPref,
			employee.MiddleLegal, employee.MiddlePref,
			employee.LastLegal, employee.LastPref,
		} {
			if part != "" && strings.Contains(strings.ToLower(part), term) {
				results = append(results, employee)
				break
			}
		}
	}
	return results, nil
}

func (f *FakeDirectory) GetByID(ctx context.Context, employeeID string) (*people.Employee, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	for _, employee := range f.Employees {
		if employee.EmployeeID == employeeID {
			found := employee
			return &found, nil
		}
	}
	return nil, nil
}

func (f *FakeDirectory) LookupByOrcid(ctx context.Context, orcid string) ([]people.Employee, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	var results []people.Employee
	for _, employee := range f.Employees {
		if employee.ORCID != "" && employee.ORCID == orcid {
			results = append(results, employee)
		}
	}
	return results, nil
}
