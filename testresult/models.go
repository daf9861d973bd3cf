package testresult

// Status ...
type Status string

// Test case statuses ...
const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// TestCase is a single test case of a test report.
type TestCase struct {
	Name      string
	ClassName string
	Status    Status
	// Message holds the failure text, empty if the test passed.
	Message string
}

// Summary is the aggregated content of a test report.
// Tests are kept in document order.
type Summary struct {
	Total    int
	Failures int
	Errors   int
	Time     string
	Tests    []TestCase
}

// EmptySummary is returned when no test report exists.
func EmptySummary() Summary {
	return Summary{
		Time:  defaultTime,
		Tests: []TestCase{},
	}
}

// Failed returns the number of failed and errored tests.
func (s Summary) Failed() int {
	return s.Failures + s.Errors
}

// Passed ...
func (s Summary) Passed() int {
	passed := s.Total - s.Failed()
	if passed < 0 {
		return 0
	}
	return passed
}
