package testresult

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
)

const (
	testCaseElement = "testcase"
	defaultTime     = "0"
)

// Parser reads a GoogleTest / JUnit XML report.
type Parser interface {
	Parse(pth string) (Summary, error)
}

type parser struct {
	logger      log.Logger
	pathChecker pathutil.PathChecker
	fileManager fileutil.FileManager
}

// NewParser ...
func NewParser(logger log.Logger, pathChecker pathutil.PathChecker, fileManager fileutil.FileManager) Parser {
	return &parser{
		logger:      logger,
		pathChecker: pathChecker,
		fileManager: fileManager,
	}
}

type testCase struct {
	Name      string    `xml:"name,attr"`
	ClassName string    `xml:"classname,attr"`
	Failures  []failure `xml:"failure"`
}

type failure struct {
	Message string `xml:"message,attr"`
	Value   string `xml:",chardata"`
}

// Parse returns an empty summary if the report does not exist.
func (p parser) Parse(pth string) (Summary, error) {
	exists, err := p.pathChecker.IsPathExists(pth)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to check test report (%s): %w", pth, err)
	}
	if !exists {
		p.logger.Warnf("No test report found at: %s", pth)
		return EmptySummary(), nil
	}

	f, err := p.fileManager.Open(pth)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open test report (%s): %w", pth, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.logger.Warnf("Failed to close test report: %s", err)
		}
	}()

	summary, err := decode(f)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to parse test report (%s): %w", pth, err)
	}

	p.logger.Debugf("Parsed %d test cases from %s", len(summary.Tests), pth)

	return summary, nil
}

func decode(r io.Reader) (Summary, error) {
	decoder := xml.NewDecoder(r)

	summary := Summary{Tests: []TestCase{}}
	seenRoot := false

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Summary{}, err
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		if !seenRoot {
			seenRoot = true
			if err := summary.readRootAttributes(start.Attr); err != nil {
				return Summary{}, err
			}
			continue
		}

		if start.Name.Local != testCaseElement {
			continue
		}

		var tc testCase
		if err := decoder.DecodeElement(&tc, &start); err != nil {
			return Summary{}, err
		}
		summary.Tests = append(summary.Tests, tc.toTestCase())
	}

	if !seenRoot {
		return Summary{}, errors.New("no root element")
	}

	return summary, nil
}

func (s *Summary) readRootAttributes(attrs []xml.Attr) error {
	var err error
	if s.Total, err = intAttr(attrs, "tests"); err != nil {
		return err
	}
	if s.Failures, err = intAttr(attrs, "failures"); err != nil {
		return err
	}
	if s.Errors, err = intAttr(attrs, "errors"); err != nil {
		return err
	}

	s.Time = defaultTime
	if value, ok := attr(attrs, "time"); ok {
		s.Time = value
	}

	return nil
}

func (tc testCase) toTestCase() TestCase {
	testCase := TestCase{
		Name:      tc.Name,
		ClassName: tc.ClassName,
		Status:    StatusPass,
	}

	// gtest writes one failure element per failed assertion, the first one is reported.
	if len(tc.Failures) > 0 {
		first := tc.Failures[0]
		testCase.Status = StatusFail
		testCase.Message = first.Value
		if strings.TrimSpace(testCase.Message) == "" {
			testCase.Message = first.Message
		}
	}

	return testCase
}

func attr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func intAttr(attrs []xml.Attr, name string) (int, error) {
	value, ok := attr(attrs, name)
	if !ok {
		return 0, nil
	}

	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s attribute (%s): %w", name, value, err)
	}
	return i, nil
}
