// Package forms imports card submissions exported from the submission
// form's response spreadsheet.
package forms

import (
	"encoding/csv"
	"io"
	"net/url"
	"strings"

	"github.com/deppmann/biocards/pkg/errors"
)

// Columns maps response fields to 1-indexed spreadsheet columns. Zero
// means the form has no such column.
type Columns struct {
	Timestamp         int `mapstructure:"timestamp" yaml:"timestamp"`
	Email             int `mapstructure:"email" yaml:"email"`
	Student           int `mapstructure:"student" yaml:"student"`
	Section           int `mapstructure:"section" yaml:"section"`
	SubmissionType    int `mapstructure:"submission_type" yaml:"submission_type"`
	PreviousScientist int `mapstructure:"previous_scientist" yaml:"previous_scientist"`
	Scientist         int `mapstructure:"scientist" yaml:"scientist"`
	Years             int `mapstructure:"years" yaml:"years"`
	Era               int `mapstructure:"era" yaml:"era"`
	Contribution      int `mapstructure:"contribution" yaml:"contribution"`
	Front             int `mapstructure:"front" yaml:"front"`
	Back              int `mapstructure:"back" yaml:"back"`
	Reason            int `mapstructure:"reason" yaml:"reason"`
}

// OnTimeColumns is the layout of the regular submission form.
func OnTimeColumns() Columns {
	return Columns{
		Timestamp:    1,
		Email:        2,
		Student:      3,
		Section:      4,
		Scientist:    5,
		Years:        6,
		Era:          7,
		Contribution: 8,
		Front:        9,
		Back:         10,
	}
}

// LateColumns is the layout of the late submission form, which also
// handles replacements of an earlier card.
func LateColumns() Columns {
	return Columns{
		Timestamp:         1,
		Email:             2,
		Student:           3,
		Section:           4,
		SubmissionType:    5,
		PreviousScientist: 6,
		Scientist:         7,
		Years:             8,
		Era:               9,
		Contribution:      10,
		Front:             11,
		Back:              12,
		Reason:            13,
	}
}

// Validate checks that the columns needed to build a card are set.
func (c Columns) Validate() error {
	if c.Scientist < 1 {
		return errors.NewValidationError("columns.scientist", c.Scientist, "must be a 1-indexed column")
	}
	for name, col := range map[string]int{
		"timestamp": c.Timestamp, "email": c.Email, "student": c.Student,
		"section": c.Section, "submission_type": c.SubmissionType,
		"previous_scientist": c.PreviousScientist, "years": c.Years,
		"era": c.Era, "contribution": c.Contribution, "front": c.Front,
		"back": c.Back, "reason": c.Reason,
	} {
		if col < 0 {
			return errors.NewValidationError("columns."+name, col, "must not be negative")
		}
	}
	return nil
}

// Response is one form submission.
type Response struct {
	Row               int // Spreadsheet row, header is row 1
	Timestamp         string
	Email             string
	Student           string
	Section           string
	SubmissionType    string
	PreviousScientist string
	Scientist         string
	Years             string
	Era               string
	Contribution      string
	FrontURL          string
	BackURL           string
	Reason            string
}

// IsReplacement reports whether the submission replaces an earlier card.
func (r Response) IsReplacement() bool {
	return strings.Contains(strings.ToLower(r.SubmissionType), "replacement")
}

// Parse reads a response export. The first record is the header row and
// is skipped. Short rows leave the missing fields empty.
func Parse(r io.Reader, cols Columns) ([]Response, error) {
	if err := cols.Validate(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParseError("csv", "responses", "reading form responses", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	responses := make([]Response, 0, len(records)-1)
	for i, record := range records[1:] {
		field := func(col int) string {
			if col < 1 || col > len(record) {
				return ""
			}
			return strings.TrimSpace(record[col-1])
		}

		resp := Response{
			Row:               i + 2,
			Timestamp:         field(cols.Timestamp),
			Email:             field(cols.Email),
			Student:           field(cols.Student),
			Section:           field(cols.Section),
			SubmissionType:    field(cols.SubmissionType),
			PreviousScientist: field(cols.PreviousScientist),
			Scientist:         field(cols.Scientist),
			Years:             field(cols.Years),
			Era:               field(cols.Era),
			Contribution:      field(cols.Contribution),
			FrontURL:          field(cols.Front),
			BackURL:           field(cols.Back),
			Reason:            field(cols.Reason),
		}
		if resp.Scientist == "" && resp.Timestamp == "" {
			continue
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// DriveFileID extracts the file id from a Drive sharing link. Both the
// "open?id=<id>" and "/file/d/<id>/view" forms are understood.
func DriveFileID(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", errors.NewValidationError("url", link, "empty Drive link")
	}

	if u, err := url.Parse(link); err == nil {
		if id := u.Query().Get("id"); id != "" {
			return id, nil
		}
	}
	if _, after, ok := strings.Cut(link, "id="); ok {
		if id, _, _ := strings.Cut(after, "&"); id != "" {
			return id, nil
		}
	}
	if _, after, ok := strings.Cut(link, "/d/"); ok {
		if id, _, _ := strings.Cut(after, "/"); id != "" {
			return id, nil
		}
	}
	return "", errors.NewValidationError("url", link, "could not parse Drive link")
}
