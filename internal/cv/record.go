package cv

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SkillSeparator joins skills in the rendered record.
const SkillSeparator = ";"

// Fields holds the raw outputs of the field extractors.
type Fields struct {
	FirstName     string
	LastName      string
	PhoneNumbers  []string
	Email         string
	Qualification []Qualification
	Experience    string
	Skillset      []string
	JobRole       string
	Location      string
}

// Record is the assembled candidate record. Every field is always present.
type Record struct {
	FirstName     string          `json:"First Name"`
	LastName      string          `json:"Last Name"`
	PhoneNumbers  []string        `json:"Phone Numbers"`
	Email         string          `json:"Email"`
	Qualification []Qualification `json:"Qualification"`
	Experience    string          `json:"Experience"`
	Skillset      SkillSet        `json:"Skillset"`
	JobRole       string          `json:"Job Role"`
	Location      string          `json:"Location"`
}

// SkillSet renders as a single ";"-separated string.
type SkillSet []string

func (s SkillSet) String() string {
	return strings.Join(s, SkillSeparator)
}

func (s SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SkillSet) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("skillset: %w", err)
	}
	if joined == "" {
		*s = SkillSet{}
		return nil
	}
	*s = strings.Split(joined, SkillSeparator)
	return nil
}

// Assemble normalizes extractor output into a Record.
func Assemble(f Fields) *Record {
	first, last := CapitalizeName(f.FirstName, f.LastName)
	return &Record{
		FirstName:     first,
		LastName:      last,
		PhoneNumbers:  nonNil(f.PhoneNumbers),
		Email:         f.Email,
		Qualification: nonNilQualifications(f.Qualification),
		Experience:    f.Experience,
		Skillset:      SkillSet(nonNil(f.Skillset)),
		JobRole:       f.JobRole,
		Location:      f.Location,
	}
}

// FullName is the first and last name separated by a space.
func (r *Record) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Marshal renders the canonical indented JSON form of the record.
func (r *Record) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "    ")
}

// ParseRecord reads a record from its canonical JSON form.
func ParseRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	r.PhoneNumbers = nonNil(r.PhoneNumbers)
	r.Qualification = nonNilQualifications(r.Qualification)
	r.Skillset = SkillSet(nonNil(r.Skillset))
	return &r, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilQualifications(q []Qualification) []Qualification {
	if q == nil {
		return []Qualification{}
	}
	return q
}
