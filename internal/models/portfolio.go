package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// PortfolioID is the fixed identity of the singleton portfolio aggregate.
const PortfolioID = "portfolio"

// Portfolio is the single résumé aggregate served by the site. Exactly one
// instance is stored; updates replace it as a whole.
type Portfolio struct {
	ID          string           `json:"id" bson:"_id" yaml:"id,omitempty"`
	Personal    PersonalInfo     `json:"personal" bson:"personal" yaml:"personal"`
	About       AboutInfo        `json:"about" bson:"about" yaml:"about"`
	Skills      SkillSet         `json:"skills" bson:"skills" yaml:"skills"`
	Experience  []WorkExperience `json:"experience" bson:"experience" yaml:"experience" validate:"dive"`
	Projects    []Project        `json:"projects" bson:"projects" yaml:"projects" validate:"dive"`
	Credentials Credentials      `json:"credentials" bson:"credentials" yaml:"credentials"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at" bson:"updated_at" yaml:"updated_at,omitempty"`
}

type ContactInfo struct {
	Phone    string `json:"phone" bson:"phone" yaml:"phone"`
	Email    string `json:"email" bson:"email" yaml:"email" validate:"required,email"`
	Location string `json:"location" bson:"location" yaml:"location"`
}

type Statistic struct {
	Number string `json:"number" bson:"number" yaml:"number"`
	Label  string `json:"label" bson:"label" yaml:"label" validate:"required"`
}

type PersonalInfo struct {
	Name     string      `json:"name" bson:"name" yaml:"name" validate:"required"`
	Title    string      `json:"title" bson:"title" yaml:"title" validate:"required"`
	Subtitle string      `json:"subtitle" bson:"subtitle" yaml:"subtitle"`
	Contact  ContactInfo `json:"contact" bson:"contact" yaml:"contact"`
	Stats    []Statistic `json:"stats" bson:"stats" yaml:"stats" validate:"dive"`
}

type Highlight struct {
	Icon        string `json:"icon" bson:"icon" yaml:"icon"`
	Title       string `json:"title" bson:"title" yaml:"title" validate:"required"`
	Description string `json:"description" bson:"description" yaml:"description"`
}

type AboutInfo struct {
	Mission    string      `json:"mission" bson:"mission" yaml:"mission"`
	Highlights []Highlight `json:"highlights" bson:"highlights" yaml:"highlights" validate:"dive"`
}

type WorkExperience struct {
	ID           int      `json:"id" bson:"id" yaml:"id"`
	Period       string   `json:"period" bson:"period" yaml:"period"`
	Title        string   `json:"title" bson:"title" yaml:"title" validate:"required"`
	Company      string   `json:"company" bson:"company" yaml:"company" validate:"required"`
	Type         string   `json:"type,omitempty" bson:"type,omitempty" yaml:"type,omitempty"`
	Achievements []string `json:"achievements" bson:"achievements" yaml:"achievements"`
	Technologies []string `json:"technologies" bson:"technologies" yaml:"technologies"`
}

type ProjectImpact struct {
	Title   string   `json:"title" bson:"title" yaml:"title"`
	Metrics []string `json:"metrics" bson:"metrics" yaml:"metrics"`
}

type Project struct {
	ID           int           `json:"id" bson:"id" yaml:"id"`
	Number       string        `json:"number" bson:"number" yaml:"number"`
	Title        string        `json:"title" bson:"title" yaml:"title" validate:"required"`
	Description  string        `json:"description" bson:"description" yaml:"description"`
	Impact       ProjectImpact `json:"impact" bson:"impact" yaml:"impact"`
	Technologies []string      `json:"technologies" bson:"technologies" yaml:"technologies"`
}

type Education struct {
	Degree      string `json:"degree" bson:"degree" yaml:"degree"`
	Field       string `json:"field" bson:"field" yaml:"field"`
	Institution string `json:"institution" bson:"institution" yaml:"institution"`
	Year        string `json:"year" bson:"year" yaml:"year"`
}

type Certification struct {
	Name   string `json:"name" bson:"name" yaml:"name"`
	Issuer string `json:"issuer" bson:"issuer" yaml:"issuer"`
	Year   string `json:"year" bson:"year" yaml:"year"`
}

type Credentials struct {
	Education      []Education     `json:"education" bson:"education" yaml:"education"`
	Certifications []Certification `json:"certifications" bson:"certifications" yaml:"certifications"`
}

// Validate checks the fields a rendered portfolio cannot do without.
func (p *Portfolio) Validate() error {
	return validateStruct(p)
}

// SkillCategory is one named group of skills.
type SkillCategory struct {
	Category string   `bson:"category"`
	Skills   []string `bson:"skills"`
}

// SkillSet is an ordered mapping from category name to skills. JSON and YAML
// render it as an object whose keys keep their order; BSON stores it as an
// array of {category, skills} documents.
type SkillSet []SkillCategory

// Get returns the skills of category and whether it exists.
func (s SkillSet) Get(category string) ([]string, bool) {
	for _, c := range s {
		if c.Category == category {
			return c.Skills, true
		}
	}
	return nil, false
}

func (s SkillSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Category)
		if err != nil {
			return nil, err
		}
		skills := c.Skills
		if skills == nil {
			skills = []string{}
		}
		val, err := json.Marshal(skills)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *SkillSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("skills: expected an object of category to skill list")
	}
	out := SkillSet{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		category, ok := tok.(string)
		if !ok {
			return fmt.Errorf("skills: unexpected key %v", tok)
		}
		var skills []string
		if err := dec.Decode(&skills); err != nil {
			return fmt.Errorf("skills %q: %w", category, err)
		}
		out = append(out, SkillCategory{Category: category, Skills: skills})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

func (s *SkillSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("skills: line %d: expected a mapping of category to skill list", node.Line)
	}
	out := make(SkillSet, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var skills []string
		if err := node.Content[i+1].Decode(&skills); err != nil {
			return fmt.Errorf("skills %q: %w", node.Content[i].Value, err)
		}
		out = append(out, SkillCategory{Category: node.Content[i].Value, Skills: skills})
	}
	*s = out
	return nil
}
