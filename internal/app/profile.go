// Package app holds the self-introduction page: its content model (Profile)
// and the render function built from it.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/introsite/internal/errors"
)

// Profile is the content of the page.
type Profile struct {
	Title    string    `json:"title" yaml:"title"`
	Sections []Section `json:"sections" yaml:"sections"`
	Controls Controls  `json:"controls" yaml:"controls"`
}

// Section is one card on the page. Body is plain text; HTML, when set, is
// sanitised and used instead of Body.
type Section struct {
	Heading string `json:"heading" yaml:"heading"`
	Body    string `json:"body,omitempty" yaml:"body,omitempty"`
	HTML    string `json:"html,omitempty" yaml:"html,omitempty"`
}

// Controls configures the interactive card.
type Controls struct {
	Heading string `json:"heading,omitempty" yaml:"heading,omitempty"`
	Counter string `json:"counter,omitempty" yaml:"counter,omitempty"`
	Toggle  string `json:"toggle,omitempty" yaml:"toggle,omitempty"`
}

// Control label defaults.
const (
	DefaultControlsHeading = "リアクション"
	DefaultCounterLabel    = "いいね"
	DefaultToggleLabel     = "ダークモード"
)

// DefaultProfile returns the built-in page content.
func DefaultProfile() Profile {
	p := Profile{
		Title: "自己紹介ページ",
		Sections: []Section{
			{Heading: "氏名", Body: "日向野 方暉"},
			{Heading: "出身地", Body: "栃木県"},
			{Heading: "趣味", Body: "ランニング"},
			{Heading: "現在の仕事", Body: "金融機関"},
		},
	}
	p.applyDefaults()
	return p
}

func (p *Profile) applyDefaults() {
	if p.Controls.Heading == "" {
		p.Controls.Heading = DefaultControlsHeading
	}
	if p.Controls.Counter == "" {
		p.Controls.Counter = DefaultCounterLabel
	}
	if p.Controls.Toggle == "" {
		p.Controls.Toggle = DefaultToggleLabel
	}
}

// Validate checks that the profile has a title and at least one section,
// each with a heading.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(p.Sections) == 0 {
		return fmt.Errorf("at least one section is required")
	}
	for i, s := range p.Sections {
		if strings.TrimSpace(s.Heading) == "" {
			return fmt.Errorf("sections[%d]: heading is required", i)
		}
	}
	return nil
}

// LoadProfile reads and validates a profile source file.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, errors.New("E143").Wrap(err)
	}
	return ParseProfile(data, path)
}

// ParseProfile decodes a profile. The source name selects the format by
// extension (.json, .yaml, .yml); other names are tried as JSON then YAML.
func ParseProfile(data []byte, source string) (Profile, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Profile{}, errors.New("E143").WithDetail(source + " is empty")
	}

	var p Profile
	var err error
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		err = json.Unmarshal(data, &p)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	default:
		if err = json.Unmarshal(data, &p); err != nil {
			p = Profile{}
			err = yaml.Unmarshal(data, &p)
		}
	}
	if err != nil {
		return Profile{}, errors.New("E143").
			WithDetail("parse " + source).
			Wrap(err)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, errors.New("E143").
			WithDetail(source + ": " + err.Error())
	}
	p.applyDefaults()
	return p, nil
}
