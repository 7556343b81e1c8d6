package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Authors is the basic.author list; older documents store a single string
type Authors []string

func (a *Authors) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*a = Authors{}
		} else {
			*a = Authors{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("author: %w", err)
	}
	*a = list
	return nil
}

// Basic holds descriptive project metadata
type Basic struct {
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	Author      Authors `json:"author"`
	Desc        string  `json:"desc"`
	UUID        string  `json:"uuid"`
	CreatedAt   string  `json:"created_at"`
	ProjectType string  `json:"projectType"`
	Cover       string  `json:"cover,omitempty"`
}

// Structure holds the editorial tree
type Structure struct {
	Tree []*Node `json:"tree"`
}

// ChapterProgress counts chapters with words against all tracked chapters
type ChapterProgress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// Stats is the persisted statistics snapshot
type Stats struct {
	TotalWords        int             `json:"total_words"`
	TargetTotalWords  int             `json:"target_total_words"`
	ProgressByWords   float64         `json:"progress_by_words"`
	ProgressByChapter ChapterProgress `json:"progress_by_chapter"`
	DailyWords        map[string]int  `json:"daily_words"`
	WritingDays       int             `json:"writing_days"`
	AverageDailyWords int             `json:"average_daily_words"`
	LastWritingDate   string          `json:"last_writing_date"`
	LastModified      string          `json:"last_modified"`
	PerChapter        map[string]int  `json:"per_chapter"`
}

// Export holds manuscript export defaults
type Export struct {
	DefaultFormat string `json:"default_format"`
	Template      string `json:"template"`
	IncludeCover  bool   `json:"include_cover"`
}

// ConfigDocument is the per-project JSON document under misc/
type ConfigDocument struct {
	Basic     Basic     `json:"basic"`
	Structure Structure `json:"structure"`
	Stats     Stats     `json:"stats"`
	Export    Export    `json:"export"`
}

// NewConfigDocument returns the defaults written when a project is created
func NewConfigDocument(title string, typ ProjectType, authors []string, now time.Time) *ConfigDocument {
	if authors == nil {
		authors = []string{}
	}
	return &ConfigDocument{
		Basic: Basic{
			Title:       title,
			Author:      authors,
			UUID:        uuid.NewString(),
			CreatedAt:   now.Format(time.RFC3339),
			ProjectType: string(typ),
		},
		Structure: Structure{Tree: []*Node{}},
		Stats: Stats{
			DailyWords: map[string]int{},
			PerChapter: map[string]int{},
		},
		Export: Export{
			DefaultFormat: "pdf",
			Template:      "default",
			IncludeCover:  true,
		},
	}
}

// DecodeConfigDocument parses a stored document
func DecodeConfigDocument(data []byte) (*ConfigDocument, error) {
	var doc ConfigDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Stats.DailyWords == nil {
		doc.Stats.DailyWords = map[string]int{}
	}
	if doc.Stats.PerChapter == nil {
		doc.Stats.PerChapter = map[string]int{}
	}
	return &doc, nil
}

// Type returns the project type recorded in basic
func (d *ConfigDocument) Type() ProjectType {
	return ParseProjectType(d.Basic.ProjectType)
}
