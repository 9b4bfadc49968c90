package model

import "errors"

var ErrUnknownCategory = errors.New("unknown category")

type Category string

const (
	CategoryNotices   Category = "notices"
	CategoryRules     Category = "rules"
	CategoryDocuments Category = "documents"
	CategoryMinutes   Category = "minutes"
	CategoryBoard     Category = "board"
)

var categoryLabels = map[Category]string{
	CategoryNotices:   "Notices for Meetings",
	CategoryMinutes:   "Meeting Minutes",
	CategoryRules:     "Rules and Regulations",
	CategoryDocuments: "Documents",
	CategoryBoard:     "Board of Directors",
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryNotices,
		CategoryMinutes,
		CategoryRules,
		CategoryDocuments,
		CategoryBoard,
	}
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryLabels[c]; !ok {
		return "", ErrUnknownCategory
	}
	return c, nil
}

func (c Category) Label() string {
	return categoryLabels[c]
}

// Document is the metadata record of an uploaded association file.
type Document struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Category Category `json:"category"`
}
