package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceValidate(t *testing.T) {
	cases := []struct {
		name     string
		resource Resource
		ok       bool
	}{
		{"video with url", Resource{Kind: ResourceVideo, URL: "https://example.com/v"}, true},
		{"video without url", Resource{Kind: ResourceVideo}, false},
		{"link without url", Resource{Kind: ResourceLink}, false},
		{"document with file", Resource{Kind: ResourceDocument, FileURL: "/files/doc.pdf"}, true},
		{"document with url only", Resource{Kind: ResourceDocument, URL: "https://example.com/doc"}, true},
		{"document with neither", Resource{Kind: ResourceDocument}, false},
		{"image with neither", Resource{Kind: ResourceImage}, false},
		{"unknown kind", Resource{Kind: "audio", URL: "https://example.com/a"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.resource.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCourseStatusValid(t *testing.T) {
	assert.True(t, CourseDraft.Valid())
	assert.True(t, CoursePublished.Valid())
	assert.True(t, CourseArchived.Valid())
	assert.False(t, CourseStatus("open").Valid())
}
