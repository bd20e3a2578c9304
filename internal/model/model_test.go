package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestTextColumnsAreUnbounded(t *testing.T) {
	cases := []struct {
		model  interface{}
		fields []string
	}{
		{&Contact{}, []string{"Name", "Email", "Subject", "Message"}},
		{&NewsletterSubscriber{}, []string{"Email", "Name"}},
		{&AnalyticsEvent{}, []string{"Event", "IP"}},
		{&Visitor{}, []string{"IP", "Page"}},
		{&ProjectView{}, []string{"ProjectID", "IP"}},
	}

	for _, tc := range cases {
		s, err := schema.Parse(tc.model, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)

		for _, name := range tc.fields {
			f := s.LookUpField(name)
			require.NotNil(t, f, "%s.%s", s.Name, name)
			assert.EqualValues(t, "text", f.DataType, "%s.%s", s.Name, name)
			assert.Zero(t, f.Size, "%s.%s has a length limit", s.Name, name)
		}
	}
}
