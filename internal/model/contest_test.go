package model

import (
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/matryer/is"
)

func validContest() Contest {
	return Contest{
		ContestNumber:         1,
		ContestName:           "Regional 2024",
		ContestStartDate:      1700000000,
		ContestDuration:       18000,
		ContestLastMileAnswer: 17000,
		ContestLastMileScore:  14400,
		ContestLocalSite:      1,
		ContestPenalty:        20,
		ContestMaxFileSize:    100000,
		ContestMainSite:       1,
	}
}

func TestContestValidate(t *testing.T) {
	is := is.New(t)
	is.NoErr(validContest().Validate())

	c := validContest()
	c.ContestPenalty = 0
	c.ContestLastMileAnswer = 0
	c.ContestLastMileScore = 0
	is.NoErr(c.Validate()) // zero is allowed where the rule is >= 0
}

func TestContestValidateViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Contest)
		field  string
	}{
		{"zero number", func(c *Contest) { c.ContestNumber = 0 }, "contestnumber"},
		{"empty name", func(c *Contest) { c.ContestName = "" }, "contestname"},
		{"long name", func(c *Contest) { c.ContestName = strings.Repeat("a", 101) }, "contestname"},
		{"negative start", func(c *Contest) { c.ContestStartDate = -1 }, "conteststartdate"},
		{"zero duration", func(c *Contest) { c.ContestDuration = 0 }, "contestduration"},
		{"negative last mile answer", func(c *Contest) { c.ContestLastMileAnswer = -1 }, "contestlastmileanswer"},
		{"negative last mile score", func(c *Contest) { c.ContestLastMileScore = -5 }, "contestlastmilescore"},
		{"zero local site", func(c *Contest) { c.ContestLocalSite = 0 }, "contestlocalsite"},
		{"negative penalty", func(c *Contest) { c.ContestPenalty = -20 }, "contestpenalty"},
		{"negative max file size", func(c *Contest) { c.ContestMaxFileSize = -1 }, "contestmaxfilesize"},
		{"zero main site", func(c *Contest) { c.ContestMainSite = 0 }, "contestmainsite"},
		{"long unlock key", func(c *Contest) { c.ContestUnlockKey = strings.Repeat("k", 101) }, "contestunlockkey"},
		{"long main site url", func(c *Contest) { c.ContestMainSiteURL = strings.Repeat("u", 201) }, "contestmainsiteurl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			c := validContest()
			tt.mutate(&c)
			err := c.Validate()
			is.True(err != nil)
			errs, ok := err.(validation.Errors)
			is.True(ok)
			is.Equal(len(errs), 1)
			_, found := errs[tt.field]
			is.True(found) // violation reported under the JSON field name
		})
	}
}

func TestContestUpdateApply(t *testing.T) {
	is := is.New(t)

	var upd ContestUpdate
	is.True(upd.Empty())
	is.Equal(len(upd.Columns()), 0)

	name := "Finals"
	penalty := 0
	keys := "abc"
	upd = ContestUpdate{ContestName: &name, ContestPenalty: &penalty, ContestKeys: &keys}
	is.True(!upd.Empty())

	c := validContest()
	upd.Apply(&c)
	is.Equal(c.ContestName, "Finals")
	is.Equal(c.ContestPenalty, 0)
	is.Equal(c.ContestKeys, "abc")
	is.Equal(c.ContestDuration, 18000) // untouched

	cols := upd.Columns()
	is.Equal(len(cols), 3)
	is.Equal(cols["contestname"], "Finals")
	is.Equal(cols["contestpenalty"], 0)
}
