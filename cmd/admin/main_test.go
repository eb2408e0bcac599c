package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-mongo-users/internal/domain"
)

func TestParsePage(t *testing.T) {
	cases := []struct {
		desc string
		args []string
		want domain.PageRequest
		err  bool
	}{
		{desc: "defaults", want: domain.PageRequest{Page: 1, Size: 10}},
		{desc: "page only", args: []string{"3"}, want: domain.PageRequest{Page: 3, Size: 10}},
		{desc: "page and size", args: []string{"2", "50"}, want: domain.PageRequest{Page: 2, Size: 50}},
		{desc: "not a number", args: []string{"x"}, err: true},
		{desc: "page zero", args: []string{"0"}, err: true},
		{desc: "size too big", args: []string{"1", "101"}, err: true},
	}
	for _, tc := range cases {
		got, err := parsePage(tc.args)
		if tc.err {
			assert.Error(t, err, tc.desc)
			continue
		}
		require.NoError(t, err, tc.desc)
		assert.Equal(t, tc.want, got, tc.desc)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_DB_DRIVER", "memory")
	t.Setenv("APP_LOG_LEVEL", "error")
	var out bytes.Buffer
	e := &env{}
	t.Cleanup(e.close)
	cmd := newRootCmd(e)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", t.TempDir() + "/none.yaml"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateCommand(t *testing.T) {
	out, err := run(t, "create", "John Doe", "john@example.com")
	require.NoError(t, err)

	var u domain.User
	require.NoError(t, json.Unmarshal([]byte(out), &u))
	assert.Equal(t, "John Doe", u.Name)
	_, ok := domain.ParseID(u.ID)
	assert.True(t, ok)
}

func TestGetMalformedID(t *testing.T) {
	_, err := run(t, "get", "invalid-id-format")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMigrateMemory(t *testing.T) {
	_, err := run(t, "migrate")
	assert.NoError(t, err)
}

func TestArgsChecked(t *testing.T) {
	_, err := run(t, "create", "only-name")
	assert.Error(t, err)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		desc        string
		name, email string
	}{
		{desc: "empty name", name: "", email: "john@example.com"},
		{desc: "name too long", name: strings.Repeat("n", 101), email: "john@example.com"},
		{desc: "bad email", name: "John", email: "not-an-email"},
	}
	for _, tc := range cases {
		out, err := run(t, "create", tc.name, tc.email)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs, tc.desc)
		assert.NotContains(t, out, `"id"`, tc.desc)
	}
}

func TestUpdateRejectsInvalidInput(t *testing.T) {
	for _, flag := range []string{"--name=", "--email=not-an-email"} {
		_, err := run(t, "update", "507f1f77bcf86cd799439011", flag)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs, flag)
	}
}

func TestUpdateValidInputReachesStore(t *testing.T) {
	_, err := run(t, "update", "507f1f77bcf86cd799439011", "--name=Jane")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
