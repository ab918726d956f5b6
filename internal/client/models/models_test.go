package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadResult_VersionAsStringOrNumber(t *testing.T) {
	var a, b UploadResult
	require.NoError(t, json.Unmarshal([]byte(`{"message":"File uploaded","filename":"nda.pdf","version":"3"}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"filename":"nda.pdf","version":4}`), &b))

	assert.Equal(t, FlexInt(3), a.Version)
	assert.Equal(t, "nda.pdf", a.Filename)
	assert.Equal(t, FlexInt(4), b.Version)
}

func TestFlexInt_Invalid(t *testing.T) {
	var f FlexInt
	require.Error(t, json.Unmarshal([]byte(`"three"`), &f))
	require.NoError(t, json.Unmarshal([]byte(`null`), &f))
	assert.Equal(t, FlexInt(0), f)
}

func TestUserInput_OmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(UserInput{Surname: "Doe"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"surname":"Doe"}`, string(b))
	assert.True(t, UserInput{}.IsEmpty())
	assert.False(t, UserInput{Email: "a@b.com"}.IsEmpty())
}

func TestUser_PasswordNeverDecoded(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","email":"a@b.com","password":"$2a$14$hash"}`), &u))
	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "password")
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{FirstName: "Ada", Surname: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", User{FirstName: "Ada"}.FullName())
	assert.Equal(t, "Lovelace", User{Surname: "Lovelace"}.FullName())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "contract v2.pdf", DisplayName("contract%20v2.pdf"))
	assert.Equal(t, "plain.pdf", DisplayName("plain.pdf"))
	assert.Equal(t, "bad%zz.pdf", DisplayName("bad%zz.pdf"))
}
