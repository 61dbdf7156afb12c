package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	require.NoError(t, err)
	return req
}

func TestDecodeAndValidate_Register(t *testing.T) {
	valid := `{"name":"Amaya Perera","email":"amaya@school.lk","password":"secret-pw","role":1,"grade":10}`

	t.Run("Valid", func(t *testing.T) {
		var dst RegisterRequest
		require.NoError(t, decodeAndValidate(jsonRequest(t, valid), &dst))
		assert.Equal(t, "amaya@school.lk", dst.Email)
		require.NotNil(t, dst.Grade)
		assert.Equal(t, 10, *dst.Grade)
	})

	tests := []struct {
		name string
		body string
	}{
		{"MalformedJSON", `{"name":`},
		{"UnknownField", `{"name":"A","email":"a@b.lk","password":"secret-pw","role":1,"surprise":true}`},
		{"MissingEmail", `{"name":"A","password":"secret-pw","role":1}`},
		{"BadEmail", `{"name":"A","email":"not-an-email","password":"secret-pw","role":1}`},
		{"ShortPassword", `{"name":"A","email":"a@b.lk","password":"short","role":1}`},
		{"RoleOutOfRange", `{"name":"A","email":"a@b.lk","password":"secret-pw","role":4}`},
		{"GradeOutOfRange", `{"name":"A","email":"a@b.lk","password":"secret-pw","role":1,"grade":14}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst RegisterRequest
			assert.Error(t, decodeAndValidate(jsonRequest(t, tt.body), &dst))
		})
	}
}

func TestDecodeAndValidate_Quiz(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		var dst CreateQuizRequest
		body := `{"title":"Fractions","question":"1/2 + 1/4 = ?","answers":["3/4","1/6"],"correct_answer":1}`
		require.NoError(t, decodeAndValidate(jsonRequest(t, body), &dst))
		assert.Len(t, dst.Answers, 2)
	})

	t.Run("SingleAnswer", func(t *testing.T) {
		var dst CreateQuizRequest
		body := `{"title":"Fractions","question":"1/2 + 1/4 = ?","answers":["3/4"],"correct_answer":1}`
		assert.Error(t, decodeAndValidate(jsonRequest(t, body), &dst))
	})

	t.Run("BlankAnswer", func(t *testing.T) {
		var dst CreateQuizRequest
		body := `{"title":"Fractions","question":"1/2 + 1/4 = ?","answers":["3/4",""],"correct_answer":1}`
		assert.Error(t, decodeAndValidate(jsonRequest(t, body), &dst))
	})
}

func TestValidationDetails(t *testing.T) {
	var dst LoginRequest
	err := decodeAndValidate(jsonRequest(t, `{"email":"nope","password":""}`), &dst)
	require.Error(t, err)

	details := validationDetails(err)
	assert.Contains(t, details, "Email failed email")
	assert.Contains(t, details, "Password failed required")
}
