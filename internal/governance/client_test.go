package governance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/api"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

func TestNewTrimsBaseURL(t *testing.T) {
	c := New("http://localhost:8000/", 0)
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
}

func TestListExceptionsSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, ExceptionsPath, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(api.RequestIDHeader))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"exceptions": []models.ExceptionRule{{Repository: "SAGA/meu-repo-node", Lib: "mcp-framework"}},
		})
	}))
	defer ts.Close()

	rules, err := New(ts.URL, time.Second).ListExceptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.ExceptionRule{{Repository: "SAGA/meu-repo-node", Lib: "mcp-framework"}}, rules)
}

func TestListExceptionsMissingKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"msg": "policy engine unavailable"}`))
	}))
	defer ts.Close()

	rules, err := New(ts.URL, time.Second).ListExceptions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rules)
	assert.Empty(t, rules)
}

func TestListExceptionsServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "OPA error"}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL, time.Second).ListExceptions(context.Background())
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, "OPA error", te.Message)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestListExceptionsUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, time.Second).ListExceptions(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsValidation(err))
}

func TestAddExceptionSendsTrimmedPair(t *testing.T) {
	var got api.ExceptionInput
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	err := New(ts.URL, time.Second).AddException(context.Background(), " SAGA/x ", " langchain ")
	require.NoError(t, err)
	assert.Equal(t, api.ExceptionInput{Repository: "SAGA/x", Lib: "langchain"}, got)
}

func TestAddExceptionValidationSkipsNetwork(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer ts.Close()

	c := New(ts.URL, time.Second)

	err := c.AddException(context.Background(), "", "lib")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "repository", ve.Field)

	err = c.AddException(context.Background(), "SAGA/x", "   ")
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "lib", ve.Field)
	assert.Equal(t, "lib is required", ve.Error())

	err = c.RemoveException(context.Background(), "", "")
	assert.True(t, IsValidation(err))

	assert.Zero(t, calls)
}

func TestAddExceptionRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "Erro OPA: policy store down"}`))
	}))
	defer ts.Close()

	err := New(ts.URL, time.Second).AddException(context.Background(), "SAGA/x", "langchain")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "add exception", te.Op)
	assert.Contains(t, err.Error(), "policy store down")
}

func TestRemoveExceptionSendsExactPair(t *testing.T) {
	var got api.ExceptionInput
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"msg": "not found"}`))
	}))
	defer ts.Close()

	err := New(ts.URL, time.Second).RemoveException(context.Background(), "SAGA/x", "lib ")
	require.NoError(t, err)
	assert.Equal(t, api.ExceptionInput{Repository: "SAGA/x", Lib: "lib "}, got)
}

func TestRemoveExceptionSkipsAddLimits(t *testing.T) {
	var got api.ExceptionInput
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	lib := strings.Repeat("x", api.MaxLibLength+1)
	require.NoError(t, New(ts.URL, time.Second).RemoveException(context.Background(), "SAGA/x", lib))
	assert.Equal(t, lib, got.Lib)
}

func TestRemoveExceptionNoContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	assert.NoError(t, New(ts.URL, time.Second).RemoveException(context.Background(), "SAGA/x", "lib"))
}

func TestPing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"exceptions": []}`))
	}))
	defer ts.Close()

	assert.NoError(t, New(ts.URL, time.Second).Ping(context.Background()))
}

func TestTransportErrorMessages(t *testing.T) {
	tests := []struct {
		err  *TransportError
		want string
	}{
		{&TransportError{Op: "list", StatusCode: 502, Message: "bad gateway"}, "list: governance API error (HTTP 502): bad gateway"},
		{&TransportError{Op: "list", StatusCode: 502}, "list: governance API error (HTTP 502)"},
		{&TransportError{Op: "list", Err: errors.New("refused")}, "list: refused"},
		{&TransportError{Op: "list"}, "list: transport failure"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}

	inner := errors.New("refused")
	assert.ErrorIs(t, &TransportError{Op: "x", Err: inner}, inner)
	assert.Equal(t, "lib is invalid", (&ValidationError{Field: "lib"}).Error())
}
