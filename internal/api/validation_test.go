package api

import (
	"strings"
	"testing"
)

func TestValidateRepository(t *testing.T) {
	tests := []struct {
		name    string
		repo    string
		wantErr bool
	}{
		{name: "org/name", repo: "SAGA/payment-gateway-api"},
		{name: "url", repo: "https://github.com/SAGA/novo-repo"},
		{name: "surrounding whitespace", repo: "  SAGA/x  "},
		{name: "empty", repo: "", wantErr: true},
		{name: "whitespace only", repo: " \t ", wantErr: true},
		{name: "too long", repo: strings.Repeat("a", MaxRepositoryLength+1), wantErr: true},
		{name: "control char", repo: "SAGA/\x07bell", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepository(tt.repo)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for %q", tt.repo)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.repo, err)
			}
		})
	}
}

func TestValidateLib(t *testing.T) {
	tests := []struct {
		lib     string
		wantErr bool
	}{
		{lib: "langchain"},
		{lib: "@modelcontextprotocol/sdk"},
		{lib: "", wantErr: true},
		{lib: "   ", wantErr: true},
		{lib: strings.Repeat("x", MaxLibLength+1), wantErr: true},
	}
	for _, tt := range tests {
		err := ValidateLib(tt.lib)
		if tt.wantErr != (err != nil) {
			t.Errorf("ValidateLib(%q) err = %v, wantErr %v", tt.lib, err, tt.wantErr)
		}
	}
}

func TestValidateExceptionInput(t *testing.T) {
	if err := ValidateExceptionInput(ExceptionInput{Repository: "SAGA/a", Lib: "ollama"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateExceptionInput(ExceptionInput{Repository: "", Lib: "ollama"})
	if err == nil || !strings.Contains(err.Error(), "repository") {
		t.Errorf("expected repository error, got %v", err)
	}

	err = ValidateExceptionInput(ExceptionInput{Repository: "SAGA/a", Lib: " "})
	if err == nil || !strings.Contains(err.Error(), "lib") {
		t.Errorf("expected lib error, got %v", err)
	}
}

func TestExceptionInputTrimmed(t *testing.T) {
	in := ExceptionInput{Repository: " SAGA/a ", Lib: "\tlangchain\n"}.Trimmed()
	if in.Repository != "SAGA/a" || in.Lib != "langchain" {
		t.Errorf("unexpected trimmed input: %+v", in)
	}
}

func TestValidatePair(t *testing.T) {
	tests := []struct {
		name    string
		in      ExceptionInput
		wantErr string
	}{
		{name: "ok", in: ExceptionInput{Repository: "SAGA/x", Lib: "langchain"}},
		{name: "longer than add allows", in: ExceptionInput{Repository: "SAGA/x", Lib: strings.Repeat("l", MaxLibLength+1)}},
		{name: "control char", in: ExceptionInput{Repository: "SAGA/x", Lib: "lang\tchain"}},
		{name: "no repository", in: ExceptionInput{Repository: " ", Lib: "langchain"}, wantErr: "repository is required"},
		{name: "no lib", in: ExceptionInput{Repository: "SAGA/x"}, wantErr: "lib is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePair(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("ValidatePair() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
