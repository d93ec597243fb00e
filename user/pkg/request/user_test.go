package request

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestRegisterValidation(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	tests := []struct {
		name    string
		request Register
		wantErr bool
	}{
		{
			name:    "valid request",
			request: Register{Name: "alice", Email: "alice@mail.com", Password: "supersecret"},
			wantErr: false,
		},
		{
			name:    "missing name",
			request: Register{Email: "alice@mail.com", Password: "supersecret"},
			wantErr: true,
		},
		{
			name:    "malformed email",
			request: Register{Name: "alice", Email: "not-an-email", Password: "supersecret"},
			wantErr: true,
		},
		{
			name:    "short password",
			request: Register{Name: "alice", Email: "alice@mail.com", Password: "short"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.request)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoginValidation(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	assert.NoError(t, validate.Struct(Login{Email: "alice@mail.com", Password: "supersecret"}))
	assert.Error(t, validate.Struct(Login{Email: "", Password: "supersecret"}))
	assert.Error(t, validate.Struct(Login{Email: "alice@mail.com", Password: ""}))
}
