package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		errMsg   string
	}{
		{name: "Letters and digits", password: "admin123"},
		{name: "Long passphrase with digit", password: "correct horse battery 9"},
		{name: "Too short", password: "abc12", errMsg: "password must be at least 8 characters long"},
		{name: "Digits only", password: "12345678", errMsg: "password must contain at least one letter"},
		{name: "Letters only", password: "abcdefgh", errMsg: "password must contain at least one number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errMsg)
		})
	}
}
